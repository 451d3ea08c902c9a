// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xhttp

import (
	"net"

	"github.com/stretchr/testify/mock"
)

type mockServable struct {
	mock.Mock
}

func (m *mockServable) Serve(l net.Listener) error {
	return m.Called(l).Error(0)
}

// stubListener never accepts.  Serve is always mocked, so only Addr is used.
type stubListener struct {
	net.Listener
	addr net.Addr
}

func (sl stubListener) Addr() net.Addr {
	return sl.addr
}
