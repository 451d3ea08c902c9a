// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xlistener

import (
	"net"

	"github.com/stretchr/testify/mock"
)

// mockConn mocks only what a listener touches.  Other net.Conn methods panic.
type mockConn struct {
	net.Conn
	mock.Mock
}

func (m *mockConn) RemoteAddr() net.Addr {
	return m.Called().Get(0).(net.Addr)
}

func (m *mockConn) Close() error {
	return m.Called().Error(0)
}

type mockListener struct {
	mock.Mock
}

func (m *mockListener) Accept() (net.Conn, error) {
	arguments := m.Called()
	c, _ := arguments.Get(0).(net.Conn)
	return c, arguments.Error(1)
}

func (m *mockListener) Close() error {
	return m.Called().Error(0)
}

func (m *mockListener) Addr() net.Addr {
	return m.Called().Get(0).(net.Addr)
}
