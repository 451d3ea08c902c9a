// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/creachadair/jrpc2"
)

// ReservedPrefix is the method name prefix that JSON-RPC 2.0 reserves for the server itself
const ReservedPrefix = "rpc."

var (
	ErrDuplicateMethod    = errors.New("method already registered")
	ErrEmptyMethodName    = errors.New("method names cannot be empty")
	ErrReservedMethodName = errors.New("method names beginning with " + ReservedPrefix + " are reserved")
	ErrNilMethod          = errors.New("method cannot be nil")
	ErrModuleFrozen       = errors.New("module is frozen")
	ErrNoSuchMethod       = errors.New("no such method")
)

// Method is the handler for a single JSON-RPC method.  The returned value is marshaled as the result.
type Method func(ctx context.Context, req *jrpc2.Request) (interface{}, error)

// Module is a table of uniquely named methods.  The zero value is an empty, unfrozen Module.
// A Module is safe for concurrent use.
type Module struct {
	lock    sync.RWMutex
	methods map[string]Method
	frozen  bool
}

// NewModule creates an empty Module
func NewModule() *Module {
	return new(Module)
}

func (m *Module) add(name string, method Method) error {
	if m.frozen {
		return ErrModuleFrozen
	}

	if _, exists := m.methods[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateMethod, name)
	}

	if m.methods == nil {
		m.methods = make(map[string]Method)
	}

	m.methods[name] = method
	return nil
}

// Register adds a named method to this module
func (m *Module) Register(name string, method Method) error {
	switch {
	case len(name) == 0:
		return ErrEmptyMethodName

	case strings.HasPrefix(name, ReservedPrefix):
		return fmt.Errorf("%w: %s", ErrReservedMethodName, name)

	case method == nil:
		return ErrNilMethod
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	return m.add(name, method)
}

// RegisterAlias makes an existing method available under another name
func (m *Module) RegisterAlias(alias, existing string) error {
	switch {
	case len(alias) == 0:
		return ErrEmptyMethodName

	case strings.HasPrefix(alias, ReservedPrefix):
		return fmt.Errorf("%w: %s", ErrReservedMethodName, alias)
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	method, ok := m.methods[existing]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchMethod, existing)
	}

	return m.add(alias, method)
}

// Merge copies every method of other into this module.  Nothing is copied if any name
// is already in use.
func (m *Module) Merge(other *Module) error {
	if other == m {
		return ErrDuplicateMethod
	}

	snapshot := other.snapshot()

	m.lock.Lock()
	defer m.lock.Unlock()

	if m.frozen {
		return ErrModuleFrozen
	}

	for name := range snapshot {
		if _, exists := m.methods[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateMethod, name)
		}
	}

	for name, method := range snapshot {
		if err := m.add(name, method); err != nil {
			return err
		}
	}

	return nil
}

// Method returns the named method, if registered
func (m *Module) Method(name string) (Method, bool) {
	m.lock.RLock()
	method, ok := m.methods[name]
	m.lock.RUnlock()
	return method, ok
}

// Names returns the sorted names of the registered methods
func (m *Module) Names() []string {
	m.lock.RLock()
	names := make([]string, 0, len(m.methods))
	for name := range m.methods {
		names = append(names, name)
	}

	m.lock.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered methods
func (m *Module) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.methods)
}

// Freeze prevents any further registration.  This method is idempotent.
func (m *Module) Freeze() {
	m.lock.Lock()
	m.frozen = true
	m.lock.Unlock()
}

// Frozen tests if Freeze has been called
func (m *Module) Frozen() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.frozen
}

func (m *Module) snapshot() map[string]Method {
	m.lock.RLock()
	defer m.lock.RUnlock()

	methods := make(map[string]Method, len(m.methods))
	for name, method := range m.methods {
		methods[name] = method
	}

	return methods
}
