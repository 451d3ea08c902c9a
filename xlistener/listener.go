// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xlistener

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"syscall"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"go.uber.org/zap"
)

const (
	DefaultNetwork = "tcp"

	// DefaultAddress is the loopback interface on an ephemeral port
	DefaultAddress = "127.0.0.1:0"
)

// netListen binds sockets.  Tests replace it.
var netListen = net.Listen

// Options configures a listener
type Options struct {
	// Logger receives accept failures and rejections.  If unset, a nop logger is used.
	Logger *zap.Logger

	// MaxConnections caps the number of open connections.  Connections accepted past the cap are
	// closed immediately.  Nonpositive values mean no cap.
	MaxConnections int

	// Rejected counts connections closed because of MaxConnections.  If unset, rejections are not counted.
	Rejected metrics.Counter

	// Active tracks the number of open connections.  If unset, it is not tracked.
	Active metrics.Gauge

	// Network and Address are what to bind when Next is unset.  They default to DefaultNetwork
	// and DefaultAddress.
	Network string
	Address string

	// Next is an existing listener to decorate instead of binding a new one.
	Next net.Listener
}

func (o Options) bind() (net.Listener, error) {
	if o.Next != nil {
		return o.Next, nil
	}

	network := o.Network
	if len(network) == 0 {
		network = DefaultNetwork
	}

	address := o.Address
	if len(address) == 0 {
		address = DefaultAddress
	}

	return netListen(network, address)
}

// New binds a listener, or decorates Next, with connection limiting and metrics.  A bind error,
// e.g. an address already in use, is returned unchanged and nothing is left listening.
func New(o Options) (net.Listener, error) {
	next, err := o.bind()
	if err != nil {
		return nil, err
	}

	l := &listener{
		Listener: next,
		gate:     newGate(o.MaxConnections),
		logger:   o.Logger,
		rejected: o.Rejected,
		active:   o.Active,
	}

	if l.logger == nil {
		l.logger = zap.NewNop()
	}

	if l.rejected == nil {
		l.rejected = discard.NewCounter()
	}

	if l.active == nil {
		l.active = discard.NewGauge()
	}

	l.logger = l.logger.With(zap.Stringer("localAddress", next.Addr()))
	return l, nil
}

// gate bounds concurrent connections.  A nil gate admits everything.
type gate chan struct{}

func newGate(max int) gate {
	if max > 0 {
		return make(gate, max)
	}

	return nil
}

func (g gate) tryEnter() bool {
	if g == nil {
		return true
	}

	select {
	case g <- struct{}{}:
		return true
	default:
		return false
	}
}

func (g gate) leave() {
	if g != nil {
		<-g
	}
}

type listener struct {
	net.Listener

	gate     gate
	logger   *zap.Logger
	rejected metrics.Counter
	active   metrics.Gauge
}

// Accept returns the next connection admitted by the gate.  Connections over the limit are
// closed and counted, and Accept keeps waiting.
func (l *listener) Accept() (net.Conn, error) {
	for {
		c, err := l.Listener.Accept()
		if err != nil {
			return nil, l.acceptError(err)
		}

		if l.gate.tryEnter() {
			l.active.Add(1.0)
			l.logger.Debug("accepted connection", zap.Stringer("remoteAddress", c.RemoteAddr()))
			return &trackedConn{Conn: c, onClose: l.closed}, nil
		}

		l.rejected.Add(1.0)
		l.logger.Warn("connection limit reached, closing connection", zap.Stringer("remoteAddress", c.RemoteAddr()))
		c.Close()
	}
}

func (l *listener) closed() {
	l.active.Add(-1.0)
	l.gate.leave()
}

// acceptError logs err and picks what Accept returns.  ENFILE is reported as EMFILE.
func (l *listener) acceptError(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return err
	}

	fields := []zap.Field{zap.Error(err)}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		fields = append(fields, zap.String("errno", fmt.Sprintf("0x%x", uintptr(errno))))
	}

	if errors.Is(err, syscall.ENFILE) {
		l.logger.Error("accept failed, reporting EMFILE", fields...)
		return syscall.EMFILE
	}

	l.logger.Error("accept failed", fields...)
	return err
}

// trackedConn reports its first Close back to the listener
type trackedConn struct {
	net.Conn
	once    sync.Once
	onClose func()
}

func (tc *trackedConn) Close() error {
	err := tc.Conn.Close()
	tc.once.Do(tc.onClose)
	return err
}
