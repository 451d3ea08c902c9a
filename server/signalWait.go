// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"os"

	"go.uber.org/zap"
)

// SignalWait blocks until one of the waitOn signals arrives on signals, then returns it.  Other
// signals are logged and ignored.  With no waitOn signals, every signal is ignored.
//
// A closed signals channel returns (nil, nil).  If ctx ends first, ctx.Err() is returned, which
// is how callers stop waiting when the server exits on its own.
func SignalWait(ctx context.Context, logger *zap.Logger, signals <-chan os.Signal, waitOn ...os.Signal) (os.Signal, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case s, ok := <-signals:
			if !ok {
				return nil, nil
			}

			for _, w := range waitOn {
				if s == w {
					return s, nil
				}
			}

			logger.Info("ignoring signal", zap.Any("signal", s))
		}
	}
}
