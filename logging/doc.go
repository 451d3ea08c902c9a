// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the process-wide zap logger from configuration.  Rolling log files
// are handled by lumberjack.
package logging
