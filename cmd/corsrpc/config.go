// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/xmidt-org/corsrpc/accesscontrol"
	"github.com/xmidt-org/corsrpc/logging"
	"github.com/xmidt-org/corsrpc/rpc"
	"github.com/xmidt-org/corsrpc/server"
	"github.com/xmidt-org/corsrpc/xhttp"
	"github.com/xmidt-org/corsrpc/xhttp/xfilter"
)

const (
	applicationName = "corsrpc"

	AddressFlag        = "address"
	FileFlag           = "file"
	LogLevelFlag       = "log-level"
	MetricsAddressFlag = "metrics-address"
)

// Config is the complete configuration of the corsrpc process
type Config struct {
	// Address is the bind address of the JSON-RPC server
	Address string

	// MetricsAddress is the bind address of the prometheus endpoint.  If unset, no metrics server is started.
	MetricsAddress string

	Log                logging.Options
	AccessControl      accesscontrol.Options
	CORS               xhttp.CORSOptions
	RateLimit          xfilter.RateLimitOptions
	MaxConnections     int
	MaxRequestBodySize int64
	ReadTimeout        time.Duration
	ReadHeaderTimeout  time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	HealthAPI          *rpc.HealthAPI
}

func newFlagSet() *pflag.FlagSet {
	f := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	f.String(AddressFlag, server.DefaultAddress, "the bind address of the JSON-RPC server")
	f.StringP(FileFlag, "f", "", "the configuration file to use.  If unset, "+applicationName+".yaml is searched for.")
	f.String(LogLevelFlag, logging.DefaultLevel, "the minimum log level")
	f.String(MetricsAddressFlag, "", "the bind address of the metrics server.  If unset, metrics are not served.")
	return f
}

// loadConfig reads configuration from the command line, the environment, and an optional file,
// in decreasing order of precedence
func loadConfig(arguments []string) (Config, error) {
	var (
		config Config
		v      = server.NewViper(applicationName)
		f      = newFlagSet()
	)

	if err := server.ParseAndBind(v, f, arguments); err != nil {
		return config, err
	}

	if err := v.BindPFlag("log.level", f.Lookup(LogLevelFlag)); err != nil {
		return config, err
	}

	if err := v.BindPFlag("metricsAddress", f.Lookup(MetricsAddressFlag)); err != nil {
		return config, err
	}

	if err := server.ReadInConfig(v, v.GetString(FileFlag)); err != nil {
		return config, err
	}

	err := v.Unmarshal(&config, server.DecodeHook())
	return config, err
}
