// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// NewViper produces a Viper instance configured with the standard conventions.
// The applicationName is used as the configuration file name, the environment prefix,
// and to generate the path under /etc and $HOME to look for configuration files.
// Automatic environment mode is turned on, with '.' and '-' in keys mapped to '_'.
func NewViper(applicationName string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(applicationName)
	v.AddConfigPath(fmt.Sprintf("/etc/%s", applicationName))
	v.AddConfigPath(fmt.Sprintf("$HOME/.%s", applicationName))
	v.AddConfigPath(".")

	v.SetEnvPrefix(applicationName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// ParseAndBind parses the given flag set using the supplied arguments and then binds
// the flag set to the specified Viper instance.  If arguments is nil, os.Args[1:] is used instead.
func ParseAndBind(v *viper.Viper, flagSet *pflag.FlagSet, arguments []string) error {
	if arguments == nil {
		arguments = os.Args[1:]
	}

	if err := flagSet.Parse(arguments); err != nil {
		return err
	}

	return v.BindPFlags(flagSet)
}

// ReadInConfig reads configuration into v.  If file is set, it must exist.  Otherwise, the search
// paths set up by NewViper are consulted, and it is not an error if no configuration file is found.
func ReadInConfig(v *viper.Viper, file string) error {
	if len(file) > 0 {
		v.SetConfigFile(file)
		return v.ReadInConfig()
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}

	return err
}

// DecodeHook is the viper decode option for configuration structs.  It understands durations
// like "15s" and comma-separated lists.
func DecodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
