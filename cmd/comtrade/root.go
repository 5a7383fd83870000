// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */
package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/OpenPSG/comtrade/internal/config"
	"github.com/OpenPSG/comtrade/internal/logger"
)

const (
	LogLevelOptionName = "log-level"
	ConfigOptionName   = "config"
)

// state is shared by all subcommands once the persistent flags are parsed.
type state struct {
	cfg *config.Config
	log *slog.Logger
}

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel, configPath string
	st := &state{cfg: config.NewDefaultConfig()}

	cmd := &cobra.Command{
		Use:          "comtrade",
		Short:        "Tool to decode COMTRADE disturbance recordings",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				st.cfg.SetPath(configPath)
			}
			if err := st.cfg.Load(); err != nil {
				return err
			}
			if logLevel != "" {
				st.cfg.LogLevel = logLevel
			}
			log, err := logger.New(cmd.ErrOrStderr(), st.cfg.LogLevel)
			if err != nil {
				return err
			}
			st.log = log
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(newDecodeCommand(st))
	cmd.AddCommand(newInfoCommand(st))
	cmd.AddCommand(newConfigCommand(st))
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", logger.HelpLevels))
	cmd.PersistentFlags().StringVar(&configPath, ConfigOptionName, "", fmt.Sprintf("Config file. Defaults to %s", config.DefaultConfigPath()))
	return cmd
}
