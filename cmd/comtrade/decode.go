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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/OpenPSG/comtrade"
	"github.com/OpenPSG/comtrade/internal/config"
)

const (
	WorkersOptionName = "workers"
	FormatOptionName  = "format"
)

func newDecodeCommand(st *state) *cobra.Command {
	var workers int
	var format string
	cmd := &cobra.Command{
		Use:   "decode <file.cfg> [file.dat]",
		Short: "Decode a recording and print its channels",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed(WorkersOptionName) {
				st.cfg.Workers = workers
			}
			if cmd.Flags().Changed(FormatOptionName) {
				st.cfg.Format = format
			}
			if err := st.cfg.Validate(); err != nil {
				return err
			}

			cfgPath := args[0]
			datPath := dataPath(cfgPath)
			if len(args) == 2 {
				datPath = args[1]
			}

			ds, err := decodeFiles(st, cfgPath, datPath)
			if err != nil {
				return err
			}

			out, err := marshalExport(ds.Export(), st.cfg.Format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().IntVar(&workers, WorkersOptionName, config.DefaultWorkers, "Number of goroutines decoding records")
	cmd.Flags().StringVar(&format, FormatOptionName, config.DefaultFormat, "Output format, json or yaml")
	return cmd
}

func decodeFiles(st *state, cfgPath, datPath string) (*comtrade.Dataset, error) {
	cfg, err := loadConfiguration(cfgPath)
	if err != nil {
		return nil, err
	}
	st.log.Debug("parsed configuration", "path", cfgPath, "station", cfg.StationName,
		"analog", cfg.AnalogCount, "status", cfg.StatusCount, "record_size", cfg.RecordSize())

	f, err := os.Open(datPath)
	if err != nil {
		return nil, fmt.Errorf("error opening data file: %w", err)
	}
	defer f.Close()

	ds, err := comtrade.ReadDataset(cfg, f, comtrade.WithWorkers(st.cfg.Workers), comtrade.WithLogger(st.log))
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", datPath, err)
	}
	st.log.Info("decoded recording", "path", datPath, "samples", len(ds.Samples))
	return ds, nil
}

func loadConfiguration(path string) (*comtrade.Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening configuration file: %w", err)
	}
	defer f.Close()

	cfg, err := comtrade.ReadConfiguration(f)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return cfg, nil
}

// dataPath returns the data file sitting next to a configuration file.
func dataPath(cfgPath string) string {
	ext := filepath.Ext(cfgPath)
	dat := ".dat"
	if strings.ToUpper(ext) == ext && ext != "" {
		dat = ".DAT"
	}
	return strings.TrimSuffix(cfgPath, ext) + dat
}

func marshalExport(export comtrade.Export, format string) ([]byte, error) {
	switch format {
	case config.FormatYAML:
		return yaml.Marshal(export)
	default:
		out, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}
