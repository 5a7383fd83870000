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
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newInfoCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.cfg>",
		Short: "Print the parsed configuration of a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Station:\t%s\n", cfg.StationName)
			fmt.Fprintf(w, "Device:\t%s\n", cfg.RecordingDevice)
			fmt.Fprintf(w, "Revision:\t%d\n", cfg.RevisionYear)
			fmt.Fprintf(w, "Channels:\t%d (%dA, %dD)\n", cfg.ChannelCount, cfg.AnalogCount, cfg.StatusCount)
			fmt.Fprintf(w, "Line frequency:\t%g Hz\n", cfg.LineFrequency)
			for _, rate := range cfg.SampleRates {
				fmt.Fprintf(w, "Sample rate:\t%g Hz until sample %d\n", rate.Rate, rate.EndSample)
			}
			fmt.Fprintf(w, "Start:\t%s\n", cfg.StartTime)
			fmt.Fprintf(w, "Trigger:\t%s\n", cfg.TriggerTime)
			fmt.Fprintf(w, "File type:\t%s\n", cfg.FileType)
			fmt.Fprintf(w, "Time multiplier:\t%g\n", cfg.TimeMultiplier)
			fmt.Fprintf(w, "Record size:\t%d bytes\n", cfg.RecordSize())
			if err := w.Flush(); err != nil {
				return err
			}

			w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\nKIND\tN\tID\tPHASE\tUNIT\tA\tB")
			for _, ch := range cfg.AnalogChannels {
				fmt.Fprintf(w, "analog\t%d\t%s\t%s\t%s\t%g\t%g\n", ch.Index, ch.ID, ch.Phase, ch.Unit, ch.A, ch.B)
			}
			for _, ch := range cfg.StatusChannels {
				fmt.Fprintf(w, "status\t%d\t%s\t%s\t\t\t\n", ch.Index, ch.ID, ch.Phase)
			}
			return w.Flush()
		},
	}
}
