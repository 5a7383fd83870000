// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package comtrade

import "strings"

// FileType is the data file format declared by the configuration.
type FileType string

const (
	FileTypeASCII    FileType = "ASCII"
	FileTypeBinary   FileType = "BINARY"
	FileTypeBinary32 FileType = "BINARY32"
	FileTypeFloat32  FileType = "FLOAT32"
)

func parseFileType(s string) (FileType, bool) {
	switch ft := FileType(strings.ToUpper(s)); ft {
	case FileTypeASCII, FileTypeBinary, FileTypeBinary32, FileTypeFloat32:
		return ft, true
	default:
		return "", false
	}
}

// Scaling tells whether analog values are expressed in primary or secondary units.
// It is kept verbatim from the configuration, so it may be empty.
type Scaling string

const (
	ScalingPrimary   Scaling = "P"
	ScalingSecondary Scaling = "S"
)

// IsPrimary reports whether the channel is scaled to primary units.
func (s Scaling) IsPrimary() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(ScalingPrimary))
}

// IsSecondary reports whether the channel is scaled to secondary units.
func (s Scaling) IsSecondary() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(ScalingSecondary))
}

// Configuration represents the parsed contents of a COMTRADE configuration file.
type Configuration struct {
	StationName     string          // Name of the substation
	RecordingDevice string          // Identification of the recording device
	RevisionYear    int             // COMTRADE standard revision year (e.g. 1999)
	ChannelCount    int             // Total number of channels, always AnalogCount + StatusCount
	AnalogCount     int             // Number of analog channels
	StatusCount     int             // Number of status (digital) channels
	AnalogChannels  []AnalogChannel // Analog channel definitions in record order
	StatusChannels  []StatusChannel // Status channel definitions in record order
	LineFrequency   float64         // Nominal line frequency in Hz, 0 if not given
	RateCount       int             // Declared number of sampling rates (nrates)
	SampleRates     []SampleRate    // Sampling rate table
	StartTime       TimeStamp       // Time of the first data value
	TriggerTime     TimeStamp       // Time of the trigger point
	FileType        FileType        // Format of the data file
	TimeMultiplier  float64         // Multiplies raw data file timestamps into microseconds
}

// AnalogChannel describes one analog channel.
type AnalogChannel struct {
	Index     int     // 1-based index, matches the position in the record
	ID        string  // Channel identifier
	Phase     string  // Phase identification, may be empty
	Component string  // Circuit component being monitored, may be empty
	Unit      string  // Channel units (e.g. kV, A)
	A         float64 // Multiplier
	B         float64 // Offset adder
	Skew      string  // Time skew between channels in microseconds, verbatim
	Min       float64 // Minimum raw data value
	Max       float64 // Maximum raw data value
	Primary   float64 // Transformer primary ratio factor
	Secondary float64 // Transformer secondary ratio factor
	Scaling   Scaling // Primary or secondary data scaling identifier, verbatim
}

// Scale converts a raw data file value into engineering units.
func (ch AnalogChannel) Scale(raw int16) float64 {
	return ch.A*float64(raw) + ch.B
}

// StatusChannel describes one status (digital) channel.
type StatusChannel struct {
	Index       int    // 1-based index, separate from analog numbering
	ID          string // Channel identifier
	Phase       string // Phase identification, may be empty
	Component   string // Circuit component being monitored, may be empty
	NormalState bool   // Normal state of the channel
}

// SampleRate is one row of the sampling rate table.
type SampleRate struct {
	Rate      float64 // Sampling rate in Hz
	EndSample int64   // Last sample number at this rate
}

// Sample is one decoded data record.
type Sample struct {
	Number       uint32    // Sample number as stored in the record
	TimeStamp    TimeStamp // Time of the sample
	AnalogValues []float64 // Scaled analog values in channel order
	StatusValues []bool    // Status values in channel order
}

// Analog returns the value of the analog channel with 1-based index n.
func (s *Sample) Analog(n int) (float64, bool) {
	if n < 1 || n > len(s.AnalogValues) {
		return 0, false
	}
	return s.AnalogValues[n-1], true
}

// Status returns the value of the status channel with 1-based index n.
func (s *Sample) Status(n int) (bool, bool) {
	if n < 1 || n > len(s.StatusValues) {
		return false, false
	}
	return s.StatusValues[n-1], true
}
