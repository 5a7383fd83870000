// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package comtrade

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrWriterClosed is returned when writing to or closing a closed Writer.
var ErrWriterClosed = errors.New("writer is closed")

// Writer writes a COMTRADE configuration file and its binary data file.
type Writer struct {
	cfgW    io.Writer
	datW    *bufio.Writer
	cfg     *Configuration
	records int // Number of data records written so far.
	closed  bool
}

// Create creates a new writer. Channel counts are derived from the channel
// lists. The configuration is only written by Close, once the number of
// records is known.
func Create(cfgW, datW io.Writer, cfg Configuration) (*Writer, error) {
	cfg.AnalogCount = len(cfg.AnalogChannels)
	cfg.StatusCount = len(cfg.StatusChannels)
	cfg.ChannelCount = cfg.AnalogCount + cfg.StatusCount
	cfg.FileType = FileTypeBinary
	if cfg.TimeMultiplier == 0 {
		cfg.TimeMultiplier = 1
	}
	if len(cfg.SampleRates) == 0 {
		cfg.SampleRates = []SampleRate{{}}
	}
	if want := max(cfg.RateCount, 1); len(cfg.SampleRates) != want {
		return nil, fmt.Errorf("expected %d sample rates, got %d", want, len(cfg.SampleRates))
	}
	if !cfg.StartTime.Known || !cfg.TriggerTime.Known {
		return nil, fmt.Errorf("start and trigger timestamps are required")
	}

	// Channel lists are owned by the writer from here on.
	cfg.AnalogChannels = append([]AnalogChannel(nil), cfg.AnalogChannels...)
	cfg.StatusChannels = append([]StatusChannel(nil), cfg.StatusChannels...)
	cfg.SampleRates = append([]SampleRate(nil), cfg.SampleRates...)
	for i := range cfg.AnalogChannels {
		cfg.AnalogChannels[i].Index = i + 1
	}
	for i := range cfg.StatusChannels {
		cfg.StatusChannels[i].Index = i + 1
	}

	// Catch unencodable text before any data is written.
	if _, err := cfg.MarshalText(); err != nil {
		return nil, err
	}

	return &Writer{cfgW: cfgW, datW: bufio.NewWriter(datW), cfg: &cfg}, nil
}

// Configuration returns the configuration the writer encodes records with.
func (w *Writer) Configuration() *Configuration {
	return w.cfg
}

// WriteRecord writes a single data record. Analog values are in engineering
// units and are converted back to raw values with each channel's a and b.
func (w *Writer) WriteRecord(number uint32, ts TimeStamp, analog []float64, status []bool) error {
	if w.closed {
		return ErrWriterClosed
	}
	if len(analog) != w.cfg.AnalogCount {
		return fmt.Errorf("expected %d analog values, got %d", w.cfg.AnalogCount, len(analog))
	}
	if len(status) != w.cfg.StatusCount {
		return fmt.Errorf("expected %d status values, got %d", w.cfg.StatusCount, len(status))
	}

	buf := make([]byte, w.cfg.RecordSize())
	binary.LittleEndian.PutUint32(buf[0:4], number)
	binary.LittleEndian.PutUint32(buf[4:8], w.cfg.EncodeTimeStamp(ts))

	for i, value := range analog {
		pos := analogOffset + i*analogValueSize
		raw := convertEngineeringToRaw(value, w.cfg.AnalogChannels[i])
		binary.LittleEndian.PutUint16(buf[pos:pos+analogValueSize], uint16(raw))
	}

	base := w.cfg.statusOffset()
	for i, on := range status {
		if !on {
			continue
		}
		pos := base + (i/statusWordBits)*statusWordSize
		word := binary.LittleEndian.Uint16(buf[pos:pos+statusWordSize]) | 1<<(i%statusWordBits)
		binary.LittleEndian.PutUint16(buf[pos:pos+statusWordSize], word)
	}

	if _, err := w.datW.Write(buf); err != nil {
		return fmt.Errorf("error writing data record: %w", err)
	}

	// Ensure all data is flushed to the underlying writer
	if err := w.datW.Flush(); err != nil {
		return fmt.Errorf("error writing data record: %w", err)
	}

	w.records++
	return nil
}

// Close finalizes the recording by writing the configuration, with the end
// sample of the last sampling rate set to the number of records written.
// Only the first call writes anything.
func (w *Writer) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true

	w.cfg.SampleRates[len(w.cfg.SampleRates)-1].EndSample = int64(w.records)

	text, err := w.cfg.MarshalText()
	if err != nil {
		return fmt.Errorf("error writing configuration: %w", err)
	}
	if _, err := w.cfgW.Write(text); err != nil {
		return fmt.Errorf("error writing configuration: %w", err)
	}

	return nil
}

// MarshalText formats the configuration as COMTRADE configuration text with
// CRLF line endings.
func (c *Configuration) MarshalText() ([]byte, error) {
	var sb strings.Builder
	var err error

	writeLine := func(fields ...string) {
		if err != nil {
			return
		}
		for _, f := range fields {
			if strings.ContainsAny(f, separator+"\r\n") {
				err = fmt.Errorf("field %q cannot be encoded", f)
				return
			}
		}
		sb.WriteString(strings.Join(fields, separator))
		sb.WriteString(lineTerminator)
	}

	writeLine(c.StationName, c.RecordingDevice, strconv.Itoa(c.RevisionYear))
	writeLine(strconv.Itoa(c.ChannelCount), strconv.Itoa(c.AnalogCount)+"A", strconv.Itoa(c.StatusCount)+"D")

	for _, ch := range c.AnalogChannels {
		writeLine(strconv.Itoa(ch.Index), ch.ID, ch.Phase, ch.Component, ch.Unit,
			formatFloat(ch.A), formatFloat(ch.B), ch.Skew,
			formatFloat(ch.Min), formatFloat(ch.Max),
			formatFloat(ch.Primary), formatFloat(ch.Secondary), string(ch.Scaling))
	}

	for _, ch := range c.StatusChannels {
		y := "0"
		if ch.NormalState {
			y = "1"
		}
		writeLine(strconv.Itoa(ch.Index), ch.ID, ch.Phase, ch.Component, y)
	}

	writeLine(formatFloat(c.LineFrequency))
	writeLine(strconv.Itoa(c.RateCount))
	for _, rate := range c.SampleRates {
		writeLine(formatFloat(rate.Rate), strconv.FormatInt(rate.EndSample, 10))
	}

	// Timestamps carry their own separator.
	if err == nil {
		sb.WriteString(c.StartTime.String() + lineTerminator)
		sb.WriteString(c.TriggerTime.String() + lineTerminator)
	}

	writeLine(string(c.FileType))
	writeLine(formatFloat(c.TimeMultiplier))

	if err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// convertEngineeringToRaw converts an engineering value to a raw value using the channel's a and b.
func convertEngineeringToRaw(value float64, ch AnalogChannel) int16 {
	if ch.A == 0 {
		return 0 // Avoid division by zero
	}
	raw := math.Round((value - ch.B) / ch.A)
	return int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, raw)))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
