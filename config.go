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
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const lineTerminator = "\r\n"

// ReadConfiguration reads and parses a COMTRADE configuration file.
func ReadConfiguration(r io.Reader) (*Configuration, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading configuration: %w", err)
	}
	return ParseConfiguration(string(b))
}

// ParseConfiguration parses the text of a COMTRADE configuration file. Lines
// must be terminated by CRLF. Any malformed line aborts the parse.
func ParseConfiguration(text string) (*Configuration, error) {
	lines, err := splitLines(text)
	if err != nil {
		return nil, err
	}
	lr := &lineReader{lines: lines}
	cfg := &Configuration{}

	// Station, recording device and revision year
	parts, num, err := lr.next("station_name")
	if err != nil {
		return nil, err
	}
	if cfg.StationName, err = requireField(parts, 0, num, "station_name"); err != nil {
		return nil, err
	}
	if cfg.RecordingDevice, err = requireField(parts, 1, num, "rec_dev_id"); err != nil {
		return nil, err
	}
	revYear, err := requireField(parts, 2, num, "rev_year")
	if err != nil {
		return nil, err
	}
	if cfg.RevisionYear, err = strconv.Atoi(strings.TrimSpace(revYear)); err != nil {
		return nil, &ErrMalformedConfiguration{Line: num, Field: "rev_year", Err: err}
	}

	// Channel counts
	if parts, num, err = lr.next("TT"); err != nil {
		return nil, err
	}
	total, err := requireField(parts, 0, num, "TT")
	if err != nil {
		return nil, err
	}
	if cfg.ChannelCount, err = parseCount(total, ""); err != nil {
		return nil, &ErrMalformedConfiguration{Line: num, Field: "TT", Err: err}
	}
	analog, err := requireField(parts, 1, num, "##A")
	if err != nil {
		return nil, err
	}
	if cfg.AnalogCount, err = parseCount(analog, "A"); err != nil {
		return nil, &ErrMalformedConfiguration{Line: num, Field: "##A", Err: err}
	}
	status, err := requireField(parts, 2, num, "##D")
	if err != nil {
		return nil, err
	}
	if cfg.StatusCount, err = parseCount(status, "D"); err != nil {
		return nil, &ErrMalformedConfiguration{Line: num, Field: "##D", Err: err}
	}
	if cfg.ChannelCount != cfg.AnalogCount+cfg.StatusCount {
		return nil, &ErrMalformedConfiguration{
			Line:   num,
			Field:  "TT",
			Reason: fmt.Sprintf("total %d does not equal %d analog plus %d status channels", cfg.ChannelCount, cfg.AnalogCount, cfg.StatusCount),
		}
	}

	// Analog channels
	cfg.AnalogChannels = make([]AnalogChannel, 0, min(cfg.AnalogCount, lr.remaining()))
	for i := 0; i < cfg.AnalogCount; i++ {
		line, num, err := lr.nextLine(fmt.Sprintf("analog channel %d", i+1))
		if err != nil {
			return nil, err
		}
		ch, err := ParseAnalogChannel(line)
		if err != nil {
			return nil, withChannelContext(err, num, i+1)
		}
		if ch.Index != i+1 {
			return nil, &ErrMalformedChannelLine{Line: num, Kind: "analog", Index: i + 1, Field: "n",
				Reason: fmt.Sprintf("index %d out of sequence", ch.Index)}
		}
		cfg.AnalogChannels = append(cfg.AnalogChannels, ch)
	}

	// Status channels
	cfg.StatusChannels = make([]StatusChannel, 0, min(cfg.StatusCount, lr.remaining()))
	for i := 0; i < cfg.StatusCount; i++ {
		line, num, err := lr.nextLine(fmt.Sprintf("status channel %d", i+1))
		if err != nil {
			return nil, err
		}
		ch, err := ParseStatusChannel(line)
		if err != nil {
			return nil, withChannelContext(err, num, i+1)
		}
		if ch.Index != i+1 {
			return nil, &ErrMalformedChannelLine{Line: num, Kind: "status", Index: i + 1, Field: "n",
				Reason: fmt.Sprintf("index %d out of sequence", ch.Index)}
		}
		cfg.StatusChannels = append(cfg.StatusChannels, ch)
	}

	// Line frequency, may be left empty
	if parts, num, err = lr.next("lf"); err != nil {
		return nil, err
	}
	if lf := strings.TrimSpace(parts[0]); lf != "" {
		if cfg.LineFrequency, err = strconv.ParseFloat(lf, 64); err != nil {
			return nil, &ErrMalformedConfiguration{Line: num, Field: "lf", Err: err}
		}
	}

	// Sampling rate table
	if parts, num, err = lr.next("nrates"); err != nil {
		return nil, err
	}
	nrates, err := requireField(parts, 0, num, "nrates")
	if err != nil {
		return nil, err
	}
	if cfg.RateCount, err = parseCount(nrates, ""); err != nil {
		return nil, &ErrMalformedConfiguration{Line: num, Field: "nrates", Err: err}
	}
	// nrates of zero still carries a single "0,endsamp" row.
	rows := max(cfg.RateCount, 1)
	cfg.SampleRates = make([]SampleRate, 0, rows)
	for i := 0; i < rows; i++ {
		rate, err := parseSampleRate(lr)
		if err != nil {
			return nil, err
		}
		cfg.SampleRates = append(cfg.SampleRates, rate)
	}

	// Start and trigger timestamps
	if cfg.StartTime, err = parseTimeStampLine(lr, "start timestamp"); err != nil {
		return nil, err
	}
	if cfg.TriggerTime, err = parseTimeStampLine(lr, "trigger timestamp"); err != nil {
		return nil, err
	}

	// Data file type
	if parts, num, err = lr.next("ft"); err != nil {
		return nil, err
	}
	ft, err := requireField(parts, 0, num, "ft")
	if err != nil {
		return nil, err
	}
	var ok bool
	if cfg.FileType, ok = parseFileType(strings.TrimSpace(ft)); !ok {
		return nil, &ErrMalformedConfiguration{Line: num, Field: "ft", Reason: fmt.Sprintf("unknown file type %q", ft)}
	}

	// Timestamp multiplication factor
	if parts, num, err = lr.next("timemult"); err != nil {
		return nil, err
	}
	mult, err := requireField(parts, 0, num, "timemult")
	if err != nil {
		return nil, err
	}
	if cfg.TimeMultiplier, err = strconv.ParseFloat(strings.TrimSpace(mult), 64); err != nil {
		return nil, &ErrMalformedConfiguration{Line: num, Field: "timemult", Err: err}
	}
	if cfg.TimeMultiplier <= 0 {
		return nil, &ErrMalformedConfiguration{Line: num, Field: "timemult", Reason: "must be positive"}
	}

	return cfg, nil
}

// splitLines splits the configuration on CRLF. A bare CR or LF anywhere means
// the file uses another convention and is rejected rather than misparsed.
func splitLines(text string) ([]string, error) {
	lines := strings.Split(text, lineTerminator)
	for i, line := range lines {
		if strings.ContainsAny(line, "\r\n") {
			return nil, &ErrMalformedConfiguration{Line: i + 1, Reason: "lines must be terminated by CRLF"}
		}
	}
	if n := len(lines); lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines, nil
}

type lineReader struct {
	lines []string
	pos   int
}

// nextLine returns the next line and its 1-based line number.
func (lr *lineReader) nextLine(what string) (string, int, error) {
	if lr.pos >= len(lr.lines) {
		return "", lr.pos + 1, &ErrMalformedConfiguration{Line: lr.pos + 1, Field: what, Reason: "unexpected end of configuration"}
	}
	line := lr.lines[lr.pos]
	lr.pos++
	return line, lr.pos, nil
}

// remaining returns the number of lines not yet read. Declared counts are
// capped by it before anything is allocated.
func (lr *lineReader) remaining() int {
	return len(lr.lines) - lr.pos
}

// next returns the comma separated fields of the next line.
func (lr *lineReader) next(what string) ([]string, int, error) {
	line, num, err := lr.nextLine(what)
	if err != nil {
		return nil, num, err
	}
	return strings.Split(line, separator), num, nil
}

func requireField(parts []string, i, line int, name string) (string, error) {
	if i >= len(parts) || strings.TrimSpace(parts[i]) == "" {
		return "", &ErrConfigurationIncomplete{Line: line, Field: name}
	}
	return parts[i], nil
}

// parseCount parses a non-negative count with an optional mandatory suffix.
func parseCount(s, suffix string) (int, error) {
	s = strings.TrimSpace(s)
	if suffix != "" {
		var found bool
		if s, found = strings.CutSuffix(s, suffix); !found {
			return 0, fmt.Errorf("missing %q suffix", suffix)
		}
	}
	return parseDigits(s)
}

func parseSampleRate(lr *lineReader) (SampleRate, error) {
	parts, num, err := lr.next("samp")
	if err != nil {
		return SampleRate{}, err
	}
	samp, err := requireField(parts, 0, num, "samp")
	if err != nil {
		return SampleRate{}, err
	}
	endsamp, err := requireField(parts, 1, num, "endsamp")
	if err != nil {
		return SampleRate{}, err
	}

	var rate SampleRate
	if rate.Rate, err = strconv.ParseFloat(strings.TrimSpace(samp), 64); err != nil {
		return SampleRate{}, &ErrMalformedConfiguration{Line: num, Field: "samp", Err: err}
	}
	if rate.EndSample, err = strconv.ParseInt(strings.TrimSpace(endsamp), 10, 64); err != nil {
		return SampleRate{}, &ErrMalformedConfiguration{Line: num, Field: "endsamp", Err: err}
	}
	return rate, nil
}

func parseTimeStampLine(lr *lineReader, what string) (TimeStamp, error) {
	line, num, err := lr.nextLine(what)
	if err != nil {
		return TimeStamp{}, err
	}
	if strings.Trim(line, " ,") == "" {
		return TimeStamp{}, &ErrConfigurationIncomplete{Line: num, Field: what}
	}
	ts, err := ParseTimeStamp(line)
	if err != nil {
		var tsErr *ErrMalformedTimestamp
		if errors.As(err, &tsErr) {
			tsErr.Line = num
		}
		return TimeStamp{}, err
	}
	return ts, nil
}

func withChannelContext(err error, line, index int) error {
	var chErr *ErrMalformedChannelLine
	if errors.As(err, &chErr) {
		chErr.Line = line
		chErr.Index = index
	}
	return err
}
