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
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Dataset is a fully decoded recording.
type Dataset struct {
	Config  *Configuration // Configuration the data was decoded with
	Samples []Sample       // Samples in data file order
	Analog  []AnalogSeries // One series per analog channel, in channel order
	Status  []StatusSeries // One series per status channel, in channel order
}

// AnalogSeries is the time series of a single analog channel.
type AnalogSeries struct {
	Channel AnalogChannel
	Points  []AnalogPoint
}

// AnalogPoint is one value of an analog series.
type AnalogPoint struct {
	TimeStamp TimeStamp
	Value     float64
}

// StatusSeries is the time series of a single status channel.
type StatusSeries struct {
	Channel StatusChannel
	Points  []StatusPoint
}

// StatusPoint is one value of a status series.
type StatusPoint struct {
	TimeStamp TimeStamp
	Value     bool
}

// Option configures how a data file is decoded.
type Option func(*options)

type options struct {
	workers int
	logger  *slog.Logger
}

// WithWorkers decodes records on n goroutines. Sample order is unaffected.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// ReadDataset reads a binary data file and decodes it against cfg.
func ReadDataset(cfg *Configuration, r io.Reader, opts ...Option) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading data file: %w", err)
	}
	return Decode(cfg, data, opts...)
}

// Decode decodes every record of a binary data file. A data file whose length
// is not a multiple of the record size fails with ErrTruncatedRecord and no
// samples are returned.
func Decode(cfg *Configuration, data []byte, opts ...Option) (*Dataset, error) {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	size := cfg.RecordSize()
	count := (len(data) + size - 1) / size
	samples := make([]Sample, count)

	decodeRange := func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			offset := i * size
			end := min(offset+size, len(data))
			s, err := cfg.DecodeSample(data[offset:end])
			if err != nil {
				var truncated *ErrTruncatedRecord
				if errors.As(err, &truncated) {
					truncated.Offset = int64(offset)
				}
				return err
			}
			samples[i] = s
		}
		return nil
	}

	workers := max(min(o.workers, count), 1)
	o.logger.Debug("decoding data file",
		"bytes", len(data), "record_size", size, "records", count, "workers", workers)

	if workers == 1 {
		if err := decodeRange(0, count); err != nil {
			return nil, err
		}
	} else {
		var g errgroup.Group
		chunk := (count + workers - 1) / workers
		for lo := 0; lo < count; lo += chunk {
			hi := min(lo+chunk, count)
			g.Go(func() error {
				return decodeRange(lo, hi)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	ds := &Dataset{Config: cfg, Samples: samples}
	ds.buildSeries()

	o.logger.Debug("decoded data file",
		"samples", len(ds.Samples), "analog_channels", len(ds.Analog), "status_channels", len(ds.Status))

	return ds, nil
}

func (ds *Dataset) buildSeries() {
	ds.Analog = make([]AnalogSeries, len(ds.Config.AnalogChannels))
	for i, ch := range ds.Config.AnalogChannels {
		points := make([]AnalogPoint, len(ds.Samples))
		for j := range ds.Samples {
			points[j] = AnalogPoint{TimeStamp: ds.Samples[j].TimeStamp, Value: ds.Samples[j].AnalogValues[i]}
		}
		ds.Analog[i] = AnalogSeries{Channel: ch, Points: points}
	}

	ds.Status = make([]StatusSeries, len(ds.Config.StatusChannels))
	for i, ch := range ds.Config.StatusChannels {
		points := make([]StatusPoint, len(ds.Samples))
		for j := range ds.Samples {
			points[j] = StatusPoint{TimeStamp: ds.Samples[j].TimeStamp, Value: ds.Samples[j].StatusValues[i]}
		}
		ds.Status[i] = StatusSeries{Channel: ch, Points: points}
	}
}

// AnalogByIndex returns the series of the analog channel with 1-based index n.
func (ds *Dataset) AnalogByIndex(n int) (AnalogSeries, bool) {
	if n < 1 || n > len(ds.Analog) {
		return AnalogSeries{}, false
	}
	return ds.Analog[n-1], true
}

// AnalogByID returns the series of the first analog channel named id.
func (ds *Dataset) AnalogByID(id string) (AnalogSeries, bool) {
	for _, series := range ds.Analog {
		if series.Channel.ID == id {
			return series, true
		}
	}
	return AnalogSeries{}, false
}

// StatusByIndex returns the series of the status channel with 1-based index n.
func (ds *Dataset) StatusByIndex(n int) (StatusSeries, bool) {
	if n < 1 || n > len(ds.Status) {
		return StatusSeries{}, false
	}
	return ds.Status[n-1], true
}

// StatusByID returns the series of the first status channel named id.
func (ds *Dataset) StatusByID(id string) (StatusSeries, bool) {
	for _, series := range ds.Status {
		if series.Channel.ID == id {
			return series, true
		}
	}
	return StatusSeries{}, false
}
