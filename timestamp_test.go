// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */
package comtrade_test

import (
	"testing"
	"time"

	"github.com/OpenPSG/comtrade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeStamp(t *testing.T) {
	ts, err := comtrade.ParseTimeStamp("01/02/2020,13:14:15.123456")
	require.NoError(t, err)

	assert.True(t, ts.Known)
	assert.Equal(t, time.Date(2020, time.February, 1, 13, 14, 15, 0, time.UTC), ts.Base)
	assert.Equal(t, 123456.0, ts.Micros)

	at, ok := ts.Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, time.February, 1, 13, 14, 15, 123456000, time.UTC), at)
}

func TestParseTimeStampPrecision(t *testing.T) {
	tests := []struct {
		in     string
		micros float64
	}{
		{"29/02/2024,00:00:00", 0},
		{"29/02/2024,00:00:00.5", 500000},
		{"29/02/2024,00:00:00.000001", 1},
		{"29/02/2024,00:00:00.000000250", 0.25},
		{" 1/2/2024 , 3:04:05.000", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ts, err := comtrade.ParseTimeStamp(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.micros, ts.Micros, 1e-9)
			assert.Zero(t, ts.Base.Nanosecond())
		})
	}
}

func TestParseTimeStampMalformed(t *testing.T) {
	tests := []string{
		"",
		"01/02/2020",
		"01/02/2020 13:14:15",
		"01-02-2020,13:14:15",
		"aa/02/2020,13:14:15",
		"01/02/2020,13:14",
		"01/02/2020,13:xx:15",
		"01/02/2020,13:14:15.12a",
		"01/02/2020,13:14:15.1234567890",
		"00/02/2020,13:14:15",
		"01/13/2020,13:14:15",
		"30/02/2020,13:14:15",
		"31/04/2021,13:14:15",
		"01/02/2020,24:00:00",
		"01/02/2020,23:60:00",
		"01/02/2020,23:59:60",
		"-1/02/2020,13:14:15",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := comtrade.ParseTimeStamp(in)
			var tsErr *comtrade.ErrMalformedTimestamp
			require.ErrorAs(t, err, &tsErr)
			assert.Equal(t, in, tsErr.Value)
		})
	}
}

func TestTimeStampString(t *testing.T) {
	ts, err := comtrade.ParseTimeStamp("05/11/2019,07:08:09.010203")
	require.NoError(t, err)
	assert.Equal(t, "05/11/2019,07:08:09.010203", ts.String())

	again, err := comtrade.ParseTimeStamp(ts.String())
	require.NoError(t, err)
	assert.True(t, ts.Equal(again))
}

func TestTimeStampOrdering(t *testing.T) {
	base := time.Date(2021, time.March, 15, 10, 20, 30, 0, time.UTC)
	early := comtrade.TimeStamp{Base: base, Micros: 10, Known: true}
	late := comtrade.TimeStamp{Base: base, Micros: 20, Known: true}
	carried := comtrade.TimeStamp{Base: base.Add(-time.Second), Micros: 1e6 + 10, Known: true}
	unknown := comtrade.TimeStamp{Base: base}

	assert.True(t, early.Before(late))
	assert.False(t, late.Before(early))
	assert.True(t, early.Equal(carried))

	assert.False(t, unknown.Equal(unknown))
	assert.False(t, unknown.Before(late))
	assert.False(t, early.Before(unknown))
}

func TestDecodeTimeStamp(t *testing.T) {
	start, err := comtrade.ParseTimeStamp("15/03/2021,10:20:30.500000")
	require.NoError(t, err)

	tests := []struct {
		name       string
		multiplier float64
		raw        uint32
		micros     float64
	}{
		{"unit multiplier", 1, 833, 500833},
		{"zero offset", 1, 0, 500000},
		{"half microseconds", 0.5, 833, 500416.5},
		{"tens of microseconds", 10, 1000, 510000},
		{"large raw", 1, 4_000_000_000, 4_000_500_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &comtrade.Configuration{StartTime: start, TimeMultiplier: tt.multiplier}

			ts := cfg.DecodeTimeStamp(tt.raw)
			assert.True(t, ts.Known)
			assert.Equal(t, start.Base, ts.Base)
			assert.Equal(t, start.Micros+float64(tt.raw)*tt.multiplier, ts.Micros)
			assert.Equal(t, tt.micros, ts.Micros)

			assert.Equal(t, tt.raw, cfg.EncodeTimeStamp(ts))
		})
	}
}

func TestTimeStampTimeBeyondDurationRange(t *testing.T) {
	start, err := comtrade.ParseTimeStamp("15/03/2021,10:20:30.500000")
	require.NoError(t, err)
	cfg := &comtrade.Configuration{StartTime: start, TimeMultiplier: 3e6}

	// 4294967294 * 3e6 microseconds is 149130 days and 69882.5 seconds.
	ts := cfg.DecodeTimeStamp(4_294_967_294)
	at, ok := ts.Time()
	require.True(t, ok)
	want := start.Base.AddDate(0, 0, 149130).Add(69882*time.Second + 500*time.Millisecond)
	assert.True(t, want.Equal(at), "got %s, want %s", at, want)
	assert.Equal(t, time.UTC, at.Location())

	assert.True(t, start.Before(ts))
	assert.False(t, ts.Before(start))
}

func TestDecodeTimeStampMissing(t *testing.T) {
	start, err := comtrade.ParseTimeStamp("15/03/2021,10:20:30.500000")
	require.NoError(t, err)
	cfg := &comtrade.Configuration{StartTime: start, TimeMultiplier: 1}

	ts := cfg.DecodeTimeStamp(comtrade.MissingTimeStamp)
	assert.False(t, ts.Known)
	assert.Equal(t, start.Base, ts.Base)
	assert.Zero(t, ts.Micros)

	_, ok := ts.Time()
	assert.False(t, ok)

	assert.Equal(t, comtrade.MissingTimeStamp, cfg.EncodeTimeStamp(ts))
	assert.False(t, cfg.DecodeTimeStamp(cfg.EncodeTimeStamp(ts)).Known)
}

func TestEncodeTimeStampAcrossSeconds(t *testing.T) {
	start, err := comtrade.ParseTimeStamp("15/03/2021,10:20:30.500000")
	require.NoError(t, err)
	cfg := &comtrade.Configuration{StartTime: start, TimeMultiplier: 1}

	later, err := comtrade.ParseTimeStamp("15/03/2021,10:20:32.250000")
	require.NoError(t, err)
	assert.Equal(t, uint32(1_750_000), cfg.EncodeTimeStamp(later))

	earlier, err := comtrade.ParseTimeStamp("15/03/2021,10:20:30.000000")
	require.NoError(t, err)
	assert.Equal(t, comtrade.MissingTimeStamp, cfg.EncodeTimeStamp(earlier))
}
