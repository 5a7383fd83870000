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
	"bytes"
	"encoding/json"
	"testing"

	"github.com/OpenPSG/comtrade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingData holds three records matching recordingLines: 14 bytes each.
func recordingData() []byte {
	var data []byte
	data = append(data, record(1, 0, []int16{100, 2000}, 0b01)...)
	data = append(data, record(2, 833, []int16{-100, -1}, 0b10)...)
	data = append(data, record(5, comtrade.MissingTimeStamp, []int16{0, 3}, 0b11)...)
	return data
}

func decodeRecording(t *testing.T, opts ...comtrade.Option) *comtrade.Dataset {
	cfg, err := comtrade.ParseConfiguration(configText(recordingLines))
	require.NoError(t, err)

	ds, err := comtrade.Decode(cfg, recordingData(), opts...)
	require.NoError(t, err)
	return ds
}

func TestDecode(t *testing.T) {
	ds := decodeRecording(t)
	require.Len(t, ds.Samples, 3)

	// Sample numbers are kept as stored, gaps included.
	assert.Equal(t, uint32(1), ds.Samples[0].Number)
	assert.Equal(t, uint32(2), ds.Samples[1].Number)
	assert.Equal(t, uint32(5), ds.Samples[2].Number)

	assert.Equal(t, 500000.0, ds.Samples[0].TimeStamp.Micros)
	assert.Equal(t, 500833.0, ds.Samples[1].TimeStamp.Micros)
	assert.False(t, ds.Samples[2].TimeStamp.Known)
	assert.True(t, ds.Samples[0].TimeStamp.Before(ds.Samples[1].TimeStamp))

	ia, ok := ds.AnalogByID("IA")
	require.True(t, ok)
	assert.Equal(t, 1, ia.Channel.Index)
	assert.Equal(t, []float64{51, -49, 1}, analogValues(ia))

	va, ok := ds.AnalogByIndex(2)
	require.True(t, ok)
	assert.Equal(t, "VA", va.Channel.ID)
	assert.Equal(t, []float64{20, -0.01, 0.03}, analogValues(va))

	trip, ok := ds.StatusByIndex(1)
	require.True(t, ok)
	assert.Equal(t, "TRIP", trip.Channel.ID)
	assert.Equal(t, []bool{true, false, true}, statusValues(trip))

	brk, ok := ds.StatusByID("BRK OPEN")
	require.True(t, ok)
	assert.Equal(t, []bool{false, true, true}, statusValues(brk))

	for i, p := range ia.Points {
		assert.Equal(t, ds.Samples[i].TimeStamp, p.TimeStamp)
	}

	_, ok = ds.AnalogByIndex(3)
	assert.False(t, ok)
	_, ok = ds.AnalogByID("IB")
	assert.False(t, ok)
	_, ok = ds.StatusByIndex(0)
	assert.False(t, ok)
	_, ok = ds.StatusByID("TRIP2")
	assert.False(t, ok)
}

func TestDecodeIsIdempotent(t *testing.T) {
	assert.Equal(t, decodeRecording(t), decodeRecording(t))
}

func TestDecodeWorkersKeepFileOrder(t *testing.T) {
	cfg, err := comtrade.ParseConfiguration(configText(recordingLines))
	require.NoError(t, err)

	var data []byte
	for i := 0; i < 1000; i++ {
		data = append(data, record(uint32(i), uint32(i*833), []int16{int16(i), int16(-i)}, uint16(i%4))...)
	}

	sequential, err := comtrade.Decode(cfg, data)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8, 5000} {
		concurrent, err := comtrade.Decode(cfg, data, comtrade.WithWorkers(workers))
		require.NoError(t, err)
		assert.Equal(t, sequential, concurrent, "%d workers", workers)
	}

	for i, s := range sequential.Samples {
		require.Equal(t, uint32(i), s.Number)
	}
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := comtrade.ParseConfiguration(configText(recordingLines))
	require.NoError(t, err)

	ds, err := comtrade.Decode(cfg, nil, comtrade.WithWorkers(4))
	require.NoError(t, err)
	assert.Empty(t, ds.Samples)
	require.Len(t, ds.Analog, 2)
	assert.Empty(t, ds.Analog[0].Points)
	require.Len(t, ds.Status, 2)
}

func TestDecodeTruncated(t *testing.T) {
	cfg, err := comtrade.ParseConfiguration(configText(recordingLines))
	require.NoError(t, err)
	size := cfg.RecordSize()
	data := recordingData()

	for k := 1; k < size; k++ {
		for _, workers := range []int{1, 2} {
			ds, err := comtrade.Decode(cfg, append(data, make([]byte, k)...), comtrade.WithWorkers(workers))
			var truncated *comtrade.ErrTruncatedRecord
			require.ErrorAs(t, err, &truncated)
			assert.Nil(t, ds)
			assert.Equal(t, int64(3*size), truncated.Offset)
			assert.Equal(t, k, truncated.Size)
			assert.Equal(t, size, truncated.Want)
		}
	}
}

func TestReadDataset(t *testing.T) {
	cfg, err := comtrade.ParseConfiguration(configText(recordingLines))
	require.NoError(t, err)

	ds, err := comtrade.ReadDataset(cfg, bytes.NewReader(recordingData()))
	require.NoError(t, err)
	assert.Len(t, ds.Samples, 3)
	assert.Same(t, cfg, ds.Config)
}

func TestExport(t *testing.T) {
	export := decodeRecording(t).Export()

	require.Len(t, export.AnalogChannels, 2)
	require.Len(t, export.StatusChannels, 2)
	assert.Equal(t, "IA", export.AnalogChannels[0].Name)
	assert.Equal(t, "BRK OPEN", export.StatusChannels[1].Name)
	assert.Equal(t, 51.0, export.AnalogChannels[0].Data[0].Value)
	assert.Equal(t, true, export.StatusChannels[0].Data[0].Value)

	b, err := json.Marshal(export)
	require.NoError(t, err)

	var decoded struct {
		AnalogChannels []struct {
			Name string `json:"name"`
			Data []struct {
				TimeStamp struct {
					Seconds      string   `json:"seconds"`
					Microseconds *float64 `json:"microseconds"`
				} `json:"timestamp"`
				Value float64 `json:"value"`
			} `json:"data"`
		} `json:"analogChannels"`
		StatusChannels []struct {
			Data []struct {
				Value bool `json:"value"`
			} `json:"data"`
		} `json:"statusChannels"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))

	va := decoded.AnalogChannels[1]
	assert.Equal(t, "VA", va.Name)
	assert.Equal(t, "2021-03-15T10:20:30Z", va.Data[1].TimeStamp.Seconds)
	require.NotNil(t, va.Data[1].TimeStamp.Microseconds)
	assert.Equal(t, 500833.0, *va.Data[1].TimeStamp.Microseconds)
	assert.Nil(t, va.Data[2].TimeStamp.Microseconds)
	assert.Equal(t, -0.01, va.Data[1].Value)
	assert.True(t, decoded.StatusChannels[1].Data[2].Value)
}

func analogValues(series comtrade.AnalogSeries) []float64 {
	values := make([]float64, len(series.Points))
	for i, p := range series.Points {
		values[i] = p.Value
	}
	return values
}

func statusValues(series comtrade.StatusSeries) []bool {
	values := make([]bool, len(series.Points))
	for i, p := range series.Points {
		values[i] = p.Value
	}
	return values
}
