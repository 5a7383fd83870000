// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package comtrade

import "time"

// Export is the normalized, serializable form of a Dataset.
type Export struct {
	AnalogChannels []ExportChannel `json:"analogChannels"`
	StatusChannels []ExportChannel `json:"statusChannels"`
}

// ExportChannel holds the values of one channel.
type ExportChannel struct {
	Name string        `json:"name"`
	Data []ExportPoint `json:"data"`
}

// ExportPoint is one channel value. Value is a float64 for analog channels and
// a bool for status channels.
type ExportPoint struct {
	TimeStamp ExportTimeStamp `json:"timestamp"`
	Value     any             `json:"value"`
}

// ExportTimeStamp splits a timestamp into its whole-second base and its
// microsecond offset. Microseconds is nil when the record had no timestamp.
type ExportTimeStamp struct {
	Seconds      time.Time `json:"seconds"`
	Microseconds *float64  `json:"microseconds"`
}

// Export projects the dataset into its serializable form.
func (ds *Dataset) Export() Export {
	out := Export{
		AnalogChannels: make([]ExportChannel, 0, len(ds.Analog)),
		StatusChannels: make([]ExportChannel, 0, len(ds.Status)),
	}

	for _, series := range ds.Analog {
		ch := ExportChannel{Name: series.Channel.ID, Data: make([]ExportPoint, len(series.Points))}
		for i, p := range series.Points {
			ch.Data[i] = ExportPoint{TimeStamp: exportTimeStamp(p.TimeStamp), Value: p.Value}
		}
		out.AnalogChannels = append(out.AnalogChannels, ch)
	}

	for _, series := range ds.Status {
		ch := ExportChannel{Name: series.Channel.ID, Data: make([]ExportPoint, len(series.Points))}
		for i, p := range series.Points {
			ch.Data[i] = ExportPoint{TimeStamp: exportTimeStamp(p.TimeStamp), Value: p.Value}
		}
		out.StatusChannels = append(out.StatusChannels, ch)
	}

	return out
}

func exportTimeStamp(ts TimeStamp) ExportTimeStamp {
	out := ExportTimeStamp{Seconds: ts.Base}
	if ts.Known {
		micros := ts.Micros
		out.Microseconds = &micros
	}
	return out
}
