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
	"encoding/binary"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// AnalogPrecision is the number of decimal places scaled analog values are
// rounded to. Halves round away from zero.
const AnalogPrecision = 4

// DecodeSample decodes one binary data record. Bytes past the record size are
// ignored; a short record is an ErrTruncatedRecord.
func (c *Configuration) DecodeSample(b []byte) (Sample, error) {
	if len(c.AnalogChannels) != c.AnalogCount {
		return Sample{}, &ErrMalformedConfiguration{Field: "##A",
			Reason: fmt.Sprintf("%d analog channels declared, %d defined", c.AnalogCount, len(c.AnalogChannels))}
	}
	if len(c.StatusChannels) != c.StatusCount {
		return Sample{}, &ErrMalformedConfiguration{Field: "##D",
			Reason: fmt.Sprintf("%d status channels declared, %d defined", c.StatusCount, len(c.StatusChannels))}
	}

	size := c.RecordSize()
	if len(b) < size {
		return Sample{}, &ErrTruncatedRecord{Size: len(b), Want: size}
	}

	s := Sample{
		Number:       binary.LittleEndian.Uint32(b[0:4]),
		TimeStamp:    c.DecodeTimeStamp(binary.LittleEndian.Uint32(b[4:8])),
		AnalogValues: make([]float64, c.AnalogCount),
		StatusValues: make([]bool, c.StatusCount),
	}

	for i := 0; i < c.AnalogCount; i++ {
		pos := analogOffset + i*analogValueSize
		raw := int16(binary.LittleEndian.Uint16(b[pos : pos+analogValueSize]))
		s.AnalogValues[i] = roundAnalog(c.AnalogChannels[i].Scale(raw))
	}

	// Status channels are packed 16 to a word, least significant bit first.
	// Unused high bits of the last word are dropped.
	base := c.statusOffset()
	for w := 0; w < c.StatusWords(); w++ {
		pos := base + w*statusWordSize
		word := binary.LittleEndian.Uint16(b[pos : pos+statusWordSize])
		for j := 0; j < statusWordBits && w*statusWordBits+j < c.StatusCount; j++ {
			s.StatusValues[w*statusWordBits+j] = (word>>j)&1 == 1
		}
	}

	return s, nil
}

func roundAnalog(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(AnalogPrecision).InexactFloat64()
}
