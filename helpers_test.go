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
	"encoding/binary"
	"strings"
)

// recordingLines is a 1999 configuration with two analog and two status channels.
var recordingLines = []string{
	"STATION A,RELAY 7,1999",
	"4,2A,2D",
	"1,IA,A,Line1,A,0.5,1.0,0,-32767,32767,1000,1,S",
	"2,VA,A,Line1,kV,0.01,0,,-32767,32767,110,0.1,P",
	"1,TRIP,,,0",
	"2,BRK OPEN,A,CB1,1",
	"50",
	"1",
	"1200,3",
	"15/03/2021,10:20:30.500000",
	"15/03/2021,10:20:30.520000",
	"BINARY",
	"1.0",
}

func configText(lines []string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}

// withLine returns a copy of lines with line i (0-based) replaced.
func withLine(lines []string, i int, line string) []string {
	out := append([]string(nil), lines...)
	out[i] = line
	return out
}

// record assembles a binary data record.
func record(number, ts uint32, analog []int16, status ...uint16) []byte {
	b := make([]byte, 8+2*len(analog)+2*len(status))
	binary.LittleEndian.PutUint32(b[0:4], number)
	binary.LittleEndian.PutUint32(b[4:8], ts)
	for i, v := range analog {
		binary.LittleEndian.PutUint16(b[8+2*i:], uint16(v))
	}
	for i, w := range status {
		binary.LittleEndian.PutUint16(b[8+2*len(analog)+2*i:], w)
	}
	return b
}
