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
	"fmt"
	"strconv"
	"strings"
)

const (
	separator = ","

	analogChannelFields = 13
	statusChannelFields = 5
)

// ParseAnalogChannel parses an analog channel definition line:
//
//	An,ch_id,ph,ccbm,uu,a,b,skew,min,max,primary,secondary,PS
func ParseAnalogChannel(line string) (AnalogChannel, error) {
	parts := strings.Split(line, separator)
	if len(parts) < analogChannelFields {
		return AnalogChannel{}, &ErrMalformedChannelLine{
			Kind:   "analog",
			Reason: fmt.Sprintf("expected %d fields, got %d", analogChannelFields, len(parts)),
		}
	}

	var ch AnalogChannel
	var err error
	fail := func(field string, err error) (AnalogChannel, error) {
		return AnalogChannel{}, &ErrMalformedChannelLine{Kind: "analog", Field: field, Err: err}
	}

	if ch.Index, err = parseIndex(parts[0]); err != nil {
		return fail("n", err)
	}
	ch.ID = parts[1]
	ch.Phase = parts[2]
	ch.Component = parts[3]
	ch.Unit = parts[4]
	if ch.A, err = parseFloat(parts[5]); err != nil {
		return fail("a", err)
	}
	if ch.B, err = parseFloat(parts[6]); err != nil {
		return fail("b", err)
	}
	ch.Skew = parts[7]
	if ch.Min, err = parseFloat(parts[8]); err != nil {
		return fail("min", err)
	}
	if ch.Max, err = parseFloat(parts[9]); err != nil {
		return fail("max", err)
	}
	if ch.Primary, err = parseFloat(parts[10]); err != nil {
		return fail("primary", err)
	}
	if ch.Secondary, err = parseFloat(parts[11]); err != nil {
		return fail("secondary", err)
	}
	ch.Scaling = Scaling(parts[12])

	return ch, nil
}

// ParseStatusChannel parses a status channel definition line:
//
//	Dn,ch_id,ph,ccbm,y
func ParseStatusChannel(line string) (StatusChannel, error) {
	parts := strings.Split(line, separator)
	if len(parts) < statusChannelFields {
		return StatusChannel{}, &ErrMalformedChannelLine{
			Kind:   "status",
			Reason: fmt.Sprintf("expected %d fields, got %d", statusChannelFields, len(parts)),
		}
	}

	var ch StatusChannel
	var err error
	if ch.Index, err = parseIndex(parts[0]); err != nil {
		return StatusChannel{}, &ErrMalformedChannelLine{Kind: "status", Field: "n", Err: err}
	}
	ch.ID = parts[1]
	ch.Phase = parts[2]
	ch.Component = parts[3]

	y, err := strconv.Atoi(strings.TrimSpace(parts[4]))
	if err != nil {
		return StatusChannel{}, &ErrMalformedChannelLine{Kind: "status", Field: "y", Err: err}
	}
	if y != 0 && y != 1 {
		return StatusChannel{}, &ErrMalformedChannelLine{Kind: "status", Field: "y", Reason: fmt.Sprintf("normal state must be 0 or 1, got %d", y)}
	}
	ch.NormalState = y == 1

	return ch, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("index must be positive, got %d", n)
	}
	return n, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
