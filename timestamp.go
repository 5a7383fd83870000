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
	"math"
	"strconv"
	"strings"
	"time"
)

// MissingTimeStamp is the raw data file value of a record without a timestamp.
const MissingTimeStamp uint32 = 0xFFFFFFFF

// TimeStamp is a point in time made of a whole-second base and a microsecond
// offset. A TimeStamp that is not Known came from a record without a
// timestamp; it is anchored to the start of the recording and carries no
// offset.
type TimeStamp struct {
	Base   time.Time // Whole-second anchor, always UTC
	Micros float64   // Microseconds past Base
	Known  bool      // False for the missing timestamp marker
}

// ParseTimeStamp parses the configuration form "dd/mm/yyyy,hh:mm:ss.ssssss".
func ParseTimeStamp(s string) (TimeStamp, error) {
	fail := func(err error) (TimeStamp, error) {
		return TimeStamp{}, &ErrMalformedTimestamp{Value: s, Err: err}
	}

	datePart, timePart, ok := strings.Cut(s, separator)
	if !ok {
		return fail(errors.New("expected date and time separated by a comma"))
	}

	date := strings.Split(strings.TrimSpace(datePart), "/")
	if len(date) != 3 {
		return fail(errors.New("expected date as dd/mm/yyyy"))
	}
	clock := strings.Split(strings.TrimSpace(timePart), ":")
	if len(clock) != 3 {
		return fail(errors.New("expected time as hh:mm:ss.ssssss"))
	}

	day, err := parseDigits(date[0])
	if err != nil {
		return fail(fmt.Errorf("error parsing day: %w", err))
	}
	month, err := parseDigits(date[1])
	if err != nil {
		return fail(fmt.Errorf("error parsing month: %w", err))
	}
	year, err := parseDigits(date[2])
	if err != nil {
		return fail(fmt.Errorf("error parsing year: %w", err))
	}
	hour, err := parseDigits(clock[0])
	if err != nil {
		return fail(fmt.Errorf("error parsing hour: %w", err))
	}
	minute, err := parseDigits(clock[1])
	if err != nil {
		return fail(fmt.Errorf("error parsing minute: %w", err))
	}

	secPart, fracPart, hasFrac := strings.Cut(clock[2], ".")
	second, err := parseDigits(secPart)
	if err != nil {
		return fail(fmt.Errorf("error parsing second: %w", err))
	}
	var nanos int
	if hasFrac {
		if nanos, err = parseFraction(fracPart); err != nil {
			return fail(fmt.Errorf("error parsing fractional seconds: %w", err))
		}
	}

	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 || second > 59 {
		return fail(errors.New("date or time out of range"))
	}
	base := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date normalizes overflow, so a changed day means it did not exist.
	if base.Day() != day || base.Month() != time.Month(month) {
		return fail(fmt.Errorf("day %d does not exist in %04d-%02d", day, year, month))
	}

	return TimeStamp{Base: base, Micros: float64(nanos) / 1e3, Known: true}, nil
}

// Time returns the absolute time, false if the timestamp is not known.
func (ts TimeStamp) Time() (time.Time, bool) {
	if !ts.Known {
		return ts.Base, false
	}
	secs := math.Floor(ts.Micros / 1e6)
	nanos := math.Round((ts.Micros - secs*1e6) * 1e3)
	return time.Unix(ts.Base.Unix()+int64(secs), int64(nanos)).In(ts.Base.Location()), true
}

// Equal reports whether both timestamps are known and denote the same instant.
func (ts TimeStamp) Equal(other TimeStamp) bool {
	t1, ok1 := ts.Time()
	t2, ok2 := other.Time()
	return ok1 && ok2 && t1.Equal(t2)
}

// Before reports whether both timestamps are known and ts is before other.
func (ts TimeStamp) Before(other TimeStamp) bool {
	t1, ok1 := ts.Time()
	t2, ok2 := other.Time()
	return ok1 && ok2 && t1.Before(t2)
}

// String formats the timestamp the way it appears in a configuration file.
func (ts TimeStamp) String() string {
	t, _ := ts.Time()
	return fmt.Sprintf("%02d/%02d/%04d,%02d:%02d:%02d.%06d",
		t.Day(), t.Month(), t.Year(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e3)
}

// DecodeTimeStamp converts a raw data file timestamp into a TimeStamp relative
// to the start of the recording. Raw units times the time multiplier are
// microseconds.
func (c *Configuration) DecodeTimeStamp(raw uint32) TimeStamp {
	if raw == MissingTimeStamp {
		return TimeStamp{Base: c.StartTime.Base}
	}
	return TimeStamp{
		Base:   c.StartTime.Base,
		Micros: c.StartTime.Micros + float64(raw)*c.TimeMultiplier,
		Known:  true,
	}
}

// EncodeTimeStamp is the inverse of DecodeTimeStamp. Unknown timestamps and
// timestamps before the start of the recording encode as MissingTimeStamp.
func (c *Configuration) EncodeTimeStamp(ts TimeStamp) uint32 {
	if !ts.Known || c.TimeMultiplier <= 0 {
		return MissingTimeStamp
	}
	micros := ts.Micros - c.StartTime.Micros
	if !ts.Base.Equal(c.StartTime.Base) {
		micros += float64(ts.Base.Sub(c.StartTime.Base)) / 1e3
	}
	raw := math.Round(micros / c.TimeMultiplier)
	if raw < 0 || raw >= float64(MissingTimeStamp) {
		return MissingTimeStamp
	}
	return uint32(raw)
}

func parseDigits(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty value")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric value %q", s)
		}
	}
	return strconv.Atoi(s)
}

// parseFraction converts up to nine fractional second digits into nanoseconds.
func parseFraction(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) > 9 {
		return 0, fmt.Errorf("more than nanosecond precision in %q", s)
	}
	if s == "" {
		return 0, nil
	}
	n, err := parseDigits(s)
	if err != nil {
		return 0, err
	}
	for i := len(s); i < 9; i++ {
		n *= 10
	}
	return n, nil
}
