// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package comtrade

import "fmt"

// ErrMalformedChannelLine is returned when a channel definition line has too
// few fields or a required numeric field that does not parse.
type ErrMalformedChannelLine struct {
	Line   int    // 1-based line number in the configuration, 0 if unknown
	Kind   string // "analog" or "status"
	Index  int    // 1-based position of the channel within its kind, 0 if unknown
	Field  string // Offending field, empty when the field count is wrong
	Reason string
	Err    error
}

func (e *ErrMalformedChannelLine) Error() string {
	msg := fmt.Sprintf("malformed %s channel line", e.Kind)
	if e.Line > 0 {
		msg += fmt.Sprintf(" %d", e.Line)
	}
	if e.Index > 0 {
		msg += fmt.Sprintf(" (channel %d)", e.Index)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": field %s", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrMalformedChannelLine) Unwrap() error { return e.Err }

// ErrMalformedTimestamp is returned when a textual timestamp cannot be decomposed
// into a valid calendar date and time of day.
type ErrMalformedTimestamp struct {
	Line  int // 1-based line number in the configuration, 0 if unknown
	Value string
	Err   error
}

func (e *ErrMalformedTimestamp) Error() string {
	msg := fmt.Sprintf("malformed timestamp %q", e.Value)
	if e.Line > 0 {
		msg += fmt.Sprintf(" on line %d", e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrMalformedTimestamp) Unwrap() error { return e.Err }

// ErrMalformedConfiguration is returned when the configuration text violates
// the line grammar: wrong line terminators, a missing line, a missing channel
// count suffix, or a scalar field that does not parse.
type ErrMalformedConfiguration struct {
	Line   int // 1-based line number, 0 when the problem is not tied to a line
	Field  string
	Reason string
	Err    error
}

func (e *ErrMalformedConfiguration) Error() string {
	msg := "malformed configuration"
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": field %s", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrMalformedConfiguration) Unwrap() error { return e.Err }

// ErrConfigurationIncomplete is returned when a required configuration field
// is present in the grammar but empty.
type ErrConfigurationIncomplete struct {
	Line  int
	Field string
}

func (e *ErrConfigurationIncomplete) Error() string {
	return fmt.Sprintf("incomplete configuration: missing %s on line %d", e.Field, e.Line)
}

// ErrTruncatedRecord is returned when a data record window is shorter than the
// record size derived from the configuration.
type ErrTruncatedRecord struct {
	Offset int64 // Byte offset of the record in the data file
	Size   int   // Bytes available
	Want   int   // Record size
}

func (e *ErrTruncatedRecord) Error() string {
	return fmt.Sprintf("truncated record at offset %d: have %d bytes, want %d", e.Offset, e.Size, e.Want)
}
