// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package comtrade

const (
	sampleNumberSize = 4
	timeStampSize    = 4
	analogValueSize  = 2
	statusWordSize   = 2
	statusWordBits   = 16

	// Byte offset of the first analog value in a record.
	analogOffset = sampleNumberSize + timeStampSize
)

// StatusWords returns the number of 16-bit words holding the status channels.
func (c *Configuration) StatusWords() int {
	return (c.StatusCount + statusWordBits - 1) / statusWordBits
}

// RecordSize returns the size in bytes of one binary data record.
func (c *Configuration) RecordSize() int {
	return analogOffset + c.AnalogCount*analogValueSize + c.StatusWords()*statusWordSize
}

// statusOffset returns the byte offset of the first status word in a record.
func (c *Configuration) statusOffset() int {
	return analogOffset + c.AnalogCount*analogValueSize
}
