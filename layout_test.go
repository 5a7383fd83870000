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

	"github.com/OpenPSG/comtrade"
	"github.com/stretchr/testify/assert"
)

func TestRecordSize(t *testing.T) {
	tests := []struct {
		analog, status int
		words, size    int
	}{
		{0, 0, 0, 8},
		{1, 0, 0, 10},
		{0, 1, 1, 10},
		{2, 2, 1, 14},
		{1, 16, 1, 12},
		{2, 17, 2, 16},
		{3, 20, 2, 18},
		{8, 32, 2, 28},
		{8, 33, 3, 30},
	}
	for _, tt := range tests {
		cfg := &comtrade.Configuration{AnalogCount: tt.analog, StatusCount: tt.status}
		assert.Equal(t, tt.words, cfg.StatusWords(), "%dA %dD", tt.analog, tt.status)
		assert.Equal(t, tt.size, cfg.RecordSize(), "%dA %dD", tt.analog, tt.status)
	}
}
