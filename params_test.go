// go-nci
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-nci.
//
// go-nci is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-nci is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-nci; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package nci_test

import (
	"testing"

	nci "github.com/ZaparooProject/go-nci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListParams(t *testing.T) {
	t.Parallel()
	adapter, _, _, _ := newTestAdapter(t)
	assert.Equal(t, []nci.AdapterParam{nci.AdapterParamLaNFCID1}, adapter.ListParams())
}

func TestGetParam(t *testing.T) {
	t.Parallel()

	t.Run("LaNFCID1", func(t *testing.T) {
		t.Parallel()
		adapter, core, _, _ := newTestAdapter(t)
		core.Params[nci.CoreParamLaNFCID1] = nci.CoreParamValue{
			NFCID1: []byte{0x04, 0x11, 0x22, 0x33},
		}
		value, ok := adapter.GetParam(nci.AdapterParamLaNFCID1)
		require.True(t, ok)
		assert.Equal(t, []byte{0x04, 0x11, 0x22, 0x33}, value.NFCID1)
	})

	t.Run("CappedAtMaxLength", func(t *testing.T) {
		t.Parallel()
		adapter, core, _, _ := newTestAdapter(t)
		long := make([]byte, nci.NFCID1MaxLen+4)
		core.Params[nci.CoreParamLaNFCID1] = nci.CoreParamValue{NFCID1: long}
		value, ok := adapter.GetParam(nci.AdapterParamLaNFCID1)
		require.True(t, ok)
		assert.Len(t, value.NFCID1, nci.NFCID1MaxLen)
	})

	t.Run("Unavailable", func(t *testing.T) {
		t.Parallel()
		adapter, _, _, _ := newTestAdapter(t)
		_, ok := adapter.GetParam(nci.AdapterParamLaNFCID1)
		assert.False(t, ok)
	})

	t.Run("UnknownParam", func(t *testing.T) {
		t.Parallel()
		adapter, _, _, _ := newTestAdapter(t)
		_, ok := adapter.GetParam(nci.AdapterParam(0x7F))
		assert.False(t, ok)
	})
}

func TestSetParams(t *testing.T) {
	t.Parallel()

	t.Run("LaNFCID1", func(t *testing.T) {
		t.Parallel()
		adapter, core, _, _ := newTestAdapter(t)
		adapter.SetParams([]nci.AdapterParamSpec{{
			ID:    nci.AdapterParamLaNFCID1,
			Value: nci.AdapterParamValue{NFCID1: []byte{0x08, 0x01, 0x02, 0x03}},
		}}, true)

		require.Len(t, core.ParamsSet, 1)
		call := core.ParamsSet[0]
		assert.True(t, call.Reset)
		require.Len(t, call.Params, 1)
		assert.Equal(t, nci.CoreParamLaNFCID1, call.Params[0].Key)
		assert.Equal(t, []byte{0x08, 0x01, 0x02, 0x03}, call.Params[0].Value.NFCID1)
	})

	t.Run("ResetWithoutValues", func(t *testing.T) {
		t.Parallel()
		adapter, core, _, _ := newTestAdapter(t)
		adapter.SetParams(nil, true)
		require.Len(t, core.ParamsSet, 1)
		assert.True(t, core.ParamsSet[0].Reset)
		assert.Empty(t, core.ParamsSet[0].Params)
	})

	t.Run("NothingToDo", func(t *testing.T) {
		t.Parallel()
		adapter, core, _, _ := newTestAdapter(t)
		adapter.SetParams(nil, false)
		assert.Empty(t, core.ParamsSet)
	})
}

func TestParamChangeNotification(t *testing.T) {
	t.Parallel()
	_, core, fw, _ := newTestAdapter(t)

	core.FireParamChanged(nci.CoreParamLaNFCID1)
	assert.Equal(t, []nci.AdapterParam{nci.AdapterParamLaNFCID1}, fw.ParamChanges)

	// Other core parameters are not re-broadcast
	core.FireParamChanged(nci.CoreParamKey(0x55))
	assert.Len(t, fw.ParamChanges, 1)
}
