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

package nci

// AdapterParamValue holds the value of an adapter parameter
type AdapterParamValue struct {
	NFCID1 []byte
}

// AdapterParamSpec names an adapter parameter together with the value
// to set
type AdapterParamSpec struct {
	Value AdapterParamValue
	ID    AdapterParam
}

// ListParams returns the parameters this adapter understands
func (*Adapter) ListParams() []AdapterParam {
	return []AdapterParam{AdapterParamLaNFCID1}
}

// GetParam reads an adapter parameter from the core. Returns false
// when the parameter is unknown or unavailable.
func (a *Adapter) GetParam(id AdapterParam) (AdapterParamValue, bool) {
	if id == AdapterParamLaNFCID1 {
		if value, ok := a.core.GetParam(CoreParamLaNFCID1); ok {
			n := len(value.NFCID1)
			if n > NFCID1MaxLen {
				n = NFCID1MaxLen
			}
			return AdapterParamValue{
				NFCID1: append([]byte(nil), value.NFCID1[:n]...),
			}, true
		}
	}
	return AdapterParamValue{}, false
}

// SetParams writes adapter parameters through to the core. When reset
// is true, core parameters not present in the list revert to their
// defaults.
func (a *Adapter) SetParams(params []AdapterParamSpec, reset bool) {
	var laNFCID1 *AdapterParamValue
	for i := range params {
		if params[i].ID == AdapterParamLaNFCID1 {
			laNFCID1 = &params[i].Value
		}
	}

	if laNFCID1 != nil {
		var value CoreParamValue
		if n := len(laNFCID1.NFCID1); n > 0 {
			if n > NFCID1MaxLen {
				n = NFCID1MaxLen
			}
			value.NFCID1 = append([]byte(nil), laNFCID1.NFCID1[:n]...)
		}
		a.core.SetParams([]CoreParam{{Key: CoreParamLaNFCID1, Value: value}}, reset)
	} else if reset {
		a.core.SetParams(nil, true)
	}
}

// coreParamChanged re-broadcasts core parameter changes the framework
// cares about
func (a *Adapter) coreParamChanged(key CoreParamKey) {
	if key == CoreParamLaNFCID1 {
		a.fw.ParamChanged(AdapterParamLaNFCID1)
	}
}
