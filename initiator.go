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

// Initiator is the logical endpoint for a remote device seen on the
// Listen side: a peer-to-peer initiator, or an external reader
// addressing the local card-emulation host. Initiators are created by
// the adapter when a Listen side RF interface is activated.
type Initiator struct {
	// Technology is the NFC technology the remote device used
	Technology Technology

	// OnGone is called once when the remote device is gone
	OnGone func()

	// OnReactivated is called when the remote device reselects the
	// local endpoint after a transient deactivation
	OnReactivated func()

	adapter *Adapter
}

// technologyForListenMode maps a Listen side activation mode to the
// framework technology
func technologyForListenMode(mode Mode) Technology {
	switch mode {
	case ModePassiveListenA, ModeActiveListenA:
		return TechnologyA
	case ModePassiveListenB:
		return TechnologyB
	case ModePassiveListenF, ModeActiveListenF:
		return TechnologyF
	default:
		return TechnologyUnknown
	}
}

// newInitiator builds an Initiator for a Listen side activation, or
// returns nil for Poll side and unknown modes
func newInitiator(ntf *IntfActivationNtf) *Initiator {
	tech := technologyForListenMode(ntf.Mode)
	if tech == TechnologyUnknown {
		return nil
	}
	return &Initiator{Technology: tech}
}

// Deactivate drops the endpoint and returns the adapter to discovery
func (i *Initiator) Deactivate() {
	if a := i.adapter; a != nil {
		a.DeactivateInitiator(i)
	}
}

// gone severs the initiator from the adapter and tells the framework
// the remote device is no longer there
func (i *Initiator) gone() {
	i.adapter = nil
	if i.OnGone != nil {
		i.OnGone()
	}
}

// reactivated notifies the framework that the remote device reselected
// the local endpoint
func (i *Initiator) reactivated() {
	if i.OnReactivated != nil {
		i.OnReactivated()
	}
}
