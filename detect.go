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

// detect runs object detection on a fresh activation: decide what kind
// of endpoint the activation describes and ask the framework to create
// the matching object. On the Poll side a Target carries the data
// path; on the Listen side an Initiator does. When nothing claims the
// activation, no endpoint is kept and the caller returns the core to
// idle.
func (a *Adapter) detect(ntf *IntfActivationNtf) {
	if t := newTarget(a, ntf); t != nil {
		a.target = t
		a.setInternalState(adapterHaveTarget)
		a.setActiveIntf(ntf)

		// Check if it's a peer interface
		if !a.createPeerInitiator(t, ntf) {
			// Otherwise assume a tag
			if !a.createKnownTag(t, ntf) {
				a.tag = a.fw.AddOtherTag(t, pollParam(ntf))
			}
		}
		return
	}

	// Try initiator then
	if i := newInitiator(ntf); i != nil {
		i.adapter = a
		if a.createPeerTarget(i, ntf) || a.createHost(i, ntf) {
			// Keep the initiator
			a.initiator = i
			a.setActiveIntf(ntf)
			a.setInternalState(adapterHaveInitiator)
		}
	}
}

// createPeerInitiator registers a Poll side NFC-DEP peer, returning
// true when the framework accepted one
func (a *Adapter) createPeerInitiator(t *Target, ntf *IntfActivationNtf) bool {
	if ntf.Protocol != ProtocolNfcDep || ntf.RFIntf != RFInterfaceNfcDep {
		return false
	}

	var peer Ref[Peer]
	switch ntf.Mode {
	case ModePassivePollA, ModeActivePollA:
		peer = a.fw.AddPeerInitiatorA(t, pollAParam(ntf.ModeParam),
			nfcDepInitiatorParam(ntf.ActivationParam))
	case ModePassivePollF, ModeActivePollF:
		peer = a.fw.AddPeerInitiatorF(t, pollFParam(ntf.ModeParam),
			nfcDepInitiatorParam(ntf.ActivationParam))
	}
	a.peer = peer
	return refAlive(peer)
}

// createKnownTag registers a typed tag for the protocols the framework
// has dedicated factories for, returning true when one accepted
func (a *Adapter) createKnownTag(t *Target, ntf *IntfActivationNtf) bool {
	var tag Ref[Tag]

	// Figure out what kind of endpoint we are dealing with
	switch ntf.Protocol {
	case ProtocolT2T:
		if ntf.RFIntf == RFInterfaceFrame {
			switch ntf.Mode {
			case ModePassivePollA, ModeActivePollA:
				// Type 2 tag
				tag = a.fw.AddTagT2(t, pollAParam(ntf.ModeParam))
			}
		}
	case ProtocolIsoDep:
		if ntf.RFIntf == RFInterfaceIsoDep {
			switch ntf.Mode {
			case ModePassivePollA:
				// ISO-DEP Type 4A
				tag = a.fw.AddTagT4A(t, pollAParam(ntf.ModeParam),
					isoDepPollAParam(ntf.ActivationParam))
			case ModePassivePollB:
				// ISO-DEP Type 4B
				tag = a.fw.AddTagT4B(t, pollBParam(ntf.ModeParam),
					isoDepPollBParam(ntf.ActivationParam))
			}
		}
	}
	a.tag = tag
	return refAlive(tag)
}

// createPeerTarget registers a Listen side NFC-DEP peer, returning
// true when the framework accepted one
func (a *Adapter) createPeerTarget(i *Initiator, ntf *IntfActivationNtf) bool {
	if ntf.RFIntf != RFInterfaceNfcDep {
		return false
	}

	var peer Ref[Peer]
	switch ntf.Mode {
	case ModePassiveListenA, ModeActiveListenA:
		peer = a.fw.AddPeerTargetA(i, nil,
			nfcDepTargetParam(ntf.ActivationParam))
	case ModePassiveListenF, ModeActiveListenF:
		peer = a.fw.AddPeerTargetF(i, listenFParam(ntf.ModeParam),
			nfcDepTargetParam(ntf.ActivationParam))
	}
	a.peer = peer
	return refAlive(peer)
}

// createHost registers the card-emulation host for an external reader
// that selected us over ISO-DEP, returning true when the framework
// accepted it
func (a *Adapter) createHost(i *Initiator, ntf *IntfActivationNtf) bool {
	if ntf.RFIntf != RFInterfaceIsoDep {
		return false
	}
	a.host = a.fw.AddHost(i)
	return refAlive(a.host)
}
