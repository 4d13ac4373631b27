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

// needPresenceChecks reports whether the active endpoint wants
// periodic liveness probing. NFC-DEP presence checks are done at LLCP
// level by the framework.
func (a *Adapter) needPresenceChecks() bool {
	return a.target != nil && a.activeIntf != nil &&
		a.activeIntf.protocol != ProtocolNfcDep
}

// updatePresenceChecks arms or disarms the presence check timer to
// match the active endpoint
func (a *Adapter) updatePresenceChecks() {
	if a.needPresenceChecks() {
		if a.presenceTimer == nil {
			a.presenceTimer = a.sched.Every(a.config.PresenceCheckPeriod,
				a.presenceCheckTick)
		}
	} else {
		a.stopPresenceTimer()
	}
}

func (a *Adapter) stopPresenceTimer() {
	if a.presenceTimer != nil {
		a.presenceTimer.Stop()
		a.presenceTimer = nil
	}
}

// presenceCheckTick issues one presence probe. A probe already in
// flight, a busy data path, or a sequence that forbids interleaved
// probes skips the tick. A probe that cannot even be started means the endpoint is
// beyond reach: give up and return to discovery.
func (a *Adapter) presenceCheckTick() {
	t := a.target
	if t == nil {
		return
	}

	allowed := t.Sequence == nil ||
		t.Sequence.Flags()&SequenceFlagAllowPresenceCheck != 0
	if a.presenceCheckID != 0 || !allowed || t.TransmitInProgress() {
		debugf("Skipped presence check")
		return
	}

	id := t.presenceCheck(a.presenceCheckDone)
	if id == 0 {
		debugf("Failed to start presence check")
		a.stopPresenceTimer()
		a.core.SetState(RFStateDiscovery)
		return
	}
	a.presenceCheckID = id
}

// presenceCheckDone handles the probe outcome; a failed probe drops
// the endpoint
func (a *Adapter) presenceCheckDone(ok bool) {
	if ok {
		debugf("Presence check ok")
	} else {
		debugf("Presence check failed")
	}
	a.presenceCheckID = 0
	if !ok {
		a.DeactivateTarget(a.target)
	}
}
