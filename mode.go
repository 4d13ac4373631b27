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

// SubmitModeRequest translates the requested operating modes into an
// NCI operation mode and pushes it to the core. The change is
// confirmed asynchronously through Framework.ModeChanged once the core
// settles.
func (a *Adapter) SubmitModeRequest(mode OperatingMode) bool {
	op := OpModeNone
	if mode&OperatingModeReaderWriter != 0 {
		op |= OpModeRW | OpModePoll
	}
	if mode&OperatingModeP2PInitiator != 0 {
		op |= OpModePeer | OpModePoll
	}
	if mode&OperatingModeP2PTarget != 0 {
		op |= OpModePeer | OpModeListen
	}
	if mode&OperatingModeCardEmulation != 0 {
		op |= OpModeCE | OpModeListen
	}

	a.desiredMode = mode
	a.modeChangePending = true
	a.core.SetOpMode(op)
	if op != OpModeNone && a.powered {
		a.core.SetState(RFStateDiscovery)
	}
	a.scheduleModeCheck()
	return true
}

// CancelModeRequest withdraws a pending mode request
func (a *Adapter) CancelModeRequest() {
	a.modeChangePending = false
	a.scheduleModeCheck()
}

// scheduleModeCheck coalesces mode checks into a single deferred run
func (a *Adapter) scheduleModeCheck() {
	if !a.modeCheckPending {
		a.modeCheckPending = true
		a.sched.Post(func() {
			a.modeCheckPending = false
			if !a.closed {
				a.modeCheck()
			}
		})
	}
}

// modeCheck publishes the effective operating mode. While the core
// sits in idle the effective mode is none regardless of what was
// requested.
func (a *Adapter) modeCheck() {
	mode := OperatingModeNone
	if a.core.CurrentState() > RFStateIdle {
		mode = a.desiredMode
	}
	if a.modeChangePending {
		if mode == a.desiredMode {
			a.modeChangePending = false
			a.currentMode = mode
			a.fw.ModeChanged(mode, true)
		}
	} else if a.currentMode != mode {
		a.currentMode = mode
		a.fw.ModeChanged(mode, false)
	}
}

// SupportedTechs returns the framework technologies the controller
// supports
func (a *Adapter) SupportedTechs() Technology {
	techs := TechnologyUnknown
	if a.supportedTechs&TechA != 0 {
		techs |= TechnologyA
	}
	if a.supportedTechs&TechB != 0 {
		techs |= TechnologyB
	}
	if a.supportedTechs&TechF != 0 {
		techs |= TechnologyF
	}
	return techs
}

// SetAllowedTechs restricts discovery to a subset of the A/B/F
// technologies. Technologies outside that set are unaffected. The
// result is further narrowed by the card-emulation technology lock,
// which is set when a card-emulation initiator with a live host is
// deactivated and lifted only when that initiator is dropped.
func (a *Adapter) SetAllowedTechs(techs Technology) {
	affected := TechA | TechB | TechF

	a.activeTechs = a.supportedTechs &^ affected
	if techs&TechnologyA != 0 {
		a.activeTechs |= a.supportedTechs & TechA
	}
	if techs&TechnologyB != 0 {
		a.activeTechs |= a.supportedTechs & TechB
	}
	if techs&TechnologyF != 0 {
		a.activeTechs |= a.supportedTechs & TechF
	}
	a.core.SetTech(a.activeTechs & a.activeTechMask)
}
