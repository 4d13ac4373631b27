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

import "fmt"

// Adapter reconciles the NCI core's RF state with the framework's
// logical endpoint model. One Adapter serves one NCI core for the
// lifetime of the NCI session.
//
// Thread Safety: Adapter is NOT thread-safe. See the package
// documentation.
type Adapter struct {
	core   Core
	fw     Framework
	sched  Scheduler
	config *AdapterConfig

	state      adapterState
	activeIntf *IntfInfo
	target     *Target
	initiator  *Initiator

	// Weak observations of framework-owned objects
	tag  Ref[Tag]
	peer Ref[Peer]
	host Ref[Host]

	desiredMode       OperatingMode
	currentMode       OperatingMode
	modeChangePending bool
	modeCheckPending  bool

	supportedTechs Tech
	activeTechs    Tech
	activeTechMask Tech

	presenceTimer       Timer
	presenceCheckID     uint
	ceReactivationTimer Timer

	removeHandlers []func()
	enabled        bool
	powered        bool
	closed         bool
}

// New creates an Adapter on top of the given NCI core. The framework
// receives the endpoint objects the adapter detects, and the scheduler
// carries all of the adapter's deferred work.
func New(core Core, fw Framework, sched Scheduler, opts ...Option) (*Adapter, error) {
	if core == nil || fw == nil || sched == nil {
		return nil, fmt.Errorf("%w: core, framework and scheduler are required",
			ErrInvalidParameter)
	}

	a := &Adapter{
		core:           core,
		fw:             fw,
		sched:          sched,
		config:         DefaultAdapterConfig(),
		state:          adapterIdle,
		activeTechMask: TechAll,
		enabled:        true,
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	a.supportedTechs = core.Tech()
	a.activeTechs = a.supportedTechs

	a.removeHandlers = []func(){
		core.OnCurrentStateChanged(a.currentStateChanged),
		core.OnNextStateChanged(a.nextStateChanged),
		core.OnIntfActivated(a.handleActivation),
		core.OnParamChanged(a.coreParamChanged),
	}
	return a, nil
}

// Close severs all endpoints and detaches the adapter from the NCI
// core. The adapter cannot be used afterwards.
func (a *Adapter) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.setInternalState(adapterIdle)
	a.dropAll()
	a.stopPresenceTimer()
	a.stopCEReactivationTimer()
	for _, remove := range a.removeHandlers {
		remove()
	}
	a.removeHandlers = nil
	return nil
}

// SetEnabled controls whether the adapter keeps RF discovery running
func (a *Adapter) SetEnabled(enabled bool) {
	if a.enabled != enabled {
		a.enabled = enabled
		a.stateCheck()
		a.scheduleModeCheck()
	}
}

// SetPowered reflects the power state of the underlying controller
func (a *Adapter) SetPowered(powered bool) {
	if a.powered != powered {
		a.powered = powered
		a.stateCheck()
		a.scheduleModeCheck()
	}
}

// Powered returns the power state last set with SetPowered
func (a *Adapter) Powered() bool {
	return a.powered
}

// SupportedModes returns the operating modes the adapter can run
func (*Adapter) SupportedModes() OperatingMode {
	return OperatingModeReaderWriter | OperatingModeP2PInitiator |
		OperatingModeP2PTarget | OperatingModeCardEmulation
}

// SupportedProtocols returns the tag protocols the adapter can
// represent as typed framework objects
func (*Adapter) SupportedProtocols() TagProtocol {
	return TagProtocolT2 | TagProtocolT4A | TagProtocolT4B | TagProtocolNfcDep
}

// Target returns the active Poll side endpoint, if any
func (a *Adapter) Target() *Target {
	return a.target
}

// Initiator returns the active Listen side endpoint, if any
func (a *Adapter) Initiator() *Initiator {
	return a.initiator
}

// setInternalState moves the state machine, logging the transition
func (a *Adapter) setInternalState(state adapterState) {
	if a.state != state {
		debugf("Internal state %s => %s", a.state, state)
		a.state = state
	}
}

// applyInput runs one transition of the adapter state machine
func (a *Adapter) applyInput(input smInput) {
	tr, ok := adapterTransitions[smKey{state: a.state, input: input}]
	if !ok {
		return
	}
	prev := a.state
	a.setInternalState(tr.next)
	a.runAction(tr.action, prev)
}

// runAction executes the work attached to a transition
func (a *Adapter) runAction(action smAction, prev adapterState) {
	switch action {
	case actionNone:
	case actionDropTarget:
		if prev == adapterReactivatingTarget {
			debugf("Different tag has arrived, dropping the old one")
		}
		a.dropTarget()
	case actionDropInitiator:
		debugf("Different initiator has arrived, dropping the old one")
		a.dropInitiator()
	case actionDropAll:
		a.dropAll()
	case actionTargetReactivated:
		debugf("Target reactivated")
		if a.target != nil {
			a.target.reactivated()
		}
	case actionCESpontaneous:
		if a.hostAlive() {
			debugf("CE host spontaneously reactivated")
			a.setInternalState(adapterReactivatedCE)
			a.initiator.reactivated()
		} else {
			debugf("Keeping initiator alive")
		}
	case actionCEReactivated:
		debugf("CE initiator reactivated")
		if a.initiator != nil {
			a.initiator.reactivated()
		}
	case actionCEKeepAlive:
		debugf("Keeping CE initiator alive")
		if a.initiator != nil {
			a.initiator.reactivated()
		}
	case actionCEDeactivated:
		a.ceDeactivated()
	case actionCERearm:
		a.startCEReactivationTimer()
	}
}

// hostAlive reports whether the framework still keeps the
// card-emulation host object
func (a *Adapter) hostAlive() bool {
	return refAlive(a.host)
}

// handleActivation is the state machine entry for an RF interface
// activation notification
func (a *Adapter) handleActivation(ntf *IntfActivationNtf) {
	// Any activation stops the CE reactivation timer if it's running
	a.stopCEReactivationTimer()

	input := inputActMismatch
	if a.activeIntf.Matches(ntf) {
		input = inputActMatch
	}
	a.applyInput(input)

	// Object detection
	if a.target == nil && a.initiator == nil {
		a.detect(ntf)
	}

	a.updatePresenceChecks()

	// If we don't know what this is, switch back to idle so that
	// discovery restarts
	if a.target == nil && a.initiator == nil {
		debugf("No idea what this is")
		a.core.SetState(RFStateIdle)
	}
}

// handleDeactivation is the state machine entry for a deactivation
// derived from the NCI state transitions
func (a *Adapter) handleDeactivation() {
	a.applyInput(inputDeactivate)
}

// ceDeactivated handles a deactivation while a Listen side endpoint is
// present
func (a *Adapter) ceDeactivated() {
	if !a.hostAlive() {
		a.setInternalState(adapterIdle)
		a.dropAll()
		return
	}

	ceTech := TechNone
	switch a.initiator.Technology {
	case TechnologyA:
		ceTech = TechAListen
	case TechnologyB:
		ceTech = TechBListen
	}

	a.setInternalState(adapterReactivatingCE)
	a.startCEReactivationTimer()

	// The same technology must be used for reactivation, otherwise
	// the peer may not (and most likely won't) recognize us as the
	// same card.
	if ceTech != TechNone {
		tech := a.activeTechs & ceTech
		a.activeTechMask = ceTech
		a.core.SetTech(tech)
	}
}

// startCEReactivationTimer opens (or re-opens) the card-emulation
// reactivation window
func (a *Adapter) startCEReactivationTimer() {
	if a.ceReactivationTimer != nil {
		debugf("Restarting CE reactivation timer")
		a.ceReactivationTimer.Stop()
	} else {
		debugf("Starting CE reactivation timer")
	}
	a.ceReactivationTimer = a.sched.After(a.config.CEReactivationTimeout,
		a.ceReactivationTimedOut)
}

func (a *Adapter) stopCEReactivationTimer() {
	if a.ceReactivationTimer != nil {
		a.ceReactivationTimer.Stop()
		a.ceReactivationTimer = nil
	}
}

func (a *Adapter) ceReactivationTimedOut() {
	debugf("CE reactivation timeout has expired")
	a.ceReactivationTimer = nil
	a.applyInput(inputCETimeout)
}

// setActiveIntf snapshots the activation the current endpoint came
// from
func (a *Adapter) setActiveIntf(ntf *IntfActivationNtf) {
	a.activeIntf = NewIntfInfo(ntf)
}

func (a *Adapter) clearActiveIntf() {
	a.activeIntf = nil
}

// dropTarget tears down the Poll side endpoint. The weak tag and peer
// observations are cleared first, then the target is severed and the
// framework notified.
func (a *Adapter) dropTarget() {
	t := a.target
	if t == nil {
		return
	}
	a.target = nil
	a.clearActiveIntf()
	a.stopPresenceTimer()
	a.peer = nil
	a.tag = nil
	if a.presenceCheckID != 0 {
		t.CancelTransmit(a.presenceCheckID)
		a.presenceCheckID = 0
	}
	infof("Target is gone")
	t.gone()
}

// dropInitiator tears down the Listen side endpoint and restores the
// technology mask that card-emulation reactivation may have narrowed
func (a *Adapter) dropInitiator() {
	i := a.initiator
	if i == nil {
		return
	}
	a.initiator = nil
	a.activeTechMask = TechAll
	a.clearActiveIntf()
	a.stopCEReactivationTimer()
	a.peer = nil
	a.host = nil
	a.core.SetTech(a.activeTechs)
	infof("Initiator is gone")
	i.gone()
}

func (a *Adapter) dropAll() {
	a.dropTarget()
	a.dropInitiator()
}

// currentStateChanged reacts to an NCI current state change
func (a *Adapter) currentStateChanged() {
	a.stateCheck()
	a.modeCheck()
}

// nextStateChanged reacts to an NCI next state change. Transitions out
// of an active state are deactivations; transitions to a state the
// adapter does not track force a full teardown.
func (a *Adapter) nextStateChanged() {
	current := a.core.CurrentState()
	switch a.core.NextState() {
	case RFStateIdle:
		if current > RFStateIdle {
			a.handleDeactivation()
		}
	case RFStateDiscovery:
		if current != RFStateIdle {
			a.handleDeactivation()
		}
	case RFStateW4AllDiscoveries, RFStateW4HostSelect,
		RFStatePollActive, RFStateListenActive, RFStateListenSleep:
	default:
		a.setInternalState(adapterIdle)
		a.dropAll()
	}
	a.stateCheck()
	a.modeCheck()
}

// stateCheck re-kicks discovery when the core settled in idle while
// the adapter wants it running. The core may drop to RFST_IDLE in the
// process of changing the operation mode or active technologies.
func (a *Adapter) stateCheck() {
	if a.core.CurrentState() == RFStateIdle &&
		a.core.NextState() == RFStateIdle &&
		a.enabled && a.powered {
		a.core.SetState(RFStateDiscovery)
	}
}

// Reactivate deliberately reselects the Poll side endpoint, e.g. to
// reset a tag. It is only allowed while the endpoint is settled: the
// adapter must hold the target, and the core must sit in an active RF
// state with no transition in progress. The next activation is
// expected to match the stored interface snapshot.
func (a *Adapter) Reactivate(t *Target) bool {
	if t != nil && a.target == t && a.activeIntf != nil &&
		a.state == adapterHaveTarget {
		current := a.core.CurrentState()
		next := a.core.NextState()
		if (current == RFStatePollActive && next == RFStatePollActive) ||
			(current == RFStateListenActive && next == RFStateListenActive) {
			debugf("Reactivating the interface")
			a.setInternalState(adapterReactivatingTarget)
			// Stop presence checks for the time being
			a.stopPresenceTimer()
			// Switch to discovery and expect the same endpoint to
			// reappear
			a.core.SetState(RFStateDiscovery)
			return true
		}
	}
	warnf("Can't reactivate the tag in this state")
	return false
}

// DeactivateTarget drops the Poll side endpoint and, while powered,
// returns the core to discovery
func (a *Adapter) DeactivateTarget(t *Target) {
	if t != nil && a.target == t {
		a.setInternalState(adapterIdle)
		a.dropTarget()
		if a.powered {
			a.core.SetState(RFStateDiscovery)
		}
	}
}

// DeactivateInitiator drops the Listen side endpoint and, while
// powered, returns the core to discovery
func (a *Adapter) DeactivateInitiator(i *Initiator) {
	if i != nil && a.initiator == i {
		a.setInternalState(adapterIdle)
		a.dropInitiator()
		if a.powered {
			a.core.SetState(RFStateDiscovery)
		}
	}
}
