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

import "time"

// transmitFinishFunc delivers a received payload according to the
// framing rules of the active RF interface. It returns false when the
// payload must be failed instead.
type transmitFinishFunc func(t *Target, payload []byte) bool

// presenceCheckFunc issues the protocol-specific presence probe and
// returns the transmit handle, or 0 if the probe could not be started
type presenceCheckFunc func(t *Target, done func(ok bool)) uint

// Target is the data-path object for a remote endpoint seen on the
// Poll side: a tag under a reader/writer, or the target of a
// peer-to-peer initiator. Targets are created by the adapter when an
// RF interface is activated and live until the endpoint is gone.
//
// Thread Safety: Target is NOT thread-safe. See the package
// documentation.
type Target struct {
	// Technology is the NFC technology the endpoint was found on
	Technology Technology

	// Protocol is the framework-level protocol of the endpoint
	Protocol TagProtocol

	// TransmitTimeout bounds a single transmission. Zero disables the
	// timeout; NFC-DEP targets rely on NCI-level interface error
	// notifications instead.
	TransmitTimeout time.Duration

	// Sequence is the framework transaction sequence currently active
	// on this target, if any
	Sequence Sequence

	// OnGone is called once when the endpoint is gone
	OnGone func()

	// OnReactivated is called when a deliberate reactivation of the
	// endpoint completes
	OnReactivated func()

	adapter           *Adapter
	removeDataHandler func()
	presenceCheckFn   presenceCheckFunc
	transmitFinishFn  transmitFinishFunc

	transmitDone       TransmitDone
	timeoutTimer       Timer
	pendingReply       []byte
	nextTransmitID     uint
	transmitID         uint
	sendInProgress     SendHandle
	transmitInProgress bool
	pendingReplySet    bool
}

// technologyForPollMode maps a Poll side activation mode to the
// framework technology
func technologyForPollMode(mode Mode) Technology {
	switch mode {
	case ModePassivePollA, ModeActivePollA:
		return TechnologyA
	case ModePassivePollB:
		return TechnologyB
	case ModePassivePollF, ModeActivePollF:
		return TechnologyF
	default:
		return TechnologyUnknown
	}
}

// newTarget builds a Target for an activation, or returns nil when the
// combination of mode, protocol and RF interface is not one the data
// path supports
func newTarget(a *Adapter, ntf *IntfActivationNtf) *Target {
	tech := technologyForPollMode(ntf.Mode)
	if tech == TechnologyUnknown {
		return nil
	}

	protocol := TagProtocolUnknown
	var presenceCheck presenceCheckFunc

	switch ntf.Protocol {
	case ProtocolT1T:
		protocol = TagProtocolT1
	case ProtocolT2T:
		protocol = TagProtocolT2
		presenceCheck = presenceCheckT2
	case ProtocolT3T:
		protocol = TagProtocolT3
	case ProtocolIsoDep:
		presenceCheck = presenceCheckT4
		switch tech {
		case TechnologyA:
			protocol = TagProtocolT4A
		case TechnologyB:
			protocol = TagProtocolT4B
		default:
			debugf("Unexpected ISO-DEP technology")
		}
	case ProtocolNfcDep:
		protocol = TagProtocolNfcDep
	default:
		debugf("Unsupported protocol 0x%02x", uint8(ntf.Protocol))
	}
	if protocol == TagProtocolUnknown {
		return nil
	}

	var transmitFinish transmitFinishFunc
	var txTimeout time.Duration

	switch ntf.RFIntf {
	case RFInterfaceFrame:
		switch ntf.Protocol {
		case ProtocolNfcDep:
			debugf("Frame interface not supported for NFC-DEP")
		case ProtocolIsoDep:
			debugf("Frame interface not supported for ISO-DEP")
		default:
			transmitFinish = transmitFinishFrame
			txTimeout = a.config.TransmitTimeout
		}
	case RFInterfaceIsoDep:
		transmitFinish = transmitFinishIsoDep
		txTimeout = a.config.IsoDepTransmitTimeout
	case RFInterfaceNfcDep:
		// Rely on CORE_INTERFACE_ERROR_NTF
		transmitFinish = transmitFinishNfcDep
		txTimeout = 0
	default:
		debugf("Unsupported RF interface 0x%02x", uint8(ntf.RFIntf))
	}
	if transmitFinish == nil {
		return nil
	}

	t := &Target{
		Technology:       tech,
		Protocol:         protocol,
		TransmitTimeout:  txTimeout,
		adapter:          a,
		presenceCheckFn:  presenceCheck,
		transmitFinishFn: transmitFinish,
	}
	t.removeDataHandler = a.core.OnDataPacket(t.dataPacket)
	return t
}

// Transmit sends a payload to the remote endpoint and arranges for
// done to be called exactly once with the outcome, unless the
// transmission is cancelled first. The sequence, when not nil, becomes
// the target's active sequence. Returns a handle for CancelTransmit.
//
// Only one transmission may be outstanding at a time; starting another
// one before the previous completed is a caller bug and is refused.
func (t *Target) Transmit(data []byte, seq Sequence, done TransmitDone) (uint, error) {
	if t.transmitInProgress || t.sendInProgress != 0 {
		warnf("Transmit attempted while another is in progress")
		return 0, ErrTransmitInProgress
	}
	a := t.adapter
	if a == nil {
		return 0, ErrTargetDetached
	}
	if seq != nil {
		t.Sequence = seq
	}

	handle := a.core.SendData(StaticRFConnID, data, t.dataSent)
	if handle == 0 {
		return 0, ErrSendFailed
	}
	t.sendInProgress = handle
	t.transmitInProgress = true
	t.transmitDone = done

	t.nextTransmitID++
	if t.nextTransmitID == 0 {
		t.nextTransmitID = 1
	}
	t.transmitID = t.nextTransmitID

	if t.TransmitTimeout > 0 {
		t.timeoutTimer = a.sched.After(t.TransmitTimeout, t.transmitTimedOut)
	}
	return t.transmitID, nil
}

// TransmitInProgress reports whether a transmission is outstanding on
// this target
func (t *Target) TransmitInProgress() bool {
	return t.transmitInProgress || t.sendInProgress != 0
}

// CancelTransmit cancels an outstanding transmission. The completion
// callback will not be called. Cancelling a handle that is no longer
// outstanding is a no-op.
func (t *Target) CancelTransmit(id uint) {
	if id == 0 || id != t.transmitID {
		return
	}
	t.transmitInProgress = false
	t.transmitDone = nil
	t.transmitID = 0
	t.stopTimeoutTimer()
	t.cancelSend()
}

// Deactivate drops the endpoint and returns the adapter to discovery
func (t *Target) Deactivate() {
	if a := t.adapter; a != nil {
		a.DeactivateTarget(t)
	}
}

// Reactivate asks the adapter to deliberately reselect the endpoint.
// See Adapter.Reactivate for the preconditions.
func (t *Target) Reactivate() bool {
	a := t.adapter
	return a != nil && a.Reactivate(t)
}

// dataSent is the send completion callback from the NCI core. The
// success flag is deliberately unused: a failed send surfaces through
// the transmission timeout or an interface error, while a reply that
// raced ahead of this callback must still be delivered.
func (t *Target) dataSent(_ bool) {
	t.sendInProgress = 0
	if t.pendingReplySet {
		// We have been waiting for this send to complete
		debugf("Send completed")
		reply := t.pendingReply
		t.pendingReply = nil
		t.pendingReplySet = false
		t.finishTransmit(reply)
	}
}

// dataPacket handles an inbound data packet from the NCI core
func (t *Target) dataPacket(connID uint8, payload []byte) {
	if connID != StaticRFConnID || !t.transmitInProgress || t.pendingReplySet {
		debugf("Unhandled data packet, cid=0x%02x %d byte(s)", connID, len(payload))
		return
	}
	if t.sendInProgress != 0 {
		// Multi-threaded HAL drivers sometimes deliver the reply
		// before the send completion callback has been invoked.
		// Postpone transfer completion until then.
		debugf("Waiting for send to complete")
		t.pendingReply = append([]byte(nil), payload...)
		t.pendingReplySet = true
		return
	}
	t.finishTransmit(payload)
}

// finishTransmit routes a received payload through the RF interface
// framing rules
func (t *Target) finishTransmit(payload []byte) {
	t.stopTimeoutTimer()
	t.transmitInProgress = false
	if t.transmitFinishFn == nil || !t.transmitFinishFn(t, payload) {
		t.completeTransmit(TransmitStatusError, nil)
	}
}

// completeTransmit delivers the outcome to the registered callback
func (t *Target) completeTransmit(status TransmitStatus, payload []byte) {
	done := t.transmitDone
	t.transmitDone = nil
	t.transmitID = 0
	if done != nil {
		done(status, payload)
	}
}

// transmitTimedOut fires when a transmission exceeded TransmitTimeout
func (t *Target) transmitTimedOut() {
	if !t.transmitInProgress {
		return
	}
	debugf("Transmission timed out")
	t.timeoutTimer = nil
	t.transmitInProgress = false
	t.cancelSend()
	t.completeTransmit(TransmitStatusTimeout, nil)
}

func (t *Target) stopTimeoutTimer() {
	if t.timeoutTimer != nil {
		t.timeoutTimer.Stop()
		t.timeoutTimer = nil
	}
}

// cancelSend cancels the outstanding NCI send and drops any reply that
// was buffered against its completion
func (t *Target) cancelSend() {
	if t.sendInProgress != 0 {
		if a := t.adapter; a != nil {
			a.core.Cancel(t.sendInProgress)
		}
		t.sendInProgress = 0
		t.pendingReply = nil
		t.pendingReplySet = false
	}
}

// presenceCheck issues the protocol-specific presence probe, returning
// the transmit handle or 0 when the protocol has no probe or the probe
// could not be started
func (t *Target) presenceCheck(done func(ok bool)) uint {
	if t.presenceCheckFn == nil {
		return 0
	}
	return t.presenceCheckFn(t, done)
}

// presenceCheckT2 probes a Type 2 tag with a Read of block 0
func presenceCheckT2(t *Target, done func(ok bool)) uint {
	id, err := t.Transmit([]byte{t2tCmdRead, 0x00}, t.Sequence,
		func(status TransmitStatus, _ []byte) {
			done(status == TransmitStatusOK)
		})
	if err != nil {
		return 0
	}
	return id
}

// presenceCheckT4 probes an ISO-DEP tag with an empty frame
func presenceCheckT4(t *Target, done func(ok bool)) uint {
	id, err := t.Transmit(nil, t.Sequence,
		func(status TransmitStatus, _ []byte) {
			done(status == TransmitStatusOK)
		})
	if err != nil {
		return 0
	}
	return id
}

// transmitFinishFrame delivers a Frame RF interface payload. The
// trailing octet is a status byte (NCI 8.2.1.2): STATUS_OK or
// STATUS_OK_n_BIT for a short frame mean success, and
// STATUS_RF_FRAME_CORRUPTED means the frame was received damaged. Any
// other status is delivered as success anyway; existing readers depend
// on that.
func transmitFinishFrame(t *Target, payload []byte) bool {
	if len(payload) == 0 {
		return false
	}
	status := payload[len(payload)-1]
	if status == StatusRFFrameCorrupted {
		debugf("Transmission status 0x%02x", status)
		return false
	}
	switch status {
	case StatusOK, StatusOK1Bit, StatusOK2Bit, StatusOK3Bit,
		StatusOK4Bit, StatusOK5Bit, StatusOK6Bit, StatusOK7Bit:
	default:
		debugf("Hmm... transmission status 0x%02x", status)
	}
	t.completeTransmit(TransmitStatusOK, payload[:len(payload)-1])
	return true
}

// transmitFinishIsoDep delivers an ISO-DEP RF interface payload
// verbatim (NCI 8.3.1.2)
func transmitFinishIsoDep(t *Target, payload []byte) bool {
	t.completeTransmit(TransmitStatusOK, payload)
	return true
}

// transmitFinishNfcDep delivers an NFC-DEP RF interface payload
// verbatim (NCI 8.4.1.2)
func transmitFinishNfcDep(t *Target, payload []byte) bool {
	t.completeTransmit(TransmitStatusOK, payload)
	return true
}

// gone severs the target from the adapter and tells the framework the
// endpoint is no longer there
func (t *Target) gone() {
	t.detach()
	if t.OnGone != nil {
		t.OnGone()
	}
}

// reactivated notifies the framework that a deliberate reactivation
// completed
func (t *Target) reactivated() {
	if t.OnReactivated != nil {
		t.OnReactivated()
	}
}

// detach removes the target from the NCI data path and drops the back
// edge to the adapter. An outstanding transmission is failed; the
// target can no longer be used afterwards.
func (t *Target) detach() {
	if t.adapter == nil {
		return
	}
	t.cancelSend()
	t.stopTimeoutTimer()
	if t.removeDataHandler != nil {
		t.removeDataHandler()
		t.removeDataHandler = nil
	}
	t.adapter = nil
	if t.transmitInProgress {
		t.transmitInProgress = false
		t.completeTransmit(TransmitStatusError, nil)
	}
}
