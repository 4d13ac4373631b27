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

import "bytes"

// IntfInfo is an immutable snapshot of an RF interface activation.
// The adapter keeps one for the active interface and compares it
// against later activations to decide whether the same physical
// endpoint has come back.
type IntfInfo struct {
	modeParam            *ModeParam
	modeParamBytes       []byte
	activationParamBytes []byte
	rfIntf               RFInterface
	protocol             Protocol
	mode                 Mode
}

// NewIntfInfo deep-copies the identifying parts of an activation
// notification
func NewIntfInfo(ntf *IntfActivationNtf) *IntfInfo {
	if ntf == nil {
		return nil
	}
	return &IntfInfo{
		rfIntf:               ntf.RFIntf,
		protocol:             ntf.Protocol,
		mode:                 ntf.Mode,
		modeParamBytes:       append([]byte(nil), ntf.ModeParamBytes...),
		activationParamBytes: append([]byte(nil), ntf.ActivationParamBytes...),
		modeParam:            ntf.ModeParam.clone(),
	}
}

// RFIntf returns the activated RF interface
func (i *IntfInfo) RFIntf() RFInterface {
	return i.rfIntf
}

// Protocol returns the activated RF protocol
func (i *IntfInfo) Protocol() Protocol {
	return i.protocol
}

// Mode returns the activation technology and mode
func (i *IntfInfo) Mode() Mode {
	return i.mode
}

// matchPollA compares the Poll A parameters of two activations of what
// may be the same card.
//
// As specified in NFCForum-TS-DigitalProtocol-1.0, in case of a single
// size NFCID1 (4 bytes), a first byte of 08h indicates that the
// remaining bytes are dynamically generated, so they are excluded from
// the comparison. Any other NFCID1 must match in full.
func matchPollA(pa1, pa2 *ModeParamPollA) bool {
	if pa1.SelRes != pa2.SelRes ||
		pa1.SelResLen != pa2.SelResLen ||
		len(pa1.NFCID1) != len(pa2.NFCID1) ||
		pa1.SensRes != pa2.SensRes {
		return false
	}
	if len(pa1.NFCID1) == randomUIDSize &&
		pa1.NFCID1[0] == pa2.NFCID1[0] &&
		pa2.NFCID1[0] == randomUIDFirstByte {
		return true
	}
	return bytes.Equal(pa1.NFCID1, pa2.NFCID1)
}

// matchPollB compares the Poll B parameters of two activations. The
// NFCID0 is excluded because it may be regenerated after the card
// loses the field.
func matchPollB(pb1, pb2 *ModeParamPollB) bool {
	return pb1.FSC == pb2.FSC &&
		pb1.AppData == pb2.AppData &&
		bytes.Equal(pb1.ProtInfo, pb2.ProtInfo)
}

// modeParamsMatch applies the per-technology match criteria, falling
// back to exact byte equality of the raw mode parameters
func (i *IntfInfo) modeParamsMatch(ntf *IntfActivationNtf) bool {
	mp1 := i.modeParam
	mp2 := ntf.ModeParam

	if mp1 != nil && mp2 != nil {
		switch ntf.Mode {
		case ModePassivePollA:
			switch ntf.RFIntf {
			case RFInterfaceFrame, RFInterfaceIsoDep:
				if mp1.PollA != nil && mp2.PollA != nil {
					return matchPollA(mp1.PollA, mp2.PollA)
				}
			}
		case ModePassivePollB:
			if ntf.RFIntf == RFInterfaceIsoDep &&
				mp1.PollB != nil && mp2.PollB != nil {
				return matchPollB(mp1.PollB, mp2.PollB)
			}
		}
	}

	// Full match is expected in other cases
	return bytes.Equal(i.modeParamBytes, ntf.ModeParamBytes)
}

// Matches reports whether a fresh activation describes the same
// physical endpoint as this snapshot
func (i *IntfInfo) Matches(ntf *IntfActivationNtf) bool {
	return i != nil &&
		ntf != nil &&
		i.rfIntf == ntf.RFIntf &&
		i.protocol == ntf.Protocol &&
		i.mode == ntf.Mode &&
		i.modeParamsMatch(ntf) &&
		bytes.Equal(i.activationParamBytes, ntf.ActivationParamBytes)
}
