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

// ModeParamPollA holds the NFC-A technology parameters from a Poll A
// activation (SENS_RES, NFCID1, SEL_RES)
type ModeParamPollA struct {
	NFCID1    []byte
	SensRes   [2]byte
	SelResLen int
	SelRes    byte
}

// ModeParamPollB holds the NFC-B technology parameters from a Poll B
// activation (SENSB_RES fields)
type ModeParamPollB struct {
	ProtInfo []byte
	NFCID0   [4]byte
	AppData  [4]byte
	FSC      uint16
}

// ModeParamPollF holds the NFC-F technology parameters from a Poll F
// activation
type ModeParamPollF struct {
	NFCID2  [8]byte
	BitRate BitRate
}

// ModeParamListenF holds the NFC-F technology parameters from a
// Listen F activation
type ModeParamListenF struct {
	NFCID2 []byte
}

// ModeParam is the parsed technology-specific part of an activation
// notification. At most one field is set, matching the activation
// mode.
type ModeParam struct {
	PollA   *ModeParamPollA
	PollB   *ModeParamPollB
	PollF   *ModeParamPollF
	ListenF *ModeParamListenF
}

// clone makes a deep copy
func (p *ModeParam) clone() *ModeParam {
	if p == nil {
		return nil
	}
	out := &ModeParam{}
	if p.PollA != nil {
		a := *p.PollA
		a.NFCID1 = append([]byte(nil), p.PollA.NFCID1...)
		out.PollA = &a
	}
	if p.PollB != nil {
		b := *p.PollB
		b.ProtInfo = append([]byte(nil), p.PollB.ProtInfo...)
		out.PollB = &b
	}
	if p.PollF != nil {
		f := *p.PollF
		out.PollF = &f
	}
	if p.ListenF != nil {
		f := *p.ListenF
		f.NFCID2 = append([]byte(nil), p.ListenF.NFCID2...)
		out.ListenF = &f
	}
	return out
}

// ActivationParamIsoDepPollA holds the ISO-DEP interface parameters
// from a Poll A activation (RATS response)
type ActivationParamIsoDepPollA struct {
	T1  []byte
	FSC uint16
	T0  byte
	TA  byte
	TB  byte
	TC  byte
}

// ActivationParamIsoDepPollB holds the ISO-DEP interface parameters
// from a Poll B activation (ATTRIB response)
type ActivationParamIsoDepPollB struct {
	HLR  []byte
	MBLI byte
	DID  byte
}

// ActivationParamNfcDepPoll holds the NFC-DEP interface parameters
// from a Poll side activation (ATR_RES general bytes)
type ActivationParamNfcDepPoll struct {
	G []byte
}

// ActivationParamNfcDepListen holds the NFC-DEP interface parameters
// from a Listen side activation (ATR_REQ general bytes)
type ActivationParamNfcDepListen struct {
	G []byte
}

// ActivationParam is the parsed interface-specific part of an
// activation notification. At most one field is set, matching the RF
// interface and mode.
type ActivationParam struct {
	IsoDepPollA  *ActivationParamIsoDepPollA
	IsoDepPollB  *ActivationParamIsoDepPollB
	NfcDepPoll   *ActivationParamNfcDepPoll
	NfcDepListen *ActivationParamNfcDepListen
}

// IntfActivationNtf is an RF interface activation notification
// delivered by the NCI core. The raw parameter bytes are always
// present; the parsed forms are nil when the core could not decode
// them.
type IntfActivationNtf struct {
	ModeParam            *ModeParam
	ActivationParam      *ActivationParam
	ModeParamBytes       []byte
	ActivationParamBytes []byte
	RFIntf               RFInterface
	Protocol             Protocol
	Mode                 Mode
}
