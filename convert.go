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

// The converters below map parsed NCI mode and activation parameters
// to the framework's parameter structs. Each returns nil when the
// source data is not present, which the framework factories accept.

func pollAParam(mp *ModeParam) *ParamPollA {
	if mp == nil || mp.PollA == nil {
		return nil
	}
	src := mp.PollA
	return &ParamPollA{
		SelRes: src.SelRes,
		NFCID1: src.NFCID1,
	}
}

func pollBParam(mp *ModeParam) *ParamPollB {
	if mp == nil || mp.PollB == nil {
		return nil
	}
	src := mp.PollB
	return &ParamPollB{
		FSC:      src.FSC,
		NFCID0:   src.NFCID0[:],
		ProtInfo: src.ProtInfo,
		AppData:  src.AppData,
	}
}

func pollFParam(mp *ModeParam) *ParamPollF {
	if mp == nil || mp.PollF == nil {
		return nil
	}
	src := mp.PollF
	out := &ParamPollF{NFCID2: src.NFCID2[:]}
	switch src.BitRate {
	case BitRate212:
		out.BitRate = 212
	case BitRate424:
		out.BitRate = 424
	default:
		// The rest is RFU according to the NCI 1.0 spec
		out.BitRate = 0
	}
	return out
}

func listenFParam(mp *ModeParam) *ParamListenF {
	if mp == nil || mp.ListenF == nil {
		return nil
	}
	return &ParamListenF{NFCID2: mp.ListenF.NFCID2}
}

func isoDepPollAParam(ap *ActivationParam) *ParamIsoDepPollA {
	if ap == nil || ap.IsoDepPollA == nil {
		return nil
	}
	src := ap.IsoDepPollA
	return &ParamIsoDepPollA{
		FSC: src.FSC,
		T0:  src.T0,
		TA:  src.TA,
		TB:  src.TB,
		TC:  src.TC,
		T1:  src.T1,
	}
}

func isoDepPollBParam(ap *ActivationParam) *ParamIsoDepPollB {
	if ap == nil || ap.IsoDepPollB == nil {
		return nil
	}
	src := ap.IsoDepPollB
	return &ParamIsoDepPollB{
		MBLI: src.MBLI,
		DID:  src.DID,
		HLR:  src.HLR,
	}
}

func nfcDepInitiatorParam(ap *ActivationParam) *ParamNfcDepInitiator {
	if ap == nil || ap.NfcDepPoll == nil {
		return nil
	}
	return &ParamNfcDepInitiator{ATRResG: ap.NfcDepPoll.G}
}

func nfcDepTargetParam(ap *ActivationParam) *ParamNfcDepTarget {
	if ap == nil || ap.NfcDepListen == nil {
		return nil
	}
	return &ParamNfcDepTarget{ATRReqG: ap.NfcDepListen.G}
}

// pollParam builds the minimal poll-parameter snapshot used when
// registering a tag of an unknown type
func pollParam(ntf *IntfActivationNtf) *ParamPoll {
	switch ntf.Mode {
	case ModePassivePollA:
		if a := pollAParam(ntf.ModeParam); a != nil {
			return &ParamPoll{A: a}
		}
	case ModePassivePollB:
		if b := pollBParam(ntf.ModeParam); b != nil {
			return &ParamPoll{B: b}
		}
	}
	return nil
}
