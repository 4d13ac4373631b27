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

package nfctest

import (
	nci "github.com/ZaparooProject/go-nci"
)

// The builders below assemble activation notifications for the common
// endpoint kinds. The raw parameter byte fields carry compact
// stand-ins; the adapter compares them for equality but never parses
// them.

// T2Activation builds a Frame/T2T Passive Poll A activation for a tag
// with the given NFCID1
func T2Activation(nfcid1 []byte) *nci.IntfActivationNtf {
	return &nci.IntfActivationNtf{
		RFIntf:   nci.RFInterfaceFrame,
		Protocol: nci.ProtocolT2T,
		Mode:     nci.ModePassivePollA,
		ModeParam: &nci.ModeParam{
			PollA: &nci.ModeParamPollA{
				SensRes:   [2]byte{0x44, 0x00},
				NFCID1:    append([]byte(nil), nfcid1...),
				SelResLen: 1,
				SelRes:    0x00,
			},
		},
		ModeParamBytes: append([]byte{0x44, 0x00}, nfcid1...),
	}
}

// T4AActivation builds an ISO-DEP Passive Poll A activation for a
// Type 4A tag with the given NFCID1
func T4AActivation(nfcid1 []byte) *nci.IntfActivationNtf {
	return &nci.IntfActivationNtf{
		RFIntf:   nci.RFInterfaceIsoDep,
		Protocol: nci.ProtocolIsoDep,
		Mode:     nci.ModePassivePollA,
		ModeParam: &nci.ModeParam{
			PollA: &nci.ModeParamPollA{
				SensRes:   [2]byte{0x04, 0x00},
				NFCID1:    append([]byte(nil), nfcid1...),
				SelResLen: 1,
				SelRes:    0x20,
			},
		},
		ModeParamBytes: append([]byte{0x04, 0x00}, nfcid1...),
		ActivationParam: &nci.ActivationParam{
			IsoDepPollA: &nci.ActivationParamIsoDepPollA{
				FSC: 256,
				T0:  0x78,
			},
		},
		ActivationParamBytes: []byte{0x05, 0x78, 0x80, 0x70, 0x02},
	}
}

// T4BActivation builds an ISO-DEP Passive Poll B activation for a
// Type 4B tag
func T4BActivation(nfcid0 [4]byte, protInfo []byte) *nci.IntfActivationNtf {
	return &nci.IntfActivationNtf{
		RFIntf:   nci.RFInterfaceIsoDep,
		Protocol: nci.ProtocolIsoDep,
		Mode:     nci.ModePassivePollB,
		ModeParam: &nci.ModeParam{
			PollB: &nci.ModeParamPollB{
				NFCID0:   nfcid0,
				FSC:      256,
				AppData:  [4]byte{0x01, 0x02, 0x03, 0x04},
				ProtInfo: append([]byte(nil), protInfo...),
			},
		},
		ModeParamBytes: append(nfcid0[:], protInfo...),
		ActivationParam: &nci.ActivationParam{
			IsoDepPollB: &nci.ActivationParamIsoDepPollB{MBLI: 1},
		},
		ActivationParamBytes: []byte{0x01},
	}
}

// NfcDepPollActivation builds an NFC-DEP Poll side activation on the
// given mode (Poll A or Poll F)
func NfcDepPollActivation(mode nci.Mode) *nci.IntfActivationNtf {
	ntf := &nci.IntfActivationNtf{
		RFIntf:   nci.RFInterfaceNfcDep,
		Protocol: nci.ProtocolNfcDep,
		Mode:     mode,
		ActivationParam: &nci.ActivationParam{
			NfcDepPoll: &nci.ActivationParamNfcDepPoll{
				G: []byte{0x46, 0x66, 0x6D},
			},
		},
		ActivationParamBytes: []byte{0x46, 0x66, 0x6D},
	}
	switch mode {
	case nci.ModePassivePollA, nci.ModeActivePollA:
		ntf.ModeParam = &nci.ModeParam{
			PollA: &nci.ModeParamPollA{
				SensRes: [2]byte{0x44, 0x03},
				NFCID1:  []byte{0x08, 0xAA, 0xBB, 0xCC},
				SelRes:  0x40,
			},
		}
		ntf.ModeParamBytes = []byte{0x44, 0x03, 0x08, 0xAA, 0xBB, 0xCC}
	case nci.ModePassivePollF, nci.ModeActivePollF:
		ntf.ModeParam = &nci.ModeParam{
			PollF: &nci.ModeParamPollF{
				BitRate: nci.BitRate212,
				NFCID2:  [8]byte{0x01, 0xFE, 1, 2, 3, 4, 5, 6},
			},
		}
		ntf.ModeParamBytes = []byte{0x01, 0x01, 0xFE, 1, 2, 3, 4, 5, 6}
	}
	return ntf
}

// CEActivation builds an ISO-DEP Listen side activation: an external
// reader has selected the local card-emulation host
func CEActivation(mode nci.Mode) *nci.IntfActivationNtf {
	return &nci.IntfActivationNtf{
		RFIntf:               nci.RFInterfaceIsoDep,
		Protocol:             nci.ProtocolIsoDep,
		Mode:                 mode,
		ModeParamBytes:       []byte{0x00},
		ActivationParamBytes: []byte{0x80, 0x70},
	}
}

// NfcDepListenActivation builds an NFC-DEP Listen side activation: a
// remote peer initiator has activated us
func NfcDepListenActivation(mode nci.Mode) *nci.IntfActivationNtf {
	ntf := &nci.IntfActivationNtf{
		RFIntf:   nci.RFInterfaceNfcDep,
		Protocol: nci.ProtocolNfcDep,
		Mode:     mode,
		ActivationParam: &nci.ActivationParam{
			NfcDepListen: &nci.ActivationParamNfcDepListen{
				G: []byte{0x46, 0x66, 0x6D},
			},
		},
		ActivationParamBytes: []byte{0x46, 0x66, 0x6D},
	}
	switch mode {
	case nci.ModePassiveListenF, nci.ModeActiveListenF:
		ntf.ModeParam = &nci.ModeParam{
			ListenF: &nci.ModeParamListenF{
				NFCID2: []byte{0x01, 0xFE, 1, 2, 3, 4, 5, 6},
			},
		}
		ntf.ModeParamBytes = []byte{0x01, 0xFE, 1, 2, 3, 4, 5, 6}
	}
	return ntf
}
