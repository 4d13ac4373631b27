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

import "errors"

// Adapter and target errors
var (
	// ErrInvalidParameter indicates a nil or out-of-range argument
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrTransmitInProgress indicates a transmit was attempted while
	// another one is still outstanding on the same target
	ErrTransmitInProgress = errors.New("transmit already in progress")

	// ErrTargetDetached indicates the target no longer has an adapter
	// behind it
	ErrTargetDetached = errors.New("target is detached")

	// ErrSendFailed indicates the NCI core refused to start a data
	// send
	ErrSendFailed = errors.New("send could not be started")
)
