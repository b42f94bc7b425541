// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package model

// Ticket lets an account reserve a sequence slot ahead of time and later
// consume it out of order, the escape hatch from strict sequence ordering
// documented in the original's ticket.py and referenced by the common
// preamble's "0 is a wildcard" sequence rule.
type Ticket struct {
	ID      uint32
	Account string
	Used    bool
}
