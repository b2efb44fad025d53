// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package erase

// Outcome is the terminal result of one erase invocation. Every branch of
// the procedure maps to exactly one outcome; nothing is retried.
type Outcome int

const (
	// Success means the erase completed and the security password reads
	// back as disabled again.
	Success Outcome = iota
	// Cancelled means the operator declined the confirmation. Not an
	// error.
	Cancelled
	// Unsupported means the drive does not report the security feature
	// set.
	Unsupported
	// Frozen means the drive refuses password changes until a power
	// cycle.
	Frozen
	// PasswordSetFailed means the set-password step did not take effect.
	PasswordSetFailed
	// EraseFailed means the erase was issued but the password still reads
	// back as enabled.
	EraseFailed
	// PreflightFailed means the host environment is unusable.
	PreflightFailed
	// DeviceNotFound means the given path is not a block device.
	DeviceNotFound
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Cancelled:
		return "cancelled"
	case Unsupported:
		return "unsupported"
	case Frozen:
		return "frozen"
	case PasswordSetFailed:
		return "password-set-failed"
	case EraseFailed:
		return "erase-failed"
	case PreflightFailed:
		return "preflight-failed"
	case DeviceNotFound:
		return "device-not-found"
	}
	return "unknown"
}

// Failed reports whether the outcome maps to a non-zero exit. Cancelled is
// an operator decision, not a failure.
func (o Outcome) Failed() bool {
	return o != Success && o != Cancelled
}

// Remedy returns operator guidance for the outcome, empty when none is
// known.
func (o Outcome) Remedy() string {
	switch o {
	case Unsupported:
		return "the drive does not support SECURITY ERASE UNIT; use a pattern-overwrite tool instead"
	case Frozen:
		return "the drive is frozen; suspend/resume the machine or hot-replug the drive, then retry"
	case PasswordSetFailed:
		return "the security password did not take effect; check for a BIOS ATA password and retry after a power cycle"
	case EraseFailed:
		return "the drive still reports a security password after the erase; do not reuse the drive without verifying its contents"
	case DeviceNotFound:
		return "the path is not a block device; run the list command to see eligible drives"
	}
	return ""
}
