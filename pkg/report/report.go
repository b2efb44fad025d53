// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report interprets the Security section of an hdparm -I
// capability report.
package report

import "strings"

// Security is the parsed view of a drive's security block. It is derived
// fresh on every query and never cached.
type Security struct {
	// Supported is true when the drive reports the ATA security feature
	// set, a precondition for SECURITY ERASE UNIT.
	Supported bool
	// Frozen drives refuse password changes until a power cycle.
	Frozen bool
	// PasswordEnabled is true when a user password is currently set.
	PasswordEnabled bool
	// EraseEstimate is the drive's own estimate for a SECURITY ERASE UNIT
	// pass (e.g. "40min"), empty when the report does not state one.
	EraseEstimate string
}

// Parser turns raw identify output into a Security report. The report is
// best effort: malformed or truncated input yields Supported=false, never
// an error.
type Parser interface {
	Parse(out []byte) Security
}

// securityMarker opens the security block in hdparm -I output.
const securityMarker = "Security:"

// IdentifyParser implements the fixed-offset parsing strategy for the
// hdparm -I output shape:
//
//	Security:
//		Master password revision code = 65534
//			supported
//		not	enabled
//		not	locked
//		not	frozen
//		not	expired: security count
//			supported: enhanced erase
//		40min for SECURITY ERASE UNIT. 40min for ENHANCED SECURITY ERASE UNIT.
//
// The support token follows the marker within two lines, and the
// password-enabled state lives exactly on the third line after the marker.
// The offsets are inherent to the report format and must not drift.
type IdentifyParser struct{}

func (IdentifyParser) Parse(out []byte) Security {
	var s Security
	lines := strings.Split(string(out), "\n")
	marker := -1
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), securityMarker) {
			marker = i
			break
		}
	}
	if marker < 0 {
		return s
	}
	for off := 1; off <= 2 && marker+off < len(lines); off++ {
		if strings.HasPrefix(strings.TrimSpace(lines[marker+off]), "supported") {
			s.Supported = true
			break
		}
	}
	for _, l := range lines[marker:] {
		if strings.Contains(l, "frozen") {
			s.Frozen = !strings.Contains(l, "not")
			break
		}
	}
	// The enabled/not-enabled line sits three lines below the marker.
	// "enabled" also appears in later lines of some reports, so the offset
	// is load-bearing; do not replace it with a scan.
	if marker+3 < len(lines) {
		l := lines[marker+3]
		s.PasswordEnabled = strings.Contains(l, "enabled") && !strings.Contains(l, "not")
	}
	for _, l := range lines[marker:] {
		if strings.Contains(l, "for SECURITY ERASE UNIT") {
			if f := strings.Fields(l); len(f) > 0 {
				s.EraseEstimate = f[0]
			}
			break
		}
	}
	return s
}
