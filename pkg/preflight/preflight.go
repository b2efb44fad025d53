// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package preflight validates the host environment before any security
// command is attempted. It returns a structured result instead of
// terminating the process, so each condition is independently testable.
package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/erasetools/ataerase/pkg/hdparm"
)

// MinKernel is the oldest kernel with reliable libata passthrough for the
// ATA security command set.
const MinKernel = "2.6.28"

// Check is one preflight condition. Detail is empty when the check passed.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Result aggregates all checks; every unmet condition is reported, not
// just the first.
type Result struct {
	Checks []Check
}

func (r Result) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Failures returns the unmet conditions in check order.
func (r Result) Failures() []Check {
	var f []Check
	for _, c := range r.Checks {
		if !c.OK {
			f = append(f, c)
		}
	}
	return f
}

// Hooks for tests.
var (
	hostOS   = func() string { return runtime.GOOS }
	kernel   = kernelRelease
	euid     = os.Geteuid
	lookPath = exec.LookPath
)

func kernelRelease() (string, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(u.Release[:]), nil
}

// Run evaluates every condition and reports them all.
func Run() Result {
	var r Result
	if osName := hostOS(); osName == "linux" {
		r.pass("os")
	} else {
		r.fail("os", fmt.Sprintf("host OS is %s; ATA security commands need linux", osName))
	}
	rel, err := kernel()
	switch {
	case err != nil:
		r.fail("kernel", fmt.Sprintf("uname: %v", err))
	case !kernelAtLeast(rel, 2, 6, 28):
		r.fail("kernel", fmt.Sprintf("kernel %s is older than %s", rel, MinKernel))
	default:
		r.pass("kernel")
	}
	if euid() == 0 {
		r.pass("privilege")
	} else {
		r.fail("privilege", "must run as root to issue ATA security commands")
	}
	if _, err := lookPath(hdparm.Binary); err != nil {
		r.fail("tools", fmt.Sprintf("%s not found in PATH", hdparm.Binary))
	} else {
		r.pass("tools")
	}
	return r
}

func (r *Result) pass(name string) {
	r.Checks = append(r.Checks, Check{Name: name, OK: true})
}

func (r *Result) fail(name, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, OK: false, Detail: detail})
}

// kernelAtLeast compares a uname release like "6.1.0-13-amd64" against a
// version floor. Anything past the patch level is ignored.
func kernelAtLeast(release string, major, minor, patch int) bool {
	var maj, min, pat int
	n, _ := fmt.Sscanf(release, "%d.%d.%d", &maj, &min, &pat)
	if n < 2 {
		return false
	}
	got := [3]int{maj, min, pat}
	want := [3]int{major, minor, patch}
	for i := range got {
		if got[i] != want[i] {
			return got[i] > want[i]
		}
	}
	return true
}
