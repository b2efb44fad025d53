// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preflight

import (
	"errors"
	"testing"
)

func TestKernelAtLeast(t *testing.T) {
	testCases := []struct {
		release string
		want    bool
	}{
		{"2.6.27", false},
		{"2.6.28", true},
		{"2.6.32-754.el6.x86_64", true},
		{"3.10.0-957.el7.x86_64", true},
		{"6.1.0-13-amd64", true},
		{"2.4.37", false},
		{"3.10", true},
		{"2", false},
		{"garbage", false},
		{"", false},
	}
	for _, tc := range testCases {
		t.Run(tc.release, func(t *testing.T) {
			if got := kernelAtLeast(tc.release, 2, 6, 28); got != tc.want {
				t.Errorf("kernelAtLeast(%q) = %t; want %t", tc.release, got, tc.want)
			}
		})
	}
}

func stubHooks(t *testing.T, osName, release string, uid int, pathErr error) {
	t.Helper()
	origOS, origKernel, origEuid, origLook := hostOS, kernel, euid, lookPath
	t.Cleanup(func() {
		hostOS, kernel, euid, lookPath = origOS, origKernel, origEuid, origLook
	})
	hostOS = func() string { return osName }
	kernel = func() (string, error) { return release, nil }
	euid = func() int { return uid }
	lookPath = func(string) (string, error) {
		if pathErr != nil {
			return "", pathErr
		}
		return "/sbin/hdparm", nil
	}
}

func TestRunAllChecksPass(t *testing.T) {
	stubHooks(t, "linux", "6.1.0-13-amd64", 0, nil)
	res := Run()
	if !res.OK() {
		t.Fatalf("Run() = %+v; want all checks passing", res.Failures())
	}
	if len(res.Checks) != 4 {
		t.Errorf("got %d checks, want 4", len(res.Checks))
	}
}

// Every unmet condition is reported independently, not just the first.
func TestRunReportsEveryFailure(t *testing.T) {
	stubHooks(t, "darwin", "2.6.18-194.el5", 1000, errors.New("not found"))
	res := Run()
	if res.OK() {
		t.Fatal("Run() reported OK for a broken environment")
	}
	fails := res.Failures()
	if len(fails) != 4 {
		t.Fatalf("got %d failures, want 4: %+v", len(fails), fails)
	}
	names := map[string]bool{}
	for _, c := range fails {
		names[c.Name] = true
		if c.Detail == "" {
			t.Errorf("check %s has no detail", c.Name)
		}
	}
	for _, want := range []string{"os", "kernel", "privilege", "tools"} {
		if !names[want] {
			t.Errorf("missing failure for check %q", want)
		}
	}
}

func TestRunSingleFailure(t *testing.T) {
	stubHooks(t, "linux", "6.1.0-13-amd64", 1000, nil)
	res := Run()
	fails := res.Failures()
	if len(fails) != 1 || fails[0].Name != "privilege" {
		t.Errorf("got %+v; want single privilege failure", fails)
	}
}
