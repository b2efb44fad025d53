// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package erase

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/erasetools/ataerase/pkg/report"
)

// fakeTool stands in for hdparm and doubles as the report parser: Identify
// echoes the device path back, and Parse looks the path up in the reports
// map. Mutating calls may flip report state via the on* callbacks.
type fakeTool struct {
	reports map[string]report.Security

	identifyCalls int
	setPassCalls  int
	eraseCalls    int

	identifyErr error
	setPassErr  error
	eraseErr    error

	onSetPass func(dev string)
	onErase   func(dev string)
}

func (f *fakeTool) Identify(_ context.Context, dev string) ([]byte, error) {
	f.identifyCalls++
	if f.identifyErr != nil {
		return nil, f.identifyErr
	}
	return []byte(dev), nil
}

func (f *fakeTool) SecuritySetPass(_ context.Context, password, dev string) error {
	f.setPassCalls++
	if f.setPassErr != nil {
		return f.setPassErr
	}
	if f.onSetPass != nil {
		f.onSetPass(dev)
	}
	return nil
}

func (f *fakeTool) SecurityErase(_ context.Context, password, dev string) error {
	f.eraseCalls++
	if f.eraseErr != nil {
		return f.eraseErr
	}
	if f.onErase != nil {
		f.onErase(dev)
	}
	return nil
}

func (f *fakeTool) Parse(b []byte) report.Security {
	return f.reports[string(b)]
}

type fakeEnum struct {
	devs []Device
	err  error
}

func (f fakeEnum) Devices() ([]Device, error) {
	return f.devs, f.err
}

func newTestController(f *fakeTool, enum Enumerator, input string) *Controller {
	c := NewController(f, f, enum, zerolog.Nop())
	c.SetPrompt(strings.NewReader(input), io.Discard)
	return c
}

// eraseFake returns a fake for a ready drive whose password flips on with
// set-pass and back off with erase, i.e. the happy path.
func eraseFake() *fakeTool {
	f := &fakeTool{
		reports: map[string]report.Security{
			"/dev/sda": {Supported: true, EraseEstimate: "40min"},
		},
	}
	f.onSetPass = func(dev string) {
		r := f.reports[dev]
		r.PasswordEnabled = true
		f.reports[dev] = r
	}
	f.onErase = func(dev string) {
		r := f.reports[dev]
		r.PasswordEnabled = false
		f.reports[dev] = r
	}
	return f
}

func TestEraseSuccess(t *testing.T) {
	f := eraseFake()
	c := newTestController(f, fakeEnum{}, "y\n")

	outcome, err := c.Erase(context.Background(), "/dev/sda", true)
	require.NoError(t, err)
	require.Equal(t, Success, outcome)
	// initial report, post-set-pass verify, post-erase verify
	require.Equal(t, 3, f.identifyCalls)
	require.Equal(t, 1, f.setPassCalls)
	require.Equal(t, 1, f.eraseCalls)
}

func TestEraseUnsupported(t *testing.T) {
	f := &fakeTool{reports: map[string]report.Security{
		"/dev/sda": {Supported: false},
	}}
	c := newTestController(f, fakeEnum{}, "y\n")

	outcome, err := c.Erase(context.Background(), "/dev/sda", true)
	require.NoError(t, err)
	require.Equal(t, Unsupported, outcome)
	require.Zero(t, f.setPassCalls)
	require.Zero(t, f.eraseCalls)
}

func TestEraseFrozen(t *testing.T) {
	f := &fakeTool{reports: map[string]report.Security{
		"/dev/sda": {Supported: true, Frozen: true},
	}}
	c := newTestController(f, fakeEnum{}, "y\n")

	outcome, err := c.Erase(context.Background(), "/dev/sda", true)
	require.NoError(t, err)
	require.Equal(t, Frozen, outcome)
	require.Zero(t, f.setPassCalls, "frozen drives must see no password mutation")
	require.Zero(t, f.eraseCalls)
}

func TestEraseConfirmation(t *testing.T) {
	declined := []string{"n\n", "", "no\n", "N\n", "maybe\n", "\n"}
	for _, in := range declined {
		f := eraseFake()
		c := newTestController(f, fakeEnum{}, in)
		outcome, err := c.Erase(context.Background(), "/dev/sda", true)
		require.NoError(t, err, "input %q", in)
		require.Equal(t, Cancelled, outcome, "input %q", in)
		require.Zero(t, f.setPassCalls, "input %q must have no side effects", in)
		require.Zero(t, f.eraseCalls, "input %q must have no side effects", in)
	}

	affirmed := []string{"y\n", "Y\n", "yes\n", "  y  \n"}
	for _, in := range affirmed {
		f := eraseFake()
		c := newTestController(f, fakeEnum{}, in)
		outcome, err := c.Erase(context.Background(), "/dev/sda", true)
		require.NoError(t, err, "input %q", in)
		require.Equal(t, Success, outcome, "input %q", in)
	}
}

func TestEraseNonInteractiveSkipsPrompt(t *testing.T) {
	f := eraseFake()
	c := newTestController(f, fakeEnum{}, "n\n")

	outcome, err := c.Erase(context.Background(), "/dev/sda", false)
	require.NoError(t, err)
	require.Equal(t, Success, outcome)
}

func TestErasePasswordSetFailed(t *testing.T) {
	f := eraseFake()
	// set-pass succeeds but the state never flips
	f.onSetPass = nil
	c := newTestController(f, fakeEnum{}, "y\n")

	outcome, err := c.Erase(context.Background(), "/dev/sda", true)
	require.Error(t, err)
	require.Equal(t, PasswordSetFailed, outcome)
	require.Equal(t, 1, f.setPassCalls)
	require.Zero(t, f.eraseCalls, "erase must not run after a failed password set")
}

func TestEraseVerifyFailed(t *testing.T) {
	f := eraseFake()
	// erase succeeds as a command but leaves the password enabled
	f.onErase = nil
	c := newTestController(f, fakeEnum{}, "y\n")

	outcome, err := c.Erase(context.Background(), "/dev/sda", true)
	require.Error(t, err)
	require.Equal(t, EraseFailed, outcome)
	require.Equal(t, 1, f.eraseCalls)
}

func TestOutcomeClassification(t *testing.T) {
	require.False(t, Success.Failed())
	require.False(t, Cancelled.Failed())
	for _, o := range []Outcome{Unsupported, Frozen, PasswordSetFailed, EraseFailed, PreflightFailed, DeviceNotFound} {
		require.True(t, o.Failed(), o.String())
		require.NotEqual(t, "unknown", o.String())
	}
}
