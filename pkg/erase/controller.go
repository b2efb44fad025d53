// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package erase implements the SECURITY ERASE UNIT decision procedure:
// query the drive's security report, check support and frozen state,
// confirm with the operator, set a transient password, erase, and verify
// that the erase cleared the password again.
package erase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/erasetools/ataerase/pkg/hdparm"
	"github.com/erasetools/ataerase/pkg/report"
)

// SharedPassword is the transient user password set immediately before
// the erase. A successful SECURITY ERASE UNIT clears it; it never outlives
// one invocation.
const SharedPassword = "please"

// Device is a block device eligible for erase. Model is best effort from
// sysfs and may be empty.
type Device struct {
	Path  string
	Model string
}

// Enumerator lists candidate block devices. Production uses sysfs; tests
// substitute fakes.
type Enumerator interface {
	Devices() ([]Device, error)
}

// Controller drives the erase procedure against the external tool. It
// holds no device state; every decision is made on a fresh report.
type Controller struct {
	tool   hdparm.Tool
	parser report.Parser
	enum   Enumerator
	in     io.Reader
	out    io.Writer
	log    zerolog.Logger
}

func NewController(tool hdparm.Tool, parser report.Parser, enum Enumerator, log zerolog.Logger) *Controller {
	return &Controller{
		tool:   tool,
		parser: parser,
		enum:   enum,
		in:     os.Stdin,
		out:    os.Stdout,
		log:    log,
	}
}

// SetPrompt redirects the confirmation prompt, for tests.
func (c *Controller) SetPrompt(in io.Reader, out io.Writer) {
	c.in = in
	c.out = out
}

// QueryReport runs identify and parses the security block. The report is
// derived fresh on every call.
func (c *Controller) QueryReport(ctx context.Context, device string) (report.Security, error) {
	out, err := c.tool.Identify(ctx, device)
	if err != nil {
		return report.Security{}, err
	}
	return c.parser.Parse(out), nil
}

// Erase runs the full procedure against one device. Every exit is
// terminal: each failure is reported once and the procedure halts. The
// returned error carries detail for the outcomes that have any.
func (c *Controller) Erase(ctx context.Context, device string, interactive bool) (Outcome, error) {
	sec, err := c.QueryReport(ctx, device)
	if err != nil {
		return Unsupported, err
	}
	if !sec.Supported {
		return Unsupported, nil
	}
	if sec.Frozen {
		return Frozen, nil
	}
	if interactive && !c.confirm(device) {
		return Cancelled, nil
	}

	c.log.Info().Str("device", device).Msg("setting transient security password")
	if err := c.tool.SecuritySetPass(ctx, SharedPassword, device); err != nil {
		return PasswordSetFailed, err
	}
	sec, err = c.QueryReport(ctx, device)
	if err != nil {
		return PasswordSetFailed, err
	}
	if !sec.PasswordEnabled {
		return PasswordSetFailed, errors.New("security password did not take effect")
	}

	if sec.EraseEstimate != "" {
		c.log.Info().Str("device", device).Str("estimate", sec.EraseEstimate).Msg("drive estimated erase time")
	}
	c.log.Info().Str("device", device).Msg("issuing SECURITY ERASE UNIT")
	if err := c.tool.SecurityErase(ctx, SharedPassword, device); err != nil {
		return EraseFailed, err
	}

	// A completed erase resets the security state, so the password reads
	// back disabled. This is a heuristic of the tool's behavior, not a
	// guaranteed semantic.
	sec, err = c.QueryReport(ctx, device)
	if err != nil {
		return EraseFailed, err
	}
	if sec.PasswordEnabled {
		return EraseFailed, errors.New("security password still enabled after erase")
	}
	return Success, nil
}

func (c *Controller) confirm(device string) bool {
	fmt.Fprintf(c.out, "About to SECURITY ERASE %s. All data on the drive will be lost. Continue? [y/N] ", device)
	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	ans := strings.ToLower(strings.TrimSpace(line))
	return ans == "y" || ans == "yes"
}

// IsBlockDevice reports whether path names a block device node.
func IsBlockDevice(path string) bool {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT == unix.S_IFBLK
}
