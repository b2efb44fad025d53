// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hdparm shells out to the hdparm utility for the ATA security
// commands this tool drives. Only the identify text and the exit status of
// the mutating commands are consumed.
package hdparm

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Binary is the external tool name resolved from PATH.
const Binary = "hdparm"

// Tool is the external capability surface. Calls are awaited to
// completion; nothing here retries or times out.
type Tool interface {
	// Identify returns the raw `hdparm -I` output for the device.
	Identify(ctx context.Context, device string) ([]byte, error)
	// SecuritySetPass sets a user password via SECURITY SET PASSWORD.
	SecuritySetPass(ctx context.Context, password, device string) error
	// SecurityErase issues SECURITY ERASE UNIT with the given password.
	SecurityErase(ctx context.Context, password, device string) error
}

// CLI runs the real hdparm binary.
type CLI struct{}

func (CLI) Identify(ctx context.Context, device string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, Binary, "-I", device).Output()
	if err != nil {
		return nil, fmt.Errorf("%s -I %s: %v", Binary, device, err)
	}
	return out, nil
}

func (CLI) SecuritySetPass(ctx context.Context, password, device string) error {
	return run(ctx, Binary, "--security-set-pass", password, device)
}

func (CLI) SecurityErase(ctx context.Context, password, device string) error {
	return run(ctx, Binary, "--security-erase", password, device)
}

func run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %v: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
