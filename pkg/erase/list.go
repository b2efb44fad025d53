// Copyright (c) 2025 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package erase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SysfsEnumerator walks /sys/class/block and keeps entries backed by a
// physical device node.
type SysfsEnumerator struct {
	// Root and Dev override /sys/class/block and /dev, for tests.
	Root string
	Dev  string
}

func (e SysfsEnumerator) Devices() ([]Device, error) {
	root, dev := e.Root, e.Dev
	if root == "" {
		root = "/sys/class/block"
	}
	if dev == "" {
		dev = "/dev"
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("enumerate block devices: %v", err)
	}
	var devs []Device
	for _, fi := range entries {
		name := fi.Name()
		// Partitions and virtual devices have no device/ link.
		if _, err := os.Stat(filepath.Join(root, name, "device")); os.IsNotExist(err) {
			continue
		}
		devpath := filepath.Join(dev, name)
		if _, err := os.Stat(devpath); os.IsNotExist(err) {
			continue
		}
		devs = append(devs, Device{Path: devpath, Model: readModel(root, name)})
	}
	return devs, nil
}

func readModel(root, name string) string {
	b, err := os.ReadFile(filepath.Join(root, name, "device", "model"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// ListEligible filters the enumerated devices to those whose report shows
// SECURITY ERASE UNIT support, preserving enumeration order. An empty
// result is not an error. Devices that fail to identify are skipped.
func (c *Controller) ListEligible(ctx context.Context) ([]Device, error) {
	devs, err := c.enum.Devices()
	if err != nil {
		return nil, err
	}
	var eligible []Device
	for _, d := range devs {
		sec, err := c.QueryReport(ctx, d.Path)
		if err != nil {
			c.log.Debug().Str("device", d.Path).Err(err).Msg("identify failed, skipping")
			continue
		}
		if sec.Supported {
			eligible = append(eligible, d)
		}
	}
	return eligible, nil
}
