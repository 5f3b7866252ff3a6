// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package buildinfo maintains the install root's VERSION file: a single
// line holding the VCS-derived build string, refreshed whenever it drifts
// from what `git describe` reports.
package buildinfo

import (
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

const versionFile = "VERSION"

// Current runs `git describe --always --dirty` in dir and returns its
// trimmed output.
func Current(dir string) (string, error) {
	cmd := exec.Command("git", "describe", "--always", "--dirty")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Sync reads dir/VERSION, compares it against the live VCS string, and
// rewrites the file if they differ. A read failure (e.g. the file doesn't
// exist yet, or permission is denied) is logged and otherwise non-fatal; a
// describe failure is returned so the caller can decide whether to run
// without version info.
func Sync(dir string) (string, error) {
	live, err := Current(dir)
	if err != nil {
		return "", err
	}

	path := dir + string(os.PathSeparator) + versionFile
	existing, readErr := os.ReadFile(path)
	if readErr != nil {
		logrus.Debugf("buildinfo: could not read %s: %v", path, readErr)
	} else if strings.TrimSpace(string(existing)) == live {
		return live, nil
	}

	if err := os.WriteFile(path, []byte(live+"\n"), 0o644); err != nil {
		logrus.Warnf("buildinfo: could not write %s: %v", path, err)
	}

	return live, nil
}
