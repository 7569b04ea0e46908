//     Copyright (C) 2026, fsearch authors
//
//     This file is part of fsearch.
//
//     fsearch is free software: you can redistribute it and/or modify
//     it under the terms of the GNU General Public License as published by
//     the Free Software Foundation, either version 3 of the License, or
//     (at your option) any later version.
//
//     fsearch is distributed in the hope that it will be useful,
//     but WITHOUT ANY WARRANTY; without even the implied warranty of
//     MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//     GNU General Public License for more details.
//
//     You should have received a copy of the GNU General Public License
//     along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package service installs fsearch as a systemd user service.
package service

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
)

const unitName = "fsearch.service"

var unitTemplate = template.Must(template.New("unit").Parse(`[Unit]
Description=fsearch line query server
After=network.target

[Service]
ExecStart={{.Binary}} serve -c {{.Config}}
Restart=on-failure

[Install]
WantedBy=default.target
`))

type unitParams struct {
	Binary string
	Config string
}

func renderUnit(binary, configPath string) ([]byte, error) {
	var b bytes.Buffer
	if err := unitTemplate.Execute(&b, unitParams{Binary: binary, Config: configPath}); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Install writes the user unit for the running binary and (re)starts
// it through systemctl --user. It returns the unit file path.
func Install(configPath string) (string, error) {
	bin, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate the binary: %w", err)
	}
	cfgAbs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "systemd", "user")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	unit, err := renderUnit(bin, cfgAbs)
	if err != nil {
		return "", err
	}
	unitPath := filepath.Join(dir, unitName)
	if err := os.WriteFile(unitPath, unit, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", unitPath, err)
	}

	if err := systemctl("daemon-reload"); err != nil {
		return "", err
	}
	if err := systemctl("restart", unitName); err != nil {
		return "", err
	}
	return unitPath, nil
}

// Stop stops the running unit.
func Stop() error {
	return systemctl("stop", unitName)
}

func systemctl(args ...string) error {
	cmd := exec.Command("systemctl", append([]string{"--user"}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl %s: %v: %s", strings.Join(args, " "), err, bytes.TrimSpace(out))
	}
	return nil
}
