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

package searcher

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func Test_LoadConfig(t *testing.T) {
	p := writeTempFile(t, "config.yaml", `
linuxpath: /data/200k.txt
reread_on_query: true
ssl: true
port: 44445
`)
	c, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if c.LinuxPath != "/data/200k.txt" {
		t.Errorf("LinuxPath = %s, want /data/200k.txt", c.LinuxPath)
	}
	if !c.RereadOnQuery {
		t.Error("RereadOnQuery = false, want true")
	}
	if !c.SSL {
		t.Error("SSL = false, want true")
	}
	if c.Port != 44445 {
		t.Errorf("Port = %d, want 44445", c.Port)
	}

	// absent keys keep their defaults
	if c.Host != "0.0.0.0" {
		t.Errorf("Host = %s, want default 0.0.0.0", c.Host)
	}
	if c.MaxPayload != 1024 {
		t.Errorf("MaxPayload = %d, want default 1024", c.MaxPayload)
	}
	if c.MaxConcurrentQueries != 5 {
		t.Errorf("MaxConcurrentQueries = %d, want default 5", c.MaxConcurrentQueries)
	}
	if c.MaxLines != 250000 {
		t.Errorf("MaxLines = %d, want default 250000", c.MaxLines)
	}
	if c.SearchAlgorithm != "regex" {
		t.Errorf("SearchAlgorithm = %s, want default regex", c.SearchAlgorithm)
	}
	if c.CertFile != "server.crt" || c.KeyFile != "server.key" {
		t.Errorf("cert defaults = %s/%s, want server.crt/server.key", c.CertFile, c.KeyFile)
	}
}

func Test_LoadConfig_badFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig() error = nil for missing file")
	}

	p := writeTempFile(t, "bad.yaml", "linuxpath: [broken")
	if _, err := LoadConfig(p); err == nil {
		t.Error("LoadConfig() error = nil for broken yaml")
	}
}

func Test_GenConfig(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := GenConfig(p); err != nil {
		t.Fatalf("GenConfig() error = %v", err)
	}

	c, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig() of generated template error = %v", err)
	}
	if c.Port != 8080 || c.LogLevel != "debug" || c.SearchAlgorithm != "regex" {
		t.Errorf("generated template lost defaults: %+v", c)
	}
	if len(c.LinuxPath) != 0 {
		t.Errorf("generated template has linuxpath %q, want empty", c.LinuxPath)
	}
}

func Test_Config_Validate(t *testing.T) {
	dataPath := writeTempFile(t, "data.txt", "a\n")

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"ok", func(c *Config) {}, false},
		{"missing linuxpath", func(c *Config) { c.LinuxPath = "" }, true},
		{"unreadable linuxpath cached", func(c *Config) { c.LinuxPath = "/nonexistent/data.txt" }, true},
		{"unreadable linuxpath reread", func(c *Config) {
			c.LinuxPath = "/nonexistent/data.txt"
			c.RereadOnQuery = true
		}, true},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"port too big", func(c *Config) { c.Port = 70000 }, true},
		{"bad algorithm", func(c *Config) { c.SearchAlgorithm = "boyermoore" }, true},
		{"bad max_payload", func(c *Config) { c.MaxPayload = 0 }, true},
		{"bad max_concurrent_queries", func(c *Config) { c.MaxConcurrentQueries = -1 }, true},
		{"bad max_lines", func(c *Config) { c.MaxLines = 0 }, true},
		{"ssl without keyfile", func(c *Config) {
			c.SSL = true
			c.KeyFile = ""
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			c.LinuxPath = dataPath
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_Config_Addr(t *testing.T) {
	c := DefaultConfig()
	if got := c.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %s, want 0.0.0.0:8080", got)
	}
	c.Host = "::1"
	c.Port = 9000
	if got := c.Addr(); got != "[::1]:9000" {
		t.Errorf("Addr() = %s, want [::1]:9000", got)
	}
}
