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
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fsearch-io/fsearch/searcher/matcher"

	"gopkg.in/yaml.v3"
)

// Config is the server config.
type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// LinuxPath is the reference text file queries are matched against.
	LinuxPath     string `yaml:"linuxpath"`
	RereadOnQuery bool   `yaml:"reread_on_query"`

	SSL      bool   `yaml:"ssl"`
	CertFile string `yaml:"certfile"`
	KeyFile  string `yaml:"keyfile"`

	LogLevel             string `yaml:"log_level"`
	SearchAlgorithm      string `yaml:"search_algorithm"`
	MaxPayload           int    `yaml:"max_payload"`
	MaxConcurrentQueries int    `yaml:"max_concurrent_queries"`
	MaxLines             int    `yaml:"max_lines"`
}

// DefaultConfig returns a config with every optional field set to its
// default. LinuxPath stays empty and must come from the config file.
func DefaultConfig() *Config {
	return &Config{
		Host:                 "0.0.0.0",
		Port:                 8080,
		CertFile:             "server.crt",
		KeyFile:              "server.key",
		LogLevel:             "debug",
		SearchAlgorithm:      matcher.Default,
		MaxPayload:           1024,
		MaxConcurrentQueries: 5,
		MaxLines:             250000,
	}
}

// LoadConfig loads a yaml config from path p. Keys absent from the file
// keep their defaults.
func LoadConfig(p string) (*Config, error) {
	c := DefaultConfig()
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

// GenConfig generates a template config to path p.
func GenConfig(p string) error {
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}

	_, err = f.Write(b)

	return err
}

// Validate checks the config and resolves LinuxPath to an absolute
// path. The backing file must exist here regardless of the reread mode,
// reread mode only covers the file changing later, not starting without
// one.
func (c *Config) Validate() error {
	if len(c.LinuxPath) == 0 {
		return errors.New("linuxpath is required")
	}
	abs, err := filepath.Abs(c.LinuxPath)
	if err != nil {
		return fmt.Errorf("failed to resolve linuxpath: %w", err)
	}
	c.LinuxPath = abs
	if _, err := os.Stat(c.LinuxPath); err != nil {
		return fmt.Errorf("linuxpath is not readable: %w", err)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MaxPayload <= 0 {
		return fmt.Errorf("invalid max_payload: %d", c.MaxPayload)
	}
	if c.MaxConcurrentQueries <= 0 {
		return fmt.Errorf("invalid max_concurrent_queries: %d", c.MaxConcurrentQueries)
	}
	if c.MaxLines <= 0 {
		return fmt.Errorf("invalid max_lines: %d", c.MaxLines)
	}
	if _, err := matcher.Get(c.SearchAlgorithm); err != nil {
		return err
	}
	if c.SSL {
		if len(c.CertFile) == 0 || len(c.KeyFile) == 0 {
			return errors.New("ssl requires certfile and keyfile paths")
		}
	}
	return nil
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
