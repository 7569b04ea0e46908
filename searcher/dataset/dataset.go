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

// Package dataset supplies the reference lines queries are matched
// against, either as a snapshot loaded once or reread from disk on
// every call.
package dataset

import (
	"bufio"
	"fmt"
	"os"
)

// maxLineSize bounds a single line of the reference file.
const maxLineSize = 1 << 20

// Provider supplies the dataset lines.
type Provider interface {
	// Lines returns the dataset with line terminators stripped. The
	// returned slice may be shared, callers must not modify it.
	Lines() ([]string, error)
	// Mode describes the provider in logs.
	Mode() string
}

// New returns a provider for the file at path, truncated to maxLines.
// With reread set, every Lines call reloads the file and a load error
// surfaces per call. Otherwise the file is loaded here, once, and New
// fails if it can not be read.
func New(path string, maxLines int, reread bool) (Provider, error) {
	if reread {
		return &rereadProvider{path: path, maxLines: maxLines}, nil
	}
	lines, err := LoadLines(path, maxLines)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return &cachedProvider{lines: lines}, nil
}

type cachedProvider struct {
	lines []string
}

func (p *cachedProvider) Lines() ([]string, error) { return p.lines, nil }
func (p *cachedProvider) Mode() string             { return "cached" }

type rereadProvider struct {
	path     string
	maxLines int
}

func (p *rereadProvider) Lines() ([]string, error) { return LoadLines(p.path, p.maxLines) }
func (p *rereadProvider) Mode() string             { return "reread" }

// LoadLines reads at most maxLines lines from path. Scanning stops at
// the cap, the rest of the file is ignored. A trailing newline does not
// produce an empty final line.
func LoadLines(path string, maxLines int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := make([]string, 0, 1024)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for len(lines) < maxLines && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	return lines, nil
}
