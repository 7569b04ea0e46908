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

// Package searcher implements a TCP server answering whether a query
// exists in a reference text file as a full line.
package searcher

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/fsearch-io/fsearch/searcher/dataset"
	"github.com/fsearch-io/fsearch/searcher/matcher"

	"github.com/sirupsen/logrus"
)

// Searcher resolves queries against one reference file.
type Searcher struct {
	provider dataset.Provider
	matcher  matcher.Matcher
}

// QueryResult is the outcome of one query resolution.
type QueryResult struct {
	Found   bool
	Elapsed time.Duration
}

// InitSearcher inits a searcher from conf. In cached mode the reference
// file is loaded here, once.
func InitSearcher(conf *Config, entry *logrus.Entry) (*Searcher, error) {
	s := new(Searcher)

	algo := conf.SearchAlgorithm
	if len(algo) == 0 {
		algo = matcher.Default
	}
	m, err := matcher.Get(algo)
	if err != nil {
		return nil, fmt.Errorf("failed to init search algorithm: %w", err)
	}
	s.matcher = m

	provider, err := dataset.New(conf.LinuxPath, conf.MaxLines, conf.RereadOnQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to init dataset: %w", err)
	}
	s.provider = provider

	entry.Infof("searcher: %s dataset from %s, algorithm: %s", provider.Mode(), conf.LinuxPath, algo)
	return s, nil
}

// NormalizeQuery strips trailing NUL padding, then surrounding
// whitespace including line terminators.
func NormalizeQuery(raw []byte) string {
	return strings.TrimSpace(string(bytes.TrimRight(raw, "\x00")))
}

// ResolveQuery reports whether query exists in the dataset as a full
// line. query must already be normalized. Only the match itself is
// timed. In reread mode a load failure surfaces here, per query.
func (s *Searcher) ResolveQuery(query string) (QueryResult, error) {
	lines, err := s.provider.Lines()
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to read dataset: %w", err)
	}

	start := time.Now()
	found := s.matcher.Match(lines, query)
	return QueryResult{Found: found, Elapsed: time.Since(start)}, nil
}
