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

// Package bench measures the match strategies against sample files and
// renders a comparison report.
package bench

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fsearch-io/fsearch/searcher/dataset"
	"github.com/fsearch-io/fsearch/searcher/matcher"
)

const (
	defaultQueries  = 10
	defaultMaxLines = 250000
)

// Options configures a benchmark run.
type Options struct {
	// Files are the sample files to search.
	Files []string
	// MaxLines caps the lines loaded per file.
	MaxLines int
	// Queries is the number of existing lines sampled per file. One
	// guaranteed miss is added on top.
	Queries int
	// Seed fixes the query sampling, 0 picks a time-based seed.
	Seed int64
}

// Row is one strategy's aggregate result.
type Row struct {
	Algorithm string
	Runs      int
	Avg       time.Duration
}

// Run loads every file once and times every strategy on the same
// queries. Rows come back sorted fastest first.
func Run(opts Options) ([]Row, error) {
	if len(opts.Files) == 0 {
		return nil, fmt.Errorf("no sample files")
	}
	if opts.Queries <= 0 {
		opts.Queries = defaultQueries
	}
	if opts.MaxLines <= 0 {
		opts.MaxLines = defaultMaxLines
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))

	type sample struct {
		lines   []string
		queries []string
	}
	samples := make([]sample, 0, len(opts.Files))
	for _, file := range opts.Files {
		lines, err := dataset.LoadLines(file, opts.MaxLines)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		if len(lines) == 0 {
			return nil, fmt.Errorf("sample file %s is empty", file)
		}
		queries := make([]string, 0, opts.Queries+1)
		for i := 0; i < opts.Queries; i++ {
			queries = append(queries, lines[rnd.Intn(len(lines))])
		}
		// sample lines never contain letters
		queries = append(queries, "missing;")
		samples = append(samples, sample{lines: lines, queries: queries})
	}

	rows := make([]Row, 0, len(matcher.Names()))
	for _, algo := range matcher.Names() {
		m, err := matcher.Get(algo)
		if err != nil {
			return nil, err
		}
		var total time.Duration
		runs := 0
		for _, s := range samples {
			for _, q := range s.queries {
				start := time.Now()
				m.Match(s.lines, q)
				total += time.Since(start)
				runs++
			}
		}
		rows = append(rows, Row{Algorithm: algo, Runs: runs, Avg: total / time.Duration(runs)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Avg < rows[j].Avg })
	return rows, nil
}

// Report renders rows as an aligned text table.
func Report(rows []Row) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tRUNS\tAVG")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.Algorithm, r.Runs, r.Avg)
	}
	w.Flush()
	return b.String()
}

// WriteReport writes the rendered table to path.
func WriteReport(path string, rows []Row) error {
	return os.WriteFile(path, []byte(Report(rows)), 0644)
}
