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

// Package matcher provides interchangeable full-line match strategies.
//
// Every strategy answers the same question: is the query equal to at
// least one line of the dataset. A line matches only as a whole, a query
// that is a prefix, suffix or substring of a line never matches.
package matcher

import (
	"fmt"
	"sort"
)

// Default is the strategy used when the config leaves the algorithm empty.
const Default = "regex"

// Matcher reports whether a query exists in a dataset as a full line.
type Matcher interface {
	Match(lines []string, query string) bool
}

var strategies = map[string]Matcher{
	"naive":       naive{},
	"kmp":         kmp{},
	"rabinkarp":   rabinKarp{},
	"ahocorasick": ahoCorasick{},
	"regex":       regexMatch{},
}

// Get returns the strategy registered under name. An empty name selects
// the default strategy.
func Get(name string) (Matcher, error) {
	if len(name) == 0 {
		name = Default
	}
	m, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown search algorithm: %s", name)
	}
	return m, nil
}

// Names returns all registered strategy names in stable order.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
