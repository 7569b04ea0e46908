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

package matcher

// ahoCorasick builds a goto/fail automaton from the query and feeds
// every line of the query's length through it. The automaton is built
// once per query and reused for all lines of one resolution. Combined
// with the length filter, any terminal hit is a full-line match.
type ahoCorasick struct{}

func (ahoCorasick) Match(lines []string, query string) bool {
	if len(query) == 0 {
		for _, line := range lines {
			if len(line) == 0 {
				return true
			}
		}
		return false
	}

	a := newACAutomaton(query)
	for _, line := range lines {
		if len(line) != len(query) {
			continue
		}
		if a.scan(line) {
			return true
		}
	}
	return false
}

type acAutomaton struct {
	next []map[byte]int
	fail []int
	out  []bool
}

func newACAutomaton(pattern string) *acAutomaton {
	a := new(acAutomaton)
	a.addState() // root

	cur := 0
	for i := 0; i < len(pattern); i++ {
		b := pattern[i]
		nxt, ok := a.next[cur][b]
		if !ok {
			nxt = a.addState()
			a.next[cur][b] = nxt
		}
		cur = nxt
	}
	a.out[cur] = true
	a.buildFailLinks()
	return a
}

func (a *acAutomaton) addState() int {
	a.next = append(a.next, make(map[byte]int, 1))
	a.fail = append(a.fail, 0)
	a.out = append(a.out, false)
	return len(a.next) - 1
}

// buildFailLinks wires the failure transitions in BFS order, so that a
// state's fail link is always resolved before its children's.
func (a *acAutomaton) buildFailLinks() {
	queue := make([]int, 0, len(a.next))
	for _, s := range a.next[0] {
		queue = append(queue, s)
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for b, v := range a.next[u] {
			f := a.fail[u]
			for f != 0 {
				if _, ok := a.next[f][b]; ok {
					break
				}
				f = a.fail[f]
			}
			if nf, ok := a.next[f][b]; ok && nf != v {
				a.fail[v] = nf
			}
			if a.out[a.fail[v]] {
				a.out[v] = true
			}
			queue = append(queue, v)
		}
	}
}

func (a *acAutomaton) scan(text string) bool {
	s := 0
	for i := 0; i < len(text); i++ {
		b := text[i]
		for s != 0 {
			if _, ok := a.next[s][b]; ok {
				break
			}
			s = a.fail[s]
		}
		if nxt, ok := a.next[s][b]; ok {
			s = nxt
		}
		if a.out[s] {
			return true
		}
	}
	return false
}
