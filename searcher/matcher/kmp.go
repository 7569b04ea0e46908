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

// kmp runs Knuth-Morris-Pratt over every line of the query's length.
// Lines of a different length can not be a full-line match and are
// skipped before the scan.
type kmp struct{}

func (kmp) Match(lines []string, query string) bool {
	fail := kmpFailure(query)
	for _, line := range lines {
		if len(line) != len(query) {
			continue
		}
		if kmpSearch(line, query, fail) {
			return true
		}
	}
	return false
}

// kmpFailure builds the failure function of pattern. fail[i] is the
// length of the longest proper prefix of pattern[:i+1] that is also a
// suffix of it.
func kmpFailure(pattern string) []int {
	fail := make([]int, len(pattern))
	k := 0
	for i := 1; i < len(pattern); i++ {
		for k > 0 && pattern[k] != pattern[i] {
			k = fail[k-1]
		}
		if pattern[k] == pattern[i] {
			k++
		}
		fail[i] = k
	}
	return fail
}

// kmpSearch reports whether pattern occurs in text. An empty pattern
// only matches an empty text, keeping the full-line contract.
func kmpSearch(text, pattern string, fail []int) bool {
	if len(pattern) == 0 {
		return len(text) == 0
	}
	k := 0
	for i := 0; i < len(text); i++ {
		for k > 0 && pattern[k] != text[i] {
			k = fail[k-1]
		}
		if pattern[k] == text[i] {
			k++
		}
		if k == len(pattern) {
			return true
		}
	}
	return false
}
