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

// rkPrime is the modulus of the polynomial hash.
const rkPrime = 101

// rabinKarp hashes the query once and compares the hash against every
// line of the same length, falling back to a direct comparison on a
// hash hit to rule out collisions.
type rabinKarp struct{}

func (rabinKarp) Match(lines []string, query string) bool {
	queryHash := rkHash(query)
	for _, line := range lines {
		if len(line) != len(query) {
			continue
		}
		if rkHash(line) == queryHash && line == query {
			return true
		}
	}
	return false
}

func rkHash(s string) int {
	h := 0
	for i := 0; i < len(s); i++ {
		h = (h*256 + int(s[i])) % rkPrime
	}
	return h
}
