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

import "regexp"

// regexMatch anchors the quoted query between ^ and $ and compiles it
// once per resolution. This is the default strategy. Queries that are
// not valid UTF-8 have no pattern form, the regexp parser rejects them,
// so they fall back to a direct equality scan. Lines of a different
// byte length are skipped, which keeps the strategy byte-exact on
// datasets holding invalid UTF-8.
type regexMatch struct{}

func (regexMatch) Match(lines []string, query string) bool {
	pattern, err := regexp.Compile("^" + regexp.QuoteMeta(query) + "$")
	if err != nil {
		for _, line := range lines {
			if line == query {
				return true
			}
		}
		return false
	}
	for _, line := range lines {
		if len(line) != len(query) {
			continue
		}
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}
