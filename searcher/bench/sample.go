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

package bench

import (
	"bufio"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

// WriteSampleFile writes about sizeMB megabytes of semicolon-delimited
// number lines to path, the line shape real datasets use.
func WriteSampleFile(path string, sizeMB int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	target := int64(sizeMB) << 20
	var written int64
	for written < target {
		n, err := w.WriteString(sampleLine())
		if err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
		written += int64(n) + 1
	}
	return w.Flush()
}

func sampleLine() string {
	var b strings.Builder
	n := 6 + rand.Intn(5)
	for i := 0; i < n; i++ {
		b.WriteString(strconv.Itoa(rand.Intn(32)))
		b.WriteByte(';')
	}
	return b.String()
}
