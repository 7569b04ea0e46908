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
	"bytes"
	"errors"
	"io"
	"net"
)

// Response lines, without their trailing newline.
const (
	RespExists   = "STRING EXISTS"
	RespNotFound = "STRING NOT FOUND"
)

var (
	respExistsLine   = []byte(RespExists + "\n")
	respNotFoundLine = []byte(RespNotFound + "\n")

	errPayloadTooLarge = errors.New("request exceeds max_payload")
)

// readQuery reads one request from c into buf. The request ends at the
// first '\n' or NUL, or at a clean EOF for clients that close their
// write side instead of sending a terminator. Filling buf without
// finding a terminator is a protocol error.
func readQuery(c net.Conn, buf []byte) ([]byte, error) {
	n := 0
	for n < len(buf) {
		m, err := c.Read(buf[n:])
		if m > 0 {
			if i := bytes.IndexAny(buf[n:n+m], "\n\x00"); i >= 0 {
				return buf[:n+i], nil
			}
			n += m
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return buf[:n], nil
			}
			return nil, err
		}
	}
	return nil, errPayloadTooLarge
}

// writeResp writes the response line for found to c in a single write.
func writeResp(c net.Conn, found bool) error {
	line := respNotFoundLine
	if found {
		line = respExistsLine
	}
	_, err := c.Write(line)
	return err
}
