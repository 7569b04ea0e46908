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
	"context"
	"net"
	"time"
)

const (
	connReadTimeout  = time.Second * 8
	connWriteTimeout = time.Second

	// how long a query may wait for a slot at the concurrency gate
	queryQueueTimeout = time.Second * 5
)

// handleConn serves one connection: read one query, resolve it behind
// the concurrency gate, write one response line. Errors stay inside the
// connection, the caller closes c.
func (s *Server) handleConn(c net.Conn) {
	id := s.connID.Add(1)

	// one spare byte so a query of exactly MaxPayload bytes still fits
	// together with its terminator
	buf := getPayloadBuf(s.config.MaxPayload + 1)
	defer releasePayloadBuf(buf)

	c.SetReadDeadline(time.Now().Add(connReadTimeout))
	raw, err := readQuery(c, buf.b)
	if err != nil {
		s.entry.Warnf("conn %d from %s: failed to read query: %v", id, c.RemoteAddr(), err)
		return
	}

	query := NormalizeQuery(raw)
	requestLogger := getRequestLogger(s.entry.Logger, id, c.RemoteAddr(), query)
	defer releaseRequestLogger(requestLogger)

	ctx, cancel := context.WithTimeout(context.Background(), queryQueueTimeout)
	err = s.gate.Acquire(ctx, 1)
	cancel()
	if err != nil {
		requestLogger.Warnf("refusing query: too many concurrent queries: %v", err)
		return
	}
	res, err := s.searcher.ResolveQuery(query)
	s.gate.Release(1)
	if err != nil {
		requestLogger.Errorf("failed to resolve query: %v", err)
		return
	}

	c.SetWriteDeadline(time.Now().Add(connWriteTimeout))
	if err := writeResp(c, res.Found); err != nil {
		requestLogger.Warnf("failed to write response: %v", err)
		return
	}

	requestLogger.Data["found"] = res.Found
	requestLogger.Data["elapsed_ms"] = float64(res.Elapsed.Microseconds()) / 1000
	requestLogger.Info("query resolved")
}
