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

// Package client sends queries to a running fsearch server, one
// connection per query.
package client

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/fsearch-io/fsearch/searcher"
)

const defaultTimeout = time.Second * 5

// Client queries one fsearch server.
type Client struct {
	// Addr is the server's host:port.
	Addr string
	// UseTLS wraps the connection in TLS. Server certificates are
	// self-signed, so they are not verified.
	UseTLS bool
	// Timeout bounds dialing and the whole round trip.
	Timeout time.Duration
}

// Result is one answered query.
type Result struct {
	Found bool
	// Raw is the response line as received, without the terminator.
	Raw string
}

// New returns a client for addr.
func New(addr string, useTLS bool) *Client {
	return &Client{
		Addr:    addr,
		UseTLS:  useTLS,
		Timeout: defaultTimeout,
	}
}

// Search sends query and returns the server's answer. The server
// serves one query per connection, so each call dials anew.
func (c *Client) Search(query string) (*Result, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.Addr, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.Timeout))

	if _, err := conn.Write([]byte(query + "\n")); err != nil {
		return nil, fmt.Errorf("failed to send query: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && len(line) == 0 {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	raw := strings.TrimRight(line, "\r\n")
	return &Result{Found: raw == searcher.RespExists, Raw: raw}, nil
}

func (c *Client) dial() (net.Conn, error) {
	d := &net.Dialer{Timeout: c.Timeout}
	if c.UseTLS {
		return tls.DialWithDialer(d, "tcp", c.Addr, &tls.Config{
			InsecureSkipVerify: true,
		})
	}
	return d.Dial("tcp", c.Addr)
}
