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
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsearch-io/fsearch/searcher/certs"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/semaphore"
)

// connBacklogFactor scales the transport-level connection cap relative
// to the concurrency gate. Connections beyond the cap stay in the
// kernel backlog and are not accepted.
const connBacklogFactor = 4

// ErrServerClosed is returned by Serve after Shutdown.
var ErrServerClosed = errors.New("server closed")

// Server owns the listener and the per-connection handlers.
type Server struct {
	config   *Config
	searcher *Searcher
	entry    *logrus.Entry

	gate *semaphore.Weighted

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup

	connID atomic.Uint64
}

// NewServer creates a server around an initialized searcher.
func NewServer(conf *Config, searcher *Searcher, entry *logrus.Entry) *Server {
	return &Server{
		config:   conf,
		searcher: searcher,
		entry:    entry,
		gate:     semaphore.NewWeighted(int64(conf.MaxConcurrentQueries)),
		conns:    make(map[net.Conn]struct{}),
	}
}

// Listen binds the configured address. The listener is wrapped with the
// connection cap and, with ssl enabled, TLS. Missing certificate files
// are provisioned first.
func (s *Server) Listen() error {
	l, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}
	l = netutil.LimitListener(l, s.config.MaxConcurrentQueries*connBacklogFactor)

	if s.config.SSL {
		tlsConf, err := s.tlsConfig()
		if err != nil {
			l.Close()
			return err
		}
		l = tls.NewListener(l, tlsConf)
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
	s.entry.Infof("server: listening on %s, ssl: %v", l.Addr(), s.config.SSL)
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve runs the accept loop until the listener fails or Shutdown is
// called. Queries never run on the accept goroutine.
func (s *Server) Serve() error {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l == nil {
		return errors.New("server is not listening")
	}

	for {
		c, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}
			if netErr, ok := err.(net.Error); ok && netErr.Temporary() {
				s.entry.Warnf("server: accept: temporary err: %v", err)
				time.Sleep(time.Millisecond * 100)
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}

		if !s.trackConn(c) { // shutting down
			c.Close()
			continue
		}
		go func() {
			defer s.wg.Done()
			defer s.untrackConn(c)
			defer c.Close()
			s.handleConn(c)
		}()
	}
}

// ListenAndServe is Listen followed by Serve.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

func (s *Server) tlsConfig() (*tls.Config, error) {
	created, err := certs.EnsureFiles(s.config.CertFile, s.config.KeyFile, certs.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to provision certificate: %w", err)
	}
	if created {
		s.entry.Infof("server: generated self-signed certificate: %s", s.config.CertFile)
	}
	cert, err := tls.LoadX509KeyPair(s.config.CertFile, s.config.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

func (s *Server) trackConn(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrackConn(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

// Shutdown stops accepting and waits for running handlers to finish.
// When ctx expires first, the remaining connections are force closed
// and ctx's error is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	l := s.listener
	s.mu.Unlock()

	if l != nil {
		l.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.entry.Info("server: all connections drained")
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		n := len(s.conns)
		for c := range s.conns {
			c.Close()
		}
		s.mu.Unlock()
		s.entry.Warnf("server: shutdown grace period expired, force closed %d connections", n)
		return ctx.Err()
	}
}
