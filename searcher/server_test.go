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
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testData = "11;0;23;11;0;19;5;0;\n11;0;23;11;0;19;5\nfoobar\n"

func testConfig(t *testing.T) *Config {
	t.Helper()
	conf := DefaultConfig()
	conf.Host = "127.0.0.1"
	conf.Port = 0
	conf.LinuxPath = writeTempFile(t, "data.txt", testData)
	return conf
}

func startTestServer(t *testing.T, conf *Config) *Server {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	entry := logrus.NewEntry(logger)

	se, err := InitSearcher(conf, entry)
	require.NoError(t, err)

	srv := NewServer(conf, se, entry)
	require.NoError(t, srv.Listen())
	go srv.Serve()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return srv
}

// sendRaw writes payload as-is and returns everything read until the
// server closes the connection.
func sendRaw(t *testing.T, addr string, payload []byte, useTLS bool) (string, error) {
	t.Helper()
	var c net.Conn
	var err error
	if useTLS {
		c, err = tls.Dial("tcp", addr, &tls.Config{InsecureSkipVerify: true})
	} else {
		c, err = net.Dial("tcp", addr)
	}
	require.NoError(t, err)
	defer c.Close()
	c.SetDeadline(time.Now().Add(time.Second * 3))

	if _, err := c.Write(payload); err != nil {
		return "", err
	}
	resp, err := io.ReadAll(c)
	return string(resp), err
}

func Test_server_endToEnd(t *testing.T) {
	srv := startTestServer(t, testConfig(t))
	addr := srv.Addr().String()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"full line match", "11;0;23;11;0;19;5;0;", RespExists},
		{"shorter full line match", "11;0;23;11;0;19;5", RespExists},
		{"missing trailing separator", "11;0;23;11;0;19;5;0", RespNotFound},
		{"substring of a line", "foo", RespNotFound},
		{"no match", "42;42;42;", RespNotFound},
		{"empty query", "", RespNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := sendRaw(t, addr, []byte(tt.query+"\n"), false)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", resp)
		})
	}
}

func Test_server_nulTerminatedQuery(t *testing.T) {
	srv := startTestServer(t, testConfig(t))

	resp, err := sendRaw(t, srv.Addr().String(), []byte("11;0;23;11;0;19;5;0;\x00"), false)
	require.NoError(t, err)
	assert.Equal(t, RespExists+"\n", resp)
}

// A query holding invalid UTF-8 must get a normal answer from the
// default strategy, not take the process down.
func Test_server_nonUTF8Query(t *testing.T) {
	srv := startTestServer(t, testConfig(t))
	addr := srv.Addr().String()

	resp, err := sendRaw(t, addr, []byte{0xc6, '\n'}, false)
	require.NoError(t, err)
	assert.Equal(t, RespNotFound+"\n", resp)

	// the server keeps serving
	resp, err = sendRaw(t, addr, []byte("foobar\n"), false)
	require.NoError(t, err)
	assert.Equal(t, RespExists+"\n", resp)
}

func Test_server_oversizedRequest(t *testing.T) {
	conf := testConfig(t)
	conf.MaxPayload = 32
	srv := startTestServer(t, conf)
	addr := srv.Addr().String()

	payload := []byte(strings.Repeat("a", 128)) // no terminator
	resp, err := sendRaw(t, addr, payload, false)
	if err == nil {
		// server closed without answering; a reset on the way out is
		// also acceptable
		assert.Empty(t, resp)
	}
	assert.NotContains(t, resp, "STRING")

	// the server keeps serving
	resp, err = sendRaw(t, addr, []byte("foobar\n"), false)
	require.NoError(t, err)
	assert.Equal(t, RespExists+"\n", resp)
}

func Test_server_tlsAutoProvision(t *testing.T) {
	conf := testConfig(t)
	conf.SSL = true
	dir := t.TempDir()
	conf.CertFile = filepath.Join(dir, "server.crt")
	conf.KeyFile = filepath.Join(dir, "server.key")

	srv := startTestServer(t, conf)

	_, err := os.Stat(conf.CertFile)
	require.NoError(t, err, "certificate file must be provisioned")
	_, err = os.Stat(conf.KeyFile)
	require.NoError(t, err, "key file must be provisioned")

	resp, err := sendRaw(t, srv.Addr().String(), []byte("11;0;23;11;0;19;5\n"), true)
	require.NoError(t, err)
	assert.Equal(t, RespExists+"\n", resp)
}

// gaugeProvider counts concurrent Lines calls. Lines runs inside the
// concurrency gate, so its peak must stay at or below the gate size.
type gaugeProvider struct {
	lines []string
	delay time.Duration

	cur  int32
	peak int32
}

func (p *gaugeProvider) Lines() ([]string, error) {
	cur := atomic.AddInt32(&p.cur, 1)
	for {
		old := atomic.LoadInt32(&p.peak)
		if cur <= old || atomic.CompareAndSwapInt32(&p.peak, old, cur) {
			break
		}
	}
	time.Sleep(p.delay)
	atomic.AddInt32(&p.cur, -1)
	return p.lines, nil
}

func (p *gaugeProvider) Mode() string { return "gauge" }

func Test_server_concurrencyBound(t *testing.T) {
	conf := testConfig(t)
	conf.MaxConcurrentQueries = 3

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	entry := logrus.NewEntry(logger)

	se, err := InitSearcher(conf, entry)
	require.NoError(t, err)
	gauge := &gaugeProvider{
		lines: []string{"foobar"},
		delay: time.Millisecond * 30,
	}
	se.provider = gauge // installed before the server starts

	srv := NewServer(conf, se, entry)
	require.NoError(t, srv.Listen())
	go srv.Serve()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	const clients = 12
	var wg sync.WaitGroup
	errs := make(chan error, clients)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := net.Dial("tcp", srv.Addr().String())
			if err != nil {
				errs <- err
				return
			}
			defer c.Close()
			c.SetDeadline(time.Now().Add(time.Second * 5))
			if _, err := c.Write([]byte("foobar\n")); err != nil {
				errs <- err
				return
			}
			resp, err := io.ReadAll(c)
			if err != nil {
				errs <- err
				return
			}
			if string(resp) != RespExists+"\n" {
				errs <- io.ErrUnexpectedEOF
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("client error: %v", err)
	}

	peak := atomic.LoadInt32(&gauge.peak)
	assert.LessOrEqual(t, peak, int32(conf.MaxConcurrentQueries),
		"concurrent resolutions exceeded the gate")
	assert.Positive(t, peak)
}

func Test_server_shutdown(t *testing.T) {
	t.Run("idle drain", func(t *testing.T) {
		srv := startTestServer(t, testConfig(t))
		addr := srv.Addr().String()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, srv.Shutdown(ctx))

		_, err := net.Dial("tcp", addr)
		assert.Error(t, err, "listener must be closed after shutdown")
	})

	t.Run("force close on expired grace", func(t *testing.T) {
		conf := testConfig(t)
		srv := startTestServer(t, conf)

		// a client that never sends keeps its handler in the read
		c, err := net.Dial("tcp", srv.Addr().String())
		require.NoError(t, err)
		defer c.Close()
		time.Sleep(time.Millisecond * 50) // let the server accept it

		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*100)
		defer cancel()
		err = srv.Shutdown(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		c.SetReadDeadline(time.Now().Add(time.Second))
		_, err = c.Read(make([]byte, 1))
		assert.Error(t, err, "hanging connection must be force closed")
	})

	t.Run("second shutdown is a no-op", func(t *testing.T) {
		conf := testConfig(t)
		srv := startTestServer(t, conf)

		ctx := context.Background()
		require.NoError(t, srv.Shutdown(ctx))
		require.NoError(t, srv.Shutdown(ctx))
	})
}
