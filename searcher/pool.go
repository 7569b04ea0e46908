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
	"net"
	"sync"

	"github.com/sirupsen/logrus"
)

var requestLoggerPool = sync.Pool{
	New: func() interface{} {
		f := make(logrus.Fields, 5) // three fixed fields, two result fields
		f["id"] = nil
		f["from"] = nil
		f["query"] = nil
		e := &logrus.Entry{
			Data: f,
		}
		return e
	},
}

func getRequestLogger(logger *logrus.Logger, id uint64, from net.Addr, query string) *logrus.Entry {
	entry := requestLoggerPool.Get().(*logrus.Entry)
	entry.Logger = logger
	entry.Data["id"] = id
	entry.Data["from"] = from.String()
	entry.Data["query"] = query
	return entry
}

func releaseRequestLogger(entry *logrus.Entry) {
	entry.Data["id"] = nil
	entry.Data["from"] = nil
	entry.Data["query"] = nil
	delete(entry.Data, "found")
	delete(entry.Data, "elapsed_ms")
	entry.Logger = nil
	requestLoggerPool.Put(entry)
}

type payloadBuf struct {
	b []byte
}

var payloadBufPool = sync.Pool{}

func getPayloadBuf(size int) *payloadBuf {
	buf, ok := payloadBufPool.Get().(*payloadBuf)
	if !ok {
		return &payloadBuf{b: make([]byte, size)}
	}
	if cap(buf.b) < size {
		buf.b = make([]byte, size)
	} else {
		buf.b = buf.b[:size]
	}
	return buf
}

func releasePayloadBuf(buf *payloadBuf) {
	payloadBufPool.Put(buf)
}
