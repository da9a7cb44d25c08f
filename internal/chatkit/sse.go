// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package chatkit

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// maxEventBytes bounds a single upstream event.
const maxEventBytes = 4 << 20

// ErrEventTooLarge is returned when an upstream event exceeds the size limit.
var ErrEventTooLarge = errors.New("server-sent event too large")

// eventReader splits an SSE byte stream on blank lines.
type eventReader struct {
	r     *bufio.Reader
	limit int
	buf   bytes.Buffer

	// midLine is set while a line longer than the read buffer is being
	// assembled; its tail is never a blank line.
	midLine bool
}

func newEventReader(r io.Reader, limit int) *eventReader {
	return &eventReader{r: bufio.NewReaderSize(r, 32<<10), limit: limit}
}

func isBlankLine(line []byte) bool {
	return len(line) == 1 && line[0] == '\n' ||
		len(line) == 2 && line[0] == '\r' && line[1] == '\n'
}

// next returns the next event. The returned slice is only valid until the
// following call.
func (e *eventReader) next() ([]byte, error) {
	e.buf.Reset()
	for {
		line, err := e.r.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			// Long line: keep accumulating until the newline arrives.
			if e.buf.Len()+len(line) > e.limit {
				return nil, ErrEventTooLarge
			}
			e.buf.Write(line)
			e.midLine = true
			continue
		}

		if len(line) > 0 {
			blank := !e.midLine && isBlankLine(line)
			e.midLine = false
			if blank && e.buf.Len() == 0 {
				// Stray separator between events.
				if err == nil {
					continue
				}
			} else {
				if e.buf.Len()+len(line) > e.limit {
					return nil, ErrEventTooLarge
				}
				e.buf.Write(line)
				if blank {
					return e.buf.Bytes(), nil
				}
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				if e.buf.Len() == 0 {
					return nil, io.EOF
				}
				// Stream ended mid-event; terminate it so clients still
				// dispatch it.
				if !bytes.HasSuffix(e.buf.Bytes(), []byte("\n")) {
					e.buf.WriteByte('\n')
				}
				e.buf.WriteByte('\n')
				return e.buf.Bytes(), nil
			}
			return nil, fmt.Errorf("read event stream: %w", err)
		}
	}
}
