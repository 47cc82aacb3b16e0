package listener

import (
	"bytes"
	"io"
)

// crlfReadWriter translates line endings for terminal clients. Reads turn
// \r\n and bare \r into \n; writes turn \n into \r\n.
type crlfReadWriter struct {
	rw     io.ReadWriter
	lastCR bool
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &crlfReadWriter{rw: rw}
}

func (c *crlfReadWriter) Read(p []byte) (int, error) {
	for {
		n, err := c.rw.Read(p)
		out := p[:0]
		for _, b := range p[:n] {
			switch {
			case b == '\r':
				out = append(out, '\n')
				c.lastCR = true
				continue
			case b == '\n' && c.lastCR:
				// Second half of a \r\n split across reads.
			default:
				out = append(out, b)
			}
			c.lastCR = false
		}
		if len(out) > 0 || err != nil || n == 0 {
			return len(out), err
		}
	}
}

func (c *crlfReadWriter) Write(p []byte) (int, error) {
	converted := bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))
	_, err := c.rw.Write(converted)
	// Report the caller's length, not the expanded one.
	return len(p), err
}
