// Package protocol frames the newline-delimited UTF-8 text spoken with
// clients. It holds no game state.
package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxLineLength bounds a single client line in bytes.
const DefaultMaxLineLength = 1024

var ErrProtocol = errors.New("protocol error")

// ProtocolError reports a line that could not be understood. The connection
// stays usable; the next line is read normally.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s", e.Reason)
}

func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol
}

// Decoder reads lines from a client.
type Decoder struct {
	r *bufio.Reader
}

type DecoderOpt func(*decoderConfig)

type decoderConfig struct {
	maxLine int
}

// WithMaxLineLength overrides DefaultMaxLineLength.
func WithMaxLineLength(n int) DecoderOpt {
	return func(c *decoderConfig) {
		c.maxLine = n
	}
}

func NewDecoder(r io.Reader, opts ...DecoderOpt) *Decoder {
	cfg := &decoderConfig{maxLine: DefaultMaxLineLength}
	for _, opt := range opts {
		opt(cfg)
	}
	// bufio refuses buffers under 16 bytes.
	return &Decoder{r: bufio.NewReaderSize(r, max(cfg.maxLine, 16))}
}

// ReadLine blocks for the next line and returns it decoded. Over-long or
// malformed lines produce a *ProtocolError; anything else returned is an error
// from the underlying reader, io.EOF included.
func (d *Decoder) ReadLine() (string, error) {
	raw, err := d.r.ReadSlice('\n')
	switch {
	case errors.Is(err, bufio.ErrBufferFull):
		if err := d.discardLine(); err != nil {
			return "", err
		}
		return "", &ProtocolError{Reason: "line too long"}
	case errors.Is(err, io.EOF) && len(raw) > 0:
		// Deliver a final unterminated line; the next call reports EOF.
	case err != nil:
		return "", err
	}

	return Decode(raw)
}

func (d *Decoder) discardLine() error {
	for {
		_, err := d.r.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return err
	}
}

// Decode turns one raw line into text. It drops the line terminator and any
// telnet negotiation, applies backspaces, and rejects invalid UTF-8 or other
// control characters.
func Decode(raw []byte) (string, error) {
	raw = stripTelnet(raw)
	if !utf8.Valid(raw) {
		return "", &ProtocolError{Reason: "input is not valid UTF-8"}
	}

	s := strings.TrimRight(string(raw), "\r\n")

	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r == '\b' || r == 0x7f:
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		case r == '\t':
			out = append(out, ' ')
		case unicode.IsControl(r):
			return "", &ProtocolError{Reason: fmt.Sprintf("unexpected control character %U", r)}
		default:
			out = append(out, r)
		}
	}

	return string(out), nil
}

// Telnet command bytes.
const (
	iac  = 255
	sb   = 250
	se   = 240
	will = 251
	dont = 254
)

// stripTelnet removes IAC sequences sent by telnet clients connecting to the
// raw listener.
func stripTelnet(raw []byte) []byte {
	if bytes.IndexByte(raw, iac) < 0 {
		return raw
	}

	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != iac {
			out = append(out, raw[i])
			continue
		}
		if i+1 >= len(raw) {
			break
		}
		cmd := raw[i+1]
		switch {
		case cmd == iac:
			// Escaped 0xFF data byte; it can't be valid UTF-8 on its own so
			// keep it and let validation reject it.
			out = append(out, iac)
			i++
		case cmd >= will && cmd <= dont:
			i += 2
		case cmd == sb:
			i += 2
			for i < len(raw) && !(raw[i] == iac && i+1 < len(raw) && raw[i+1] == se) {
				i++
			}
			i++
		default:
			i++
		}
	}
	return out
}

// Encode frames response text as output bytes ending in exactly one newline.
func Encode(text string) []byte {
	return []byte(strings.TrimRight(text, "\n") + "\n")
}

// EncodeBlock frames a multi-line block, such as a mini-map, between blank
// lines so clients can tell it apart from narrative text.
func EncodeBlock(lines []string) []byte {
	var buf strings.Builder
	buf.WriteByte('\n')
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	return []byte(buf.String())
}
