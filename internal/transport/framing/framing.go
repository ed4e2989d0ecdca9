// Package framing delimits messages on a byte stream.
//
// Length is the default codec: a 4-byte big-endian length header followed by
// the payload. Chunked reproduces the legacy 1024-byte chunk heuristic for
// talking to older peers; it relies on read boundaries and is unreliable on
// real networks.
package framing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// MaxFrameSize bounds a single frame for the Length codec and a single
	// WebSocket message.
	MaxFrameSize = 1 << 20

	// ChunkSize is the read size used by the Chunked codec.
	ChunkSize = 1024

	// ChunkTerminator marks the end of a chunk-aligned Chunked frame.
	ChunkTerminator = "@end"
)

const (
	NameLength  = "length"
	NameChunked = "chunked"
)

var (
	ErrFrameTooLarge = errors.New("frame too large")
	ErrUnknownCodec  = errors.New("unknown framing")
)

// Codec writes and reads whole frames.
type Codec interface {
	WriteFrame(w io.Writer, p []byte) error
	ReadFrame(r io.Reader) ([]byte, error)
}

// ByName returns the codec for name. An empty name selects Length.
func ByName(name string) (Codec, error) {
	switch name {
	case "", NameLength:
		return Length{}, nil
	case NameChunked:
		return Chunked{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownCodec, name)
	}
}

// Length frames each payload with a uint32 big-endian length header.
type Length struct {
	// Max overrides MaxFrameSize when positive.
	Max int
}

func (l Length) max() int {
	if l.Max > 0 {
		return l.Max
	}
	return MaxFrameSize
}

func (l Length) WriteFrame(w io.Writer, p []byte) error {
	if len(p) > l.max() {
		return ErrFrameTooLarge
	}
	buf := make([]byte, 4+len(p))
	binary.BigEndian.PutUint32(buf[:4], uint32(len(p)))
	copy(buf[4:], p)
	_, err := w.Write(buf)
	return err
}

// ReadFrame returns io.EOF when the stream ends cleanly before a header and
// io.ErrUnexpectedEOF when it ends inside a frame.
func (l Length) ReadFrame(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if uint64(n) > uint64(l.max()) {
		return nil, ErrFrameTooLarge
	}
	p := make([]byte, n)
	if _, err := io.ReadFull(r, p); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return p, nil
}

// Chunked is the legacy codec: payloads whose length is a multiple of
// ChunkSize get ChunkTerminator appended, and the reader stops at the first
// short read.
type Chunked struct{}

func (Chunked) WriteFrame(w io.Writer, p []byte) error {
	buf := p
	if len(p)%ChunkSize == 0 {
		buf = make([]byte, 0, len(p)+len(ChunkTerminator))
		buf = append(buf, p...)
		buf = append(buf, ChunkTerminator...)
	}
	_, err := w.Write(buf)
	return err
}

// ReadFrame cannot detect truncation: a stream closed mid-frame yields the
// bytes read so far.
func (Chunked) ReadFrame(r io.Reader) ([]byte, error) {
	var whole []byte
	chunk := make([]byte, ChunkSize)
	for {
		n, err := r.Read(chunk)
		if n == ChunkSize {
			whole = append(whole, chunk...)
			if err != nil {
				return whole, nil
			}
			continue
		}
		if n == 0 && err != nil {
			if whole == nil {
				return nil, err
			}
			return whole, nil
		}
		if string(chunk[:n]) != ChunkTerminator {
			whole = append(whole, chunk[:n]...)
		}
		if whole == nil {
			whole = []byte{}
		}
		return whole, nil
	}
}
