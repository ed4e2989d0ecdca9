package framing_test

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"

	"dhchat/internal/transport/framing"
)

// roundTrip writes payload on one end of a pipe and reads it on the other.
func roundTrip(t *testing.T, c framing.Codec, payload []byte) []byte {
	t.Helper()
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	errc := make(chan error, 1)
	go func() { errc <- c.WriteFrame(a, payload) }()

	got, err := c.ReadFrame(b)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	return got
}

func TestFramingLaw(t *testing.T) {
	sizes := []int{0, 1, 1023, 1024, 1025, 2048, 3000, 4096}
	for _, name := range []string{framing.NameLength, framing.NameChunked} {
		c, err := framing.ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		for _, n := range sizes {
			payload := bytes.Repeat([]byte{'x'}, n)
			got := roundTrip(t, c, payload)
			if !bytes.Equal(got, payload) {
				t.Fatalf("%s len %d: got %d bytes back", name, n, len(got))
			}
		}
	}
}

func TestLength_SequentialFrames(t *testing.T) {
	var buf bytes.Buffer
	c := framing.Length{}
	for _, s := range []string{"one", "", "three"} {
		if err := c.WriteFrame(&buf, []byte(s)); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	for _, want := range []string{"one", "", "three"} {
		got, err := c.ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		if string(got) != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
	if _, err := c.ReadFrame(&buf); !errors.Is(err, io.EOF) {
		t.Fatalf("want io.EOF at end of stream, got %v", err)
	}
}

func TestLength_Truncated(t *testing.T) {
	var buf bytes.Buffer
	c := framing.Length{}
	if err := c.WriteFrame(&buf, []byte("hello world")); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	trunc := bytes.NewReader(buf.Bytes()[:buf.Len()-3])
	if _, err := c.ReadFrame(trunc); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("want io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestLength_TooLarge(t *testing.T) {
	c := framing.Length{Max: 8}
	var buf bytes.Buffer
	if err := c.WriteFrame(&buf, make([]byte, 9)); !errors.Is(err, framing.ErrFrameTooLarge) {
		t.Fatalf("write: want ErrFrameTooLarge, got %v", err)
	}
	if err := (framing.Length{}).WriteFrame(&buf, make([]byte, 9)); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if _, err := c.ReadFrame(&buf); !errors.Is(err, framing.ErrFrameTooLarge) {
		t.Fatalf("read: want ErrFrameTooLarge, got %v", err)
	}
}

func TestByName_Unknown(t *testing.T) {
	if _, err := framing.ByName("xml"); !errors.Is(err, framing.ErrUnknownCodec) {
		t.Fatalf("want ErrUnknownCodec, got %v", err)
	}
}
