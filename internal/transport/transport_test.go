package transport_test

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"dhchat/internal/domain"
	"dhchat/internal/transport"
	"dhchat/internal/transport/framing"
)

func exchange(t *testing.T, a, b domain.Transport) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- a.WriteFrame(ctx, []byte("ping")) }()
	got, err := b.ReadFrame(ctx)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if string(got) != "ping" {
		t.Fatalf("got %q, want ping", got)
	}
}

func TestStream_RoundTrip(t *testing.T) {
	for _, c := range []framing.Codec{framing.Length{}, framing.Chunked{}} {
		x, y := net.Pipe()
		a, b := transport.NewStream(x, c), transport.NewStream(y, c)
		exchange(t, a, b)
		exchange(t, b, a)
		_ = a.Close()
		_ = b.Close()
	}
}

func TestStream_ReadHonoursCancel(t *testing.T) {
	x, y := net.Pipe()
	defer y.Close()
	s := transport.NewStream(x, nil)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	_, err := s.ReadFrame(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestStream_ReadHonoursDeadline(t *testing.T) {
	x, y := net.Pipe()
	defer y.Close()
	s := transport.NewStream(x, nil)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.ReadFrame(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}
}

func TestStream_PeerCloseIsEOF(t *testing.T) {
	x, y := net.Pipe()
	s := transport.NewStream(x, nil)
	defer s.Close()
	_ = y.Close()

	_, err := s.ReadFrame(context.Background())
	if !errors.Is(err, io.EOF) {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestStream_CloseIdempotent(t *testing.T) {
	x, y := net.Pipe()
	defer y.Close()
	s := transport.NewStream(x, nil)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_ = s.Close()
}

func listenAndDial(t *testing.T, opts transport.Options) (domain.Transport, domain.Transport) {
	t.Helper()
	ln, err := transport.Listen("127.0.0.1:0", opts)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type result struct {
		t   domain.Transport
		err error
	}
	acc := make(chan result, 1)
	go func() {
		tr, err := ln.Accept(ctx)
		acc <- result{tr, err}
	}()

	client, err := transport.Dial(ctx, ln.Addr().String(), opts)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	r := <-acc
	if r.err != nil {
		t.Fatalf("Accept: %v", r.err)
	}
	t.Cleanup(func() {
		_ = client.Close()
		_ = r.t.Close()
	})
	return r.t, client
}

func TestListenDial_TCP(t *testing.T) {
	for _, c := range []framing.Codec{framing.Length{}, framing.Chunked{}} {
		server, client := listenAndDial(t, transport.Options{Kind: transport.KindTCP, Codec: c})
		exchange(t, client, server)
		exchange(t, server, client)
	}
}

func TestListenDial_WebSocket(t *testing.T) {
	server, client := listenAndDial(t, transport.Options{Kind: transport.KindWebSocket})
	exchange(t, client, server)
	exchange(t, server, client)

	_ = client.Close()
	_, err := server.ReadFrame(context.Background())
	if !errors.Is(err, io.EOF) {
		t.Fatalf("want io.EOF after peer close, got %v", err)
	}
}

func TestWebSocket_OversizedFrame(t *testing.T) {
	ln, err := transport.Listen("127.0.0.1:0", transport.Options{Kind: transport.KindWebSocket})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type result struct {
		t   domain.Transport
		err error
	}
	acc := make(chan result, 1)
	go func() {
		tr, err := ln.Accept(ctx)
		acc <- result{tr, err}
	}()

	raw, resp, err := websocket.DefaultDialer.DialContext(ctx, "ws://"+ln.Addr().String()+transport.DefaultWSPath, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer raw.Close()
	r := <-acc
	if r.err != nil {
		t.Fatalf("Accept: %v", r.err)
	}
	defer r.t.Close()

	go func() { _ = raw.WriteMessage(websocket.BinaryMessage, make([]byte, 4*framing.MaxFrameSize)) }()
	b, err := r.t.ReadFrame(ctx)
	if !errors.Is(err, framing.ErrFrameTooLarge) {
		t.Fatalf("want ErrFrameTooLarge, got %d bytes, err=%v", len(b), err)
	}

	if err := r.t.WriteFrame(ctx, make([]byte, framing.MaxFrameSize+1)); !errors.Is(err, framing.ErrFrameTooLarge) {
		t.Fatalf("oversized write: want ErrFrameTooLarge, got %v", err)
	}
}

func TestAccept_Cancel(t *testing.T) {
	for _, k := range []transport.Kind{transport.KindTCP, transport.KindWebSocket} {
		ln, err := transport.Listen("127.0.0.1:0", transport.Options{Kind: k})
		if err != nil {
			t.Fatalf("Listen: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		_, err = ln.Accept(ctx)
		cancel()
		_ = ln.Close()
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("%s: want DeadlineExceeded, got %v", k, err)
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, err := transport.ParseKind(""); err != nil || k != transport.KindTCP {
		t.Fatalf("empty kind: %v %v", k, err)
	}
	if k, err := transport.ParseKind("ws"); err != nil || k != transport.KindWebSocket {
		t.Fatalf("ws kind: %v %v", k, err)
	}
	if _, err := transport.ParseKind("udp"); !errors.Is(err, transport.ErrUnknownKind) {
		t.Fatalf("want ErrUnknownKind, got %v", err)
	}
}
