package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"dhchat/internal/domain"
	"dhchat/internal/transport/framing"
)

// Kind selects the wire transport.
type Kind string

const (
	KindTCP       Kind = "tcp"
	KindWebSocket Kind = "ws"
)

// DefaultWSPath is the HTTP path a WebSocket listener upgrades on.
const DefaultWSPath = "/dhchat"

var ErrUnknownKind = errors.New("unknown transport")

// ParseKind validates a transport name. An empty name selects TCP.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case "", KindTCP:
		return KindTCP, nil
	case KindWebSocket:
		return KindWebSocket, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownKind, name)
	}
}

// Options configures Listen and Dial.
type Options struct {
	Kind  Kind
	Codec framing.Codec // stream framing for TCP; ignored for WebSocket
	Path  string        // WebSocket path, DefaultWSPath when empty
}

func (o Options) path() string {
	if o.Path == "" {
		return DefaultWSPath
	}
	return o.Path
}

// Listener hands out the single peer connection.
type Listener interface {
	Accept(ctx context.Context) (domain.Transport, error)
	Addr() net.Addr
	Close() error
}

// Listen binds addr.
func Listen(addr string, opts Options) (Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	switch opts.Kind {
	case "", KindTCP:
		return &tcpListener{ln: ln, codec: opts.Codec}, nil
	case KindWebSocket:
		return newWSListener(ln, opts.path()), nil
	default:
		_ = ln.Close()
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, opts.Kind)
	}
}

// Dial connects to addr.
func Dial(ctx context.Context, addr string, opts Options) (domain.Transport, error) {
	switch opts.Kind {
	case "", KindTCP:
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}
		return NewStream(conn, opts.Codec), nil
	case KindWebSocket:
		d := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
		c, resp, err := d.DialContext(ctx, "ws://"+addr+opts.path(), nil)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			return nil, err
		}
		return NewWebSocket(c), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, opts.Kind)
	}
}

type tcpListener struct {
	ln    net.Listener
	codec framing.Codec
}

func (l *tcpListener) Accept(ctx context.Context) (domain.Transport, error) {
	stop := context.AfterFunc(ctx, func() { _ = l.ln.Close() })
	conn, err := l.ln.Accept()
	stop()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return NewStream(conn, l.codec), nil
}

func (l *tcpListener) Addr() net.Addr { return l.ln.Addr() }
func (l *tcpListener) Close() error   { return l.ln.Close() }

// wsListener serves HTTP until the first successful upgrade; later peers are
// turned away.
type wsListener struct {
	ln    net.Listener
	srv   *http.Server
	taken atomic.Bool
	conns chan *websocket.Conn
	errc  chan error
}

func newWSListener(ln net.Listener, path string) *wsListener {
	l := &wsListener{
		ln:    ln,
		conns: make(chan *websocket.Conn, 1),
		errc:  make(chan error, 1),
	}
	up := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if !l.taken.CompareAndSwap(false, true) {
			http.Error(w, "peer already connected", http.StatusServiceUnavailable)
			return
		}
		c, err := up.Upgrade(w, r, nil)
		if err != nil {
			l.taken.Store(false)
			return
		}
		l.conns <- c
	})
	l.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.errc <- err
		}
	}()
	return l
}

func (l *wsListener) Accept(ctx context.Context) (domain.Transport, error) {
	select {
	case c := <-l.conns:
		return NewWebSocket(c), nil
	case err := <-l.errc:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *wsListener) Addr() net.Addr { return l.ln.Addr() }

// Close stops the HTTP server. Upgraded connections are hijacked and stay open.
func (l *wsListener) Close() error { return l.srv.Close() }
