package transport

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dhchat/internal/domain"
	"dhchat/internal/transport/framing"
)

var errTextMessage = errors.New("unexpected websocket text message")

// WebSocket carries one frame per binary WebSocket message.
type WebSocket struct {
	c   *websocket.Conn
	wmu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// NewWebSocket wraps an established WebSocket connection. Messages are
// bounded by framing.MaxFrameSize in both directions.
func NewWebSocket(c *websocket.Conn) *WebSocket {
	c.SetReadLimit(framing.MaxFrameSize)
	return &WebSocket{c: c}
}

// ReadFrame skips control and unknown messages. A normal close from the
// peer is reported as io.EOF.
func (t *WebSocket) ReadFrame(ctx context.Context) ([]byte, error) {
	var out []byte
	err := withDeadline(ctx, t.c, true, func() error {
		for {
			mt, b, err := t.c.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return io.EOF
				}
				if errors.Is(err, websocket.ErrReadLimit) {
					return framing.ErrFrameTooLarge
				}
				return err
			}
			switch mt {
			case websocket.BinaryMessage:
				out = b
				return nil
			case websocket.TextMessage:
				return errTextMessage
			default:
				continue
			}
		}
	})
	return out, err
}

func (t *WebSocket) WriteFrame(ctx context.Context, b []byte) error {
	if len(b) > framing.MaxFrameSize {
		return framing.ErrFrameTooLarge
	}
	t.wmu.Lock()
	defer t.wmu.Unlock()
	return withDeadline(ctx, t.c, false, func() error {
		return t.c.WriteMessage(websocket.BinaryMessage, b)
	})
}

// Close sends a best-effort close message before closing the connection.
func (t *WebSocket) Close() error {
	t.closeOnce.Do(func() {
		t.wmu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = t.c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		t.wmu.Unlock()
		t.closeErr = t.c.Close()
	})
	return t.closeErr
}

var _ domain.Transport = (*WebSocket)(nil)
