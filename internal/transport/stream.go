package transport

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"dhchat/internal/domain"
	"dhchat/internal/transport/framing"
)

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// Stream frames a byte stream with a codec.
type Stream struct {
	rwc   io.ReadWriteCloser
	codec framing.Codec

	closeOnce sync.Once
	closeErr  error
}

// NewStream wraps rwc. A nil codec selects length-prefixed framing.
func NewStream(rwc io.ReadWriteCloser, codec framing.Codec) *Stream {
	if codec == nil {
		codec = framing.Length{}
	}
	return &Stream{rwc: rwc, codec: codec}
}

func (s *Stream) ReadFrame(ctx context.Context) ([]byte, error) {
	var b []byte
	err := withDeadline(ctx, s.rwc, true, func() error {
		var err error
		b, err = s.codec.ReadFrame(s.rwc)
		return err
	})
	return b, err
}

func (s *Stream) WriteFrame(ctx context.Context, b []byte) error {
	return withDeadline(ctx, s.rwc, false, func() error {
		return s.codec.WriteFrame(s.rwc, b)
	})
}

func (s *Stream) Close() error {
	s.closeOnce.Do(func() { s.closeErr = s.rwc.Close() })
	return s.closeErr
}

// withDeadline runs op with ctx's deadline applied to conn, and forces the
// deadline into the past when ctx is cancelled. A ctx error takes precedence
// over the resulting timeout error.
func withDeadline(ctx context.Context, conn any, read bool, op func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	var set func(time.Time) error
	if read {
		if d, ok := conn.(readDeadliner); ok {
			set = d.SetReadDeadline
		}
	} else if d, ok := conn.(writeDeadliner); ok {
		set = d.SetWriteDeadline
	}
	if set == nil {
		return op()
	}

	if dl, ok := ctx.Deadline(); ok {
		_ = set(dl)
	}
	stop := context.AfterFunc(ctx, func() { _ = set(time.Unix(1, 0)) })
	err := op()
	stop()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else if dl, ok := ctx.Deadline(); ok && errors.Is(err, os.ErrDeadlineExceeded) && !time.Now().Before(dl) {
			err = context.DeadlineExceeded
		}
	}
	_ = set(time.Time{})
	return err
}

var _ domain.Transport = (*Stream)(nil)
