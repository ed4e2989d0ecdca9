package channel

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/hkdf"

	"dhchat/internal/crypto"
	"dhchat/internal/crypto/cipherbox"
	"dhchat/internal/domain"
	"dhchat/internal/observability"
	"dhchat/internal/util/memzero"
)

// DefaultExitCommand ends the session when sent or received.
const DefaultExitCommand = "/exit"

var (
	ErrIntegrity  = errors.New("message integrity failure")
	ErrPeerExit   = errors.New("peer ended the session")
	ErrPeerClosed = errors.New("peer closed the connection")
	ErrClosed     = errors.New("channel closed")
)

var (
	prefixI2R = [4]byte{'i', '2', 'r', 0}
	prefixR2I = [4]byte{'r', '2', 'i', 0}
)

// Options configures a Channel.
type Options struct {
	// ExitCommand defaults to DefaultExitCommand.
	ExitCommand string
	Observer    observability.Observer
	Logger      zerolog.Logger
}

// Stats counts messages and plaintext bytes.
type Stats struct {
	MessagesSent     uint64
	MessagesReceived uint64
	BytesSent        uint64
	BytesReceived    uint64
}

// Channel is a bidirectional encrypted message stream. Send and Receive may
// be called concurrently with each other.
type Channel struct {
	t    domain.Transport
	exit string
	obs  observability.Observer
	log  zerolog.Logger

	wmu     sync.Mutex
	send    *cipherbox.AEAD
	sendPfx [4]byte
	sendSeq uint64

	rmu     sync.Mutex
	recv    *cipherbox.AEAD
	recvPfx [4]byte
	recvSeq uint64

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error

	msgsSent, msgsRecv   atomic.Uint64
	bytesSent, bytesRecv atomic.Uint64
}

// New derives the direction keys from sess and wipes the session key.
func New(t domain.Transport, sess *domain.Session, opts Options) (*Channel, error) {
	defer sess.Wipe()

	r := hkdf.New(sha256.New, sess.Key[:], nil, []byte("dhchat/channel/v1"))
	i2r := make([]byte, crypto.KeyBytes)
	r2i := make([]byte, crypto.KeyBytes)
	defer memzero.Zero(i2r)
	defer memzero.Zero(r2i)
	if _, err := io.ReadFull(r, i2r); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, r2i); err != nil {
		return nil, err
	}

	sendKey, sendPfx, recvKey, recvPfx := i2r, prefixI2R, r2i, prefixR2I
	if sess.Role == domain.RoleResponder {
		sendKey, sendPfx, recvKey, recvPfx = r2i, prefixR2I, i2r, prefixI2R
	}
	send, err := cipherbox.NewAEAD(sendKey, sendPfx)
	if err != nil {
		return nil, err
	}
	recv, err := cipherbox.NewAEAD(recvKey, recvPfx)
	if err != nil {
		return nil, err
	}

	exit := opts.ExitCommand
	if exit == "" {
		exit = DefaultExitCommand
	}
	return &Channel{
		t:       t,
		exit:    exit,
		obs:     observability.OrNoop(opts.Observer),
		log:     opts.Logger.With().Str("component", "channel").Logger(),
		send:    send,
		sendPfx: sendPfx,
		recv:    recv,
		recvPfx: recvPfx,
	}, nil
}

func additionalData(prefix [4]byte, seq uint64) []byte {
	ad := make([]byte, 12)
	copy(ad, prefix[:])
	binary.BigEndian.PutUint64(ad[4:], seq)
	return ad
}

// ExitCommand is the payload that ends the session.
func (c *Channel) ExitCommand() string { return c.exit }

// Send seals and writes one message. Sending the exit command closes the
// channel afterwards.
func (c *Channel) Send(ctx context.Context, text string) error {
	env, err := BuildEnvelope(text)
	if err != nil {
		return err
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if c.closed.Load() {
		return ErrClosed
	}
	ct := c.send.Seal(c.sendSeq, env, additionalData(c.sendPfx, c.sendSeq))
	if err := c.t.WriteFrame(ctx, []byte(crypto.B64(ct))); err != nil {
		if c.closed.Load() {
			return ErrClosed
		}
		c.shutdown(observability.CloseReasonTransport)
		return err
	}
	c.sendSeq++
	c.msgsSent.Add(1)
	c.bytesSent.Add(uint64(len(text)))
	c.obs.Message(observability.DirectionSent, len(text))
	c.log.Debug().Uint64("seq", c.sendSeq-1).Int("bytes", len(text)).Msg("message sent")

	if text == c.exit {
		c.shutdown(observability.CloseReasonLocalExit)
	}
	return nil
}

// Receive reads and opens the next message.
func (c *Channel) Receive(ctx context.Context) (string, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()
	if c.closed.Load() {
		return "", ErrClosed
	}

	frame, err := c.t.ReadFrame(ctx)
	if err != nil {
		switch {
		case c.closed.Load():
			return "", ErrClosed
		case errors.Is(err, io.EOF):
			c.shutdown(observability.CloseReasonPeerClosed)
			return "", ErrPeerClosed
		case ctx.Err() != nil:
			return "", err
		default:
			c.shutdown(observability.CloseReasonTransport)
			return "", err
		}
	}

	payload, err := c.open(frame)
	if err != nil {
		c.log.Warn().Uint64("seq", c.recvSeq).Msg("rejected message")
		c.shutdown(observability.CloseReasonIntegrity)
		return "", ErrIntegrity
	}
	c.recvSeq++
	c.msgsRecv.Add(1)
	c.bytesRecv.Add(uint64(len(payload)))
	c.obs.Message(observability.DirectionReceived, len(payload))

	if payload == c.exit {
		c.shutdown(observability.CloseReasonPeerExit)
		return "", ErrPeerExit
	}
	return payload, nil
}

func (c *Channel) open(frame []byte) (string, error) {
	ct, err := crypto.UnB64(string(frame))
	if err != nil {
		return "", err
	}
	env, err := c.recv.Open(c.recvSeq, ct, additionalData(c.recvPfx, c.recvSeq))
	if err != nil {
		return "", err
	}
	return OpenEnvelope(env)
}

// Stats returns the message counters.
func (c *Channel) Stats() Stats {
	return Stats{
		MessagesSent:     c.msgsSent.Load(),
		MessagesReceived: c.msgsRecv.Load(),
		BytesSent:        c.bytesSent.Load(),
		BytesReceived:    c.bytesRecv.Load(),
	}
}

// Closed reports whether the channel has shut down.
func (c *Channel) Closed() bool { return c.closed.Load() }

// Close closes the transport. It is safe to call more than once.
func (c *Channel) Close() error {
	c.shutdown(observability.CloseReasonLocalExit)
	return c.closeErr
}

func (c *Channel) shutdown(reason observability.CloseReason) {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.closeErr = c.t.Close()
		c.obs.Close(reason)
		c.log.Debug().Str("reason", string(reason)).Msg("channel closed")
	})
}
