package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"dhchat/internal/chaterr"
	"dhchat/internal/crypto"
	"dhchat/internal/domain"
	"dhchat/internal/observability"
	"dhchat/internal/protocol/channel"
	"dhchat/internal/protocol/handshake"
	"dhchat/internal/transport"
)

var (
	errBadPort   = errors.New("port must be between 1 and 65535")
	errNoAddress = errors.New("peer address is required")
)

// Options describes one session endpoint.
type Options struct {
	// Address is the host to bind (listen) or dial (connect).
	Address string
	// Port may be 0 when listening to pick a free port.
	Port int

	Transport        transport.Options
	KDF              crypto.KDF
	HandshakeTimeout time.Duration
	ExitCommand      string

	// OnListening is called once the listener is bound.
	OnListening func(net.Addr)
}

// Established is an authenticated session ready for chat.
type Established struct {
	Channel     *channel.Channel
	Role        domain.Role
	Fingerprint string
	PeerID      string
}

// Service opens sessions in either role.
type Service struct {
	log zerolog.Logger
	obs observability.Observer
}

// New constructs a session Service.
func New(log zerolog.Logger, obs observability.Observer) *Service {
	return &Service{log: log, obs: observability.OrNoop(obs)}
}

// Listen binds the configured address, accepts exactly one peer and runs the
// responder side of the handshake.
func (s *Service) Listen(ctx context.Context, passphrase string, opts Options) (*Established, error) {
	if opts.Port < 0 || opts.Port > 65535 {
		return nil, chaterr.Validation(errBadPort)
	}
	psk, err := derivePSK(passphrase, opts.KDF)
	if err != nil {
		return nil, err
	}

	ln, err := transport.Listen(net.JoinHostPort(opts.Address, strconv.Itoa(opts.Port)), opts.Transport)
	if err != nil {
		return nil, chaterr.Wrap(chaterr.StageConnect, chaterr.CodeListenFailed, err)
	}
	defer ln.Close()
	s.log.Info().Str("addr", ln.Addr().String()).Str("transport", string(opts.Transport.Kind)).Msg("listening")
	if opts.OnListening != nil {
		opts.OnListening(ln.Addr())
	}

	t, err := ln.Accept(ctx)
	if err != nil {
		return nil, chaterr.Wrap(chaterr.StageConnect, chaterr.ClassifyAcceptCode(err), err)
	}
	s.log.Info().Msg("peer connected")
	return s.establish(ctx, t, domain.RoleResponder, psk, opts)
}

// Connect dials the configured address and runs the initiator side of the
// handshake.
func (s *Service) Connect(ctx context.Context, passphrase string, opts Options) (*Established, error) {
	if opts.Address == "" {
		return nil, chaterr.Validation(errNoAddress)
	}
	if opts.Port < 1 || opts.Port > 65535 {
		return nil, chaterr.Validation(errBadPort)
	}
	psk, err := derivePSK(passphrase, opts.KDF)
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(opts.Address, strconv.Itoa(opts.Port))
	t, err := transport.Dial(ctx, addr, opts.Transport)
	if err != nil {
		return nil, chaterr.Wrap(chaterr.StageConnect, chaterr.ClassifyConnectCode(err), err)
	}
	s.log.Info().Str("addr", addr).Msg("connected")
	return s.establish(ctx, t, domain.RoleInitiator, psk, opts)
}

func (s *Service) establish(ctx context.Context, t domain.Transport, role domain.Role, psk []byte, opts Options) (*Established, error) {
	sess, err := handshake.Run(ctx, t, handshake.Config{
		Role:     role,
		PSK:      psk,
		Timeout:  opts.HandshakeTimeout,
		Logger:   s.log,
		Observer: s.obs,
	})
	if err != nil {
		return nil, chaterr.Wrap(chaterr.StageHandshake, chaterr.ClassifyHandshakeCode(err), err)
	}

	fp := crypto.Fingerprint(sess.Key[:])
	peerID := sess.PeerID
	ch, err := channel.New(t, sess, channel.Options{
		ExitCommand: opts.ExitCommand,
		Observer:    s.obs,
		Logger:      s.log,
	})
	if err != nil {
		_ = t.Close()
		return nil, chaterr.Wrap(chaterr.StageHandshake, chaterr.CodeTransportFailed, err)
	}
	s.log.Info().Str("fingerprint", fp).Str("role", role.String()).Msg("session established")
	return &Established{
		Channel:     ch,
		Role:        role,
		Fingerprint: fp,
		PeerID:      peerID,
	}, nil
}

func derivePSK(passphrase string, kdf crypto.KDF) ([]byte, error) {
	if err := crypto.ValidatePassphrase(passphrase); err != nil {
		return nil, chaterr.Validation(err)
	}
	if kdf == "" {
		kdf = crypto.KDFArgon2id
	}
	psk, err := crypto.DerivePSK(passphrase, kdf)
	if err != nil {
		return nil, chaterr.Validation(fmt.Errorf("derive key: %w", err))
	}
	return psk, nil
}
