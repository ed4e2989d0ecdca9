package handshake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"dhchat/internal/crypto"
	"dhchat/internal/crypto/cipherbox"
	"dhchat/internal/domain"
	"dhchat/internal/observability"
	"dhchat/internal/transport/framing"
	"dhchat/internal/util/contextutil"
	"dhchat/internal/util/memzero"
)

// DefaultTimeout bounds a whole handshake when the caller does not choose one.
const DefaultTimeout = 30 * time.Second

var (
	// ErrAuthentication means the peer could not prove knowledge of the
	// passphrase, or sent something that is not a valid handshake message.
	ErrAuthentication = errors.New("handshake authentication failed")

	ErrUnknownRole = errors.New("unknown handshake role")
)

// Config parameterises one handshake run.
type Config struct {
	Role domain.Role

	// PSK is the passphrase-derived key. Run wipes it.
	PSK []byte

	// Group defaults to crypto.MODP2048.
	Group crypto.Group

	// Rand defaults to crypto/rand.
	Rand io.Reader

	// Timeout bounds the whole exchange; zero or negative disables it.
	Timeout time.Duration

	Logger   zerolog.Logger
	Observer observability.Observer
}

type run struct {
	cfg   Config
	t     domain.Transport
	box   *cipherbox.Box
	log   zerolog.Logger
	obs   observability.Observer
	state State
}

// Run performs the handshake for cfg.Role over t and returns the session.
//
// On failure the transport is closed.
func Run(ctx context.Context, t domain.Transport, cfg Config) (*domain.Session, error) {
	defer memzero.Zero(cfg.PSK)
	if cfg.Group.P == nil {
		cfg.Group = crypto.MODP2048
	}
	obs := observability.OrNoop(cfg.Observer)
	start := time.Now()

	ctx, cancel := contextutil.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	r := &run{
		cfg: cfg,
		t:   t,
		obs: obs,
		log: cfg.Logger.With().Str("component", "handshake").Str("role", cfg.Role.String()).Logger(),
	}

	var (
		sess *domain.Session
		err  error
	)
	r.box, err = cipherbox.New(cfg.PSK)
	if err == nil {
		switch cfg.Role {
		case domain.RoleResponder:
			sess, err = r.respond(ctx)
		case domain.RoleInitiator:
			sess, err = r.initiate(ctx)
		default:
			err = fmt.Errorf("%w: %d", ErrUnknownRole, cfg.Role)
		}
		r.box.Wipe()
	}

	if err != nil {
		r.enter(StateFailed)
		_ = t.Close()
		r.log.Warn().Err(err).Msg("handshake failed")
		obs.Handshake(cfg.Role.String(), result(err), time.Since(start))
		return nil, err
	}
	r.enter(StateSucceeded)
	obs.Handshake(cfg.Role.String(), observability.HandshakeResultOK, time.Since(start))
	return sess, nil
}

func result(err error) observability.HandshakeResult {
	switch {
	case errors.Is(err, ErrAuthentication):
		return observability.HandshakeResultAuthFail
	case errors.Is(err, context.DeadlineExceeded):
		return observability.HandshakeResultTimeout
	default:
		return observability.HandshakeResultTransport
	}
}

func authError(reason string) error {
	return fmt.Errorf("%w: %s", ErrAuthentication, reason)
}

func (r *run) enter(s State) {
	r.log.Debug().Str("from", r.state.String()).Str("to", s.String()).Msg("handshake transition")
	r.state = s
	r.obs.HandshakeState(r.cfg.Role.String(), s.String())
}

func (r *run) read(ctx context.Context) (string, error) {
	b, err := r.t.ReadFrame(ctx)
	switch {
	case err == nil:
		return string(b), nil
	case ctx.Err() != nil:
		return "", ctx.Err()
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return "", authError("peer closed the connection during the handshake")
	case errors.Is(err, framing.ErrFrameTooLarge):
		return "", authError("oversized handshake message")
	default:
		return "", err
	}
}

func (r *run) write(ctx context.Context, msg string) error {
	return r.t.WriteFrame(ctx, []byte(msg))
}

func (r *run) random(lo, hi *big.Int) (*big.Int, error) {
	return crypto.RandomInt(r.cfg.Rand, lo, hi)
}

// respond runs the listening side: it speaks first and confirms second.
func (r *run) respond(ctx context.Context) (*domain.Session, error) {
	idR, err := r.random(crypto.IdentifierMin, crypto.IdentifierMax)
	if err != nil {
		return nil, err
	}
	nR, err := r.random(crypto.NonceMin, crypto.NonceMax)
	if err != nil {
		return nil, err
	}
	if err := r.write(ctx, join(idR.String(), nR.String())); err != nil {
		return nil, err
	}
	r.enter(StateIdentitySent)

	msg, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	outer, ok := split(msg, 2)
	if !ok {
		return nil, authError("malformed confirmation request")
	}
	nI, ok := parseNonce(outer[0])
	if !ok {
		return nil, authError("malformed initiator nonce")
	}
	pt, err := r.box.Decrypt(outer[1])
	if err != nil {
		return nil, authError("confirmation request does not decrypt")
	}
	inner, ok := split(string(pt), 3)
	memzero.Zero(pt)
	if !ok {
		return nil, authError("malformed confirmation request")
	}
	if !sameDecimal(inner[1], nR) {
		return nil, authError("nonce mismatch")
	}
	idI, ok := parseIdentifier(inner[0])
	if !ok {
		return nil, authError("malformed initiator identifier")
	}
	if idI.Cmp(idR) == 0 {
		return nil, authError("reflected identifier")
	}
	peerPub, ok := crypto.ParseDecimal(inner[2])
	if !ok {
		return nil, authError("malformed public value")
	}
	r.enter(StateConfirmReceived)

	key, err := r.cfg.Group.GenerateKey(r.cfg.Rand)
	if err != nil {
		return nil, err
	}
	defer key.Wipe()
	sessKey, err := r.derive(key, peerPub)
	if err != nil {
		return nil, err
	}

	reply, err := r.box.Encrypt([]byte(join(idR.String(), nI.String(), key.Public.String())))
	if err != nil {
		return nil, err
	}
	if err := r.write(ctx, reply); err != nil {
		return nil, err
	}
	r.enter(StateConfirmSent)
	r.enter(StateKeyDerived)

	return &domain.Session{
		Role:    domain.RoleResponder,
		Key:     sessKey,
		LocalID: idR.String(),
		PeerID:  idI.String(),
	}, nil
}

// initiate runs the connecting side.
func (r *run) initiate(ctx context.Context) (*domain.Session, error) {
	msg, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	hello, ok := split(msg, 2)
	if !ok {
		return nil, authError("malformed identity message")
	}
	idR, ok := parseIdentifier(hello[0])
	if !ok {
		return nil, authError("malformed responder identifier")
	}
	nR, ok := parseNonce(hello[1])
	if !ok {
		return nil, authError("malformed responder nonce")
	}
	r.enter(StateIdentityReceived)

	key, err := r.cfg.Group.GenerateKey(r.cfg.Rand)
	if err != nil {
		return nil, err
	}
	defer key.Wipe()

	var idI *big.Int
	for idI == nil || idI.Cmp(idR) == 0 {
		if idI, err = r.random(crypto.IdentifierMin, crypto.IdentifierMax); err != nil {
			return nil, err
		}
	}
	nI, err := r.random(crypto.NonceMin, crypto.NonceMax)
	if err != nil {
		return nil, err
	}

	ct, err := r.box.Encrypt([]byte(join(idI.String(), nR.String(), key.Public.String())))
	if err != nil {
		return nil, err
	}
	if err := r.write(ctx, join(nI.String(), ct)); err != nil {
		return nil, err
	}
	r.enter(StateConfirmSent)

	msg, err = r.read(ctx)
	if err != nil {
		return nil, err
	}
	pt, err := r.box.Decrypt(msg)
	if err != nil {
		return nil, authError("confirmation does not decrypt")
	}
	confirm, ok := split(string(pt), 3)
	memzero.Zero(pt)
	if !ok {
		return nil, authError("malformed confirmation")
	}
	if !sameDecimal(confirm[1], nI) {
		return nil, authError("nonce mismatch")
	}
	if !sameDecimal(confirm[0], idR) {
		return nil, authError("identifier mismatch")
	}
	peerPub, ok := crypto.ParseDecimal(confirm[2])
	if !ok {
		return nil, authError("malformed public value")
	}
	r.enter(StateConfirmReceived)

	sessKey, err := r.derive(key, peerPub)
	if err != nil {
		return nil, err
	}
	r.enter(StateKeyDerived)

	return &domain.Session{
		Role:    domain.RoleInitiator,
		Key:     sessKey,
		LocalID: idI.String(),
		PeerID:  idR.String(),
	}, nil
}

func (r *run) derive(key *crypto.DHKey, peerPub *big.Int) ([domain.SessionKeySize]byte, error) {
	secret, err := key.SharedSecret(peerPub)
	if err != nil {
		if errors.Is(err, crypto.ErrInvalidPublicValue) {
			return [domain.SessionKeySize]byte{}, authError("invalid public value")
		}
		return [domain.SessionKeySize]byte{}, err
	}
	sk := r.cfg.Group.SessionKey(secret)
	memzero.Int(secret)
	return sk, nil
}
