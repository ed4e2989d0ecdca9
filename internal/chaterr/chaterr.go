// Package chaterr classifies session failures into stable stage/code pairs and
// renders the one-line diagnostics shown to the user.
package chaterr

import (
	"errors"
	"fmt"

	"dhchat/internal/crypto"
)

// Stage identifies which step of a session failed.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageConnect   Stage = "connect"
	StageHandshake Stage = "handshake"
	StageChannel   Stage = "channel"
	StageClose     Stage = "close"
)

// Code is a stable, programmatic error identifier.
type Code string

const (
	CodeInvalidInput       Code = "invalid_input"
	CodePassphraseTooShort Code = "passphrase_too_short"
	CodeDialFailed         Code = "dial_failed"
	CodeListenFailed       Code = "listen_failed"
	CodeAcceptFailed       Code = "accept_failed"
	CodeAuthFailed         Code = "auth_failed"
	CodeIntegrityFailed    Code = "integrity_failed"
	CodePeerClosed         Code = "peer_closed"
	CodeTransportFailed    Code = "transport_failed"
	CodeTimeout            Code = "timeout"
	CodeCanceled           Code = "canceled"
)

// Error is a structured error for user-facing operations.
type Error struct {
	Stage Stage
	Code  Code
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Stage, e.Code, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Stage, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

func Wrap(stage Stage, code Code, err error) error {
	return &Error{Stage: stage, Code: code, Err: err}
}

// Validation wraps an input error, picking the passphrase code when it applies.
func Validation(err error) error {
	code := CodeInvalidInput
	if errors.Is(err, crypto.ErrPassphraseTooShort) {
		code = CodePassphraseTooShort
	}
	return Wrap(StageValidate, code, err)
}

// CodeOf returns the code of the outermost *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Code, true
}

// Diagnostic renders err as the short message printed before exiting.
func Diagnostic(err error) string {
	code, ok := CodeOf(err)
	if !ok {
		return err.Error()
	}
	switch code {
	case CodeDialFailed, CodeListenFailed, CodeAcceptFailed:
		return "could not connect"
	case CodeAuthFailed:
		return "authentication failed"
	case CodeIntegrityFailed:
		return "message integrity failure"
	case CodePeerClosed:
		return "peer closed session"
	case CodeTimeout:
		return "timed out"
	case CodeCanceled:
		return "canceled"
	case CodePassphraseTooShort:
		return fmt.Sprintf("passphrase must be at least %d characters", crypto.MinPassphraseLen)
	default:
		return err.Error()
	}
}
