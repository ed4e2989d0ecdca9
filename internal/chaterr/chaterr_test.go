package chaterr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gorilla/websocket"

	"dhchat/internal/chaterr"
	"dhchat/internal/crypto"
	"dhchat/internal/protocol/channel"
	"dhchat/internal/protocol/handshake"
)

func TestClassifyHandshakeCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want chaterr.Code
	}{
		{"auth", handshake.ErrAuthentication, chaterr.CodeAuthFailed},
		{"wrapped auth", fmt.Errorf("%w: nonce mismatch", handshake.ErrAuthentication), chaterr.CodeAuthFailed},
		{"timeout", context.DeadlineExceeded, chaterr.CodeTimeout},
		{"canceled", context.Canceled, chaterr.CodeCanceled},
		{"fallback", errors.New("x"), chaterr.CodeTransportFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := chaterr.ClassifyHandshakeCode(tc.err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestClassifyChannelCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want chaterr.Code
	}{
		{"integrity", channel.ErrIntegrity, chaterr.CodeIntegrityFailed},
		{"separator", channel.ErrSeparatorInPayload, chaterr.CodeInvalidInput},
		{"peer closed", channel.ErrPeerClosed, chaterr.CodePeerClosed},
		{"ws close", &websocket.CloseError{Code: websocket.CloseAbnormalClosure}, chaterr.CodePeerClosed},
		{"fallback", errors.New("x"), chaterr.CodeTransportFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := chaterr.ClassifyChannelCode(tc.err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestClassifyConnectCode(t *testing.T) {
	if got := chaterr.ClassifyConnectCode(errors.New("refused")); got != chaterr.CodeDialFailed {
		t.Fatalf("expected %q, got %q", chaterr.CodeDialFailed, got)
	}
	if got := chaterr.ClassifyAcceptCode(context.Canceled); got != chaterr.CodeCanceled {
		t.Fatalf("expected %q, got %q", chaterr.CodeCanceled, got)
	}
}

func TestDiagnostic(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{chaterr.Wrap(chaterr.StageConnect, chaterr.CodeDialFailed, errors.New("refused")), "could not connect"},
		{chaterr.Wrap(chaterr.StageHandshake, chaterr.CodeAuthFailed, handshake.ErrAuthentication), "authentication failed"},
		{chaterr.Wrap(chaterr.StageChannel, chaterr.CodeIntegrityFailed, channel.ErrIntegrity), "message integrity failure"},
		{fmt.Errorf("chat: %w", chaterr.Wrap(chaterr.StageChannel, chaterr.CodePeerClosed, channel.ErrPeerClosed)), "peer closed session"},
		{errors.New("plain"), "plain"},
	}
	for _, tc := range cases {
		if got := chaterr.Diagnostic(tc.err); got != tc.want {
			t.Fatalf("Diagnostic(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestValidation(t *testing.T) {
	err := chaterr.Validation(crypto.ErrPassphraseTooShort)
	if code, _ := chaterr.CodeOf(err); code != chaterr.CodePassphraseTooShort {
		t.Fatalf("code = %q", code)
	}
	if !errors.Is(err, crypto.ErrPassphraseTooShort) {
		t.Fatalf("Validation lost the cause")
	}
	err = chaterr.Validation(errors.New("bad port"))
	if code, _ := chaterr.CodeOf(err); code != chaterr.CodeInvalidInput {
		t.Fatalf("code = %q", code)
	}
	var e *chaterr.Error
	if !errors.As(err, &e) || e.Stage != chaterr.StageValidate {
		t.Fatalf("stage not set: %v", err)
	}
}
