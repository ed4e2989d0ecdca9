package chaterr

import (
	"context"
	"errors"
	"io"

	"github.com/gorilla/websocket"

	"dhchat/internal/protocol/channel"
	"dhchat/internal/protocol/handshake"
)

// ClassifyConnectCode maps a dial error to a stable Code.
func ClassifyConnectCode(err error) Code {
	return classifyContextCode(err, CodeDialFailed)
}

// ClassifyAcceptCode maps an accept error to a stable Code.
func ClassifyAcceptCode(err error) Code {
	return classifyContextCode(err, CodeAcceptFailed)
}

// ClassifyHandshakeCode maps a handshake error to a stable Code.
func ClassifyHandshakeCode(err error) Code {
	switch {
	case errors.Is(err, handshake.ErrAuthentication):
		return CodeAuthFailed
	default:
		return classifyContextCode(err, CodeTransportFailed)
	}
}

// ClassifyChannelCode maps a channel error to a stable Code.
func ClassifyChannelCode(err error) Code {
	var ce *websocket.CloseError
	switch {
	case errors.Is(err, channel.ErrIntegrity):
		return CodeIntegrityFailed
	case errors.Is(err, channel.ErrSeparatorInPayload):
		return CodeInvalidInput
	case errors.Is(err, channel.ErrPeerClosed), errors.Is(err, channel.ErrPeerExit),
		errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &ce):
		return CodePeerClosed
	default:
		return classifyContextCode(err, CodeTransportFailed)
	}
}

func classifyContextCode(err error, fallback Code) Code {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.Is(err, context.Canceled):
		return CodeCanceled
	default:
		return fallback
	}
}
