package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"dhchat/internal/chaterr"
	"dhchat/internal/protocol/channel"
	"dhchat/internal/transport/framing"
)

// Conn is the part of a channel the loop needs.
type Conn interface {
	Send(ctx context.Context, text string) error
	Receive(ctx context.Context) (string, error)
	Close() error
}

// Commands are the input lines the loop interprets itself.
type Commands struct {
	// Receive prints queued messages when auto-receive is off.
	Receive string
	// Exit tells the peer to hang up, then ends the loop.
	Exit string
	// SendSuffix, when set, makes input accumulate across lines until a line
	// ends with it. The suffix is stripped before sending.
	SendSuffix string
}

// DefaultCommands returns the stock command set.
func DefaultCommands() Commands {
	return Commands{Receive: "/recv", Exit: channel.DefaultExitCommand}
}

// Loop wires user input and peer messages through one Conn.
type Loop struct {
	Conn        Conn
	In          io.Reader
	Out         io.Writer
	Commands    Commands
	AutoReceive bool
	// PeerTitle labels received messages, e.g. "SERVER".
	PeerTitle string
	Logger    zerolog.Logger
}

// Run blocks until either side exits or the session fails. Local exit, input
// EOF and peer exit return nil. Cancelling ctx closes the connection.
//
// When In is an io.Closer, Run closes it and waits for the input reader to
// stop before returning. Otherwise the reader stays blocked on In until In
// yields a line or an error.
func (l *Loop) Run(ctx context.Context) error {
	cmds := l.Commands
	if cmds.Exit == "" {
		cmds.Exit = channel.DefaultExitCommand
	}
	if cmds.Receive == "" {
		cmds.Receive = DefaultCommands().Receive
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer l.Conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = l.Conn.Close() })
	defer stop()

	lines := make(chan string)
	inputDone := make(chan struct{})
	go func() {
		defer close(inputDone)
		l.readInput(ctx, lines)
	}()
	defer func() {
		if c, ok := l.In.(io.Closer); ok {
			cancel()
			_ = c.Close()
			<-inputDone
		}
	}()

	msgs := make(chan string)
	recvErr := make(chan error, 1)
	go l.receive(ctx, msgs, recvErr)

	var (
		pending []string
		partial []string
	)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				l.Logger.Debug().Msg("input closed")
				return l.exit(ctx, cmds.Exit)
			}
			switch line {
			case cmds.Exit:
				return l.exit(ctx, cmds.Exit)
			case cmds.Receive:
				if len(pending) == 0 {
					fmt.Fprintln(l.Out, "no pending messages")
				}
				l.print(pending...)
				pending = nil
				continue
			}

			text := line
			if cmds.SendSuffix != "" {
				partial = append(partial, line)
				if !strings.HasSuffix(line, cmds.SendSuffix) {
					continue
				}
				text = strings.TrimSuffix(strings.Join(partial, "\n"), cmds.SendSuffix)
				partial = nil
			}
			if err := l.Conn.Send(ctx, text); err != nil {
				if errors.Is(err, channel.ErrSeparatorInPayload) {
					fmt.Fprintln(l.Out, "message not sent: it contains a reserved character sequence")
					continue
				}
				return chaterr.Wrap(chaterr.StageChannel, chaterr.ClassifyChannelCode(err), err)
			}
			if text == cmds.Exit {
				return nil
			}

		case msg := <-msgs:
			if l.AutoReceive {
				l.print(msg)
			} else {
				pending = append(pending, msg)
			}

		case <-ctx.Done():
			return chaterr.Wrap(chaterr.StageChannel, chaterr.CodeCanceled, ctx.Err())

		case err := <-recvErr:
			l.print(pending...)
			switch {
			case errors.Is(err, channel.ErrPeerExit):
				fmt.Fprintf(l.Out, "[%s] left the chat\n", l.PeerTitle)
				return nil
			case errors.Is(err, channel.ErrClosed):
				return nil
			default:
				return chaterr.Wrap(chaterr.StageChannel, chaterr.ClassifyChannelCode(err), err)
			}
		}
	}
}

func (l *Loop) exit(ctx context.Context, cmd string) error {
	if err := l.Conn.Send(ctx, cmd); err != nil && !errors.Is(err, channel.ErrClosed) {
		l.Logger.Debug().Err(err).Msg("exit not delivered")
	}
	return nil
}

func (l *Loop) print(msgs ...string) {
	for _, m := range msgs {
		fmt.Fprintf(l.Out, "[%s] %s\n", l.PeerTitle, m)
	}
}

func (l *Loop) readInput(ctx context.Context, lines chan<- string) {
	defer close(lines)
	sc := bufio.NewScanner(l.In)
	sc.Buffer(make([]byte, 0, 64*1024), framing.MaxFrameSize)
	for sc.Scan() {
		select {
		case lines <- strings.TrimSuffix(sc.Text(), "\r"):
		case <-ctx.Done():
			return
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		l.Logger.Warn().Err(err).Msg("reading input")
	}
}

func (l *Loop) receive(ctx context.Context, msgs chan<- string, errc chan<- error) {
	for {
		msg, err := l.Conn.Receive(ctx)
		if err != nil {
			errc <- err
			return
		}
		select {
		case msgs <- msg:
		case <-ctx.Done():
			return
		}
	}
}
