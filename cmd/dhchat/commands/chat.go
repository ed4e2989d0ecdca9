package commands

import (
	"context"
	"fmt"

	"dhchat/internal/services/chat"
	sessionsvc "dhchat/internal/services/session"
)

// runChat prints the session banner and runs the message loop until either
// side exits.
func runChat(ctx context.Context, est *sessionsvc.Established) error {
	cmds := chat.DefaultCommands()
	cmds.SendSuffix = sendSuffix

	fmt.Fprintf(stdout, "Secure session established. Fingerprint: %s\n", est.Fingerprint)
	fmt.Fprintf(stdout, "Compare it with your peer. Type %s to leave", cmds.Exit)
	if !autoReceive {
		fmt.Fprintf(stdout, ", %s to show new messages", cmds.Receive)
	}
	fmt.Fprintln(stdout, ".")

	loop := &chat.Loop{
		Conn:        est.Channel,
		In:          stdin,
		Out:         stdout,
		Commands:    cmds,
		AutoReceive: autoReceive,
		PeerTitle:   est.Role.PeerTitle(),
		Logger:      wire.Logger,
	}
	err := loop.Run(ctx)

	st := est.Channel.Stats()
	wire.Logger.Info().
		Uint64("sent", st.MessagesSent).
		Uint64("received", st.MessagesReceived).
		Msg("session ended")
	if err == nil {
		fmt.Fprintln(stdout, "Session closed.")
	}
	return err
}
