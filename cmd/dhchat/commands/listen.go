package commands

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"
)

// listenCmd waits for a single peer, runs the responder side of the handshake
// and starts the chat.
func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Wait for a peer to connect and chat with it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := sessionOptions()
			if err != nil {
				return err
			}
			pass, err := resolvePassphrase()
			if err != nil {
				return err
			}
			opts.OnListening = func(a net.Addr) {
				fmt.Fprintf(stdout, "Waiting for a peer on %s (%s)...\n", a, opts.Transport.Kind)
			}

			est, err := wire.Sessions.Listen(cmd.Context(), pass, opts)
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), est)
		},
	}
}
