package commands

import (
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// connectCmd dials a listening peer. The address comes from the argument,
// --address, the profile, or an interactive prompt, in that order.
func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect [address[:port]]",
		Short: "Connect to a listening peer and chat with it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				host, p := splitPeerAddr(args[0])
				address = host
				if n, err := strconv.Atoi(p); err == nil && !cmd.Flags().Changed("port") {
					port = n
				}
			}
			if address == "" {
				a, err := promptLine("Peer address: ")
				if err != nil {
					return err
				}
				address = a
			}

			opts, err := sessionOptions()
			if err != nil {
				return err
			}
			pass, err := resolvePassphrase()
			if err != nil {
				return err
			}

			est, err := wire.Sessions.Connect(cmd.Context(), pass, opts)
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), est)
		},
	}
}

// splitPeerAddr accepts host, host:port, [v6] and [v6]:port. port is empty
// when none was given.
func splitPeerAddr(arg string) (host, port string) {
	if h, p, err := net.SplitHostPort(arg); err == nil {
		return h, p
	}
	if strings.HasPrefix(arg, "[") && strings.HasSuffix(arg, "]") {
		return arg[1 : len(arg)-1], ""
	}
	return arg, ""
}
