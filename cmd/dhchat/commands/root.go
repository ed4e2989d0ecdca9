package commands

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"dhchat/internal/app"
	"dhchat/internal/chaterr"
	"dhchat/internal/crypto"
	"dhchat/internal/domain"
	"dhchat/internal/protocol/handshake"
	sessionsvc "dhchat/internal/services/session"
	"dhchat/internal/transport"
	"dhchat/internal/transport/framing"
)

const envPassphrase = "DHCHAT_PASSPHRASE"

var (
	home        string
	passphrase  string
	logLevel    string
	logFormat   string
	metricsAddr string
	profileName string

	address          string
	port             int
	transportName    string
	framingName      string
	kdfName          string
	handshakeTimeout time.Duration
	autoReceive      bool
	sendSuffix       string

	wire   *app.Wire
	stdin  *bufio.Reader
	stdout io.Writer
)

// Execute runs the CLI against the process's standard streams.
func Execute(ctx context.Context) error {
	root := NewRootCommand(os.Stdin, os.Stdout)
	err := root.ExecuteContext(ctx)
	if wire != nil {
		_ = wire.Close()
	}
	return err
}

// NewRootCommand builds the command tree reading chat input from in and
// writing chat output to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	stdin = bufio.NewReader(in)
	stdout = out
	wire = nil

	root := &cobra.Command{
		Use:           "dhchat",
		Short:         "Passphrase-authenticated Diffie-Hellman chat",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".dhchat")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			w, err := app.NewWire(app.Config{
				Home:        home,
				LogLevel:    logLevel,
				LogFormat:   logFormat,
				MetricsAddr: metricsAddr,
			})
			if err != nil {
				return chaterr.Validation(err)
			}
			wire = w

			if profileName != "" {
				p, ok, err := wire.Profiles.LoadProfile(profileName)
				if err != nil {
					return err
				}
				if !ok {
					return chaterr.Validation(errUnknownProfile(profileName))
				}
				applyProfile(cmd, p)
			}
			return nil
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&home, "home", "", "config dir (default ~/.dhchat)")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "shared passphrase (or $"+envPassphrase+", or prompt)")
	pf.StringVar(&logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", app.LogFormatConsole, "log format: console or json")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. 127.0.0.1:9090)")
	pf.StringVar(&profileName, "profile", "", "load address and protocol settings from a saved profile")

	pf.StringVar(&address, "address", "", "bind address when listening, peer address when connecting")
	pf.IntVar(&port, "port", domain.DefaultPort, "TCP port")
	pf.StringVar(&transportName, "transport", string(transport.KindTCP), "transport: tcp or ws")
	pf.StringVar(&framingName, "framing", framing.NameLength, "tcp framing: length or chunked (legacy)")
	pf.StringVar(&kdfName, "kdf", string(crypto.KDFArgon2id), "passphrase kdf: argon2id or scrypt")
	pf.DurationVar(&handshakeTimeout, "handshake-timeout", handshake.DefaultTimeout, "handshake deadline (0 disables)")
	pf.BoolVar(&autoReceive, "auto-receive", true, "print messages as they arrive; when false, queue them until /recv")
	pf.StringVar(&sendSuffix, "send-suffix", "", "when set, lines accumulate until one ends with this suffix")

	root.AddCommand(listenCmd(), connectCmd(), profileCmd(), versionCmd())
	return root
}

// applyProfile fills flags the user did not set explicitly.
func applyProfile(cmd *cobra.Command, p domain.Profile) {
	changed := cmd.Flags().Changed
	if p.Address != "" && !changed("address") {
		address = p.Address
	}
	if p.Port != 0 && !changed("port") {
		port = p.Port
	}
	if p.Transport != "" && !changed("transport") {
		transportName = p.Transport
	}
	if p.Framing != "" && !changed("framing") {
		framingName = p.Framing
	}
	if p.KDF != "" && !changed("kdf") {
		kdfName = p.KDF
	}
}

// sessionOptions validates the protocol flags.
func sessionOptions() (sessionsvc.Options, error) {
	kind, err := transport.ParseKind(transportName)
	if err != nil {
		return sessionsvc.Options{}, chaterr.Validation(err)
	}
	codec, err := framing.ByName(framingName)
	if err != nil {
		return sessionsvc.Options{}, chaterr.Validation(err)
	}
	kdf, err := crypto.ParseKDF(kdfName)
	if err != nil {
		return sessionsvc.Options{}, chaterr.Validation(err)
	}
	return sessionsvc.Options{
		Address:          address,
		Port:             port,
		Transport:        transport.Options{Kind: kind, Codec: codec},
		KDF:              kdf,
		HandshakeTimeout: handshakeTimeout,
	}, nil
}
