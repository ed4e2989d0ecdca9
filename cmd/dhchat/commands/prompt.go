package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"dhchat/internal/chaterr"
	"dhchat/internal/crypto"
)

var errNoPassphrase = errors.New("passphrase required: use -p, $" + envPassphrase + " or run from a terminal")

// resolvePassphrase takes the flag, then the environment, then prompts
// without echo until the passphrase is long enough.
func resolvePassphrase() (string, error) {
	if passphrase != "" {
		return passphrase, nil
	}
	if env := os.Getenv(envPassphrase); env != "" {
		return env, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", chaterr.Validation(errNoPassphrase)
	}
	for {
		fmt.Fprint(os.Stderr, "Passphrase: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		p := string(b)
		if err := crypto.ValidatePassphrase(p); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		return p, nil
	}
}

// promptLine prints label and reads one trimmed line of chat input.
func promptLine(label string) (string, error) {
	fmt.Fprint(stdout, label)
	line, err := stdin.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func errUnknownProfile(name string) error {
	return fmt.Errorf("no profile named %q", name)
}
