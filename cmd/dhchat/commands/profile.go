package commands

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"dhchat/internal/domain"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved peer profiles",
	}
	cmd.AddCommand(profileSaveCmd(), profileListCmd(), profileRmCmd())
	return cmd
}

// profileSaveCmd stores the current --address/--port/--transport/--framing/--kdf
// values under a name.
func profileSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name>",
		Short: "Save the current connection flags as a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := sessionOptions()
			if err != nil {
				return err
			}
			p := domain.Profile{
				Name:      args[0],
				Address:   address,
				Port:      port,
				Transport: string(opts.Transport.Kind),
				Framing:   framingName,
				KDF:       string(opts.KDF),
			}
			if err := wire.Profiles.SaveProfile(p); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Saved profile %q.\n", p.Name)
			return nil
		},
	}
}

func profileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := wire.Profiles.ListProfiles()
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				fmt.Fprintln(stdout, "No profiles saved.")
				return nil
			}
			for _, p := range profiles {
				fmt.Fprintf(stdout, "%s\t%s\t%s/%s/%s\n",
					p.Name, net.JoinHostPort(p.Address, strconv.Itoa(p.Port)), p.Transport, p.Framing, p.KDF)
			}
			return nil
		},
	}
}

func profileRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := wire.Profiles.DeleteProfile(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return errUnknownProfile(args[0])
			}
			fmt.Fprintf(stdout, "Deleted profile %q.\n", args[0])
			return nil
		},
	}
}
