package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRemoteCmd(opts *globalOptions) *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List configured remotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(opts, func(r repository) error {
				names, err := r.RemoteNames()
				if err != nil {
					return err
				}
				for _, name := range names {
					remote, err := r.Remote(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, strings.Join(remote.URLs, " "))
				}
				return nil
			})
		},
	}

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage repository remotes",
		Args:  cobra.NoArgs,
		RunE:  list.RunE,
	}
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <url>",
		Short: "Add or update a named remote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(opts, func(r repository) error {
				if err := r.SetRemote(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added remote %q -> %s\n", args[0], args[1])
				return nil
			})
		},
	})

	return cmd
}
