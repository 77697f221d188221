package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/gotref/pkg/branch"
	"github.com/odvcencio/gotref/pkg/refs"
)

func newUpstreamCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upstream",
		Short: "Configure the upstream of local branches",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <branch> <remote> [<merge-ref>]",
		Short: "Track <remote>/<merge-ref> (default: the same branch name on the remote)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, remote := args[0], args[1]
			merge := refs.LocalName(name)
			if len(args) == 3 {
				merge = args[2]
				if !refs.IsQualified(merge) {
					merge = refs.LocalName(merge)
				}
			}
			return invoke(opts, func(store refs.Store, branches *branch.Collection) error {
				ok, err := branches.Exists(branch.Name(refs.LocalName(name)))
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("upstream: local branch %q: %w", name, refs.ErrNotFound)
				}
				if remote != "." {
					if _, err := store.Remote(remote); err != nil {
						return err
					}
				}
				if err := store.SetUpstream(name, remote, merge); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "branch %s now tracks %s %s\n", name, remote, merge)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unset <branch>",
		Short: "Remove the upstream configuration of a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(opts, func(store refs.Store) error {
				return store.RemoveBranchConfig(args[0])
			})
		},
	})

	return cmd
}
