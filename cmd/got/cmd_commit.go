package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/gotref/pkg/branch"
	"github.com/odvcencio/gotref/pkg/refs"
)

func newCommitCmd(opts *globalOptions) *cobra.Command {
	var message string
	var author string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record an empty commit on the current branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit message is required (-m)")
			}
			if author == "" {
				author = os.Getenv("USER")
				if author == "" {
					author = "unknown"
				}
			}

			return invoke(opts, func(r repository, branches *branch.Collection) error {
				h, err := r.Commit(message, author)
				if err != nil {
					return err
				}

				name := "HEAD"
				if head, err := branches.Lookup(branch.Name("HEAD")); err == nil && head != nil {
					if ref := head.Reference(); ref.IsSymbolic() {
						name = refs.Shorthand(ref.Symbolic)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", name, h.Short(), message)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&author, "author", "", "commit author (default: $USER)")
	return cmd
}
