package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/odvcencio/gotref/pkg/gitstore"
	"github.com/odvcencio/gotref/pkg/repo"
)

func newInitCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty repository (got by default, git with --backend git)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.repoPath
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			if opts.backend == backendGit {
				if _, err := gitstore.Init(abs); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "initialized empty git repository in %s\n", filepath.Join(abs, ".git")+string(filepath.Separator))
				return nil
			}

			r, err := repo.Init(abs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty got repository in %s\n", r.GotDir+string(filepath.Separator))
			return nil
		},
	}
}
