package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odvcencio/gotref/pkg/branch"
	"github.com/odvcencio/gotref/pkg/refs"
)

func newTagCmd(opts *globalOptions) *cobra.Command {
	var deleteTag string
	var force bool

	cmd := &cobra.Command{
		Use:   "tag [name] [target]",
		Short: "List, create, or delete lightweight tags",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(opts, func(r repository, branches *branch.Collection) error {
				if strings.TrimSpace(deleteTag) != "" {
					if len(args) > 0 {
						return fmt.Errorf("tag --delete does not accept positional args")
					}
					return r.DeleteTag(deleteTag)
				}

				if len(args) == 0 {
					tags, err := r.ListTags()
					if err != nil {
						return err
					}
					for _, name := range tags {
						fmt.Fprintln(cmd.OutOrStdout(), name)
					}
					return nil
				}

				spec := refs.HEAD
				if len(args) == 2 {
					spec = strings.TrimSpace(args[1])
				}
				target, err := resolveTarget(r, branches, spec)
				if err != nil {
					return err
				}
				return r.CreateTag(args[0], target, force)
			})
		},
	}

	cmd.Flags().StringVarP(&deleteTag, "delete", "d", "", "delete the named tag")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing tag")
	return cmd
}
