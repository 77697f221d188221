package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odvcencio/gotref/pkg/branch"
	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

func newBranchCmd(opts *globalOptions) *cobra.Command {
	list := newBranchListCmd(opts)
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "List, create, delete, move and inspect branches",
		Args:  cobra.NoArgs,
		RunE:  list.RunE,
	}
	cmd.Flags().AddFlagSet(list.Flags())

	cmd.AddCommand(list)
	cmd.AddCommand(newBranchCreateCmd(opts))
	cmd.AddCommand(newBranchDeleteCmd(opts))
	cmd.AddCommand(newBranchMoveCmd(opts))
	cmd.AddCommand(newBranchShowCmd(opts))
	cmd.AddCommand(newBranchExistsCmd(opts))
	return cmd
}

func newBranchListCmd(opts *globalOptions) *cobra.Command {
	var local, remote bool
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List branches (HEAD's branch is marked with *)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			filter := branch.FilterAll
			switch {
			case local && remote:
			case local:
				filter = branch.FilterLocal
			case remote:
				filter = branch.FilterRemote
			}

			return invoke(opts, func(branches *branch.Collection) error {
				var infos []branchInfo
				for b, err := range branches.All(filter) {
					if err != nil {
						return err
					}
					info, err := describeBranch(b, format != formatText)
					if err != nil {
						return err
					}
					infos = append(infos, info)
				}
				slices.SortFunc(infos, func(a, b branchInfo) int {
					return strings.Compare(a.Canonical, b.Canonical)
				})

				if format != formatText {
					if infos == nil {
						infos = []branchInfo{}
					}
					return writeStructured(cmd.OutOrStdout(), format, infos)
				}
				for _, info := range infos {
					marker := "  "
					if info.Head {
						marker = "* "
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", marker, info.Name)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&local, "local", "l", false, "list only local branches")
	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "list only remote-tracking branches")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json or yaml")
	return cmd
}

func newBranchCreateCmd(opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "create <name> [<target>]",
		Short: "Create a branch at a commit (default: HEAD)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := refs.HEAD
			if len(args) == 2 {
				spec = args[1]
			}
			return invoke(opts, func(store refs.Store, branches *branch.Collection) error {
				target, err := resolveTarget(store, branches, spec)
				if err != nil {
					return err
				}
				b, err := branches.Create(args[0], target, force)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created branch %s at %s\n", b.Name(), target.Short())
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "repoint an existing branch")
	return cmd
}

func newBranchDeleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <branch>...",
		Aliases: []string{"rm"},
		Short:   "Delete branches",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(opts, func(branches *branch.Collection) error {
				for _, name := range args {
					if err := branches.Delete(branch.Name(name)); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "deleted branch %s\n", name)
				}
				return nil
			})
		},
	}
}

func newBranchMoveCmd(opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "move <branch> <new-name>",
		Aliases: []string{"rename", "mv"},
		Short:   "Rename a local branch",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(opts, func(branches *branch.Collection) error {
				b, err := branches.Move(branch.Name(args[0]), args[1], force)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "renamed branch %s to %s\n", args[0], b.Name())
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing branch")
	return cmd
}

func newBranchShowCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <branch>",
		Short: "Show what an identifier resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			return invoke(opts, func(r repository, branches *branch.Collection) error {
				ref, err := branches.Lookup(branch.Name(args[0]))
				if err != nil {
					return err
				}
				if ref == nil {
					return fmt.Errorf("branch %q: %w", args[0], refs.ErrNotFound)
				}

				info := branchInfo{
					Name:      ref.Shorthand(),
					Canonical: ref.CanonicalName(),
					Type:      ref.Kind().String(),
					Target:    string(ref.Target()),
					Symbolic:  ref.Reference().Symbolic,
				}
				if b, ok := ref.Branch(); ok {
					if info, err = describeBranch(b, true); err != nil {
						return err
					}
					if err := describeTip(r, b, &info); err != nil {
						return err
					}
				}

				if format != formatText {
					return writeStructured(cmd.OutOrStdout(), format, info)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", info.Canonical, info.Type)
				if info.Symbolic != "" {
					fmt.Fprintf(out, "  -> %s\n", info.Symbolic)
				}
				if info.Target != "" {
					fmt.Fprintf(out, "  target:   %s\n", info.Target)
				}
				if info.Head {
					fmt.Fprintln(out, "  HEAD points here")
				}
				if info.Remote != "" {
					fmt.Fprintf(out, "  remote:   %s\n", info.Remote)
				}
				if info.Upstream != "" {
					fmt.Fprintf(out, "  upstream: %s\n", info.Upstream)
				}
				if info.Subject != "" {
					fmt.Fprintf(out, "  commit:   %s (%s)\n", info.Subject, info.Author)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json or yaml")
	return cmd
}

func newBranchExistsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <branch>",
		Short: "Exit with status 0 if the identifier resolves, 1 otherwise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invoke(opts, func(branches *branch.Collection) error {
				ok, err := branches.Exists(branch.Name(args[0]))
				if err != nil {
					return err
				}
				if !ok {
					return &exitError{code: 1}
				}
				return nil
			})
		},
	}
}

// describeBranch fills branchInfo for b. With details it also resolves the
// remote and upstream, which costs extra store reads.
func describeBranch(b *branch.Branch, details bool) (branchInfo, error) {
	info := branchInfo{
		Name:      b.Name(),
		Canonical: b.CanonicalName(),
		Type:      b.Type().String(),
		Target:    string(b.Target()),
		Symbolic:  b.Reference().Symbolic,
	}
	head, err := b.IsHead()
	if err != nil {
		return info, err
	}
	info.Head = head
	if !details {
		return info, nil
	}

	remote, err := b.Remote()
	if err != nil {
		return info, err
	}
	if remote != nil {
		info.Remote = remote.Name
	}
	if b.Type() == refs.Local {
		up, err := b.Upstream()
		if err != nil {
			return info, err
		}
		if up != nil {
			info.Upstream = up.CanonicalName()
		}
	}
	return info, nil
}

// describeTip adds the author and subject line of b's tip commit. A tip
// that is not a commit is left undescribed.
func describeTip(r repository, b *branch.Branch, info *branchInfo) error {
	tip, err := b.TipCommit()
	if errors.Is(err, refs.ErrTypeMismatch) {
		return nil
	}
	if err != nil {
		return err
	}
	author, message, err := r.CommitSummary(tip)
	if err != nil {
		return err
	}
	info.Author = author
	info.Subject, _, _ = strings.Cut(strings.TrimSpace(message), "\n")
	return nil
}

// resolveTarget maps spec to an object id: an identifier (branch, tag or
// HEAD) resolves to its tip, anything else is taken as a raw id.
func resolveTarget(store refs.Store, branches *branch.Collection, spec string) (object.Hash, error) {
	ref, err := branches.Lookup(branch.Name(spec))
	if err != nil && !errors.Is(err, refs.ErrInvalidName) {
		return "", err
	}
	if ref == nil {
		id, err := object.ParseHash(spec)
		if err != nil {
			return "", fmt.Errorf("%q is neither a reference nor an object id: %w", spec, err)
		}
		return id, nil
	}
	r := ref.Reference()
	direct, err := store.ResolveReference(&r)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", spec, err)
	}
	return direct.Target, nil
}
