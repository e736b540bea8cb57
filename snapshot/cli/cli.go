// Package cli implements the buildstate command line over a Snapshotter.
//
// main constructs an Injector that wires the filesystem, hasher and mirror,
// and hands it to MakeCLI. Each subcommand registers its flags, and its run
// function receives the injected Snapshotter plus the command-line args.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/buildstate/buildstate/snapshot"
	"github.com/buildstate/buildstate/snapshot/snapshotter"
)

// Injector builds the Snapshotter a command runs against.
type Injector interface {
	RegisterFlags(cmd *cobra.Command)
	Inject() (*snapshotter.Snapshotter, error)
}

// MakeCLI creates the root cobra command with all subcommands attached.
func MakeCLI(injector Injector) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "buildstate",
		Short: "buildstate filesystem snapshot CLI",
	}
	injector.RegisterFlags(rootCmd)

	add := func(sub cliCommand) {
		cmd := sub.register()
		cmd.RunE = func(innerCmd *cobra.Command, args []string) error {
			sn, err := injector.Inject()
			if err != nil {
				return err
			}
			return sub.run(sn, innerCmd, args)
		}
		rootCmd.AddCommand(cmd)
	}
	add(&snapshotCommand{})
	add(&treeCommand{})

	return rootCmd
}

type cliCommand interface {
	register() *cobra.Command
	run(sn *snapshotter.Snapshotter, cmd *cobra.Command, args []string) error
}

type snapshotCommand struct{}

func (c *snapshotCommand) register() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <path>",
		Short: "snapshot a file or directory and print its state",
		Args:  cobra.ExactArgs(1),
	}
}

func (c *snapshotCommand) run(sn *snapshotter.Snapshotter, _ *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	snap, err := sn.Snapshot(path)
	if err != nil {
		return err
	}
	if _, missing := snap.(*snapshot.MissingSnapshot); missing {
		fmt.Printf("%s: missing\n", path)
		return nil
	}
	snapshot.WalkWithPaths(snap, printVisitor{})
	return nil
}

type treeCommand struct {
	includes []string
}

func (c *treeCommand) register() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <root>",
		Short: "snapshot a directory tree, optionally filtered by glob patterns",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringSliceVar(&c.includes, "include", nil, "glob pattern over relative paths; repeatable")
	return cmd
}

func (c *treeCommand) run(sn *snapshotter.Snapshotter, _ *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	desc := snapshotter.TreeDescriptor{Root: root}
	if len(c.includes) > 0 {
		desc.Filter = globFilter(c.includes)
	}
	tree, err := sn.SnapshotTree(desc)
	if err != nil {
		return err
	}
	if tree.Empty() {
		fmt.Println("(no entries)")
		return nil
	}
	if tree.Dir != nil {
		snapshot.WalkWithPaths(tree.Dir, printVisitor{})
		return nil
	}
	for _, entry := range tree.Entries {
		snapshot.WalkWithPaths(entry, printVisitor{})
	}
	return nil
}

// globFilter matches a relative path if any pattern matches it.
// The matcher here is deliberately simple; callers embedding the library
// supply their own snapshot.PathFilter.
type globFilter []string

func (g globFilter) Matches(relPath string) bool {
	for _, pattern := range g {
		if ok, err := filepath.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

type printVisitor struct{}

func (printVisitor) PreVisitDir(dir *snapshot.DirSnapshot, relPath string) snapshot.VisitResult {
	if relPath == "" {
		fmt.Printf("%s/\n", dir.Path())
	} else {
		fmt.Printf("  %s/\n", relPath)
	}
	return snapshot.Continue
}

func (printVisitor) VisitFile(file *snapshot.FileSnapshot, relPath string) {
	if relPath == "" {
		fmt.Printf("%s %s\n", file.Path(), file.Digest())
	} else {
		fmt.Printf("  %s %s\n", relPath, file.Digest())
	}
}

func (printVisitor) PostVisitDir(*snapshot.DirSnapshot, string) {}
