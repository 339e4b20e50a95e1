// Command dirtree exercises an in-memory directory namespace from the
// shell: one-shot ls/mkdir/rm/mv subcommands plus a "stress"
// concurrent workload generator, all operating on a namespace that
// only lives for the duration of the process.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/go-dirtree/dirtree/log"
	"github.com/go-dirtree/dirtree/tree"
)

var (
	verbose bool
	t       *tree.Tree
)

var rootCmd = &cobra.Command{
	Use:   "dirtree",
	Short: "Drive an in-memory directory namespace",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var opts []tree.Option
		if verbose {
			opts = append(opts, tree.WithLogger(log.NewWriter(os.Stderr, log.AllTopics)))
		}
		t = tree.New(opts...)
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir [path]",
	Short: "Create a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := t.Create(args[0]); err != nil {
			return errors.Wrapf(err, "mkdir %s", args[0])
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm [path]",
	Short: "Remove an empty directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := t.Remove(args[0]); err != nil {
			return errors.Wrapf(err, "rm %s", args[0])
		}
		return nil
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv [source] [target]",
	Short: "Move or rename a directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := t.Move(args[0], args[1]); err != nil {
			return errors.Wrapf(err, "mv %s %s", args[0], args[1])
		}
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List the immediate children of a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listing, err := t.List(args[0])
		if err != nil {
			return errors.Wrapf(err, "ls %s", args[0])
		}
		if listing != "" {
			fmt.Println(listing)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"log every call and its result to stderr",
	)
	rootCmd.AddCommand(mkdirCmd, rmCmd, mvCmd, lsCmd, stressCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
