package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mica-lang/mica/runtime/parser"
	"github.com/mica-lang/mica/runtime/session"
)

func checkCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Scan and parse a source file, reporting diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				if len(args) == 0 || args[0] == "-" {
					return fmt.Errorf("--watch needs a file path")
				}
				return watchAndCheck(cmd.OutOrStdout(), args[0])
			}

			src, name, err := readSource(args)
			if err != nil {
				return err
			}
			if !runCheck(cmd.OutOrStdout(), src, name) {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Re-run the check when the file changes")
	return cmd
}

// runCheck parses src and prints its diagnostics. It reports whether the
// source came through without errors.
func runCheck(w io.Writer, src []byte, name string) bool {
	sess := session.New()
	stmts := parser.Parse(src, sess)

	for _, d := range sess.Diags.All() {
		fmt.Fprintf(w, "%s: %s\n", name, d)
	}
	fmt.Fprintf(w, "%s: %d statements, %d errors, %d warnings\n",
		name, len(stmts), sess.Diags.ErrorCount(), sess.Diags.WarningCount())
	return !sess.Diags.HasErrors()
}

// watchAndCheck re-runs the check whenever path is written. The watch sits
// on the directory: editors that replace the file on save would otherwise
// take the watch down with the old inode.
func watchAndCheck(w io.Writer, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	rerun := func() {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		runCheck(w, src, path)
	}
	rerun()

	base := filepath.Base(path)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				rerun()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
