package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mica-lang/mica/core/memofmt"
	"github.com/mica-lang/mica/core/token"
)

func replayCmd() *cobra.Command {
	var sourcePath string

	cmd := &cobra.Command{
		Use:   "replay <snapshot>",
		Short: "Replay a recorded token stream against its source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.OutOrStdout(), args[0], sourcePath)
		},
	}

	cmd.Flags().StringVar(&sourcePath, "source", "", "Source file the snapshot was recorded from")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func runReplay(w io.Writer, snapPath, sourcePath string) error {
	f, err := os.Open(snapPath)
	if err != nil {
		return fmt.Errorf("error opening snapshot %s: %w", snapPath, err)
	}
	defer func() { _ = f.Close() }()

	snap, err := memofmt.Read(f)
	if err != nil {
		return fmt.Errorf("error reading snapshot %s: %w", snapPath, err)
	}

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("error opening file %s: %w", sourcePath, err)
	}
	if err := snap.Verify(src); err != nil {
		return err
	}

	rep := snap.Tokens()
	for {
		kind, line, span := rep.Next()
		if kind == token.EOF {
			break
		}
		text := ""
		if kind != token.EOS {
			text = strconv.Quote(string(src[span.Start:span.End]))
		}
		writeTokenRow(w, tokenRecord{
			Kind:  kind.String(),
			Line:  line,
			Start: span.Start,
			End:   span.End,
			Text:  text,
		})
	}

	fmt.Fprintf(w, "replayed %d tokens recorded from %s\n", snap.Count, snap.Source)
	return nil
}
