package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/mica-lang/mica/core/memo"
	"github.com/mica-lang/mica/core/memofmt"
	"github.com/mica-lang/mica/core/token"
	"github.com/mica-lang/mica/runtime/lexer"
	"github.com/mica-lang/mica/runtime/session"
)

func tokensCmd() *cobra.Command {
	var (
		format   string
		memoPath string
	)

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Scan a source file and print its token stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, name, err := readSource(args)
			if err != nil {
				return err
			}
			return runTokens(cmd.OutOrStdout(), src, name, format, memoPath)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or cbor")
	cmd.Flags().StringVar(&memoPath, "memo", "", "Write a token snapshot to this path")
	return cmd
}

// tokenRecord is one scanned token in output form.
type tokenRecord struct {
	Kind  string
	Line  int
	Start int
	End   int
	Text  string
}

func runTokens(w io.Writer, src []byte, name, format, memoPath string) error {
	sess := session.New()

	var rec *memo.Recorder
	var opts []lexer.Option
	if memoPath != "" {
		rec = memo.NewRecorder()
		opts = append(opts, lexer.WithMemo(rec))
	}
	lx := lexer.New(src, sess, opts...)

	var records []tokenRecord
	for {
		kind := lx.Next()
		span := lx.Span()
		records = append(records, tokenRecord{
			Kind:  kind.String(),
			Line:  lx.Line(),
			Start: span.Start,
			End:   span.End,
			Text:  describe(sess, lx, kind, src),
		})
		if kind == token.EOF {
			break
		}
	}

	switch format {
	case "text":
		for _, r := range records {
			writeTokenRow(w, r)
		}
	case "cbor":
		encMode, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return fmt.Errorf("failed to create CBOR encoder: %w", err)
		}
		data, err := encMode.Marshal(records)
		if err != nil {
			return fmt.Errorf("CBOR encoding failed: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want text or cbor)", format)
	}

	// Diagnostics go to stderr so the stream itself stays clean.
	for _, d := range sess.Diags.All() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", name, d)
	}

	if memoPath != "" {
		f, err := os.Create(memoPath)
		if err != nil {
			return fmt.Errorf("error creating snapshot %s: %w", memoPath, err)
		}
		hash, err := memofmt.Write(f, rec, name, src)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("error writing snapshot %s: %w", memoPath, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s: %d tokens, source hash %x\n", memoPath, rec.Count(), hash[:8])
	}
	return nil
}

// describe renders a token's payload for display. Tokens without a decoded
// payload fall back to their source lexeme.
func describe(sess *session.Session, lx *lexer.Lexer, kind token.Kind, src []byte) string {
	switch kind {
	case token.EOS, token.EOF:
		return ""
	case token.IDENT:
		return sess.Names.String(lx.Name())
	case token.LABEL:
		return lx.Scope().Sigil() + sess.Names.String(lx.Name())
	case token.PARAM:
		return `\` + sess.Names.String(lx.Name())
	case token.INT:
		return strconv.FormatUint(lx.Num().Value, 10)
	case token.STRING:
		return strconv.Quote(string(lx.Text()))
	case token.CHAR:
		return strconv.QuoteRune(lx.Char())
	}
	span := lx.Span()
	return string(src[span.Start:span.End])
}

func writeTokenRow(w io.Writer, r tokenRecord) {
	if r.Text == "" {
		fmt.Fprintf(w, "%4d %6d..%-6d %s\n", r.Line, r.Start, r.End, r.Kind)
		return
	}
	fmt.Fprintf(w, "%4d %6d..%-6d %-8s %s\n", r.Line, r.Start, r.End, r.Kind, r.Text)
}
