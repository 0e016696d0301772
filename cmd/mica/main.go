package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mica",
		Short: "Assembly front end: scan sources, check them, replay token snapshots",
		// Errors are reported once, below.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(tokensCmd(), checkCmd(), replayCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readSource handles the 3 modes of input:
// 1. Explicit stdin with "-"
// 2. Piped input (auto-detected when no path is given)
// 3. File input
func readSource(args []string) ([]byte, string, error) {
	if len(args) == 0 {
		if !hasPipedInput() {
			return nil, "", fmt.Errorf("no input: pass a file path, -, or pipe source in")
		}
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("error reading stdin: %w", err)
		}
		return src, "<stdin>", nil
	}

	if args[0] == "-" {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("error reading stdin: %w", err)
		}
		return src, "<stdin>", nil
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("error opening file %s: %w", args[0], err)
	}
	return src, args[0], nil
}

// hasPipedInput detects if there's data piped to stdin. Pipes may not
// report a size, so only the device mode is checked.
func hasPipedInput() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
