// ═══════════════════════════════════════════════════════════════════════════════
// CLI: Ed-Join String Similarity Join
// ═══════════════════════════════════════════════════════════════════════════════
// Grounded on the original ed_join CLI (cli.rs, clap-based with an
// interactive re-prompt loop) but re-expressed on cobra, the pack's
// flag-parsing library of choice. The interactive loop re-prompts for
// path/q/tau via bufio exactly as the original's dialoguer Input loop
// does, without pulling in a prompt-theming dependency the pack never
// uses anywhere.
// ═══════════════════════════════════════════════════════════════════════════════
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edjoin/edjoin"
)

var (
	flagFile        string
	flagFile2       string
	flagQ           int
	flagTau         int
	flagInteractive bool
)

func main() {
	configureLogging()

	root := &cobra.Command{
		Use:   "edjoin",
		Short: "String similarity join with the Ed-Join algorithm",
		RunE:  runRoot,
	}
	root.Flags().StringVarP(&flagFile, "file", "f", "", "input file (required)")
	root.Flags().StringVarP(&flagFile2, "file2", "g", "", "second input file for two-collection joins")
	root.Flags().IntVarP(&flagQ, "qgram", "q", 0, "q-gram length (default: shortest record length)")
	root.Flags().IntVarP(&flagTau, "tau", "t", 0, "edit-distance threshold (default: 2)")
	root.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "prompt for file/q/tau before running")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configureLogging() {
	level := slog.LevelWarn
	switch strings.ToLower(os.Getenv("EDJOIN_LOG")) {
	case "trace", "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runRoot(cmd *cobra.Command, args []string) error {
	if flagInteractive {
		if err := promptForConfig(); err != nil {
			return err
		}
	}
	if flagFile == "" {
		return fmt.Errorf("no input file given: %w", edjoin.ErrInputNotReadable)
	}

	xFile, err := os.Open(flagFile)
	if err != nil {
		return fmt.Errorf("opening %s: %w", flagFile, edjoin.ErrInputNotReadable)
	}
	defer xFile.Close()

	x, err := edjoin.LoadRecords(xFile)
	if err != nil {
		return err
	}

	selfJoin := edjoin.IsSelfJoin(flagFile, flagFile2)
	y := x
	if !selfJoin {
		yFile, err := os.Open(flagFile2)
		if err != nil {
			return fmt.Errorf("opening %s: %w", flagFile2, edjoin.ErrInputNotReadable)
		}
		defer yFile.Close()
		y, err = edjoin.LoadRecords(yFile)
		if err != nil {
			return err
		}
	}

	params, err := edjoin.DeriveParameters(x, y, flagQ, flagTau)
	if err != nil {
		return err
	}

	matches, err := edjoin.Run(x, y, params, selfJoin)
	if err != nil {
		return err
	}

	outPath := edjoin.OutputPath(flagFile, params.Q, params.Tau)
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, edjoin.ErrOutputCreateFailure)
	}
	defer out.Close()

	if err := edjoin.WriteMatches(out, matches); err != nil {
		return err
	}
	slog.Info("wrote output", slog.String("path", outPath), slog.Int("matches", len(matches)))
	return nil
}

// promptForConfig re-prompts for file/q/tau over stdin, mirroring the
// accept-or-retry loop of the original CLI's interactive mode.
func promptForConfig() error {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("File to be processed [%s]: ", defaultIfEmpty(flagFile, "./testset/sample_test1.txt"))
		if line := readLine(reader); line != "" {
			flagFile = line
		} else if flagFile == "" {
			flagFile = "./testset/sample_test1.txt"
		}
		if _, err := os.Stat(flagFile); err != nil {
			fmt.Fprintf(os.Stderr, "%s is not readable\n", flagFile)
			continue
		}

		qDefault := "shortest record length"
		if flagQ != 0 {
			qDefault = strconv.Itoa(flagQ)
		}
		fmt.Printf("q [%s]: ", qDefault)
		if line := readLine(reader); line != "" {
			q, err := strconv.Atoi(line)
			if err != nil || q < 1 {
				fmt.Fprintln(os.Stderr, "q must be a positive integer")
				continue
			}
			flagQ = q
		}

		fmt.Printf("tau [%d]: ", defaultIfZero(flagTau, 2))
		if line := readLine(reader); line != "" {
			tau, err := strconv.Atoi(line)
			if err != nil || tau < 1 {
				fmt.Fprintln(os.Stderr, "tau must be a positive integer")
				continue
			}
			flagTau = tau
		}

		fmt.Printf("Accept [file=%s, q=%d, tau=%d]? [Y/n]: ", flagFile, flagQ, flagTau)
		answer := strings.ToLower(readLine(reader))
		if answer == "" || answer == "y" || answer == "yes" {
			return nil
		}
	}
}

func readLine(reader *bufio.Reader) string {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(line)
}

func defaultIfEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func defaultIfZero(n, def int) int {
	if n == 0 {
		return def
	}
	return n
}
