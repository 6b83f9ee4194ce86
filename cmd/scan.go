package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/theopenlane/sentinel/config"
	"github.com/theopenlane/sentinel/internal/scanner"
	"github.com/theopenlane/sentinel/internal/types"
)

// stdinArg reads candidates from standard input when given as the file or as the only argument
const stdinArg = "-"

// scanCmd scans candidates given as arguments, in a file or on stdin and prints the result as JSON
var scanCmd = &cobra.Command{
	Use:   "scan [candidates...]",
	Short: "scan subdomains for takeover exposure",
	RunE: func(cmd *cobra.Command, args []string) error {
		return scan(cmd.Context(), cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	flags := scanCmd.Flags()
	flags.StringP("file", "f", "", "file with one candidate per line, - for stdin")
	flags.Int("concurrency", 50, "number of candidates analyzed at once")
	flags.Float64("rate", 10, "requests per second shared by DNS, HTTP and TLS")
	flags.Duration("timeout", 0, "timeout for each DNS query and HTTP request")
	flags.Int("max-depth", 10, "maximum CNAME hops followed")
	flags.String("fingerprints", "", "YAML or JSON file of custom provider fingerprints")
	flags.String("wordlist", "", "wordlist path, checked for readability")
	flags.StringP("output", "o", "", "write the result to this file instead of stdout")
	flags.String("min-verdict", "", "only output findings at or above this verdict")
}

func scan(ctx context.Context, cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	applyScanFlags(cmd, cfg)

	minVerdict := types.ParseVerdict(k.String("min-verdict"))
	if k.String("min-verdict") != "" && !minVerdict.Valid() {
		return fmt.Errorf("%w: --min-verdict %q is not a verdict", config.ErrInvalidConfig, k.String("min-verdict"))
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	candidates, err := readCandidates(args, k.String("file"), cmd.InOrStdin())
	if err != nil {
		return err
	}

	s, err := setupScanner(cfg, nil)
	if err != nil {
		return err
	}

	defer func() { _ = s.Close() }()

	result, err := s.Scan(ctx, candidates)
	if err != nil {
		return err
	}

	if minVerdict.Valid() {
		result.Findings = lo.Filter(result.Findings, func(f types.Finding, _ int) bool {
			return f.Verdict.AtLeast(minVerdict)
		})
	}

	return writeResult(result, k.String("output"), cmd.OutOrStdout())
}

// applyScanFlags overrides config values with the flags set on the command line
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("concurrency") {
		cfg.Scanner.Concurrency = k.Int("concurrency")
	}

	if changed("rate") {
		cfg.Scanner.RateLimit = k.Float64("rate")
	}

	if changed("timeout") {
		cfg.Resolver.Timeout = k.Duration("timeout")
		cfg.Probe.Timeout = k.Duration("timeout")
	}

	if changed("max-depth") {
		cfg.Scanner.MaxDepth = k.Int("max-depth")
	}

	if changed("fingerprints") {
		cfg.Scanner.Fingerprints = k.String("fingerprints")
	}

	if changed("wordlist") {
		cfg.Scanner.Wordlist = k.String("wordlist")
	}
}

// readCandidates merges positional candidates with those read from file, deduplicated in first-seen order
func readCandidates(args []string, file string, stdin io.Reader) ([]string, error) {
	if len(args) == 1 && args[0] == stdinArg {
		args, file = nil, stdinArg
	}

	candidates := slices.Clone(args)

	if file != "" {
		loaded, err := scanner.LoadCandidates(file, stdin)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, loaded...)
	}

	candidates = scanner.Dedupe(candidates)
	if len(candidates) == 0 {
		return nil, scanner.ErrNoCandidates
	}

	log.Debug().Int("candidates", len(candidates)).Msg("candidates loaded")

	return candidates, nil
}

// writeResult encodes result as indented JSON to path, or to stdout when path is empty
func writeResult(result *types.ScanResult, path string, stdout io.Writer) error {
	out := stdout

	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close() //nolint:errcheck

		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}

	if path != "" {
		log.Info().Str("output", path).Int("findings", len(result.Findings)).Msg("result written")
	}

	return nil
}
