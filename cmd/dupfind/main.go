package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dupfind/internal/config"
	"dupfind/internal/detector"
	"dupfind/internal/fixer"
	"dupfind/internal/reporter"
	"dupfind/internal/scanner"
	"dupfind/internal/ui"
)

var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath        string
	verbose           bool
	dryRun            bool
	minConfidence     float64
	contentMatch      bool
	minSize           string
	showCopiesOnly    bool
	showHardlinksOnly bool
	outputFmt         string
	outputJSON        string
	doFix             bool
	confirmAll        bool
	verifyContent     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dupfind SOURCE TARGET...",
	Short: "Find duplicate video files across directories",
	Long: `dupfind identifies duplicate video files between a source library and one
or more target directories, tells space-wasting copies apart from free
hardlinks, and can replace copies with hardlinks to the source file.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	Args:    cobra.MinimumNArgs(2),
	RunE:    runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := validateFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagOverrides(cmd, cfg)

	sourceDir := args[0]
	targetDirs := args[1:]

	scnr := scanner.New(cfg)

	live := ui.NewLiveProgress()
	if outputFmt != "summary" && outputFmt != "table" {
		// Keep machine-readable output clean
		live.SetEnabled(false)
	}
	live.Attach(scnr.GetProgressReporter())
	live.Start()

	results, err := scnr.ScanAll(context.Background(), append([]string{sourceDir}, targetDirs...))
	if err != nil {
		live.Finish()
		return fmt.Errorf("scan failed: %w", err)
	}

	d := detector.New(detector.Options{
		MinConfidence: cfg.MinConfidence,
		ContentMatch:  cfg.ContentMatch,
	})
	d.SetProgressReporter(scnr.GetProgressReporter())
	result := d.ScanMultiple(results[0], results[1:])
	live.Finish()

	rptr := reporter.New(os.Stdout, reporter.OutputFormat(outputFmt), reporter.Options{
		ShowCopiesOnly:    showCopiesOnly,
		ShowHardlinksOnly: showHardlinksOnly,
		Verbose:           verbose,
	})
	if err := rptr.Report(result, results[0].Root, rootPaths(results[1:])); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if outputJSON != "" {
		if err := reporter.ExportJSON(outputJSON, result, results[0].Root, rootPaths(results[1:])); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", outputJSON)
	}

	if doFix {
		return runFix(cfg, results[0].Root, result, rptr)
	}

	return nil
}

func runFix(cfg *config.Config, sourceRoot string, result *detector.Result, rptr *reporter.Reporter) error {
	fixable := 0
	for _, set := range result.Sets {
		fixable += len(set.CopyPairs)
	}
	if fixable == 0 {
		fmt.Println("\n✨ Nothing to fix: no independent copies found.")
		return nil
	}

	var fixResult *fixer.FixResult
	var err error

	if confirmAll || cfg.DryRun {
		fx := fixer.New(cfg)
		fixResult, err = fx.Fix(sourceRoot, result.Sets)
		if err != nil {
			return fmt.Errorf("fix failed: %w", err)
		}
	} else {
		fixResult, err = ui.RunFix(cfg, sourceRoot, result.Sets)
		if err != nil {
			return err
		}
		if fixResult == nil {
			fmt.Println("Fix cancelled")
			return nil
		}
	}

	fmt.Println()
	return rptr.ReportFix(fixResult)
}

func validateFlags() error {
	if confirmAll && !doFix {
		return fmt.Errorf("--confirm requires --fix")
	}
	if showCopiesOnly && showHardlinksOnly {
		return fmt.Errorf("--show-copies-only and --show-hardlinks-only are mutually exclusive")
	}
	if doFix && (showCopiesOnly || showHardlinksOnly) {
		return fmt.Errorf("show filters cannot be combined with --fix")
	}
	switch outputFmt {
	case "summary", "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid format %q (summary, table, json, yaml)", outputFmt)
	}
	return nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("min-confidence") {
		cfg.MinConfidence = minConfidence
	}
	if cmd.Flags().Changed("content-match") {
		cfg.ContentMatch = contentMatch
	}
	if cmd.Flags().Changed("min-size") {
		cfg.MinFileSize = minSize
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = dryRun
	}
	if cmd.Flags().Changed("verify-content") {
		cfg.Fix.VerifyContent = verifyContent
	}
	if verbose {
		cfg.Verbose = true
	}
}

func rootPaths(results []*scanner.ScanResult) []string {
	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = r.Root
	}
	return paths
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	Long:  `Shows the configuration file location and its effective contents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s\n", cfgPath)

		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			fmt.Println("Config file does not exist. Using default configuration.")
			fmt.Println("\nTo create one with the defaults:")
			fmt.Println("  dupfind config init")
		}

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(cfgPath); err == nil {
			return fmt.Errorf("config file already exists: %s", cfgPath)
		}

		if err := config.Save(config.GetDefault(), cfgPath); err != nil {
			return err
		}
		fmt.Printf("Wrote default configuration to %s\n", cfgPath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")

	rootCmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.5, "minimum identifier confidence (0.0-1.0)")
	rootCmd.Flags().BoolVar(&contentMatch, "content-match", false, "also match by file content")
	rootCmd.Flags().StringVar(&minSize, "min-size", "1MB", "ignore files smaller than this")
	rootCmd.Flags().BoolVar(&showCopiesOnly, "show-copies-only", false, "show only sets that waste space")
	rootCmd.Flags().BoolVar(&showHardlinksOnly, "show-hardlinks-only", false, "show only hardlinked sets")
	rootCmd.Flags().StringVar(&outputFmt, "format", "summary", "output format (summary, table, json, yaml)")
	rootCmd.Flags().StringVar(&outputJSON, "output-json", "", "write a JSON report to this file")
	rootCmd.Flags().BoolVar(&doFix, "fix", false, "replace copies with hardlinks to the source")
	rootCmd.Flags().BoolVar(&confirmAll, "confirm", false, "fix without interactive confirmation")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be replaced without changing anything")
	rootCmd.Flags().BoolVar(&verifyContent, "verify-content", false, "fingerprint files before each replacement")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	return config.Load(cfgPath)
}
