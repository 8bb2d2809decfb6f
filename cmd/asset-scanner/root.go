package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stackvity/asset-scanner/internal/cli"
	"github.com/stackvity/asset-scanner/internal/cli/config"
	"github.com/stackvity/asset-scanner/pkg/scanner"
)

var (
	// These are set during build time using -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Flags persistent across commands
	cfgFile     string
	profileName string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "asset-scanner",
	Short: "Inventories directories of JSON asset documents.",
	Long: `asset-scanner walks a directory of JSON asset exports, counts the
records in every file and collects the distinct asset classes they carry.

Files are processed in chunks, sequentially or by a bounded worker pool.
A file that cannot be parsed is reported on its own and never stops the scan.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage: true,
}

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Scan a directory and print a summary.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		opts, logger, err := loadOptions(cmd, args)
		if err != nil {
			return err
		}
		return cli.Run(ctx, opts, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

var infoCmd = &cobra.Command{
	Use:   "info [dir]",
	Short: "Preview a directory and the execution plan without parsing files.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, _, err := loadOptions(cmd, args)
		if err != nil {
			return err
		}
		return cli.Info(cmd.Context(), opts, cmd.OutOrStdout())
	},
}

var validateReportCmd = &cobra.Command{
	Use:   "validate-report <file>",
	Short: "Check a JSON report against the report schema.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ValidateReport(args[0], cmd.OutOrStdout())
	},
}

// loadOptions resolves configuration for cmd and applies the directory argument.
func loadOptions(cmd *cobra.Command, args []string) (scanner.Options, *slog.Logger, error) {
	opts, logger, err := config.LoadAndValidate(cfgFile, profileName, version, verbose, cmd.Flags())
	if err != nil {
		return opts, nil, err
	}
	var dir string
	if len(args) > 0 {
		dir = args[0]
	}
	if err := config.ApplyDirectory(&opts, dir, logger); err != nil {
		return opts, nil, err
	}
	return opts, logger, nil
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	rootCmd.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// addScanFlags registers the tuning flags shared by scan and info. Names map
// onto configuration keys in internal/cli/config.
func addScanFlags(flags *pflag.FlagSet) {
	flags.IntP("max-workers", "w", scanner.DefaultMaxWorkers, "Parallel workers (0 for min(CPU cores, 16))")
	flags.IntP("chunk-size", "c", scanner.DefaultChunkSize, "Files per chunk")
	flags.Int("chunk-retries", scanner.DefaultChunkRetries, "Re-runs of a failed chunk before its files are reported lost (-1 disables)")
	flags.String("reader", string(scanner.DefaultReaderType), `Scanning strategy ("basic" or "parallel")`)
	flags.BoolP("recursive", "r", scanner.DefaultRecursive, "Descend into subdirectories")
	flags.StringArray("ignore", []string{}, "Glob patterns for files/directories to skip (can be specified multiple times)")
	flags.String("asset-class-field", scanner.DefaultAssetClassField, "Record key holding the asset class")
	flags.String("default-encoding", "", "Fallback charset for files without a BOM (e.g. latin1)")
	flags.StringP("output-format", "o", string(scanner.DefaultOutputFormat), `Summary format ("text", "json", "yaml", "toml")`)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is search ., $HOME/.config/asset-scanner/)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Name of configuration profile to use")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging output (disables the progress bar)")

	addScanFlags(scanCmd.Flags())
	scanCmd.Flags().String("report", "", "Write the full result to this file")
	scanCmd.Flags().String("report-format", "", `Report format ("json", "yaml", "toml"; default from the file extension)`)
	scanCmd.Flags().Bool("no-progress", false, "Disable the progress bar even in a terminal")

	addScanFlags(infoCmd.Flags())

	rootCmd.AddCommand(scanCmd, infoCmd, validateReportCmd)
}
