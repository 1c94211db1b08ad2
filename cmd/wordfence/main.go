package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/pesc/wordfence-cli/cmd/wordfence/app"
	"github.com/pesc/wordfence-cli/internal/config"
	"github.com/pesc/wordfence-cli/internal/version"
	"github.com/pesc/wordfence-cli/pkg/logger"
)

const (
	exitCodeError   = 1
	exitCodeMatches = 2
)

var (
	// Global flags
	verbosity   int
	noProgress  bool
	noColor     bool
	showVersion bool

	// Scan command flags
	workers        int
	chunkSize      int
	rateLimit      int
	signaturesPath string
	outputType     string
	outputFile     string

	// Global logger instance
	log logger.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var matched *app.MatchesFoundError
		if errors.As(err, &matched) {
			os.Exit(exitCodeMatches)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wordfence [command] [flags] <path>...",
	Short: "A malware signature scanner for file trees",
	Long: `wordfence v` + version.Version + `
========================================

Scans file trees against a set of malware signatures, streaming file content
through concurrent workers and reporting every match with its byte offset.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.NewLogger(logger.Config{
			Verbosity: verbosity,
			Output:    os.Stderr,
		})

		if showVersion {
			fmt.Println(version.Version)
			os.Exit(0)
		}
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <path>...",
	Short: "Scan paths against a signature set",
	Long: `Scans one or more paths against the configured signature set. Directories
are traversed recursively; a match is reported with the signature and the
byte offset of its first occurrence. The command exits with code 2 when
matches were found.`,
	RunE: runScan,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flag("full").Value.String() == "true" {
			fmt.Println(version.FullVersion())
		} else {
			fmt.Println(version.Version)
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output (can be used multiple times)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress display")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&showVersion, "version", false, "print version information")

	// Scan command flags
	scanCmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "number of concurrent scan workers")
	scanCmd.Flags().IntVarP(&chunkSize, "chunk-size", "c", config.DefaultChunkSize, "file read chunk size in bytes")
	scanCmd.Flags().IntVarP(&rateLimit, "rate-limit", "r", 0, "files started per second (0 = unlimited)")
	scanCmd.Flags().StringVarP(&signaturesPath, "signatures", "s", "", "path to the signature set file")
	scanCmd.Flags().StringVarP(&outputType, "output", "o", "text", "report format: text|json|yaml")
	scanCmd.Flags().StringVarP(&outputFile, "output-file", "f", "", "write the report to a file instead of stdout")

	// Version command flags
	versionCmd.Flags().BoolP("full", "F", false, "show full version information")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("requires at least one path argument")
	}

	// Environment configuration first, explicit flags take precedence.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, &cfg)

	if cfg.Signatures == "" {
		return fmt.Errorf("a signature set is required (--signatures or WORDFENCE_SIGNATURES)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.WithFields(logger.Fields{
		"paths":      args,
		"workers":    cfg.Workers,
		"chunkSize":  cfg.ChunkSize,
		"rateLimit":  cfg.RateLimit,
		"signatures": cfg.Signatures,
		"output":     cfg.Output,
		"file":       cfg.OutputFile,
	}).Info("Starting scan")

	application := app.New(&cfg)
	defer application.Shutdown()

	return application.Run(args)
}

// applyFlagOverrides copies explicitly set flags over the environment-based
// configuration.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("chunk-size") {
		cfg.ChunkSize = chunkSize
	}
	if cmd.Flags().Changed("rate-limit") {
		cfg.RateLimit = rateLimit
	}
	if cmd.Flags().Changed("signatures") {
		cfg.Signatures = signaturesPath
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = outputType
	}
	if cmd.Flags().Changed("output-file") {
		cfg.OutputFile = outputFile
	}
	if noProgress {
		cfg.NoProgress = true
	}
	if noColor {
		cfg.NoColor = true
	}
	if verbosity > 0 {
		cfg.Verbose = verbosity
	}
}
