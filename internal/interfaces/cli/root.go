// Package cli implements the molx command line: the API server plus one-shot
// commands that run the structure pipeline in-process or against a server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MathioLucas/Molecular-expolrer/internal/config"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	EnvFiles     []string
	LogLevel     string
	OutputFormat string
	ServerAddr   string
	Timeout      time.Duration
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	ConfigPath   string
	Logger       logging.Logger
	OutputFormat string
	ServerAddr   string
	Timeout      time.Duration

	// backend overrides the in-process or remote backend in tests.
	backend moleculeBackend
}

// NewRootCommand creates the root cobra command with all global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "molx",
		Short: "molx: SMILES to 3D structures, descriptors and depictions",
		Long: "molx turns SMILES strings into 3D coordinates, molecular descriptors,\n" +
			"2D SVG depictions and PDB files. Run \"molx serve\" for the HTTP API or use\n" +
			"the one-shot commands locally or against a server with --server.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: environment only)")
	pf.StringSliceVar(&opts.EnvFiles, "env-file", []string{".env"}, "dotenv files loaded before the config")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.StringVar(&opts.ServerAddr, "server", "", "API server URL; commands run in-process when empty")
	pf.DurationVar(&opts.Timeout, "timeout", 60*time.Second, "timeout of one-shot commands")

	cmd.AddCommand(
		newServeCmd(),
		newDescribeCmd(),
		newPDBCmd(),
		newSVGCmd(),
		newExamplesCmd(),
		newMeasureCmd(),
		newEventsCmd(),
		newVersionCmd(),
	)
	return cmd
}

// persistentPreRun initializes config and logger, then stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	if err := config.LoadDotEnv(opts.EnvFiles...); err != nil {
		return err
	}

	cfg, err := config.LoadOrEnv(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logging.SetDefault(logger)

	cliCtx := &CLIContext{
		Config:       cfg,
		ConfigPath:   opts.ConfigPath,
		Logger:       logger,
		OutputFormat: strings.ToLower(opts.OutputFormat),
		ServerAddr:   opts.ServerAddr,
		Timeout:      opts.Timeout,
	}
	if prev, ok := cmd.Context().Value(cliContextKey{}).(*CLIContext); ok && prev.backend != nil {
		cliCtx.backend = prev.backend
	}

	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// initLogger builds the process logger. Output goes to stderr unless the
// config names paths, so stdout carries only command results.
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	logCfg := cfg.Log
	if opts.LogLevel != "" {
		logCfg.Level = strings.ToLower(opts.LogLevel)
	}
	if logCfg.OutputPaths == nil {
		logCfg.OutputPaths = []string{"stderr"}
	}
	return logging.NewLogger(logCfg)
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}

	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	return ExecuteContext(context.Background(), os.Args[1:])
}

// ExecuteContext runs the command tree with args under ctx.
func ExecuteContext(ctx context.Context, args []string) error {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Output
// ─────────────────────────────────────────────────────────────────────────────

// PrintResult writes data as JSON when -o json is set. Otherwise text is
// called to render it.
func PrintResult(cmd *cobra.Command, data interface{}, text func() string) error {
	format := "text"
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}

	if format == "json" || text == nil {
		return printJSON(cmd, data)
	}
	fmt.Fprint(cmd.OutOrStdout(), text())
	return nil
}

// printJSON outputs data as indented JSON to stdout.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if len(row[i]) > colWidths[i] {
				colWidths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			if i == len(headers)-1 {
				sb.WriteString(val)
			} else {
				sb.WriteString(padRight(val, colWidths[i]))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(headers))
	for i, w := range colWidths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

// padRight pads s with spaces to the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

//Personal.AI order the ending
