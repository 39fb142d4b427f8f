package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/inferlab/unload/cmd/sinks"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version information - set via ldflags during build
	// Example: go build -ldflags "-X github.com/inferlab/unload/cmd.Version=1.2.3"
	Version = "dev" // Default to "dev" if not set during build

	cfgFile       string
	debug         bool
	logFormat     string
	dbURL         string
	forcedFormat  string
	defaultFormat string
	s3Endpoint    string
	s3Region      string

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true).
			Underline(true)

	logger *slog.Logger
)

// textOnlyHandler is a custom slog handler that outputs human-readable text
// without key=value pairs, suitable for interactive terminal usage
type textOnlyHandler struct {
	opts   slog.HandlerOptions
	writer io.Writer
}

func newTextOnlyHandler(w io.Writer, opts *slog.HandlerOptions) *textOnlyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &textOnlyHandler{
		opts:   *opts,
		writer: w,
	}
}

func (h *textOnlyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *textOnlyHandler) Handle(_ context.Context, r slog.Record) error {
	// Format: YYYY-MM-DD HH:MM:SS LEVEL message
	timestamp := r.Time.Format("2006-01-02 15:04:05")
	level := r.Level.String()

	_, err := fmt.Fprintf(h.writer, "%s %s %s\n", timestamp, level, r.Message)
	return err
}

func (h *textOnlyHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	// For simplicity, we ignore attributes in text-only mode
	return h
}

func (h *textOnlyHandler) WithGroup(_ string) slog.Handler {
	// For simplicity, we ignore groups in text-only mode
	return h
}

// initLogger initializes the slog logger based on debug flag and log format.
// Log output goes to stderr so that stdout stays clean for "-" sinks.
func initLogger(isDebug bool, format string) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if isDebug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "logfmt":
		// logfmt uses slog.TextHandler which outputs key=value pairs
		handler = slog.NewTextHandler(os.Stderr, opts)
	default: // "text" or anything else
		handler = newTextOnlyHandler(os.Stderr, opts)
	}

	logger = slog.New(handler)
}

var rootCmd = &cobra.Command{
	Use:     "unload RELATION[(COL,COL,...)] [SINK...]",
	Version: Version,
	Short:   "📤 Unload relation rows from a database into sink files",
	Long: titleStyle.Render("Relation Unloader") + `

Unloads rows of a named relation into one or more sinks, inferring output
format (tsj, tsv, csv) and compression (bzip2, gzip) per sink from the
filename, and batching consecutive same-format sinks into a single
extraction query. Sinks may be local files, s3://bucket/key destinations,
or "-" for stdout. With no sink, the relation's input file under the
application's input/ directory is rewritten.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnload(cmd.Context(), args)
	},
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.unload.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, logfmt, json)")

	rootCmd.Flags().StringVar(&dbURL, "db-url", "", "database connection URL (postgresql:// or mysql://)")
	rootCmd.Flags().StringVar(&forcedFormat, "format", "", "force output format for every sink, disabling filename sniffing (tsj, tsv, csv)")
	rootCmd.Flags().StringVar(&defaultFormat, "default-format", "", "fallback format when filename sniffing fails (tsj, tsv, csv)")
	rootCmd.Flags().StringVar(&s3Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL for s3:// sinks")
	rootCmd.Flags().StringVar(&s3Region, "s3-region", "auto", "S3 region for s3:// sinks")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("db.url", rootCmd.Flags().Lookup("db-url"))
	_ = viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("default_format", rootCmd.Flags().Lookup("default-format"))
	_ = viper.BindPFlag("s3.endpoint", rootCmd.Flags().Lookup("s3-endpoint"))
	_ = viper.BindPFlag("s3.region", rootCmd.Flags().Lookup("s3-region"))

	// Environment overrides recognized by the loader/unloader family
	_ = viper.BindEnv("format", "LOAD_FORMAT")
	_ = viper.BindEnv("default_format", "LOAD_FORMAT_DEFAULT")
	_ = viper.BindEnv("db.url", "DB_URL")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".unload")
	}

	viper.SetEnvPrefix("UNLOAD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && debug {
		if logger == nil {
			initLogger(debug, logFormat)
		}
		logger.Debug(fmt.Sprintf("📄 Using config file: %s", viper.ConfigFileUsed()))
	}
}

func runUnload(ctx context.Context, args []string) error {
	config := &Config{
		Debug:         viper.GetBool("debug"),
		LogFormat:     viper.GetString("log_format"),
		DatabaseURL:   viper.GetString("db.url"),
		ForcedFormat:  viper.GetString("format"),
		DefaultFormat: viper.GetString("default_format"),
		S3: S3Config{
			Endpoint: viper.GetString("s3.endpoint"),
			Region:   viper.GetString("s3.region"),
		},
	}

	initLogger(config.Debug, config.LogFormat)

	if len(args) == 0 {
		return ErrRelationRequired
	}
	relation, err := ParseRelationSpec(args[0])
	if err != nil {
		return err
	}
	if !isValidRelationName(relation.Name) {
		return fmt.Errorf("%w: '%s'", ErrRelationInvalid, relation.Name)
	}

	// An application root is optional: without one the command works
	// against a bare database URL and resolves no columns.
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	app, hasApp := LocateApp(workDir)
	inputDir := "input"
	if hasApp {
		logger.Debug(fmt.Sprintf("Using application root %s", app.Root))
		inputDir = app.InputDir()
		if config.DatabaseURL == "" {
			url, err := app.DatabaseURL()
			if err != nil {
				return err
			}
			config.DatabaseURL = url
		}
	}

	if err := config.Validate(); err != nil {
		return err
	}

	columns := relation.Columns
	if len(columns) == 0 && hasApp && app.Compiled() {
		provider, err := LoadCompiledSchema(app.SchemaPath())
		if err != nil {
			// A schema lookup failure is not fatal: unload proceeds with *
			logger.Debug(fmt.Sprintf("Skipping column resolution: %v", err))
		} else {
			columns = ResolveColumns(provider, relation.Name)
		}
	}

	driver, err := LoadDriver(config.DatabaseURL)
	if err != nil {
		return err
	}

	return executeUnload(ctx, NewUnloader(config, driver, logger), relation.Name, columns, args[1:], inputDir)
}

// executeUnload classifies every sink, plans the batches, and flushes them
// in input order. Classification errors abort before any extraction.
func executeUnload(ctx context.Context, unloader *Unloader, relation string, columns []string, sinkArgs []string, inputDir string) error {
	config := unloader.config

	if len(sinkArgs) == 0 {
		sinkArgs = []string{sinks.DefaultPath(inputDir, relation, config.ForcedFormat, config.DefaultFormat)}
	}

	classified := make([]sinks.Spec, 0, len(sinkArgs))
	for _, arg := range sinkArgs {
		spec, err := sinks.Classify(arg, config.ForcedFormat, config.DefaultFormat)
		if err != nil {
			return err
		}
		classified = append(classified, spec)
	}

	planner := NewBatchPlanner(func(batch Batch) error {
		return unloader.UnloadBatch(ctx, relation, columns, batch)
	})
	if config.ForcedFormat != "" {
		planner.DeclareFormat(config.ForcedFormat)
	}

	for _, spec := range classified {
		if err := planner.Add(spec); err != nil {
			return err
		}
	}
	if err := planner.Finish(); err != nil {
		return err
	}

	if err := unloader.Failed(); err != nil {
		return fmt.Errorf("sink consumer failed: %w", err)
	}

	unloader.logger.Info(fmt.Sprintf("✅ Unloaded %s successfully", relation))
	return nil
}
