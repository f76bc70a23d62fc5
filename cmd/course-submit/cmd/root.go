package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/course-submit/internal/config"
	"github.com/oshokin/course-submit/internal/domain/quiz"
	"github.com/oshokin/course-submit/internal/logger"
	"github.com/oshokin/course-submit/internal/service/submit"
	"github.com/oshokin/course-submit/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// baseDir that quiz directories are resolved against.
	baseDir string
	// logLevel overrides the configured log level.
	logLevel string
	// outboxDir overrides the configured outbox directory.
	outboxDir string

	// rootCmd submits a quiz.
	rootCmd = &cobra.Command{
		Use:           "course-submit <quiz>",
		Short:         "Submit assignment files together with a checksum manifest",
		Long:          "Submit the files of a quiz (for example part1, part2 or readme) to the course outbox. A SHA-256 manifest of the quiz directory is attached when it can be produced.",
		Args:          cobra.ExactArgs(1),
		ValidArgs:     quiz.DefaultCatalog().Names(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			options := &submit.Options{
				ConfigPath: configPath,
				Dir:        baseDir,
				Quiz:       args[0],
				OutboxDir:  outboxDir,
				LogLevel:   logLevel,
			}

			return submit.Run(cmd.Context(), options)
		},
	}
)

// Execute runs the course-submit CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error(ctx, err)
		stop()
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&baseDir, "dir", "C", ".", "base directory containing the quiz directories")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.Flags().StringVar(&outboxDir, "outbox", "", "directory receiving submission archives and receipts")

	rootCmd.AddCommand(newManifestCommand(), newVerifyCommand())
}
