package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/course-submit/internal/service/inspect"
)

func newManifestCommand() *cobra.Command {
	var (
		write    bool
		patterns []string
	)

	cmd := &cobra.Command{
		Use:   "manifest [quiz]",
		Short: "Show which files the checksum manifest would contain",
		Long:  "Evaluate every checksum candidate of a quiz directory (or of --dir when no quiz is given) and print its size, status and digest. With --write the manifest file is written as well.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options := &inspect.ManifestOptions{
				ConfigPath: configPath,
				Dir:        baseDir,
				Patterns:   patterns,
				Write:      write,
				LogLevel:   logLevel,
				Out:        cmd.OutOrStdout(),
			}

			if len(args) == 1 {
				options.Quiz = args[0]
			}

			return inspect.Manifest(cmd.Context(), options)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the manifest file")
	cmd.Flags().StringSliceVarP(&patterns, "pattern", "p", nil, "candidate glob, repeatable (default: the quiz patterns)")

	return cmd
}
