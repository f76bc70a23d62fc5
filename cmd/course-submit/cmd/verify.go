package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/course-submit/internal/service/inspect"
)

func newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [manifest-file]",
		Short: "Check a checksum manifest against the files on disk",
		Long:  "Re-hash every entry of a checksum manifest. Without an argument the configured manifest file in --dir is checked.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options := &inspect.VerifyOptions{
				ConfigPath: configPath,
				Dir:        baseDir,
				LogLevel:   logLevel,
				Out:        cmd.OutOrStdout(),
			}

			if len(args) == 1 {
				options.Path = args[0]
			}

			return inspect.Verify(cmd.Context(), options)
		},
	}
}
