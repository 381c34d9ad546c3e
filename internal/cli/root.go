package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/particle-wishes/internal/config"
)

// options are the persistent flags and what PersistentPreRunE derives from
// them.
type options struct {
	configPath string
	verbose    bool

	cfg config.Config
}

// Execute runs the CLI. Running without a subcommand opens the window.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "particle-wishes",
		Short:        "A 3D particle cloud that morphs between shapes",
		Long:         `particle-wishes draws a particle cloud that morphs between procedural shapes, chosen by hand, by hand gestures seen through a camera, or by a scripted birthday sequence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			logger := newLogger(os.Stderr, levelFor(opts.verbose, cfg.Log.Level))
			cmd.SetContext(withLogger(cmd.Context(), logger))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a TOML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	// The bare command opens the window, same as run.
	flags := &sessionFlags{}
	addSessionFlags(root.Flags(), flags)
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return runWindow(cmd.Context(), opts, flags)
	}

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newSnapshotCmd(opts))
	root.AddCommand(newTemplatesCmd(opts))
	return root
}
