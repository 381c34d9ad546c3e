package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/particle-wishes/internal/render"
	"github.com/iburimskiy/particle-wishes/internal/render/term"
)

func newRunCmd(opts *options) *cobra.Command {
	flags := &sessionFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the particle window",
		Long: `Open the particle window.

Keys: 1-6 pick a shape, C changes color, Enter starts the birthday wish,
R or Backspace resets, M opens a soundtrack, Esc or Q quits.

Gestures need a Gemini API key (GEMINI_API_KEY) and a camera still that an
external grabber keeps fresh, for example:

  ffmpeg -f v4l2 -i /dev/video0 -vf fps=2 -update 1 -y /tmp/frame.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd.Context(), opts, flags)
		},
	}
	addSessionFlags(cmd.Flags(), flags)
	return cmd
}

func runWindow(ctx context.Context, opts *options, flags *sessionFlags) error {
	logger := loggerFromContext(ctx)
	cfg := opts.cfg
	flags.apply(&cfg)

	s, err := newSession(ctx, cfg, flags.template, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	ro := render.Options{Config: cfg, App: s.app, Scene: s.scene, Logger: logger}
	if s.player != nil {
		ro.Player = s.player
	}
	return render.Run(ctx, ro)
}

func newTUICmd(opts *options) *cobra.Command {
	flags := &sessionFlags{}
	var logFile string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Draw the particle cloud in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// The terminal belongs to tcell; logs go to a file or nowhere.
			var out io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				out = f
			}
			logger := newLogger(out, loggerFromContext(ctx).GetLevel())
			cfg := opts.cfg
			flags.apply(&cfg)

			s, err := newSession(ctx, cfg, flags.template, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			to := term.Options{Config: cfg, App: s.app, Scene: s.scene, Logger: logger}
			if s.player != nil {
				to.Player = s.player
			}
			return term.Run(ctx, to)
		},
	}
	addSessionFlags(cmd.Flags(), flags)
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	return cmd
}
