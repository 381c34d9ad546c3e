package cli

import (
	"fmt"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/particle-wishes/internal/config"
	"github.com/iburimskiy/particle-wishes/internal/gesture"
	"github.com/iburimskiy/particle-wishes/internal/render/snapshot"
	"github.com/iburimskiy/particle-wishes/internal/shape"
)

type snapshotFlags struct {
	template string
	color    string
	output   string
	frames   int
	width    int
	height   int
	caption  string
	seed     uint64
}

func newSnapshotCmd(opts *options) *cobra.Command {
	flags := &snapshotFlags{}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render a template to a PNG",
		Long: `Render a template to a PNG without opening a window.

The cloud starts collapsed at the origin and eases toward the template for
--frames ticks before the frame is drawn. Use -o - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd, opts.cfg, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.template, "template", "t", "heart", "template to render")
	cmd.Flags().StringVar(&flags.color, "color", "", "particle color as #rrggbb (default first palette color)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default <template>.png)")
	cmd.Flags().IntVarP(&flags.frames, "frames", "n", 180, "ticks to settle before drawing")
	cmd.Flags().IntVar(&flags.width, "width", 0, "image width (default window width)")
	cmd.Flags().IntVar(&flags.height, "height", 0, "image height (default window height)")
	cmd.Flags().StringVar(&flags.caption, "caption", "", "text drawn above the cloud")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 1, "random seed")
	return cmd
}

func runSnapshot(cmd *cobra.Command, cfg config.Config, flags *snapshotFlags) error {
	logger := loggerFromContext(cmd.Context())

	t, err := shape.Lookup(flags.template)
	if err != nil {
		return err
	}
	var c colorful.Color
	if flags.color != "" {
		if c, err = colorful.Hex(flags.color); err != nil {
			return fmt.Errorf("invalid color %q: %w", flags.color, err)
		}
	}
	if flags.frames < 0 {
		return fmt.Errorf("frames must be non-negative, got %d", flags.frames)
	}
	if flags.width > 0 {
		cfg.Window.Width = flags.width
	}
	if flags.height > 0 {
		cfg.Window.Height = flags.height
	}
	cfg.Particles.Seed = flags.seed

	so := snapshot.Options{
		Config:   cfg,
		Template: t,
		Color:    c,
		Frames:   flags.frames,
		Caption:  flags.caption,
	}

	prog := newProgress(logger)
	out := flags.output
	if out == "" {
		out = t.Name() + ".png"
	}
	if out == "-" {
		return snapshot.Write(cmd.OutOrStdout(), so)
	}
	if err := snapshot.Save(out, so); err != nil {
		return err
	}
	prog.done("rendered " + t.Name())
	printSuccess(cmd.OutOrStdout(), "wrote %s", out)
	return nil
}

func newTemplatesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the templates and the gestures that select them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printTemplates(cmd.OutOrStdout())
			return nil
		},
	}
}

func printTemplates(w io.Writer) {
	gestures := gesturesByTemplate()
	fmt.Fprintln(w, styleTitle.Render("Templates"))
	for i, t := range shape.All() {
		key := styleDim.Render("-")
		if i < 6 {
			key = styleDim.Render(fmt.Sprint(i + 1))
		}
		g := gestures[t]
		if g == "" {
			g = styleDim.Render("sequence only")
		} else {
			g = styleValue.Render(g)
		}
		fmt.Fprintf(w, "  %s %s %s\n", key, styleName.Render(t.Name()), g)
	}
}

func gesturesByTemplate() map[shape.Template]string {
	out := map[shape.Template]string{}
	for _, g := range gesture.Known {
		if t, ok := gesture.Template(g); ok {
			out[t] = string(g)
		}
	}
	return out
}
