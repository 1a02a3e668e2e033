package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"svgc/config"
	"svgc/input"
	"svgc/misc"
	"svgc/render"
	"svgc/svg"
	"svgc/transform"
)

// appEnv is prepared once before command execution and carried through the
// command context.
type appEnv struct {
	cfg *config.Configuration
	log *zap.Logger
}

type envKey struct{}

func envFromContext(ctx context.Context) *appEnv {
	if env, ok := ctx.Value(envKey{}).(*appEnv); ok {
		return env
	}
	return &appEnv{cfg: config.Default(), log: zap.NewNop()}
}

// initializeAppContext prepares application context before command
// execution but after command line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	env := &appEnv{}

	var err error
	if env.cfg, err = config.LoadConfiguration(cmd.String("config")); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		env.cfg.Logging.ConsoleLogger.Level = "debug"
	}
	if env.log, err = env.cfg.Logging.Prepare(misc.GetAppName()); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.log = env.log.With(zap.String("run_id", uuid.Must(uuid.NewV7()).String()))

	env.log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()))

	return context.WithValue(ctx, envKey{}, env), nil
}

func destroyAppContext(ctx context.Context, _ *cli.Command) error {
	env := envFromContext(ctx)
	env.log.Debug("Program ended")
	_ = env.log.Sync()
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cli.Command{
		Name:    misc.GetAppName(),
		Usage:   "SVG optimizing rewriter",
		Version: misc.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "configuration `FILE`"},
			&cli.BoolFlag{Name: "debug", Usage: "force debug logging on console"},
		},
		Before: initializeAppContext,
		After:  destroyAppContext,
		Commands: []*cli.Command{
			{
				Name:      "optimize",
				Usage:     "optimize SVG files, directories or zip archives of SVG files",
				ArgsUsage: "PATH...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output `FILE` (single input file only)"},
				},
				Action: optimizeAction,
			},
			{
				Name:      "dump",
				Usage:     "print the node structure of an SVG file",
				ArgsUsage: "FILE",
				Action:    dumpAction,
			},
			{
				Name:      "render",
				Usage:     "rasterize an SVG file to PNG to verify it still renders",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output `FILE` (default: input with .png)"},
					&cli.IntFlag{Name: "width", Usage: "target raster width"},
					&cli.IntFlag{Name: "height", Usage: "target raster height"},
					&cli.IntFlag{Name: "thumbnail", Usage: "downscale result to fit `DIM` pixels"},
				},
				Action: renderAction,
			},
		},
	}

	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", misc.GetAppName(), err)
		os.Exit(1)
	}
}

func optimizeAction(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("no inputs")
	}
	output := cmd.String("output")
	if output != "" {
		if len(args) > 1 {
			return fmt.Errorf("--output can only be used with a single input")
		}
		if info, err := os.Stat(args[0]); err == nil &&
			(info.IsDir() || strings.EqualFold(filepath.Ext(args[0]), ".zip")) {
			return fmt.Errorf("--output can only be used with a single input file")
		}
	}

	pipeline, err := transform.NewPipeline(&env.cfg.Pipeline, env.log)
	if err != nil {
		return err
	}
	env.log.Debug("Prepared pipeline", zap.Strings("passes", pipeline.Plugins()))

	// Independent documents: one failure does not stop the batch.
	var result error
	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return multierr.Append(result, err)
		}
		err := input.Walk(arg, func(src input.Source, r io.Reader) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dest := output
			if dest == "" {
				dest = destinationPath(src)
			}
			if err := optimizeStream(env, pipeline, src, r, dest); err != nil {
				env.log.Error("Unable to optimize",
					zap.String("source", src.Name), zap.Error(err))
				result = multierr.Append(result, fmt.Errorf("%s: %w", src.Name, err))
			}
			return nil
		})
		if err != nil {
			env.log.Error("Unable to process", zap.String("input", arg), zap.Error(err))
			result = multierr.Append(result, fmt.Errorf("%s: %w", arg, err))
		}
	}
	return result
}

func optimizeStream(env *appEnv, pipeline *transform.Pipeline, src input.Source, r io.Reader, dest string) error {
	doc, err := svg.Parse(r)
	if err != nil {
		return err
	}
	if err := pipeline.Run(doc); err != nil {
		return err
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := doc.WriteTo(out)
	if err != nil {
		return err
	}
	env.log.Info("Optimized", zap.String("input", src.Name), zap.String("output", dest), zap.Int64("bytes", n))
	return nil
}

// destinationPath derives the default optimization target. Plain files get
// their extension replaced by .min.svg next to the source; archive entries
// land under a directory named after the archive, keeping their entry
// paths.
func destinationPath(src input.Source) string {
	if src.Container != "" {
		base := strings.TrimSuffix(src.Container, filepath.Ext(src.Container))
		return filepath.Join(base, filepath.FromSlash(src.Name))
	}
	ext := filepath.Ext(src.Name)
	base := strings.TrimSuffix(src.Name, ext)
	if strings.HasSuffix(base, ".min") {
		base = strings.TrimSuffix(base, ".min")
	}
	return base + ".min.svg"
}

func dumpAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("dump expects exactly one input file")
	}
	f, err := os.Open(cmd.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := svg.Parse(f)
	if err != nil {
		return err
	}
	fmt.Print(doc.Dump())
	return nil
}

func renderAction(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)

	if cmd.NArg() != 1 {
		return fmt.Errorf("render expects exactly one input file")
	}
	source := cmd.Args().First()

	data, err := os.ReadFile(source)
	if err != nil {
		return err
	}
	img, err := render.Rasterize(data, int(cmd.Int("width")), int(cmd.Int("height")))
	if err != nil {
		return err
	}
	if dim := int(cmd.Int("thumbnail")); dim > 0 {
		img = render.Thumbnail(img, dim)
	}

	output := cmd.String("output")
	if output == "" {
		output = strings.TrimSuffix(source, filepath.Ext(source)) + ".png"
	}
	if err := render.SavePNG(img, output); err != nil {
		return err
	}
	env.log.Info("Rendered", zap.String("input", source), zap.String("output", output),
		zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return nil
}
