package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bgrundmann/finding-the-way-home-sub000/engine"
	"github.com/bgrundmann/finding-the-way-home-sub000/engine/move"
	"github.com/bgrundmann/finding-the-way-home-sub000/service/internal/config"
	"github.com/bgrundmann/finding-the-way-home-sub000/service/internal/workspace"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const appName = "moves"

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "defs":
		os.Exit(cmdDefs(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`moves %s

Usage:
  %s run [-image start.yaml] [-o out.yaml] <file.moves>   Run moves and print the final image.
  %s check <file.moves>...                              Parse files and report problems.
  %s defs [file.moves]                                  List known definitions.
  %s repl                                               Start the REPL.
  %s version                                            Print the version.

Environment: MOVES_LOG_LEVEL, MOVES_LOG_FORMAT, MOVES_LIBRARY, MOVES_IMAGE,
MOVES_HISTORY, MOVES_MAX_PARALLEL (also read from .env).
`, Version, appName, appName, appName, appName, appName)
}

// setup loads the configuration and the preloaded library.
func setup() (config.Config, *move.Library, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	cfg.ConfigureLogger()

	if cfg.LibraryPath == "" {
		return cfg, move.NewBuiltinLibrary(), nil
	}
	src, err := os.ReadFile(cfg.LibraryPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("reading library: %w", err)
	}
	lib, err := workspace.LoadLibrary(string(src))
	if err != nil {
		return cfg, nil, fmt.Errorf("%s:\n%s", cfg.LibraryPath, renderError(string(src), err))
	}
	log.Debugf("Loaded %d definitions from %s.", lib.Len(), cfg.LibraryPath)
	return cfg, lib, nil
}

func readImage(path string) (engine.Image, error) {
	var im engine.Image
	data, err := os.ReadFile(path)
	if err != nil {
		return im, err
	}
	if err := yaml.Unmarshal(data, &im); err != nil {
		return im, fmt.Errorf("%s: %w", path, err)
	}
	return im, nil
}

func writeImage(path string, im engine.Image) error {
	data, err := yaml.Marshal(im)
	if err != nil {
		return err
	}
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	imagePath := fs.String("image", "", "YAML image to start from (default $MOVES_IMAGE)")
	outPath := fs.String("o", "", "write the final image here instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [-image f.yaml] [-o out.yaml] <file.moves>\n", appName)
		return 2
	}

	cfg, lib, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	w := workspace.New(lib)

	if *imagePath == "" {
		*imagePath = cfg.ImagePath
	}
	if *imagePath != "" {
		im, err := readImage(*imagePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read image: %v\n", appName, err)
			return 1
		}
		w.SetImage(im)
	}

	file := fs.Arg(0)
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	_, runErr := w.Run(string(src))
	if runErr != nil {
		fmt.Fprint(os.Stderr, red(renderError(string(src), runErr)))
		if isParseError(runErr) {
			return 1
		}
	}
	if err := writeImage(*outPath, w.Image()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot write image: %v\n", appName, err)
		return 1
	}
	if runErr != nil {
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// check
// -----------------------------------------------------------------------------

func cmdCheck(args []string) int {
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s check <file.moves>...\n", appName)
		return 2
	}
	cfg, lib, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reports := make([]string, len(args))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxParallel)
	for i, file := range args {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", file, err)
			}
			if _, err := move.Parse(lib, string(src)); err != nil {
				reports[i] = fmt.Sprintf("%s:\n%s", file, renderError(string(src), err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}

	failed := 0
	for _, r := range reports {
		if r != "" {
			failed++
			fmt.Fprint(os.Stderr, r)
		}
	}
	log.Debugf("Checked %d file(s), %d with problems.", len(args), failed)
	if failed > 0 {
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// defs
// -----------------------------------------------------------------------------

func cmdDefs(args []string) int {
	_, lib, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	w := workspace.New(lib)
	for _, file := range args {
		src, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
			return 1
		}
		if _, err := w.Compile(string(src)); err != nil {
			fmt.Fprintf(os.Stderr, "%s:\n%s", file, renderError(string(src), err))
			return 1
		}
	}
	printDefinitions(os.Stdout, w.Definitions())
	return 0
}
