// Command lzo is the block-parallel LZO1X compressor/decompressor CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	lzo "github.com/lzoblock/lzo1x"
	"github.com/lzoblock/lzo1x/internal/config"
	"github.com/lzoblock/lzo1x/internal/daemon"
	"github.com/lzoblock/lzo1x/internal/driver"
)

func main() {
	app := &cli.App{
		Name:                 "lzo",
		Usage:                "block-parallel LZO1X compressor",
		UsageText:            "lzo [options] <input> [<output>]",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "d", Usage: "decompress (mutually exclusive with -L)"},
			&cli.StringFlag{Name: "L", Usage: "compressor variant: 1, 1k, 1l, 1o"},
			&cli.IntFlag{Name: "t", Usage: "worker thread count", Value: 0},
			&cli.BoolFlag{Name: "verify", Usage: "in-memory roundtrip before writing output (compress only)"},
			&cli.BoolFlag{Name: "benchmark", Aliases: []string{"b"}, Usage: "report single-block vs multi-block timing"},
			&cli.StringFlag{Name: "config", Usage: "path to a config file"},
		},
		Commands: []*cli.Command{
			daemonCommand(),
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	decompress := c.Bool("d")
	levelFlag := c.String("L")
	if decompress && levelFlag != "" {
		return cli.Exit("lzo: -L is invalid with -d", 1)
	}

	if c.NArg() < 1 {
		return cli.Exit("lzo: missing <input>", 1)
	}
	input := c.Args().Get(0)
	output := c.Args().Get(1)

	// Input and output are always opened as file paths: "-" is not mapped to
	// standard input or output. An input of "-" with no output path is
	// rejected, since no default output name can be derived from it.
	if input == "-" && output == "" {
		return cli.Exit(`lzo: input "-" requires an explicit output path`, 1)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("lzo: %v", err), 1)
	}

	workers := c.Int("t")
	if workers <= 0 {
		workers = cfg.Workers
	}

	label := cfg.ParseLabel()
	if levelFlag != "" {
		parsed, ok := parseLevelFlag(levelFlag)
		if !ok {
			return cli.Exit(fmt.Sprintf("lzo: invalid -L %q", levelFlag), 1)
		}
		label = parsed
	}

	opts := &driver.Options{
		Label:     label,
		Workers:   workers,
		Verify:    c.Bool("verify"),
		Benchmark: c.Bool("benchmark"),
		Logger:    slog.Default(),
	}

	if output == "" {
		if decompress {
			output = defaultDecompressPath(input)
		} else {
			output = input + ".lzo"
		}
	}

	var res *driver.Result
	if decompress {
		res, err = runDecompress(input, opts)
	} else {
		res, err = runCompress(input, opts)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("lzo: %v", err), 1)
	}

	if c.Bool("verify") && !explicitOutput(c) {
		reportBenchmark(res)
		return nil
	}

	if err := os.WriteFile(output, res.Output, 0o644); err != nil {
		return cli.Exit(fmt.Sprintf("lzo: write %q: %v", output, err), 1)
	}

	reportBenchmark(res)
	return nil
}

func runCompress(inputPath string, opts *driver.Options) (*driver.Result, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", inputPath, err)
	}
	return driver.Compress(data, opts)
}

func runDecompress(inputPath string, opts *driver.Options) (*driver.Result, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", inputPath, err)
	}
	return driver.Decompress(data, opts)
}

// explicitOutput reports whether the caller passed an output path on the
// command line, as opposed to one synthesised by defaultDecompressPath or
// the ".lzo" suffix rule.
func explicitOutput(c *cli.Context) bool {
	return c.NArg() >= 2
}

// parseLevelFlag maps the -L flag's spelling ("1", "1k", "1l", "1o") to a
// variant label; "1" alone selects the base LabelX variant.
func parseLevelFlag(s string) (lzo.Label, bool) {
	switch strings.ToLower(s) {
	case "1":
		return lzo.LabelX, true
	case "1k":
		return lzo.LabelK, true
	case "1l":
		return lzo.LabelL, true
	case "1o":
		return lzo.LabelO, true
	default:
		return lzo.LabelX, false
	}
}

func defaultDecompressPath(input string) string {
	if strings.HasSuffix(input, ".lzo") {
		return strings.TrimSuffix(input, ".lzo")
	}
	return "decompressed_" + input
}

func reportBenchmark(res *driver.Result) {
	if res.BenchmarkSingleBlock == 0 && res.BenchmarkMultiBlock == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "single-block: %s  multi-block: %s\n", res.BenchmarkSingleBlock, res.BenchmarkMultiBlock)
}

func daemonCommand() *cli.Command {
	return &cli.Command{
		Name:  "daemon",
		Usage: "manage the lzod accelerator daemon",
		Subcommands: []*cli.Command{
			{
				Name:  "status",
				Usage: "report whether the daemon socket is live",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "path to a config file"},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return cli.Exit(fmt.Sprintf("lzo: %v", err), 1)
					}
					client := daemon.NewClient(cfg.DaemonSocket)
					if client.Running() {
						fmt.Printf("daemon socket %s is present\n", cfg.DaemonSocket)
						return nil
					}
					fmt.Printf("daemon socket %s is absent\n", cfg.DaemonSocket)
					return cli.Exit("", 1)
				},
			},
			{
				Name:  "start",
				Usage: "run the lzod daemon in the foreground (see the lzod binary for production use)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "path to a config file"},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return cli.Exit(fmt.Sprintf("lzo: %v", err), 1)
					}
					srv := daemon.NewServer(cfg.DaemonSocket, cfg.KernelDir, cfg.Workers, slog.Default())
					ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
					defer stop()
					if err := srv.Serve(ctx); err != nil {
						return cli.Exit(fmt.Sprintf("lzo: %v", err), 1)
					}
					return nil
				},
			},
		},
	}
}
