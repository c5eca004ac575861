package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/artisanize/internal/config"
	"github.com/crimson-sun/artisanize/internal/connector"
	"github.com/crimson-sun/artisanize/internal/engine"
	"github.com/crimson-sun/artisanize/internal/ingest"
	"github.com/crimson-sun/artisanize/internal/logging"
	"github.com/crimson-sun/artisanize/internal/output"
	"github.com/crimson-sun/artisanize/internal/output/file"
	"github.com/crimson-sun/artisanize/internal/output/multi"
	"github.com/crimson-sun/artisanize/internal/output/stdout"
	"github.com/crimson-sun/artisanize/internal/output/webhook"
	"github.com/crimson-sun/artisanize/internal/pipeline"
	"github.com/crimson-sun/artisanize/internal/server"

	// Register connector implementations.
	_ "github.com/crimson-sun/artisanize/internal/connector/file"
	_ "github.com/crimson-sun/artisanize/internal/connector/roastworld"
)

const usageText = `Usage: artisanize <roast_id | url | file.json> [output]

Converts a roast.world roast export into an Artisan CSV profile. The output
defaults to <name>_<uid>.csv in the current directory; "-" writes to stdout.

Examples:
  artisanize 0QQFP4AFGdZC34Il64oPQ
  artisanize https://roast.world/sweetmarias/roasts/0QQFP4AFGdZC34Il64oPQ
  artisanize roast_data.json profile.csv

Set ARTISANIZE_MODE=serve or ARTISANIZE_MODE=consume to run as a service.

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdoutW, stderrW io.Writer) int {
	fs := flag.NewFlagSet("artisanize", flag.ContinueOnError)
	fs.SetOutput(stderrW)
	showVersion := fs.Bool("version", false, "print the version and exit")
	fs.Usage = func() {
		fmt.Fprint(stderrW, usageText)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *showVersion {
		fmt.Fprintf(stdoutW, "artisanize %s\n", config.Version)
		return 0
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderrW, "artisanize: invalid configuration:\n%v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := logging.ParseLevel(cfg.LogLevel)
	switch cfg.Mode {
	case config.ModeServe:
		return serve(ctx, cfg, logging.Init(stderrW, logging.JSON, level))
	case config.ModeConsume:
		return consume(ctx, cfg, logging.Init(stderrW, logging.JSON, level))
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 1
	}
	input, target := fs.Arg(0), fs.Arg(1)

	format := logging.Text
	if target == "-" {
		format = logging.JSON
	}
	return convert(ctx, cfg, input, target, stdoutW, logging.Init(stderrW, format, level))
}

func sourceConfig(cfg config.Config) connector.Config {
	return connector.Config{
		Endpoint: cfg.Source.Endpoint,
		Bucket:   cfg.Source.Bucket,
		Token:    cfg.Source.Token,
		Timeout:  cfg.Source.Timeout,
	}
}

func convert(ctx context.Context, cfg config.Config, input, target string, stdoutW io.Writer, log *slog.Logger) int {
	src, provider, err := connector.Open(input, sourceConfig(cfg))
	if err != nil {
		log.Error("no source for input", "input", input, "err", err)
		return 1
	}
	log.Info("reading roast", "provider", provider, "input", input)

	var out output.Output
	var fileOut *file.Output
	if target == "-" {
		out = stdout.NewWriter(stdoutW)
	} else {
		fileOut = file.New(target)
		out = fileOut
	}

	p := pipeline.New(src, engine.New(), out, pipeline.WithLogger(log))
	defer p.Close()

	if _, err := p.Run(ctx, input); err != nil {
		log.Error("conversion failed", "input", input, "err", err)
		return 1
	}
	if fileOut != nil {
		log.Info("profile written", "path", fileOut.Path())
	}
	return 0
}

func remoteSource(cfg config.Config) (connector.Source, error) {
	ctor, err := connector.Get(connector.ProviderRoastWorld)
	if err != nil {
		return nil, err
	}
	return ctor(sourceConfig(cfg)), nil
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) int {
	remote, err := remoteSource(cfg)
	if err != nil {
		log.Error("failed to create source", "err", err)
		return 1
	}
	srv := server.New(engine.New(), remote, server.WithLogger(log))
	if err := srv.ListenAndServe(ctx, cfg.Server.ListenAddr, cfg.ShutdownTimeout); err != nil {
		log.Error("server stopped", "err", err)
		return 1
	}
	return 0
}

func consume(ctx context.Context, cfg config.Config, log *slog.Logger) int {
	remote, err := remoteSource(cfg)
	if err != nil {
		log.Error("failed to create source", "err", err)
		return 1
	}
	var out output.Output = file.New(cfg.Output.Dir)
	if cfg.Output.WebhookURL != "" {
		out = multi.New(out, webhook.New(cfg.Output.WebhookURL, webhook.WithTimeout(cfg.Source.Timeout)))
		log.Info("webhook delivery enabled", "url", cfg.Output.WebhookURL)
	}
	p := pipeline.New(remote, engine.New(), out, pipeline.WithLogger(log))
	defer p.Close()

	c, err := ingest.New(ingest.Config{
		Brokers:     cfg.Kafka.Brokers,
		Topic:       cfg.Kafka.Topic,
		GroupID:     cfg.Kafka.GroupID,
		PollTimeout: cfg.Kafka.PollTimeout,
	}, p, log)
	if err != nil {
		log.Error("failed to create consumer", "err", err)
		return 1
	}
	defer c.Close()

	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", "err", err)
		return 1
	}
	return 0
}
