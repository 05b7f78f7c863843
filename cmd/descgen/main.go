package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-descriptor/config"
	"github.com/wippyai/wasm-descriptor/embed"
	"github.com/wippyai/wasm-descriptor/literal"
)

const generator = "descgen"

// state is shared by the commands of one app run.
type state struct {
	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	st := &state{}
	return &cli.App{
		Name:    generator,
		Usage:   "encode interface descriptions and embed them in Go source or wasm modules",
		Version: literal.Version(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML configuration file",
				EnvVars: []string{"DESCGEN_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error; overrides the configuration",
			},
		},
		Before: st.setup,
		After: func(*cli.Context) error {
			if st.log != nil {
				_ = st.log.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			encodeCommand(st),
			goSourceCommand(st),
			embedCommand(st),
			inspectCommand(st),
			browseCommand(st),
		},
	}
}

func (st *state) setup(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if level := c.String("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	literal.SetLogger(log.Named("literal"))
	embed.SetLogger(log.Named("embed"))

	st.cfg = cfg
	st.log = log
	log.Debug("configuration loaded", zap.Stringer("config", cfg))
	return nil
}

// newLogger writes to stderr so stdout stays free for document bytes.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if level < zap.InfoLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
