package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dshills/delegator/internal/app"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "path to a TOML or YAML configuration file",
			Aliases: []string{"c"},
			EnvVars: []string{"DELEGATOR_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "script",
			Usage:   "path to a Lua declaration script",
			Aliases: []string{"s"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "trace, debug, info, warn or error",
		},
	}
}

func options(c *cli.Context) app.Options {
	return app.Options{
		ConfigPath: c.String("config"),
		ScriptPath: c.String("script"),
		LogLevel:   c.String("log-level"),
	}
}

// Run starts the interactive terminal demo.
func Run() *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "start the interactive terminal demo (default)",
		Flags:  commonFlags(),
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	application, err := app.New(c.Context, options(c))
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Run(c.Context)
}

// Check validates the configuration and script and prints every binding.
func Check() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "validate configuration and script, then print the bindings",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			opts := options(c)
			opts.LogOutput = os.Stderr

			application, err := app.New(c.Context, opts)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Describe(c.App.Writer)
		},
	}
}
