package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/sessionport/sessionport/converter"
)

// errUsage signals that help was printed and the run should fail without an
// additional error message.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	if err := app.Run(args); err != nil {
		if err != errUsage {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "sessionport"
	app.Usage = "WTelegram session file to GramJS session string converter"
	app.Description = "Converts a WTelegram session file to a GramJS session string."
	app.UsageText = "sessionport [options] <sessionFile> <secretKeyHex>\n\n" +
		"   Example: sessionport WTelegram.session 0123456789abcdef0123456789abcdef"
	app.Version = converter.Version
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = getFlags()
	app.Action = func(c *cli.Context) error {
		if c.NArg() < 2 {
			cli.ShowAppHelp(c)
			return errUsage
		}
		config, err := converter.NewConfig(c.String("config"))
		if err != nil {
			return err
		}
		if c.IsSet("level") {
			level, err := converter.GetLogLevel(c.String("level"))
			if err != nil {
				return err
			}
			config.LogLevel = level
		}
		if c.IsSet("output") {
			config.Output.File = c.String("output")
		}
		if c.IsSet("label") {
			config.Output.Label = c.Bool("label")
		}
		if c.IsSet("dc") {
			config.DC = c.Int("dc")
			if err := config.Validate(); err != nil {
				return err
			}
		}

		conv := converter.New(config)
		conv.SetLogWriter(c.App.ErrWriter)
		sessionStr, err := conv.Convert(c.Args().Get(0), c.Args().Get(1))
		if err != nil {
			return err
		}
		return conv.WriteOutput(c.App.Writer, sessionStr)
	}
	return app
}

func getFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load configuration from `FILE`",
		},
		cli.StringFlag{
			Name:  "level, l",
			Usage: "logging level [debug|info|warn|error]",
			Value: converter.DefaultLogLevel,
		},
		cli.StringFlag{
			Name:  "output, o",
			Usage: "write the session string to `FILE` instead of stdout",
		},
		cli.IntFlag{
			Name:  "dc",
			Usage: "export the session of data center `ID` instead of the main DC",
		},
		cli.BoolFlag{
			Name:  "label",
			Usage: "print a label line before the session string",
		},
	}
}
