package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/bodgit/minimp3"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func convert(c *cli.Context) error {
	if c.NArg() != 2 {
		if err := cli.ShowAppHelp(c); err != nil {
			return err
		}
		return cli.Exit("", 1)
	}

	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(c.App.ErrWriter)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	m := minimp3.New(logger)
	m.Force = c.Bool("force")

	// Audio files fail individually without ffmpeg, cover art doesn't need it
	ffmpeg := minimp3.NewFFmpeg(c.String("ffmpeg"))
	if err := ffmpeg.Check(ctx); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "Warning: %v\n", err)
	}
	m.Transcoder = ffmpeg

	if file := c.String("db"); file != "" {
		db, err := minimp3.NewConversionDB(file)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer db.Close()
		m.DB = db
	}

	summary, err := m.ConvertTree(ctx, c.Args().Get(0), c.Args().Get(1))
	if summary != nil {
		if _, werr := summary.WriteTo(c.App.Writer); werr != nil {
			return cli.Exit(werr, 1)
		}
	}
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := summary.Err(); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "minimp3"
	app.Usage = "Convert a music library into mini MP3 player files"
	app.ArgsUsage = "INPUT_DIRECTORY OUTPUT_DIRECTORY"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "ffmpeg",
			EnvVars: []string{"MINIMP3_FFMPEG"},
			Value:   "ffmpeg",
			Usage:   "path to ffmpeg",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MINIMP3_DB"},
			Usage:   "path to conversion database, enables skipping unchanged files",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "convert files even if the database says they are up to date",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Action = convert

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
