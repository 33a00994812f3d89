package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/bodgit/minimp3"
	"github.com/bodgit/minimp3/fit"
	"github.com/urfave/cli/v2"
)

func init() {
	// -h is the height flag
	cli.HelpFlag = &cli.BoolFlag{
		Name:  "help",
		Usage: "show help",
	}
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

	filter, err := fit.ParseFilter(c.String("filter"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	opts := minimp3.ImageOptions{
		Width:  c.Int("width"),
		Height: c.Int("height"),
		Filter: filter,
		Colors: c.Int("colors"),
		Dither: c.Bool("dither"),
	}

	src, dst := c.Args().Get(0), c.Args().Get(1)

	p, err := minimp3.New(logger).ConvertImage(src, dst, opts)
	if p.Distorted {
		fmt.Fprintf(c.App.Writer, "Warning: %v, image resized to %dx%d\n", fit.ErrDistorted, p.Width, p.Height)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error converting \"%s\": %v", src, err), 1)
	}

	fmt.Fprintf(c.App.Writer, "Image saved to \"%s\" (%dx%d)\n", dst, p.Width, p.Height)

	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "img2rgb565"
	app.Usage = "Convert an image into a raw RGB565 dump"
	app.ArgsUsage = "INPUT OUTPUT"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "width",
			Aliases: []string{"w"},
			Usage:   "output width, derived from the aspect ratio if only height is given",
		},
		&cli.IntFlag{
			Name:    "height",
			Aliases: []string{"h"},
			Usage:   "output height, derived from the aspect ratio if only width is given",
		},
		&cli.StringFlag{
			Name:  "filter",
			Value: fit.NearestNeighbor.String(),
			Usage: "resampling filter: nearest, linear, catmullrom or lanczos",
		},
		&cli.IntFlag{
			Name:  "colors",
			Usage: "reduce the image to at most this many colors (2-256)",
		},
		&cli.BoolFlag{
			Name:  "dither",
			Usage: "dither when reducing colors",
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
