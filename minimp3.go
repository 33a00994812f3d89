/*
Package minimp3 converts music and cover art into the raw files played by the
mini MP3 player.

The player reads an SD card laid out as one directory per album, then one
directory per track, each holding up to two files:

	<album>/<track>/music.raw	8-bit unsigned PCM, mono, 48000 Hz
	<album>/<track>/art.raw	128x128 RGB565, big-endian

Neither file has a header.
*/
package minimp3

import (
	"io"
	"log"
)

// Converter converts source files into player files.
type Converter struct {
	// Transcoder is used for audio sources
	Transcoder Transcoder
	// DB is an optional cache used to skip unchanged sources
	DB *ConversionDB
	// Force reconverts sources the cache considers up to date
	Force bool

	logger *log.Logger
}

// New returns a Converter that transcodes audio with ffmpeg found on the
// PATH. Progress is written to logger, which may be nil.
func New(logger *log.Logger) *Converter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Converter{
		Transcoder: NewFFmpeg(""),
		logger:     logger,
	}
}
