package minimp3

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Player audio format
const (
	SampleRate = 48000
	Channels   = 1
)

// Transcoder converts an audio file into raw 8-bit unsigned PCM.
type Transcoder interface {
	Transcode(ctx context.Context, src, dst string) error
}

// FFmpeg is a Transcoder that runs an external ffmpeg binary.
type FFmpeg struct {
	Path       string
	SampleRate int
	Channels   int
}

// NewFFmpeg returns an FFmpeg Transcoder producing the player audio format.
// If path is empty, ffmpeg is looked up on the PATH.
func NewFFmpeg(path string) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{
		Path:       path,
		SampleRate: SampleRate,
		Channels:   Channels,
	}
}

// Check verifies ffmpeg can be run.
func (f *FFmpeg) Check(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, f.Path, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg is required but unavailable: %w", err)
	}
	return nil
}

func (f *FFmpeg) args(src, dst string) []string {
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", src,
		"-vn",
		"-f", "u8", "-acodec", "pcm_u8",
		"-ac", strconv.Itoa(f.Channels),
		"-ar", strconv.Itoa(f.SampleRate),
		dst,
	}
}

// Transcode converts src into dst. Any partial output is removed on
// failure.
func (f *FFmpeg) Transcode(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, f.Path, f.args(src, dst)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(dst)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %w: %s", ErrTranscode, err, msg)
		}
		return fmt.Errorf("%w: %w", ErrTranscode, err)
	}
	return nil
}
