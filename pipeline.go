package minimp3

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Filenames written into each track directory
const (
	MusicFilename = "music.raw"
	ArtFilename   = "art.raw"
)

func classify(file string) Kind {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mp3", ".wav":
		return KindAudio
	case ".webp", ".png", ".jpg", ".jpeg":
		return KindImage
	default:
		return KindOther
	}
}

func hidden(name string) bool {
	return name[0] == '.'
}

// Remove the track and album directories if a failed conversion left them
// empty
func removeEmpty(file string) {
	track := filepath.Dir(file)
	if os.Remove(track) == nil {
		os.Remove(filepath.Dir(track))
	}
}

func stem(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func outputFile(base, album, file string, kind Kind) string {
	name := MusicFilename
	if kind == KindImage {
		name = ArtFilename
	}
	return filepath.Join(base, album, stem(file), name)
}

// ConvertTree converts every album directory in input into the player
// layout under output. A source that fails to convert is recorded in the
// Summary and the remaining sources are still processed; only a failure
// to read input itself returns an error.
func (c *Converter) ConvertTree(ctx context.Context, input, output string) (*Summary, error) {
	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, err
	}

	s := new(Summary)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		path := filepath.Join(input, entry.Name())

		// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
		if hidden(entry.Name()) {
			c.logger.Printf("Skipping hidden \"%s\"\n", path)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			s.add(Result{Source: path, Status: StatusFailed, Err: err})
			continue
		}
		if !info.IsDir() {
			c.logger.Printf("Skipping \"%s\", not a directory\n", path)
			s.add(Result{Source: path, Status: StatusSkipped, Err: ErrNotAlbum})
			continue
		}

		if err := c.convertAlbum(ctx, s, path, entry.Name(), output); err != nil {
			return s, err
		}
	}

	return s, nil
}

func (c *Converter) convertAlbum(ctx context.Context, s *Summary, dir, album, output string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.add(Result{Album: album, Source: dir, Status: StatusFailed, Err: err})
		return nil
	}

	produced := make(map[string]string)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if hidden(entry.Name()) || entry.IsDir() {
			continue
		}

		kind := classify(entry.Name())
		if kind == KindOther {
			continue
		}

		src := filepath.Join(dir, entry.Name())
		dst := outputFile(output, album, src, kind)

		if prev, ok := produced[dst]; ok {
			c.logger.Printf("Skipping \"%s\", \"%s\" already converted from \"%s\"\n", src, dst, prev)
			s.add(Result{Album: album, Source: src, Output: dst, Kind: kind, Status: StatusSkipped, Err: ErrDuplicate})
			continue
		}

		r := c.convertFile(ctx, album, src, dst, kind)
		if r.Status == StatusConverted || r.Status == StatusUpToDate {
			produced[dst] = src
		}
		s.add(r)
	}

	return nil
}

func (c *Converter) convertFile(ctx context.Context, album, src, dst string, kind Kind) Result {
	r := Result{
		Album:  album,
		Source: src,
		Output: dst,
		Kind:   kind,
	}

	fail := func(err error) Result {
		c.logger.Printf("Failed to convert \"%s\": %v\n", src, err)
		r.Status, r.Err = StatusFailed, err
		return r
	}

	// Ignore anything that isn't a normal file once any symlink is followed
	info, err := os.Stat(src)
	if err != nil {
		return fail(err)
	}
	if !info.Mode().IsRegular() {
		r.Status, r.Err = StatusSkipped, ErrNotRegular
		return r
	}

	var key, sum string
	if c.DB != nil {
		if key, err = filepath.Abs(src); err != nil {
			return fail(err)
		}
		if sum, err = sha1File(src); err != nil {
			return fail(err)
		}
		if !c.Force {
			ok, err := c.DB.UpToDate(key, sum, dst)
			if err != nil {
				return fail(err)
			}
			if ok {
				r.Status = StatusUpToDate
				return r
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWrite, err))
	}

	c.logger.Printf("Converting \"%s\" to \"%s\"\n", src, dst)

	switch kind {
	case KindAudio:
		err = c.Transcoder.Transcode(ctx, src, dst)
	case KindImage:
		err = c.convertCover(src, dst)
	}
	if err != nil {
		removeEmpty(dst)
		return fail(err)
	}

	if c.DB != nil {
		if err := c.DB.Record(key, sum, dst); err != nil {
			c.logger.Printf("Unable to record \"%s\": %v\n", src, err)
		}
	}

	r.Status = StatusConverted
	return r
}
