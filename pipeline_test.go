package minimp3

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/bodgit/minimp3/fit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscoder struct {
	fail  map[string]bool
	calls []string
}

func (f *fakeTranscoder) Transcode(ctx context.Context, src, dst string) error {
	f.calls = append(f.calls, filepath.Base(src))
	if f.fail[filepath.Base(src)] {
		return fmt.Errorf("%w: exit status 1: invalid data found when processing input", ErrTranscode)
	}
	return os.WriteFile(dst, []byte{0x80, 0x81, 0x7f}, 0644)
}

func writePNG(t *testing.T, file string, w, h int) {
	t.Helper()

	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.NRGBA{uint8(x * 8), uint8(y * 8), 0x40, 0xff})
		}
	}

	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

func writeFile(t *testing.T, file, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	return files
}

func newTestConverter(tc Transcoder) *Converter {
	c := New(nil)
	c.Transcoder = tc
	return c
}

func TestClassify(t *testing.T) {
	tables := map[string]Kind{
		"song.mp3":     KindAudio,
		"song.WAV":     KindAudio,
		"cover.webp":   KindImage,
		"cover.PNG":    KindImage,
		"cover.jpg":    KindImage,
		"cover.Jpeg":   KindImage,
		"notes.txt":    KindOther,
		"album.cue":    KindOther,
		"song.flac":    KindOther,
		"no-extension": KindOther,
	}

	for file, want := range tables {
		assert.Equal(t, want, classify(file), file)
	}
}

func TestConvertTree(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(in, "Artist", "Track1.mp3"), "ID3")
	writePNG(t, filepath.Join(in, "Artist", "Track1.png"), 30, 20)
	writeFile(t, filepath.Join(in, "Artist", "notes.txt"), "ignored")
	writeFile(t, filepath.Join(in, "Artist", ".hidden.mp3"), "ignored")
	writeFile(t, filepath.Join(in, "Artist", "Extras", "Bonus.mp3"), "ignored")
	writeFile(t, filepath.Join(in, "readme.txt"), "not an album")
	writeFile(t, filepath.Join(in, ".Trashes", "Old.mp3"), "ignored")

	tc := new(fakeTranscoder)
	s, err := newTestConverter(tc).ConvertTree(context.Background(), in, out)
	require.NoError(t, err)
	require.NoError(t, s.Err())

	assert.Equal(t, []string{"Artist/Track1/art.raw", "Artist/Track1/music.raw"}, listFiles(t, out))
	assert.Equal(t, []string{"Track1.mp3"}, tc.calls)

	art, err := os.ReadFile(filepath.Join(out, "Artist", "Track1", ArtFilename))
	require.NoError(t, err)
	assert.Len(t, art, 2*fit.CoverSize*fit.CoverSize)

	assert.Equal(t, 2, s.Count(StatusConverted))
	assert.Equal(t, 1, s.Count(StatusSkipped))
	for _, r := range s.Results {
		if r.Status == StatusSkipped {
			assert.Equal(t, filepath.Join(in, "readme.txt"), r.Source)
			assert.ErrorIs(t, r.Err, ErrNotAlbum)
		}
	}
}

func TestConvertTreeTranscodeFailure(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(in, "Album", "Track1.mp3"), "broken")
	writePNG(t, filepath.Join(in, "Album", "Track1.png"), 8, 8)
	writeFile(t, filepath.Join(in, "Album", "Track2.wav"), "RIFF")

	tc := &fakeTranscoder{fail: map[string]bool{"Track1.mp3": true}}
	s, err := newTestConverter(tc).ConvertTree(context.Background(), in, out)
	require.NoError(t, err)

	assert.EqualError(t, s.Err(), "1 of 3 files failed")
	assert.Equal(t, []string{"Album/Track1/art.raw", "Album/Track2/music.raw"}, listFiles(t, out))

	failed := s.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, filepath.Join(in, "Album", "Track1.mp3"), failed[0].Source)
	assert.Equal(t, KindAudio, failed[0].Kind)
	assert.ErrorIs(t, failed[0].Err, ErrTranscode)
}

func TestConvertTreeCorruptImage(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(in, "Album", "Track1.jpg"), "not a jpeg")
	writeFile(t, filepath.Join(in, "Album", "Track1.mp3"), "ID3")

	s, err := newTestConverter(new(fakeTranscoder)).ConvertTree(context.Background(), in, out)
	require.NoError(t, err)

	failed := s.Failed()
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0].Err, ErrDecode)
	assert.Equal(t, []string{"Album/Track1/music.raw"}, listFiles(t, out))
}

func TestConvertTreeFailureLeavesNoDirectories(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(in, "Album", "Track1.jpg"), "not a jpeg")
	writeFile(t, filepath.Join(in, "Album", "Track2.mp3"), "broken")
	writeFile(t, filepath.Join(in, "Other", "Track3.mp3"), "broken")
	writeFile(t, filepath.Join(in, "Other", "Track4.mp3"), "ID3")

	tc := &fakeTranscoder{fail: map[string]bool{"Track2.mp3": true, "Track3.mp3": true}}
	s, err := newTestConverter(tc).ConvertTree(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count(StatusFailed))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Other", entries[0].Name())
	assert.Equal(t, []string{"Other/Track4/music.raw"}, listFiles(t, out))
}

func TestConvertTreeHiddenLogged(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(in, ".Music", "Song.mp3"), "ID3")

	b := new(bytes.Buffer)
	c := New(log.New(b, "", 0))
	c.Transcoder = new(fakeTranscoder)

	s, err := c.ConvertTree(context.Background(), in, out)
	require.NoError(t, err)
	assert.Empty(t, s.Results)
	assert.Contains(t, b.String(), "Skipping hidden \""+filepath.Join(in, ".Music")+"\"")
}

func TestConvertTreeDuplicateStem(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(in, "Album", "Song.mp3"), "ID3")
	writeFile(t, filepath.Join(in, "Album", "Song.wav"), "RIFF")

	tc := new(fakeTranscoder)
	s, err := newTestConverter(tc).ConvertTree(context.Background(), in, out)
	require.NoError(t, err)
	require.NoError(t, s.Err())

	assert.Equal(t, []string{"Song.mp3"}, tc.calls)
	require.Len(t, s.Results, 2)
	assert.Equal(t, StatusSkipped, s.Results[1].Status)
	assert.ErrorIs(t, s.Results[1].Err, ErrDuplicate)
}

func TestConvertTreeDuplicateAfterFailure(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(in, "Album", "Song.mp3"), "broken")
	writeFile(t, filepath.Join(in, "Album", "Song.wav"), "RIFF")

	tc := &fakeTranscoder{fail: map[string]bool{"Song.mp3": true}}
	s, err := newTestConverter(tc).ConvertTree(context.Background(), in, out)
	require.NoError(t, err)

	assert.Equal(t, []string{"Song.mp3", "Song.wav"}, tc.calls)
	assert.Equal(t, 1, s.Count(StatusConverted))
	assert.Equal(t, 1, s.Count(StatusFailed))
	assert.Equal(t, []string{"Album/Song/music.raw"}, listFiles(t, out))
}

func TestConvertTreeMissingInput(t *testing.T) {
	_, err := newTestConverter(new(fakeTranscoder)).ConvertTree(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir())
	assert.Error(t, err)
}

func TestConvertTreeCancelled(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(in, "Album", "Song.mp3"), "ID3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tc := new(fakeTranscoder)
	_, err := newTestConverter(tc).ConvertTree(ctx, in, out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, tc.calls)
}

func TestConvertTreeDB(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(in, "Album", "Song.mp3"), "ID3")
	writePNG(t, filepath.Join(in, "Album", "Song.png"), 4, 4)

	db, err := NewConversionDB(filepath.Join(t.TempDir(), "minimp3.db"))
	require.NoError(t, err)
	defer db.Close()

	tc := new(fakeTranscoder)
	c := newTestConverter(tc)
	c.DB = db

	s, err := c.ConvertTree(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count(StatusConverted))

	s, err = c.ConvertTree(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count(StatusUpToDate))
	assert.Len(t, tc.calls, 1)

	// Changed source
	writeFile(t, filepath.Join(in, "Album", "Song.mp3"), "ID3v2")
	s, err = c.ConvertTree(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count(StatusConverted))
	assert.Equal(t, 1, s.Count(StatusUpToDate))

	// Missing output
	require.NoError(t, os.Remove(filepath.Join(out, "Album", "Song", ArtFilename)))
	s, err = c.ConvertTree(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count(StatusConverted))

	c.Force = true
	s, err = c.ConvertTree(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count(StatusConverted))
	assert.Len(t, tc.calls, 3)
}
