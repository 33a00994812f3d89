package minimp3

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrDecode is returned when a source image can't be read or decoded
	ErrDecode = errors.New("decode failed")
	// ErrTranscode is returned when the audio transcoder fails
	ErrTranscode = errors.New("transcode failed")
	// ErrWrite is returned when an output file or directory can't be
	// written
	ErrWrite = errors.New("write failed")

	// ErrNotAlbum marks a top-level entry that isn't a directory
	ErrNotAlbum = errors.New("not a directory")
	// ErrNotRegular marks a source that isn't a regular file
	ErrNotRegular = errors.New("not a regular file")
	// ErrDuplicate marks a source whose output was already produced from
	// another file with the same stem
	ErrDuplicate = errors.New("output already produced by another file")
)

// Kind classifies a source file.
type Kind int

// Source file kinds
const (
	KindOther Kind = iota
	KindAudio
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindImage:
		return "image"
	default:
		return "other"
	}
}

// Status is the outcome of converting a single source.
type Status int

// Conversion outcomes
const (
	StatusConverted Status = iota
	StatusUpToDate
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusConverted:
		return "converted"
	case StatusUpToDate:
		return "up to date"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result records what happened to one source.
type Result struct {
	Album  string
	Source string
	Output string
	Kind   Kind
	Status Status
	// Err is the reason for a failed or skipped source
	Err error
}

func (r Result) String() string {
	switch r.Status {
	case StatusConverted, StatusUpToDate:
		return fmt.Sprintf("%-10s %s -> %s", r.Status, r.Source, r.Output)
	default:
		return fmt.Sprintf("%-10s %s: %v", r.Status, r.Source, r.Err)
	}
}

// Summary collects the Results of a batch run in processing order.
type Summary struct {
	Results []Result
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
}

// Count returns the number of Results with the given Status.
func (s *Summary) Count(status Status) int {
	var n int
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Failed returns the failed Results.
func (s *Summary) Failed() []Result {
	var failed []Result
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err returns a non-nil error if any source failed.
func (s *Summary) Err() error {
	if n := s.Count(StatusFailed); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(s.Results))
	}
	return nil
}

// WriteTo writes one line per Result followed by a totals line.
func (s *Summary) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, r := range s.Results {
		n, err := fmt.Fprintln(w, r)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	n, err := fmt.Fprintf(w, "%d converted, %d up to date, %d skipped, %d failed\n",
		s.Count(StatusConverted), s.Count(StatusUpToDate), s.Count(StatusSkipped), s.Count(StatusFailed))
	return total + int64(n), err
}
