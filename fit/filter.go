package fit

import (
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// Filter selects the resampling filter used when an image is resized.
type Filter int

// Supported filters
const (
	NearestNeighbor Filter = iota
	Linear
	CatmullRom
	Lanczos
)

var filterNames = map[Filter]string{
	NearestNeighbor: "nearest",
	Linear:          "linear",
	CatmullRom:      "catmullrom",
	Lanczos:         "lanczos",
}

func (f Filter) String() string {
	if s, ok := filterNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// ParseFilter returns the Filter with the given name, case-insensitively.
func ParseFilter(s string) (Filter, error) {
	for f, name := range filterNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return NearestNeighbor, fmt.Errorf("unknown filter %q", s)
}

func (f Filter) resample() imaging.ResampleFilter {
	switch f {
	case Linear:
		return imaging.Linear
	case CatmullRom:
		return imaging.CatmullRom
	case Lanczos:
		return imaging.Lanczos
	default:
		return imaging.NearestNeighbor
	}
}
