// Package chord generates chord notes from a root MIDI note.
package chord

import (
	"fmt"

	"github.com/keychord/keychord/pkg/note"
)

// Quality identifies a chord quality by its interval shape.
type Quality string

const (
	Major      Quality = "major"
	Minor      Quality = "minor"
	Diminished Quality = "diminished"
	Augmented  Quality = "augmented"
	Major7     Quality = "major7"
	Minor7     Quality = "minor7"
	Sus2       Quality = "sus2"
	Sus4       Quality = "sus4"
)

// intervals maps each quality to semitone offsets from the root.
var intervals = map[Quality][]int{
	Major:      {0, 4, 7},
	Minor:      {0, 3, 7},
	Diminished: {0, 3, 6},
	Augmented:  {0, 4, 8},
	Major7:     {0, 4, 7, 11},
	Minor7:     {0, 3, 7, 10},
	Sus2:       {0, 2, 7},
	Sus4:       {0, 5, 7},
}

// Qualities returns all supported chord qualities in a fixed order.
func Qualities() []Quality {
	return []Quality{Major, Minor, Diminished, Augmented, Major7, Minor7, Sus2, Sus4}
}

// Intervals returns a copy of the semitone offsets for a quality.
func (q Quality) Intervals() ([]int, error) {
	iv, ok := intervals[q]
	if !ok {
		return nil, fmt.Errorf("chord: unknown quality %q", string(q))
	}
	out := make([]int, len(iv))
	copy(out, iv)
	return out, nil
}

// ParseQuality matches a string against the known qualities.
func ParseQuality(s string) (Quality, error) {
	q := Quality(s)
	if _, ok := intervals[q]; !ok {
		return "", fmt.Errorf("chord: unknown quality %q", s)
	}
	return q, nil
}

// Generate returns the MIDI notes of a chord built on root. Notes that would
// land above the MIDI range are dropped rather than wrapped.
func Generate(root uint8, q Quality) ([]uint8, error) {
	if root > note.MaxKey {
		return nil, note.ErrKeyOutOfRange
	}
	iv, err := q.Intervals()
	if err != nil {
		return nil, err
	}
	notes := make([]uint8, 0, len(iv))
	for _, offset := range iv {
		n := int(root) + offset
		if n >= 0 && n <= note.MaxKey {
			notes = append(notes, uint8(n))
		}
	}
	return notes, nil
}
