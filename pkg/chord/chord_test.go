package chord

import (
	"reflect"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		root    uint8
		quality Quality
		want    []uint8
	}{
		{"C major triad", 60, Major, []uint8{60, 64, 67}},
		{"A minor triad", 57, Minor, []uint8{57, 60, 64}},
		{"B diminished", 59, Diminished, []uint8{59, 62, 65}},
		{"C augmented", 60, Augmented, []uint8{60, 64, 68}},
		{"C major seventh", 60, Major7, []uint8{60, 64, 67, 71}},
		{"A minor seventh", 57, Minor7, []uint8{57, 60, 64, 67}},
		{"D sus2", 62, Sus2, []uint8{62, 64, 69}},
		{"D sus4", 62, Sus4, []uint8{62, 67, 69}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.root, tt.quality)
			if err != nil {
				t.Fatalf("Generate(%d, %s): %v", tt.root, tt.quality, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Generate(%d, %s) = %v, want %v", tt.root, tt.quality, got, tt.want)
			}
		})
	}
}

func TestGenerateClampsHighNotes(t *testing.T) {
	// Root at the top of the range: the third and fifth fall off the keyboard.
	got, err := Generate(127, Major)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !reflect.DeepEqual(got, []uint8{127}) {
		t.Errorf("Generate(127, major) = %v, want [127]", got)
	}
}

func TestGenerateInvalidRoot(t *testing.T) {
	if _, err := Generate(128, Major); err == nil {
		t.Error("Generate(128, major) should fail")
	}
}

func TestGenerateUnknownQuality(t *testing.T) {
	if _, err := Generate(60, Quality("polka")); err == nil {
		t.Error("unknown quality should fail")
	}
}

func TestParseQuality(t *testing.T) {
	for _, q := range Qualities() {
		parsed, err := ParseQuality(string(q))
		if err != nil || parsed != q {
			t.Errorf("ParseQuality(%q) = %v, %v", q, parsed, err)
		}
	}
	if _, err := ParseQuality("nope"); err == nil {
		t.Error("ParseQuality(\"nope\") should fail")
	}
}

func TestIntervalsReturnsCopy(t *testing.T) {
	iv, err := Major.Intervals()
	if err != nil {
		t.Fatalf("Intervals: %v", err)
	}
	iv[0] = 99

	again, _ := Major.Intervals()
	if again[0] != 0 {
		t.Error("modifying a returned interval slice should not affect the table")
	}
}
