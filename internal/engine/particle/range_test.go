package particle

import (
	"math/rand/v2"
	"testing"

	"gopkg.in/yaml.v3"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestScalarRangeSample(t *testing.T) {
	tests := []struct {
		name   string
		r      ScalarRange
		lo, hi float32
	}{
		{"unit", ScalarRange{0, 1}, 0, 1},
		{"negative", ScalarRange{-15, 15}, -15, 15},
		{"constant", Fixed(2.5), 2.5, 2.5},
		{"inverted", ScalarRange{10, 5}, 5, 10},
	}

	rng := testRand()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				v := tt.r.Sample(rng)
				if v < tt.lo || v > tt.hi {
					t.Fatalf("Sample() = %v, want in [%v, %v]", v, tt.lo, tt.hi)
				}
			}
		})
	}
}

func TestIntRangeSampleInclusive(t *testing.T) {
	rng := testRand()
	r := IntRange{Min: 3, Max: 5}
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := r.Sample(rng)
		if v < 3 || v > 5 {
			t.Fatalf("Sample() = %d, want in [3, 5]", v)
		}
		seen[v] = true
	}
	for _, want := range []int{3, 4, 5} {
		if !seen[want] {
			t.Errorf("value %d never sampled", want)
		}
	}

	if got := (IntRange{7, 7}).Sample(rng); got != 7 {
		t.Errorf("constant Sample() = %d, want 7", got)
	}
	if got := (IntRange{2, 1}).Sample(rng); got < 1 || got > 2 {
		t.Errorf("inverted Sample() = %d, want in [1, 2]", got)
	}
	if !(IntRange{2, 1}).Inverted() || (IntRange{1, 2}).Inverted() {
		t.Error("Inverted() mismatch")
	}
}

func TestRangeYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ScalarRange
		wantErr bool
	}{
		{"bracket string", `v: "[0.5 1.5]"`, ScalarRange{0.5, 1.5}, false},
		{"comma string", `v: "0.5, 1.5"`, ScalarRange{0.5, 1.5}, false},
		{"scalar", `v: 2`, ScalarRange{2, 2}, false},
		{"sequence", `v: [-15, 15]`, ScalarRange{-15, 15}, false},
		{"mapping", "v:\n  min: 1\n  max: 3", ScalarRange{1, 3}, false},
		{"mapping missing max", "v:\n  min: 1", ScalarRange{}, true},
		{"three values", `v: [1, 2, 3]`, ScalarRange{}, true},
		{"not a number", `v: "[a b]"`, ScalarRange{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				V ScalarRange `yaml:"v"`
			}
			err := yaml.Unmarshal([]byte(tt.input), &doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && doc.V != tt.want {
				t.Errorf("got %+v, want %+v", doc.V, tt.want)
			}
		})
	}
}

func TestIntRangeYAML(t *testing.T) {
	var doc struct {
		B IntRange `yaml:"burst"`
	}
	if err := yaml.Unmarshal([]byte(`burst: "[10 30]"`), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.B != (IntRange{10, 30}) {
		t.Errorf("got %+v, want {10 30}", doc.B)
	}

	if err := yaml.Unmarshal([]byte(`burst: "[1.5 3]"`), &doc); err == nil {
		t.Error("expected error for fractional burst")
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back struct {
		B IntRange `yaml:"burst"`
	}
	if err := yaml.Unmarshal(out, &back); err != nil || back.B != doc.B {
		t.Errorf("re-decode = %+v (%v), want %+v", back.B, err, doc.B)
	}
}
