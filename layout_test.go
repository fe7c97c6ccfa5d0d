// layout_test.go - Bell layout validation and stereo spread

package main

import "testing"

func TestLayoutRejectsBadFrequencySets(t *testing.T) {
	if _, err := NewBellLayout(nil); err == nil {
		t.Error("empty layout accepted")
	}
	if _, err := NewBellLayout([]float64{440, 220}); err == nil {
		t.Error("descending layout accepted")
	}
	if _, err := NewBellLayout([]float64{220, 220}); err == nil {
		t.Error("duplicate frequency accepted")
	}
}

func TestLayoutSpreadsPansAcrossField(t *testing.T) {
	l, err := NewBellLayout(defaultBellFreqs)
	if err != nil {
		t.Fatal(err)
	}
	if l.Len() != len(defaultBellFreqs) {
		t.Fatalf("layout holds %d bells, want %d", l.Len(), len(defaultBellFreqs))
	}
	if l.Pan(0) != -0.8 || l.Pan(l.Len()-1) != 0.8 {
		t.Errorf("edge pans %.2f and %.2f, want -0.80 and 0.80", l.Pan(0), l.Pan(l.Len()-1))
	}
	for i := 1; i < l.Len(); i++ {
		if l.Pan(i) <= l.Pan(i-1) {
			t.Fatalf("pan %d (%.2f) not right of pan %d (%.2f)", i, l.Pan(i), i-1, l.Pan(i-1))
		}
		if l.Freq(i) <= l.Freq(i-1) {
			t.Fatalf("frequency %d not above %d", i, i-1)
		}
	}
	if l.InRange(-1) || l.InRange(l.Len()) {
		t.Error("out-of-range indices reported in range")
	}
}
