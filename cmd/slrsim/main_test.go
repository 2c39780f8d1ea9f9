package main

import (
	"testing"
)

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"damping=0.8,0.9", " wave_kick = 0.01 , 0.02 ,0.03"})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(names) != 2 || names[0] != "damping" || names[1] != "wave_kick" {
		t.Errorf("names = %v", names)
	}
	if len(ranges[0]) != 2 || len(ranges[1]) != 3 || ranges[1][2] != 0.03 {
		t.Errorf("ranges = %v", ranges)
	}

	for _, bad := range []string{"damping", "=0.5", "damping=", "damping=0.5,x"} {
		if _, _, err := parseGrid([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"0", 0, false},
		{"0.5", 0.5, false},
		{"1", 1, false},
		{"1.2", 0, true},
		{"-0.1", 0, true},
		{"half", 0, true},
	}

	for _, tt := range tests {
		got, err := parsePosition(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePosition(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePosition(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestObjectives(t *testing.T) {
	obj := objectives()
	for _, name := range []string{"settle_frame", "peak_cost_velocity", "final_x", "overshoot", "rings", "period"} {
		if _, ok := obj[name]; !ok {
			t.Errorf("missing objective %q", name)
		}
	}
}
