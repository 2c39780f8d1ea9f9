package projection

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/slrsim/internal/dynamo"
)

func TestValueAt_Endpoints(t *testing.T) {
	d := Default()

	start := d.ValueAt(0)
	first := d.First()
	if start.Year != first.Year || start.SeaLevelRise != first.SeaLevelRise || start.Cost != first.Cost {
		t.Errorf("ValueAt(0) = %+v, want first knot %+v", start, first)
	}
	if start.Displaced != first.Displaced || start.Impact != first.Impact || start.DisplacedLabel != first.DisplacedLabel {
		t.Errorf("ValueAt(0) labels = %+v, want first knot %+v", start, first)
	}

	end := d.ValueAt(1)
	last := d.Last()
	if end.Year != last.Year || end.SeaLevelRise != last.SeaLevelRise || end.Cost != last.Cost {
		t.Errorf("ValueAt(1) = %+v, want last knot %+v", end, last)
	}
	if end.Displaced != last.Displaced || end.Impact != last.Impact || end.DisplacedLabel != last.DisplacedLabel {
		t.Errorf("ValueAt(1) labels = %+v, want last knot %+v", end, last)
	}
	if end.XPercent != 100 {
		t.Errorf("XPercent = %v, want 100", end.XPercent)
	}
}

func TestValueAt_Midpoint(t *testing.T) {
	s := Default().ValueAt(0.5)

	if math.Abs(s.SeaLevelRise-0.47) > 1e-9 {
		t.Errorf("slr = %v, want 0.47", s.SeaLevelRise)
	}
	if s.Year != 2066 {
		t.Errorf("year = %d, want 2066", s.Year)
	}
	expected := 4.5 + 4.5*math.Pow(0.625, 2.2)
	if math.Abs(s.Cost-expected) > 1e-9 {
		t.Errorf("cost = %v, want %v", s.Cost, expected)
	}
	if math.Abs(s.Cost-6.10) > 0.01 {
		t.Errorf("cost = %.3f, want about 6.10", s.Cost)
	}
	if s.Displaced != 231 {
		t.Errorf("displaced = %d, want 231", s.Displaced)
	}
	if s.DisplacedText != "231M" {
		t.Errorf("displaced text = %q, want 231M", s.DisplacedText)
	}
	// 0.47 is closer to 0.56 than to 0.32.
	if s.Impact != "Significant coastal infrastructure loss" {
		t.Errorf("impact = %q", s.Impact)
	}
	if s.DisplacedLabel != "250M" {
		t.Errorf("displaced label = %q, want nearest knot label 250M", s.DisplacedLabel)
	}
}

func TestValueAt_NearestKnotOutsideBracket(t *testing.T) {
	d := Default()
	// slr just above 0.15 sits in the 0.15-0.32 bracket but the 2030 knot is nearest.
	p := (0.16 - 0.10) / (0.84 - 0.10)
	s := d.ValueAt(p)
	if s.Year < 2030 || s.Year > 2050 {
		t.Fatalf("year %d outside 2030-2050 bracket", s.Year)
	}
	if s.Impact != "Increased coastal flooding frequency" {
		t.Errorf("impact = %q, want 2030 knot phrase", s.Impact)
	}
}

func TestValueAt_Clamps(t *testing.T) {
	d := Default()

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"negative", -3, 0},
		{"above one", 7, 100},
		{"NaN", math.NaN(), 0},
		{"+Inf", math.Inf(1), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := d.ValueAt(tt.p)
			if s.XPercent != tt.want {
				t.Errorf("XPercent = %v, want %v", s.XPercent, tt.want)
			}
			if !dynamo.Finite(s.Cost, s.CostPercent, s.SeaLevelRise) {
				t.Errorf("non-finite sample %+v", s)
			}
		})
	}
}

func TestValueAt_CostMonotonic(t *testing.T) {
	d := Default()
	prev := d.ValueAt(0).Cost
	const steps = 10000
	for i := 1; i <= steps; i++ {
		cost := d.ValueAt(float64(i) / steps).Cost
		if cost < prev-1e-12 {
			t.Fatalf("cost decreased at step %d: %v -> %v", i, prev, cost)
		}
		prev = cost
	}
}

func TestValueAt_KnotBoundaries(t *testing.T) {
	d := Default()
	span := d.Last().SeaLevelRise - d.First().SeaLevelRise
	for _, k := range d.Knots() {
		p := (k.SeaLevelRise - d.First().SeaLevelRise) / span
		s := d.ValueAt(p)
		if math.Abs(s.Cost-k.Cost) > 1e-9 {
			t.Errorf("knot %d: cost = %v, want %v", k.Year, s.Cost, k.Cost)
		}
		if s.Year != k.Year {
			t.Errorf("knot %d: year = %d", k.Year, s.Year)
		}
	}
}

func TestRestSample(t *testing.T) {
	s := Default().RestSample()
	if s.XPercent != 100 {
		t.Errorf("XPercent = %v, want 100", s.XPercent)
	}
	if math.Abs(s.CostPercent-93.3) > 0.05 {
		t.Errorf("CostPercent = %v, want about 93.3", s.CostPercent)
	}
	if s.PeoplePercent != 100 {
		t.Errorf("PeoplePercent = %v, want 100", s.PeoplePercent)
	}
}

func TestWithCostCeiling(t *testing.T) {
	d, err := New(Default().Knots(), WithCostCeiling(14))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := d.RestSample().CostPercent; got != 100 {
		t.Errorf("CostPercent = %v, want 100 with last-knot ceiling", got)
	}
}

func TestNew_Validation(t *testing.T) {
	base := Default().Knots()

	swappedSLR := append([]Knot(nil), base...)
	swappedSLR[2].SeaLevelRise = 0.12

	swappedYear := append([]Knot(nil), base...)
	swappedYear[3].Year = 2040

	nan := append([]Knot(nil), base...)
	nan[1].Cost = math.NaN()

	tests := []struct {
		name  string
		knots []Knot
		index int
	}{
		{"too few", base[:1], 1},
		{"slr not increasing", swappedSLR, 2},
		{"year not increasing", swappedYear, 3},
		{"NaN cost", nan, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.knots)
			if !errors.Is(err, dynamo.ErrInvalidDataset) {
				t.Fatalf("expected ErrInvalidDataset, got %v", err)
			}
			var dErr *dynamo.DatasetError
			if !errors.As(err, &dErr) || dErr.Index != tt.index {
				t.Errorf("expected DatasetError at index %d, got %v", tt.index, err)
			}
		})
	}

	if _, err := New(base, WithCostCeiling(0)); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for zero ceiling, got %v", err)
	}
}

func TestKnots_ReturnsCopy(t *testing.T) {
	d := Default()
	k := d.Knots()
	k[0].Cost = 99
	if d.First().Cost == 99 {
		t.Error("Knots() exposed internal slice")
	}
}
