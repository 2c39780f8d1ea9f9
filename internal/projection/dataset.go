package projection

import (
	"math"

	"github.com/san-kum/slrsim/internal/dynamo"
)

const (
	// CostExponent shapes the accelerating damage curve between knots.
	CostExponent = 2.2

	DefaultCostCeiling   = 15.0
	DefaultPeopleCeiling = 280.0
)

// Knot is one fixed projection sample anchoring the interpolation.
type Knot struct {
	Year           int     `json:"year" yaml:"year"`
	SeaLevelRise   float64 `json:"slr" yaml:"slr"`
	Cost           float64 `json:"cost" yaml:"cost"`
	Displaced      int     `json:"displaced" yaml:"displaced"`
	DisplacedLabel string  `json:"displaced_label" yaml:"displaced_label"`
	Impact         string  `json:"impact" yaml:"impact"`
}

// Sample is the interpolated projection at one chart position.
type Sample struct {
	Year           int
	SeaLevelRise   float64
	Cost           float64
	Displaced      int
	DisplacedLabel string
	DisplacedText  string
	Impact         string
	XPercent       float64
	CostPercent    float64
	PeoplePercent  float64
}

// Dataset is an immutable, validated sequence of knots.
type Dataset struct {
	knots         []Knot
	costCeiling   float64
	peopleCeiling float64
}

type Option func(*Dataset)

// WithCostCeiling sets the cost that maps to 100% chart height.
func WithCostCeiling(c float64) Option {
	return func(d *Dataset) { d.costCeiling = c }
}

func WithPeopleCeiling(c float64) Option {
	return func(d *Dataset) { d.peopleCeiling = c }
}

// IPCC AR6 SSP5-8.5 median sea-level rise relative to 1995-2014, with
// economic damages in trillions USD.
var defaultKnots = []Knot{
	{Year: 2024, SeaLevelRise: 0.10, Cost: 0.5, Displaced: 0, DisplacedLabel: "0", Impact: "Current sea level (~0.1m since 1995-2014)"},
	{Year: 2030, SeaLevelRise: 0.15, Cost: 1.5, Displaced: 100, DisplacedLabel: "100M", Impact: "Increased coastal flooding frequency"},
	{Year: 2050, SeaLevelRise: 0.32, Cost: 4.5, Displaced: 200, DisplacedLabel: "200M", Impact: "Major delta cities at severe risk"},
	{Year: 2075, SeaLevelRise: 0.56, Cost: 9.0, Displaced: 250, DisplacedLabel: "250M", Impact: "Significant coastal infrastructure loss"},
	{Year: 2100, SeaLevelRise: 0.84, Cost: 14.0, Displaced: 280, DisplacedLabel: "280M+", Impact: "Catastrophic global displacement"},
}

// Default returns the built-in five-knot projection.
func Default() *Dataset {
	d, err := New(defaultKnots)
	if err != nil {
		panic(err)
	}
	return d
}

// New validates knots and returns a dataset. Knots must be strictly
// increasing in both sea-level rise and year.
func New(knots []Knot, opts ...Option) (*Dataset, error) {
	if len(knots) < 2 {
		return nil, &dynamo.DatasetError{Index: len(knots), Reason: "need at least two knots", Wrapped: dynamo.ErrInvalidDataset}
	}
	for i, k := range knots {
		if !dynamo.Finite(k.SeaLevelRise, k.Cost) {
			return nil, &dynamo.DatasetError{Index: i, Reason: "non-finite value", Wrapped: dynamo.ErrInvalidDataset}
		}
		if i == 0 {
			continue
		}
		if k.SeaLevelRise <= knots[i-1].SeaLevelRise {
			return nil, &dynamo.DatasetError{Index: i, Reason: "sea level rise not increasing", Wrapped: dynamo.ErrInvalidDataset}
		}
		if k.Year <= knots[i-1].Year {
			return nil, &dynamo.DatasetError{Index: i, Reason: "year not increasing", Wrapped: dynamo.ErrInvalidDataset}
		}
	}

	d := &Dataset{
		knots:         append([]Knot(nil), knots...),
		costCeiling:   DefaultCostCeiling,
		peopleCeiling: DefaultPeopleCeiling,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.costCeiling <= 0 || math.IsNaN(d.costCeiling) {
		return nil, &dynamo.ParamError{Name: "cost_ceiling", Value: d.costCeiling}
	}
	if d.peopleCeiling <= 0 || math.IsNaN(d.peopleCeiling) {
		return nil, &dynamo.ParamError{Name: "people_ceiling", Value: d.peopleCeiling}
	}
	return d, nil
}

func (d *Dataset) Len() int    { return len(d.knots) }
func (d *Dataset) First() Knot { return d.knots[0] }
func (d *Dataset) Last() Knot  { return d.knots[len(d.knots)-1] }

func (d *Dataset) CostCeiling() float64   { return d.costCeiling }
func (d *Dataset) PeopleCeiling() float64 { return d.peopleCeiling }

// Knots returns a copy of the knot sequence.
func (d *Dataset) Knots() []Knot {
	return append([]Knot(nil), d.knots...)
}
