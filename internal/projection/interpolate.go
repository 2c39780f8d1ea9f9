package projection

import (
	"math"
	"strconv"

	"github.com/san-kum/slrsim/internal/dynamo"
)

// ValueAt maps a normalized chart position in [0, 1] onto the projection.
// Out-of-range positions are clamped.
func (d *Dataset) ValueAt(p float64) Sample {
	p = dynamo.Clamp01(p)
	first, last := d.First(), d.Last()

	slr := dynamo.Lerp(first.SeaLevelRise, last.SeaLevelRise, p)
	if p == 1 {
		slr = last.SeaLevelRise
	}

	lower, upper := d.bracket(slr)

	t := 0.0
	if span := upper.SeaLevelRise - lower.SeaLevelRise; span != 0 {
		t = (slr - lower.SeaLevelRise) / span
	}

	cost := accelerate(lower.Cost, upper.Cost, t)
	year := int(math.Round(dynamo.Lerp(float64(lower.Year), float64(upper.Year), t)))
	people := int(math.Round(dynamo.Lerp(float64(lower.Displaced), float64(upper.Displaced), t)))
	nearest := d.nearest(slr)

	return Sample{
		Year:           year,
		SeaLevelRise:   slr,
		Cost:           cost,
		Displaced:      people,
		DisplacedLabel: nearest.DisplacedLabel,
		DisplacedText:  displacedText(people),
		Impact:         nearest.Impact,
		XPercent:       p * 100,
		CostPercent:    cost / d.costCeiling * 100,
		PeoplePercent:  float64(people) / d.peopleCeiling * 100,
	}
}

// RestSample is the chart's resting position: the final knot.
func (d *Dataset) RestSample() Sample {
	return d.ValueAt(1)
}

// bracket returns the first consecutive pair enclosing slr. When no pair
// matches, both ends are the first knot.
func (d *Dataset) bracket(slr float64) (Knot, Knot) {
	for i := 0; i < len(d.knots)-1; i++ {
		if slr >= d.knots[i].SeaLevelRise && slr <= d.knots[i+1].SeaLevelRise {
			return d.knots[i], d.knots[i+1]
		}
	}
	return d.knots[0], d.knots[0]
}

// nearest picks the knot closest in sea-level rise; the earlier knot wins ties.
func (d *Dataset) nearest(slr float64) Knot {
	best := d.knots[0]
	for _, k := range d.knots[1:] {
		if math.Abs(k.SeaLevelRise-slr) < math.Abs(best.SeaLevelRise-slr) {
			best = k
		}
	}
	return best
}

func accelerate(start, end, t float64) float64 {
	return start + (end-start)*math.Pow(t, CostExponent)
}

func displacedText(people int) string {
	if people == 0 {
		return "0"
	}
	return strconv.Itoa(people) + "M"
}
