package scoring

import (
	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
)

// MAGGIC integer risk score, Pocock et al. 2013.

// band is a half-open threshold: values below upTo get points.
type band struct {
	upTo   float64
	points int
}

// bandPoints returns the points of the first band v falls below, or last
// when v is at or above every threshold.
func bandPoints(v float64, bands []band, last int) int {
	for _, b := range bands {
		if v < b.upTo {
			return b.points
		}
	}
	return last
}

// efGroup selects the column of the EF-dependent tables: <30, 30-39, ≥40.
func efGroup(ef float64) int {
	switch {
	case ef < 30:
		return 0
	case ef < 40:
		return 1
	default:
		return 2
	}
}

var (
	maggicEFBands = []band{{20, 7}, {25, 6}, {30, 5}, {35, 3}, {40, 2}}

	// points by EF group for ages <55, 55-59, 60-64, 65-69, 70-74, 75-79, ≥80
	maggicAgeThresholds = []float64{55, 60, 65, 70, 75, 80}
	maggicAgePoints     = [3][7]int{
		{0, 1, 2, 4, 6, 8, 10},
		{0, 2, 4, 6, 8, 10, 13},
		{0, 3, 5, 7, 9, 12, 15},
	}

	// points by EF group for SBP <110, 110-119, 120-129, 130-139, 140-149, ≥150
	maggicSBPThresholds = []float64{110, 120, 130, 140, 150}
	maggicSBPPoints     = [3][6]int{
		{5, 4, 3, 2, 1, 0},
		{3, 2, 1, 1, 0, 0},
		{2, 1, 1, 0, 0, 0},
	}

	maggicBMIBands        = []band{{15, 6}, {20, 5}, {25, 3}, {30, 2}}
	maggicCreatinineBands = []band{{90, 0}, {110, 1}, {130, 2}, {150, 3}, {170, 4}, {210, 5}, {250, 6}}
	maggicNYHAPoints      = [...]int{0, 0, 2, 6, 8}
)

// Mortality (fraction) by total score, one and three years.
var maggicMortality = [...][2]float64{
	{0.015, 0.039}, {0.016, 0.043}, {0.018, 0.048}, {0.020, 0.052}, {0.022, 0.058},
	{0.024, 0.063}, {0.026, 0.070}, {0.029, 0.077}, {0.032, 0.084}, {0.035, 0.092},
	{0.039, 0.102}, {0.043, 0.111}, {0.047, 0.122}, {0.052, 0.134}, {0.058, 0.146},
	{0.063, 0.160}, {0.070, 0.175}, {0.077, 0.191}, {0.084, 0.209}, {0.093, 0.227},
	{0.102, 0.247}, {0.112, 0.269}, {0.122, 0.292}, {0.134, 0.316}, {0.147, 0.342},
	{0.160, 0.369}, {0.175, 0.397}, {0.191, 0.427}, {0.209, 0.458}, {0.227, 0.490},
	{0.248, 0.523}, {0.269, 0.556}, {0.292, 0.590}, {0.316, 0.625}, {0.342, 0.658},
	{0.369, 0.692}, {0.398, 0.725}, {0.427, 0.756}, {0.458, 0.787}, {0.490, 0.815},
	{0.523, 0.842}, {0.557, 0.866}, {0.591, 0.889}, {0.625, 0.908}, {0.659, 0.926},
	{0.692, 0.941}, {0.725, 0.953}, {0.757, 0.964}, {0.787, 0.973}, {0.816, 0.980},
	{0.842, 0.985},
}

type maggicInput struct {
	ef          float64
	age         float64
	systolicBP  float64
	bmi         float64
	creatinine  float64
	nyha        int64
	male        bool
	smoker      bool
	diabetic    bool
	copd        bool
	hfOver18    bool
	betaBlocker bool
	aceiArb     bool
}

func decodeMAGGIC(p model.Parameters) maggicInput {
	in := maggicInput{
		male:        p.Bool(schemas.MAGGICMale),
		smoker:      p.Bool(schemas.MAGGICSmoker),
		diabetic:    p.Bool(schemas.MAGGICDiabetic),
		copd:        p.Bool(schemas.MAGGICCOPD),
		hfOver18:    p.Bool(schemas.MAGGICHFOver18Months),
		betaBlocker: p.Bool(schemas.MAGGICBetaBlocker),
		aceiArb:     p.Bool(schemas.MAGGICACEiARB),
	}
	in.ef, _ = p.Float(schemas.MAGGICEjectionFraction)
	in.age, _ = p.Float(schemas.MAGGICAge)
	in.systolicBP, _ = p.Float(schemas.MAGGICSystolicBP)
	in.bmi, _ = p.Float(schemas.MAGGICBMI)
	in.creatinine, _ = p.Float(schemas.MAGGICCreatinine)
	in.nyha, _ = p.Int(schemas.MAGGICNYHA)
	return in
}

func thresholdIndex(v float64, thresholds []float64) int {
	for i, t := range thresholds {
		if v < t {
			return i
		}
	}
	return len(thresholds)
}

func (in maggicInput) points() int {
	group := efGroup(in.ef)
	total := bandPoints(in.ef, maggicEFBands, 0) +
		maggicAgePoints[group][thresholdIndex(in.age, maggicAgeThresholds)] +
		maggicSBPPoints[group][thresholdIndex(in.systolicBP, maggicSBPThresholds)] +
		bandPoints(in.bmi, maggicBMIBands, 0) +
		bandPoints(in.creatinine, maggicCreatinineBands, 8)

	if in.nyha >= 1 && int(in.nyha) < len(maggicNYHAPoints) {
		total += maggicNYHAPoints[in.nyha]
	}
	for _, f := range []struct {
		set    bool
		points int
	}{
		{in.male, 1},
		{in.smoker, 1},
		{in.diabetic, 3},
		{in.copd, 2},
		{in.hfOver18, 2},
		{!in.betaBlocker, 3},
		{!in.aceiArb, 1},
	} {
		if f.set {
			total += f.points
		}
	}
	return total
}

type maggic struct{ engine }

func newMAGGIC() (Engine, error) {
	e, err := newEngine(schemas.MAGGIC)
	return maggic{e}, err
}

func (e maggic) Compute(p model.Parameters) (model.Result, error) {
	if err := e.check(p); err != nil {
		return model.Result{}, err
	}
	points := decodeMAGGIC(p).points()
	mortality := maggicMortality[min(points, len(maggicMortality)-1)]

	res := e.result()
	res.Points = &points
	res.Endpoints = []model.Endpoint{
		model.Scalar("one_year_mortality", "%", round(100*mortality[0], 1)),
		model.Scalar("three_year_mortality", "%", round(100*mortality[1], 1)),
	}
	return res, nil
}
