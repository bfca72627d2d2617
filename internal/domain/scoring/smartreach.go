package scoring

import (
	"math"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
)

// SMART-REACH life-table model: a Cox model for recurrent CVD events and a
// second one for non-CVD death as competing risk, each on an age-indexed
// baseline hazard. Continuous predictors are centred.
//
// TODO: the Gompertz scale/shape pairs and the centring values stand in for
// the published age-indexed baseline tables and cohort means. Port those
// and add a known-answer test against a published example patient.
const (
	reachHorizonAge  = 90
	reachShortYears  = 10
	reachCentreSBP   = 130
	reachCentreChol  = 5.0
	reachCentreCreat = 1.0
)

type reachCoefficients struct {
	male           float64
	smoker         float64
	diabetic       float64
	systolicBP     float64
	totalChol      float64
	creatinine     float64
	twoLocations   float64
	threeLocations float64
	atrialFib      float64
	heartFailure   float64

	// baseline hazard h(a) = scale * exp(shape * (a - 60))
	scale float64
	shape float64
}

var (
	reachCVD = reachCoefficients{
		male:           0.0720,
		smoker:         0.4309,
		diabetic:       0.4357,
		systolicBP:     0.0030,
		totalChol:      0.1027,
		creatinine:     0.1996,
		twoLocations:   0.3317,
		threeLocations: 0.5982,
		atrialFib:      0.2953,
		heartFailure:   0.5018,
		scale:          0.0180,
		shape:          0.060,
	}
	reachNonCVD = reachCoefficients{
		male:           0.5986,
		smoker:         0.6064,
		diabetic:       0.4239,
		systolicBP:     -0.0024,
		totalChol:      -0.0412,
		creatinine:     0.0849,
		twoLocations:   0.1207,
		threeLocations: 0.3074,
		atrialFib:      0.1980,
		heartFailure:   0.6126,
		scale:          0.0080,
		shape:          0.095,
	}
)

type reachInput struct {
	age          int64
	male         bool
	smoker       bool
	systolicBP   float64
	totalChol    float64
	creatinine   float64
	diabetic     bool
	coronary     bool
	cerebro      bool
	peripheral   bool
	atrialFib    bool
	heartFailure bool
}

func decodeSMARTReach(p model.Parameters) reachInput {
	in := reachInput{
		male:         p.Bool(schemas.ReachMale),
		smoker:       p.Bool(schemas.ReachSmoker),
		diabetic:     p.Bool(schemas.ReachDiabetic),
		coronary:     p.Bool(schemas.ReachCoronary),
		cerebro:      p.Bool(schemas.ReachCerebrovasc),
		peripheral:   p.Bool(schemas.ReachPeripheral),
		atrialFib:    p.Bool(schemas.ReachAtrialFib),
		heartFailure: p.Bool(schemas.ReachHeartFailure),
	}
	in.age, _ = p.Int(schemas.ReachAge)
	in.systolicBP, _ = p.Float(schemas.ReachSystolicBP)
	in.totalChol, _ = p.Float(schemas.ReachTotalChol)
	in.creatinine, _ = p.Float(schemas.ReachCreatinine)
	return in
}

func (in reachInput) locations() int {
	n := 0
	for _, set := range []bool{in.coronary, in.cerebro, in.peripheral} {
		if set {
			n++
		}
	}
	return n
}

func (in reachInput) linearPredictor(c reachCoefficients) float64 {
	lp := c.male*b2f(in.male) +
		c.smoker*b2f(in.smoker) +
		c.diabetic*b2f(in.diabetic) +
		c.systolicBP*(in.systolicBP-reachCentreSBP) +
		c.totalChol*(in.totalChol-reachCentreChol) +
		c.creatinine*(in.creatinine-reachCentreCreat) +
		c.atrialFib*b2f(in.atrialFib) +
		c.heartFailure*b2f(in.heartFailure)
	switch in.locations() {
	case 2:
		lp += c.twoLocations
	case 3:
		lp += c.threeLocations
	}
	return lp
}

// yearlyProbability is the probability of an event during the year starting at age.
func (c reachCoefficients) yearlyProbability(age int64, lp float64) float64 {
	h := c.scale * math.Exp(c.shape*float64(age-60)) * math.Exp(lp)
	return 1 - math.Exp(-h)
}

type reachOutcome struct {
	tenYear   float64
	lifetime  float64
	eventFree float64
}

// lifeTable walks yearly from the current age to the horizon. Survivors of
// each year are those free of both a CVD event and non-CVD death.
func (in reachInput) lifeTable() reachOutcome {
	lpCVD := in.linearPredictor(reachCVD)
	lpNon := in.linearPredictor(reachNonCVD)

	var out reachOutcome
	survival := 1.0
	for age := in.age; age < reachHorizonAge; age++ {
		pc := reachCVD.yearlyProbability(age, lpCVD)
		pn := reachNonCVD.yearlyProbability(age, lpNon)

		out.eventFree += survival * (1 - (pc+pn)/2)
		out.lifetime += survival * pc
		survival *= (1 - pc) * (1 - pn)

		if age-in.age+1 == reachShortYears {
			out.tenYear = out.lifetime
		}
	}
	if in.age+reachShortYears > reachHorizonAge {
		out.tenYear = out.lifetime
	}
	return out
}

type smartReach struct{ engine }

func newSMARTReach() (Engine, error) {
	e, err := newEngine(schemas.SMARTReach, rule{
		name:    "vascular_location",
		expr:    "cad || cevd || pad",
		fields:  []string{schemas.ReachCoronary, schemas.ReachCerebrovasc, schemas.ReachPeripheral},
		message: "at least one vascular disease location is required",
	})
	return smartReach{e}, err
}

func (e smartReach) Compute(p model.Parameters) (model.Result, error) {
	if err := e.check(p); err != nil {
		return model.Result{}, err
	}
	in := decodeSMARTReach(p)
	out := in.lifeTable()

	res := e.result()
	res.Endpoints = []model.Endpoint{
		model.Scalar("ten_year_risk", "%", percent(out.tenYear)),
		model.Scalar("lifetime_risk", "%", percent(out.lifetime)),
		model.Scalar("cvd_free_life_expectancy", "years", float64(in.age)+out.eventFree),
	}
	return res, nil
}
