package scoring

import (
	"math"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
)

// ABC-AF biomarker scores (age, biomarkers, clinical history), Hijazi et al.
// 2016 and 2018. Biomarkers enter on the natural log scale and every linear
// predictor is centred on the reference profile below, so the baseline is
// the one-year event-free probability of that profile.
//
// TODO: the reference profile and the treatment baselines are not the
// published calibration. Replace them with the papers' mean values and
// baseline survival and add known-answer tests for their example patients.
const (
	abcRefAge        = 70
	abcRefTroponinT  = 11.0
	abcRefNTproBNP   = 800.0
	abcRefGDF15      = 1400.0
	abcRefHemoglobin = 14.0
)

var abcAnticoagulantRule = rule{
	name:    "single_antithrombotic",
	expr:    "doac != aspirin",
	fields:  []string{schemas.ABCDOAC, schemas.ABCAspirin},
	message: "exactly one of DOAC or Aspirin must be selected",
}

// treatmentBaseline holds the one-year event-free probability per therapy.
type treatmentBaseline struct {
	doac    float64
	aspirin float64
}

func (b treatmentBaseline) pick(doac bool) float64 {
	if doac {
		return b.doac
	}
	return b.aspirin
}

type abcStrokeInput struct {
	priorStroke bool
	age         float64
	troponinT   float64
	ntproBNP    float64
	doac        bool
}

const (
	abcStrokePrior     = 0.8331
	abcStrokeAge       = 0.007488
	abcStrokeTroponinT = 0.2139
	abcStrokeNTproBNP  = 0.2879
)

var abcStrokeBaseline = treatmentBaseline{doac: 0.9886, aspirin: 0.9710}

func decodeABCStroke(p model.Parameters) abcStrokeInput {
	in := abcStrokeInput{
		priorStroke: p.Bool(schemas.ABCPriorStroke),
		doac:        p.Bool(schemas.ABCDOAC),
	}
	in.age, _ = p.Float(schemas.ABCAge)
	in.troponinT, _ = p.Float(schemas.ABCTroponinT)
	in.ntproBNP, _ = p.Float(schemas.ABCNTproBNP)
	return in
}

func (in abcStrokeInput) linearPredictor() float64 {
	return abcStrokePrior*b2f(in.priorStroke) +
		abcStrokeAge*(in.age-abcRefAge) +
		abcStrokeTroponinT*math.Log(in.troponinT/abcRefTroponinT) +
		abcStrokeNTproBNP*math.Log(in.ntproBNP/abcRefNTproBNP)
}

type abcStroke struct{ engine }

func newABCStroke() (Engine, error) {
	e, err := newEngine(schemas.ABCAFStroke, abcAnticoagulantRule)
	return abcStroke{e}, err
}

func (e abcStroke) Compute(p model.Parameters) (model.Result, error) {
	if err := e.check(p); err != nil {
		return model.Result{}, err
	}
	in := decodeABCStroke(p)
	risk := coxIncidence(abcStrokeBaseline.pick(in.doac), in.linearPredictor())

	res := e.result()
	res.Endpoints = []model.Endpoint{
		model.Scalar("one_year_stroke_risk", "%", percent(risk)),
	}
	return res, nil
}

type abcBleedingInput struct {
	priorBleeding bool
	age           float64
	troponinT     float64
	gdf15         float64
	hemoglobin    float64
	doac          bool
}

const (
	abcBleedPrior      = 0.4753
	abcBleedAge        = 0.0152
	abcBleedTroponinT  = 0.2447
	abcBleedGDF15      = 0.4484
	abcBleedHemoglobin = -0.1386
)

var abcBleedingBaseline = treatmentBaseline{doac: 0.9795, aspirin: 0.9850}

func decodeABCBleeding(p model.Parameters) abcBleedingInput {
	in := abcBleedingInput{
		priorBleeding: p.Bool(schemas.ABCPriorBleed),
		doac:          p.Bool(schemas.ABCDOAC),
	}
	in.age, _ = p.Float(schemas.ABCAge)
	in.troponinT, _ = p.Float(schemas.ABCTroponinT)
	in.gdf15, _ = p.Float(schemas.ABCGDF15)
	in.hemoglobin, _ = p.Float(schemas.ABCHemoglobin)
	return in
}

func (in abcBleedingInput) linearPredictor() float64 {
	return abcBleedPrior*b2f(in.priorBleeding) +
		abcBleedAge*(in.age-abcRefAge) +
		abcBleedTroponinT*math.Log(in.troponinT/abcRefTroponinT) +
		abcBleedGDF15*math.Log(in.gdf15/abcRefGDF15) +
		abcBleedHemoglobin*(in.hemoglobin-abcRefHemoglobin)
}

type abcBleeding struct{ engine }

func newABCBleeding() (Engine, error) {
	e, err := newEngine(schemas.ABCAFBleeding, abcAnticoagulantRule)
	return abcBleeding{e}, err
}

func (e abcBleeding) Compute(p model.Parameters) (model.Result, error) {
	if err := e.check(p); err != nil {
		return model.Result{}, err
	}
	in := decodeABCBleeding(p)
	risk := coxIncidence(abcBleedingBaseline.pick(in.doac), in.linearPredictor())

	res := e.result()
	res.Endpoints = []model.Endpoint{
		model.Scalar("one_year_bleeding_risk", "%", percent(risk)),
	}
	return res, nil
}

type abcDeathInput struct {
	age          float64
	troponinT    float64
	ntproBNP     float64
	gdf15        float64
	heartFailure bool
}

const (
	abcDeathAge          = 0.0425
	abcDeathTroponinT    = 0.4227
	abcDeathNTproBNP     = 0.2530
	abcDeathGDF15        = 0.4236
	abcDeathHeartFailure = 0.3050
	abcDeathBaseline     = 0.9700
)

func decodeABCDeath(p model.Parameters) abcDeathInput {
	in := abcDeathInput{heartFailure: p.Bool(schemas.ABCHeartFailure)}
	in.age, _ = p.Float(schemas.ABCAge)
	in.troponinT, _ = p.Float(schemas.ABCTroponinT)
	in.ntproBNP, _ = p.Float(schemas.ABCNTproBNP)
	in.gdf15, _ = p.Float(schemas.ABCGDF15)
	return in
}

func (in abcDeathInput) linearPredictor() float64 {
	return abcDeathAge*(in.age-abcRefAge) +
		abcDeathTroponinT*math.Log(in.troponinT/abcRefTroponinT) +
		abcDeathNTproBNP*math.Log(in.ntproBNP/abcRefNTproBNP) +
		abcDeathGDF15*math.Log(in.gdf15/abcRefGDF15) +
		abcDeathHeartFailure*b2f(in.heartFailure)
}

type abcDeath struct{ engine }

func newABCDeath() (Engine, error) {
	e, err := newEngine(schemas.ABCAFDeath)
	return abcDeath{e}, err
}

func (e abcDeath) Compute(p model.Parameters) (model.Result, error) {
	if err := e.check(p); err != nil {
		return model.Result{}, err
	}
	risk := coxIncidence(abcDeathBaseline, decodeABCDeath(p).linearPredictor())

	res := e.result()
	res.Endpoints = []model.Endpoint{
		model.Scalar("one_year_death_risk", "%", percent(risk)),
	}
	return res, nil
}
