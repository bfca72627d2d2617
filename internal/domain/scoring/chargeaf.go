package scoring

import (
	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
)

// CHARGE-AF simple model, Alonso et al. 2013. Continuous predictors enter per
// published unit step (age per 5 years, height per 10 cm, ...).
const (
	chargeAgePer5          = 0.508
	chargeWhite            = 0.465
	chargeHeightPer10      = 0.248
	chargeWeightPer15      = 0.115
	chargeSystolicPer20    = 0.197
	chargeDiastolicPer10   = -0.101
	chargeSmoker           = 0.359
	chargeAntihypertensive = 0.349
	chargeDiabetes         = 0.237
	chargeHeartFailure     = 0.701
	chargeMI               = 0.496
	chargeMeanLP           = 12.58156
	chargeBaseline         = 0.9718412736
)

type chargeInput struct {
	age              float64
	white            bool
	height           float64
	weight           float64
	systolicBP       float64
	diastolicBP      float64
	smoker           bool
	antihypertensive bool
	diabetes         bool
	heartFailure     bool
	mi               bool
}

func decodeCHARGEAF(p model.Parameters) chargeInput {
	in := chargeInput{
		white:            p.Bool(schemas.ChargeWhite),
		smoker:           p.Bool(schemas.ChargeSmoker),
		antihypertensive: p.Bool(schemas.ChargeAntihypertensive),
		diabetes:         p.Bool(schemas.ChargeDiabetes),
		heartFailure:     p.Bool(schemas.ChargeHeartFailure),
		mi:               p.Bool(schemas.ChargeMI),
	}
	in.age, _ = p.Float(schemas.ChargeAge)
	in.height, _ = p.Float(schemas.ChargeHeight)
	in.weight, _ = p.Float(schemas.ChargeWeight)
	in.systolicBP, _ = p.Float(schemas.ChargeSystolicBP)
	in.diastolicBP, _ = p.Float(schemas.ChargeDiastolicBP)
	return in
}

func (in chargeInput) linearPredictor() float64 {
	return chargeAgePer5*in.age/5 +
		chargeWhite*b2f(in.white) +
		chargeHeightPer10*in.height/10 +
		chargeWeightPer15*in.weight/15 +
		chargeSystolicPer20*in.systolicBP/20 +
		chargeDiastolicPer10*in.diastolicBP/10 +
		chargeSmoker*b2f(in.smoker) +
		chargeAntihypertensive*b2f(in.antihypertensive) +
		chargeDiabetes*b2f(in.diabetes) +
		chargeHeartFailure*b2f(in.heartFailure) +
		chargeMI*b2f(in.mi)
}

type chargeAF struct{ engine }

func newCHARGEAF() (Engine, error) {
	e, err := newEngine(schemas.CHARGEAF)
	return chargeAF{e}, err
}

func (e chargeAF) Compute(p model.Parameters) (model.Result, error) {
	if err := e.check(p); err != nil {
		return model.Result{}, err
	}
	lp := decodeCHARGEAF(p).linearPredictor()

	res := e.result()
	res.Endpoints = []model.Endpoint{
		model.Scalar("five_year_af_risk", "%", percent(coxIncidence(chargeBaseline, lp-chargeMeanLP))),
	}
	return res, nil
}
