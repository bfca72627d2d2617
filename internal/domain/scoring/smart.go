package scoring

import (
	"math"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
)

// SMART risk score coefficients, Dorresteijn et al. 2013.
const (
	smartAge         = -0.0850
	smartAgeSquared  = 0.00105
	smartMale        = 0.156
	smartSmoker      = 0.262
	smartSystolicBP  = 0.00429
	smartDiabetic    = 0.223
	smartCoronary    = 0.140
	smartCerebrovasc = 0.406
	smartAAA         = 0.558
	smartPeripheral  = 0.283
	smartYears       = 0.0229
	smartHDL         = -0.426
	smartTotalChol   = 0.0959
	smartEGFR        = -0.0532
	smartEGFRSquared = 0.000306
	smartLogCRP      = 0.139
	smartBaseline    = 0.81066
	smartIntercept   = 2.099
)

type smartInput struct {
	age        float64
	male       bool
	smoker     bool
	systolicBP float64
	diabetic   bool
	coronary   bool
	cerebro    bool
	aaa        bool
	peripheral bool
	years      float64
	hdl        float64
	totalChol  float64
	egfr       float64
	crp        float64
}

func decodeSMART(p model.Parameters) smartInput {
	in := smartInput{
		male:       p.Bool(schemas.SMARTMale),
		smoker:     p.Bool(schemas.SMARTSmoker),
		diabetic:   p.Bool(schemas.SMARTDiabetic),
		coronary:   p.Bool(schemas.SMARTCoronary),
		cerebro:    p.Bool(schemas.SMARTCerebrovasc),
		aaa:        p.Bool(schemas.SMARTAAA),
		peripheral: p.Bool(schemas.SMARTPeripheral),
	}
	in.age, _ = p.Float(schemas.SMARTAge)
	in.systolicBP, _ = p.Float(schemas.SMARTSystolicBP)
	in.years, _ = p.Float(schemas.SMARTYearsSinceDiag)
	in.hdl, _ = p.Float(schemas.SMARTHDL)
	in.totalChol, _ = p.Float(schemas.SMARTTotalChol)
	in.egfr, _ = p.Float(schemas.SMARTEGFR)
	in.crp, _ = p.Float(schemas.SMARTCRP)
	return in
}

func (in smartInput) linearPredictor() float64 {
	return smartAge*in.age +
		smartAgeSquared*in.age*in.age +
		smartMale*b2f(in.male) +
		smartSmoker*b2f(in.smoker) +
		smartSystolicBP*in.systolicBP +
		smartDiabetic*b2f(in.diabetic) +
		smartCoronary*b2f(in.coronary) +
		smartCerebrovasc*b2f(in.cerebro) +
		smartAAA*b2f(in.aaa) +
		smartPeripheral*b2f(in.peripheral) +
		smartYears*in.years +
		smartHDL*in.hdl +
		smartTotalChol*in.totalChol +
		smartEGFR*in.egfr +
		smartEGFRSquared*in.egfr*in.egfr +
		smartLogCRP*math.Log(in.crp)
}

type smart struct{ engine }

func newSMART() (Engine, error) {
	e, err := newEngine(schemas.SMART, rule{
		name:    "vascular_location",
		expr:    "cad || cevd || aaa || pad",
		fields:  []string{schemas.SMARTCoronary, schemas.SMARTCerebrovasc, schemas.SMARTAAA, schemas.SMARTPeripheral},
		message: "at least one manifestation of vascular disease is required",
	})
	return smart{e}, err
}

func (e smart) Compute(p model.Parameters) (model.Result, error) {
	if err := e.check(p); err != nil {
		return model.Result{}, err
	}
	lp := decodeSMART(p).linearPredictor()
	risk := coxIncidence(smartBaseline, lp+smartIntercept)

	res := e.result()
	res.Endpoints = []model.Endpoint{
		model.Scalar("ten_year_risk", "%", percent(risk)),
	}
	return res, nil
}
