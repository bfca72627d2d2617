package scoring

import (
	"math"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
)

const bcnYears = 5

// bcnHorizonSurvival is the survival left at the end of the baseline table
// above which life expectancy is reported as a lower bound.
const bcnHorizonSurvival = 0.01

type bcnInput struct {
	age              float64
	female           bool
	nyha             float64
	ejectionFraction float64
	sodium           float64
	egfr             float64
	hemoglobin       float64
	loopDose         float64
	statin           bool
	aceiArb          bool
	betablockers     bool
	hfDuration       float64
	diabetes         bool
	hospitalisations float64
	mra              bool
	icd              bool
	crt              bool
	arni             bool
	sglt2i           bool

	// biomarkers in schemas.BCNBiomarkers order; only meaningful where the
	// matching bit of present is set
	biomarkers [3]float64
	present    uint8
}

func decodeBarcelona(p model.Parameters) bcnInput {
	in := bcnInput{
		female:       p.Bool(schemas.BCNFemale),
		statin:       p.Bool(schemas.BCNStatin),
		aceiArb:      p.Bool(schemas.BCNACEiARB),
		betablockers: p.Bool(schemas.BCNBetablockers),
		diabetes:     p.Bool(schemas.BCNDiabetes),
		mra:          p.Bool(schemas.BCNMRA),
		icd:          p.Bool(schemas.BCNICD),
		crt:          p.Bool(schemas.BCNCRT),
		arni:         p.Bool(schemas.BCNARNI),
		sglt2i:       p.Bool(schemas.BCNSGLT2i),
	}
	in.age, _ = p.Float(schemas.BCNAge)
	in.nyha, _ = p.Float(schemas.BCNNYHA)
	in.ejectionFraction, _ = p.Float(schemas.BCNEjectionFraction)
	in.sodium, _ = p.Float(schemas.BCNSodium)
	in.egfr, _ = p.Float(schemas.BCNEGFR)
	in.hemoglobin, _ = p.Float(schemas.BCNHemoglobin)
	in.loopDose, _ = p.Float(schemas.BCNLoopDiureticDose)
	in.hfDuration, _ = p.Float(schemas.BCNHFDuration)
	in.hospitalisations, _ = p.Float(schemas.BCNHospitalisations)

	for i, name := range schemas.BCNBiomarkers {
		if v, ok := p.Float(name); ok {
			in.biomarkers[i] = v
			in.present |= 1 << i
		}
	}
	return in
}

// loopBand maps the daily furosemide-equivalent dose to its dose band.
func loopBand(dose float64) float64 {
	switch {
	case dose <= 0:
		return 0
	case dose <= 40:
		return 1
	case dose <= 80:
		return 2
	case dose <= 160:
		return 3
	default:
		return 4
	}
}

func (in bcnInput) hfLong() bool {
	return in.hfDuration > bcnHFLongMonths
}

// clinicalPredictor is the linear predictor over non-biomarker fields,
// centred on bcnReference.
func (in bcnInput) clinicalPredictor(c bcnClinical) float64 {
	ref := bcnReference
	flag := func(coef float64, got, want bool) float64 {
		return coef * (b2f(got) - b2f(want))
	}
	return c.age*(in.age-ref.age) +
		flag(c.female, in.female, ref.female) +
		c.nyha*(in.nyha-ref.nyha) +
		c.ejectionFraction*(in.ejectionFraction-ref.ejectionFraction) +
		c.sodium*(in.sodium-ref.sodium) +
		c.logEGFR*math.Log(in.egfr/ref.egfr) +
		c.hemoglobin*(in.hemoglobin-ref.hemoglobin) +
		c.loopBand*(loopBand(in.loopDose)-loopBand(ref.loopDose)) +
		flag(c.statin, in.statin, ref.statin) +
		flag(c.aceiArb, in.aceiArb, ref.aceiArb) +
		flag(c.betablockers, in.betablockers, ref.betablockers) +
		flag(c.hfLong, in.hfLong(), ref.hfLong()) +
		flag(c.diabetes, in.diabetes, ref.diabetes) +
		c.hospitalisations*(in.hospitalisations-ref.hospitalisations) +
		flag(c.mra, in.mra, ref.mra) +
		flag(c.icd, in.icd, ref.icd) +
		flag(c.crt, in.crt, ref.crt) +
		flag(c.arni, in.arni, ref.arni) +
		flag(c.sglt2i, in.sglt2i, ref.sglt2i)
}

// predictor returns the linear predictor of m for the variant selected by
// mask. Mask zero is the clinical-only model; any other mask selects the
// biomarker model fitted on exactly that subset.
func (in bcnInput) predictor(m bcnModel, mask uint8) float64 {
	lp := in.clinicalPredictor(m.clinical)
	coefs := m.biomarkers[mask]
	for i := range in.biomarkers {
		if mask&(1<<i) == 0 {
			continue
		}
		lp += coefs[i] * math.Log(in.biomarkers[i]/bcnReference.biomarkers[i])
	}
	return lp
}

// cumulativeIncidence returns the yearly cumulative incidence (%) over the
// first bcnYears years, rounded as the reference calculator displays it.
func cumulativeIncidence(m bcnModel, lp float64) []float64 {
	out := make([]float64, bcnYears)
	for t := range out {
		out[t] = round(percent(coxIncidence(m.baseline[t], lp)), 1)
	}
	return out
}

// lifeExpectancy integrates the individual survival curve over the yearly
// baseline table with the trapezoid rule. The integral stops at the table
// horizon, so when more than bcnHorizonSurvival of the patients are still
// alive there the endpoint is marked as a lower bound.
func lifeExpectancy(m bcnModel, lp float64) model.Endpoint {
	hr := math.Exp(lp)
	prev, total := 1.0, 0.0
	for _, s0 := range m.baseline {
		s := math.Pow(s0, hr)
		total += (prev + s) / 2
		prev = s
	}
	e := model.Scalar(bcnEndpointLifeExp, "years", round(total, 1))
	if prev > bcnHorizonSurvival {
		return e.AtLeast()
	}
	return e
}

func (in bcnInput) branch(name string, mask uint8) model.Branch {
	lpDeath := in.predictor(bcnDeath, mask)
	return model.Branch{
		Name: name,
		Endpoints: []model.Endpoint{
			model.Series(bcnEndpointDeath, "%", cumulativeIncidence(bcnDeath, lpDeath)...),
			lifeExpectancy(bcnDeath, lpDeath),
			model.Series(bcnEndpointHosp, "%", cumulativeIncidence(bcnHosp, in.predictor(bcnHosp, mask))...),
			model.Series(bcnEndpointHospDeath, "%", cumulativeIncidence(bcnHospDeath, in.predictor(bcnHospDeath, mask))...),
		},
	}
}

type barcelona struct{ engine }

func newBarcelona() (Engine, error) {
	e, err := newEngine(schemas.BarcelonaHF, rule{
		name:    "single_raas_inhibitor",
		expr:    "!(acei_arb && arni)",
		fields:  []string{schemas.BCNACEiARB, schemas.BCNARNI},
		message: "ACEi/ARB and ARNI must not be combined",
	})
	return barcelona{e}, err
}

func (e barcelona) Compute(p model.Parameters) (model.Result, error) {
	if err := e.check(p); err != nil {
		return model.Result{}, err
	}
	in := decodeBarcelona(p)

	res := e.result()
	res.Branches = append(res.Branches, in.branch(model.BranchWithoutBiomarkers, 0))
	if in.present != 0 {
		res.Branches = append(res.Branches, in.branch(model.BranchWithBiomarkers, in.present))
	}
	return res, nil
}
