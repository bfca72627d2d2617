package scoring

import (
	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
)

// Major bleeds per 100 patient-years by HAS-BLED total, Pisters et al. 2010.
// Totals of five and above share the last row.
var hasBledBleedRate = [...]float64{1.13, 1.02, 1.88, 3.74, 8.70, 12.50}

// Risk bands of Lip et al., J Am Coll Cardiol 2011;57:173-180: 0-1 low,
// 2 intermediate, 3 and above high.
const (
	hasBledLowMax      = 1
	hasBledModerateMax = 2
)

var hasBledFactors = [...]string{
	schemas.HASBLEDHypertension,
	schemas.HASBLEDRenal,
	schemas.HASBLEDLiver,
	schemas.HASBLEDStroke,
	schemas.HASBLEDBleeding,
	schemas.HASBLEDLabileINR,
	schemas.HASBLEDElderly,
	schemas.HASBLEDDrugs,
	schemas.HASBLEDAlcohol,
}

type hasbled struct{ engine }

func newHASBLED() (Engine, error) {
	e, err := newEngine(schemas.HASBLED)
	return hasbled{e}, err
}

func (e hasbled) Compute(p model.Parameters) (model.Result, error) {
	if err := e.check(p); err != nil {
		return model.Result{}, err
	}
	var flags [len(hasBledFactors)]bool
	for i, name := range hasBledFactors {
		flags[i] = p.Bool(name)
	}

	points := 0
	for _, set := range flags {
		if set {
			points++
		}
	}

	var category string
	switch {
	case points <= hasBledLowMax:
		category = model.CategoryLow
	case points <= hasBledModerateMax:
		category = model.CategoryModerate
	default:
		category = model.CategoryHigh
	}

	res := e.result()
	res.Points = &points
	res.Category = category
	res.Endpoints = []model.Endpoint{
		model.Scalar("bleeds_per_100_patient_years", "/100 patient-years", hasBledBleedRate[min(points, len(hasBledBleedRate)-1)]),
	}
	return res, nil
}
