package scoring

import (
	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
)

// Adjusted annual stroke rate (%/year) by CHA2DS2-VASc total, Lip et al. 2010.
var chadsVascStrokeRate = [...]float64{0, 1.3, 2.2, 3.2, 4.0, 6.7, 9.8, 9.6, 6.7, 15.2}

type chadsVascInput struct {
	heartFailure bool
	hypertension bool
	age75        bool
	diabetes     bool
	stroke       bool
	vascular     bool
	age65to74    bool
	female       bool
}

func decodeCHADSVASc(p model.Parameters) chadsVascInput {
	return chadsVascInput{
		heartFailure: p.Bool(schemas.CHADSCongestiveHeartFailure),
		hypertension: p.Bool(schemas.CHADSHypertension),
		age75:        p.Bool(schemas.CHADSAge75),
		diabetes:     p.Bool(schemas.CHADSDiabetes),
		stroke:       p.Bool(schemas.CHADSStroke),
		vascular:     p.Bool(schemas.CHADSVascularDisease),
		age65to74:    p.Bool(schemas.CHADSAge65To74),
		female:       p.Bool(schemas.CHADSFemale),
	}
}

// points sums the weights. The age bands are exclusive: when both flags are
// set the ≥75 band wins and the 65-74 point is dropped.
func (in chadsVascInput) points() int {
	total := 0
	for _, f := range []struct {
		set    bool
		weight int
	}{
		{in.heartFailure, 1},
		{in.hypertension, 1},
		{in.diabetes, 1},
		{in.stroke, 2},
		{in.vascular, 1},
		{in.female, 1},
	} {
		if f.set {
			total += f.weight
		}
	}
	switch {
	case in.age75:
		total += 2
	case in.age65to74:
		total++
	}
	return total
}

type cha2ds2vasc struct{ engine }

func newCHA2DS2VASc() (Engine, error) {
	e, err := newEngine(schemas.CHA2DS2VASc)
	return cha2ds2vasc{e}, err
}

func (e cha2ds2vasc) Compute(p model.Parameters) (model.Result, error) {
	if err := e.check(p); err != nil {
		return model.Result{}, err
	}
	points := decodeCHADSVASc(p).points()

	category := model.CategoryHigh
	switch points {
	case 0:
		category = model.CategoryLow
	case 1:
		category = model.CategoryModerate
	}

	res := e.result()
	res.Points = &points
	res.Category = category
	res.Endpoints = []model.Endpoint{
		model.Scalar("annual_stroke_risk", "%/year", chadsVascStrokeRate[points]),
	}
	return res, nil
}
