package generator

import (
	"math"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
	"github.com/okian/cardiorisk/internal/domain/types"
)

// adjuster rewrites a sampled set so that it describes a plausible patient
// and satisfies the score's combination rules.
type adjuster func(g *Generator, schema types.Schema, p model.Parameters)

var adjusters = map[string]adjuster{
	schemas.CHA2DS2VASc:   adjustCHADSVASc,
	schemas.ABCAFStroke:   adjustAntithrombotic,
	schemas.ABCAFBleeding: adjustAntithrombotic,
	schemas.SMART:         adjustSMART,
	schemas.SMARTReach:    adjustSMARTReach,
	schemas.BarcelonaHF:   adjustBarcelona,
}

func adjustCHADSVASc(_ *Generator, _ types.Schema, p model.Parameters) {
	if p.Bool(schemas.CHADSAge75) {
		p[schemas.CHADSAge65To74] = model.Bool(false)
	}
}

func adjustAntithrombotic(_ *Generator, _ types.Schema, p model.Parameters) {
	p[schemas.ABCAspirin] = model.Bool(!p.Bool(schemas.ABCDOAC))
}

// atLeastOne sets one of flags when none is set.
func (g *Generator) atLeastOne(p model.Parameters, flags ...string) {
	for _, name := range flags {
		if p.Bool(name) {
			return
		}
	}
	p[flags[g.rng.IntN(len(flags))]] = model.Bool(true)
}

// MDRD study equation constants, creatinine in mg/dL.
const (
	mdrdFactor     = 186
	mdrdCreatinine = -1.154
	mdrdAge        = -0.203
	mdrdFemale     = 0.742

	serumCreatinineMin = 0.5
	serumCreatinineMax = 3.0
)

// mdrd estimates the glomerular filtration rate in mL/min/1.73m².
func mdrd(creatinine, age float64, female bool) float64 {
	egfr := mdrdFactor * math.Pow(creatinine, mdrdCreatinine) * math.Pow(age, mdrdAge)
	if female {
		egfr *= mdrdFemale
	}
	return egfr
}

func adjustSMART(g *Generator, schema types.Schema, p model.Parameters) {
	g.atLeastOne(p, schemas.SMARTCoronary, schemas.SMARTCerebrovasc, schemas.SMARTAAA, schemas.SMARTPeripheral)

	age, _ := p.Float(schemas.SMARTAge)
	creatinine := serumCreatinineMin + g.rng.Float64()*(serumCreatinineMax-serumCreatinineMin)
	egfr := mdrd(creatinine, age, !p.Bool(schemas.SMARTMale))
	if f, ok := schema.Field(schemas.SMARTEGFR); ok && f.Constraint != nil {
		egfr = math.Max(f.Constraint.Min, math.Min(f.Constraint.Max, egfr))
	}
	p[schemas.SMARTEGFR] = model.Float(egfr)
}

func adjustSMARTReach(g *Generator, _ types.Schema, p model.Parameters) {
	g.atLeastOne(p, schemas.ReachCoronary, schemas.ReachCerebrovasc, schemas.ReachPeripheral)
}

func adjustBarcelona(_ *Generator, _ types.Schema, p model.Parameters) {
	if p.Bool(schemas.BCNACEiARB) {
		p[schemas.BCNARNI] = model.Bool(false)
	}
}
