package scoring

// Coefficients of the BARCELONA Bio-HF V3 Cox models. Every predictor is
// centred on bcnReference, so each baseline table is the survival of the
// reference patient and lp = 0 reproduces it exactly.
//
// TODO: the tables below have the calculator's structure (per-endpoint
// clinical terms, one biomarker set per present-subset, yearly baselines)
// but not its published values. Port the BCN Bio-HF V3 linear predictors,
// mean predictors and baseline survival, then add known-answer tests
// against the online calculator.

const (
	bcnEndpointDeath     = "death"
	bcnEndpointHosp      = "hosp"
	bcnEndpointHospDeath = "hosp_death"
	bcnEndpointLifeExp   = "life_expectancy"

	bcnHFLongMonths = 12
)

// bcnClinical holds the per-unit coefficients of the clinical predictors.
type bcnClinical struct {
	age              float64
	female           float64
	nyha             float64
	ejectionFraction float64
	sodium           float64
	logEGFR          float64
	hemoglobin       float64
	loopBand         float64
	statin           float64
	aceiArb          float64
	betablockers     float64
	hfLong           float64
	diabetes         float64
	hospitalisations float64
	mra              float64
	icd              float64
	crt              float64
	arni             float64
	sglt2i           float64
}

// bcnModel is one endpoint's model: clinical coefficients, biomarker
// coefficients per present-subset, and the yearly baseline survival.
type bcnModel struct {
	name     string
	clinical bcnClinical

	// indexed by biomarker presence mask (bit 0 NT-proBNP, 1 hs-cTnT, 2 ST2)
	biomarkers [8][3]float64
	baseline   []float64
}

var bcnDeath = bcnModel{
	name: bcnEndpointDeath,
	clinical: bcnClinical{
		age:              0.034,
		female:           -0.18,
		nyha:             0.30,
		ejectionFraction: -0.011,
		sodium:           -0.034,
		logEGFR:          -0.42,
		hemoglobin:       -0.085,
		loopBand:         0.14,
		statin:           -0.15,
		aceiArb:          -0.20,
		betablockers:     -0.30,
		hfLong:           0.18,
		diabetes:         0.20,
		hospitalisations: 0.12,
		mra:              -0.20,
		icd:              -0.25,
		crt:              -0.20,
		arni:             -0.18,
		sglt2i:           -0.15,
	},
	biomarkers: [8][3]float64{
		{0, 0, 0},
		{0.38, 0, 0},
		{0, 0.36, 0},
		{0.27, 0.24, 0},
		{0, 0, 0.42},
		{0.28, 0, 0.30},
		{0, 0.26, 0.31},
		{0.22, 0.19, 0.25},
	},
	baseline: []float64{
		0.9250, 0.8562, 0.7928, 0.7342, 0.6800, 0.6299, 0.5835, 0.5406, 0.5008, 0.4640,
		0.4300, 0.3984, 0.3692, 0.3422, 0.3171, 0.2939, 0.2724, 0.2524, 0.2340, 0.2169,
	},
}

var bcnHosp = bcnModel{
	name: bcnEndpointHosp,
	clinical: bcnClinical{
		age:              0.012,
		female:           -0.10,
		nyha:             0.32,
		ejectionFraction: -0.006,
		sodium:           -0.028,
		logEGFR:          -0.38,
		hemoglobin:       -0.070,
		loopBand:         0.22,
		statin:           -0.05,
		aceiArb:          -0.12,
		betablockers:     -0.15,
		hfLong:           0.25,
		diabetes:         0.26,
		hospitalisations: 0.30,
		mra:              -0.15,
		icd:              -0.05,
		crt:              -0.18,
		arni:             -0.20,
		sglt2i:           -0.25,
	},
	biomarkers: [8][3]float64{
		{0, 0, 0},
		{0.30, 0, 0},
		{0, 0.22, 0},
		{0.23, 0.14, 0},
		{0, 0, 0.35},
		{0.21, 0, 0.26},
		{0, 0.15, 0.28},
		{0.17, 0.11, 0.20},
	},
	baseline: []float64{0.8600, 0.7749, 0.7069, 0.6496, 0.6000},
}

var bcnHospDeath = bcnModel{
	name: bcnEndpointHospDeath,
	clinical: bcnClinical{
		age:              0.022,
		female:           -0.14,
		nyha:             0.31,
		ejectionFraction: -0.008,
		sodium:           -0.030,
		logEGFR:          -0.40,
		hemoglobin:       -0.080,
		loopBand:         0.18,
		statin:           -0.10,
		aceiArb:          -0.16,
		betablockers:     -0.22,
		hfLong:           0.22,
		diabetes:         0.23,
		hospitalisations: 0.22,
		mra:              -0.18,
		icd:              -0.14,
		crt:              -0.19,
		arni:             -0.19,
		sglt2i:           -0.20,
	},
	biomarkers: [8][3]float64{
		{0, 0, 0},
		{0.34, 0, 0},
		{0, 0.30, 0},
		{0.25, 0.20, 0},
		{0, 0, 0.38},
		{0.25, 0, 0.28},
		{0, 0.21, 0.29},
		{0.20, 0.15, 0.22},
	},
	baseline: []float64{0.8200, 0.7057, 0.6159, 0.5421, 0.4800},
}

// bcnReference is the profile every predictor is centred on.
var bcnReference = bcnInput{
	age:              70,
	nyha:             2,
	ejectionFraction: 35,
	sodium:           139,
	egfr:             60,
	hemoglobin:       13,
	loopDose:         40,
	statin:           true,
	aceiArb:          true,
	betablockers:     true,
	hfDuration:       24,
	biomarkers:       [3]float64{1360, 22, 38},
}
