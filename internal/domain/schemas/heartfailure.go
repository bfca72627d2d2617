package schemas

import "github.com/okian/cardiorisk/internal/domain/types"

// MAGGIC fields.
const (
	MAGGICEjectionFraction = "Ejection fraction (%)"
	MAGGICAge              = "Age (years)"
	MAGGICSystolicBP       = "Systolic blood pressure (mmHg)"
	MAGGICBMI              = "BMI (kg/m²)"
	MAGGICCreatinine       = "Creatinine (µmol/L)"
	MAGGICNYHA             = "NYHA Class"
	MAGGICMale             = "Male"
	MAGGICSmoker           = "Current smoker"
	MAGGICDiabetic         = "Diabetic"
	MAGGICCOPD             = "Diagnosis of COPD"
	MAGGICHFOver18Months   = "Heart failure diagnosed ≥18 months ago"
	MAGGICBetaBlocker      = "Beta blocker"
	MAGGICACEiARB          = "ACEi/ARB"
)

// BARCELONA Bio-HF V3 fields.
const (
	BCNAge              = "Age (years)"
	BCNFemale           = "Female"
	BCNNYHA             = "NYHA Class"
	BCNEjectionFraction = "Ejection fraction (%)"
	BCNSodium           = "Sodium (mmol/L)"
	BCNEGFR             = "eGFR in mL/min/1.73m²"
	BCNHemoglobin       = "Hemoglobin (g/dL)"
	BCNLoopDiureticDose = "Loop Diuretic Furosemide Dose"
	BCNStatin           = "Statin"
	BCNACEiARB          = "ACEi/ARB"
	BCNBetablockers     = "Betablockers"
	BCNHFDuration       = "HF Duration in months"
	BCNDiabetes         = "Diabetes Mellitus"
	BCNHospitalisations = "Hospitalisation Prev. Year"
	BCNMRA              = "MRA"
	BCNICD              = "ICD"
	BCNCRT              = "CRT"
	BCNARNI             = "ARNI"
	BCNSGLT2i           = "SGLT2i"
	BCNNTproBNP         = "NT-proBNP in pg/mL"
	BCNHsTnT            = "hs-cTnT in ng/L"
	BCNST2              = "ST2 (ng/mL)"
)

// BCNBiomarkers lists the optional biomarker fields in coefficient order.
var BCNBiomarkers = [...]string{BCNNTproBNP, BCNHsTnT, BCNST2}

var maggic = types.NewSchema(MAGGIC,
	types.Int(MAGGICEjectionFraction, "ejection_fraction", 1, 95).WithUnit("%"),
	types.Int(MAGGICAge, "age", 18, 110).WithUnit("years"),
	types.Int(MAGGICSystolicBP, "sbp", 50, 250).WithUnit("mmHg"),
	types.Float(MAGGICBMI, "bmi", 10, 50).WithUnit("kg/m²"),
	types.Int(MAGGICCreatinine, "creatinine", 20, 1400).WithUnit("µmol/L"),
	types.Int(MAGGICNYHA, "nyha", 1, 4),
	types.Bool(MAGGICMale, "male"),
	types.Bool(MAGGICSmoker, "smoker"),
	types.Bool(MAGGICDiabetic, "diabetic"),
	types.Bool(MAGGICCOPD, "copd"),
	types.Bool(MAGGICHFOver18Months, "hf_over_18_months"),
	types.Bool(MAGGICBetaBlocker, "beta_blocker"),
	types.Bool(MAGGICACEiARB, "acei_arb"),
)

var barcelona = types.NewSchema(BarcelonaHF,
	types.Int(BCNAge, "age", 32, 90).WithUnit("years"),
	types.Bool(BCNFemale, "female"),
	types.Int(BCNNYHA, "nyha", 1, 4),
	types.Int(BCNEjectionFraction, "ejection_fraction", 13, 78).WithUnit("%"),
	types.Int(BCNSodium, "sodium", 120, 150).WithUnit("mmol/L"),
	types.Int(BCNEGFR, "egfr", 10, 150).WithUnit("mL/min/1.73m²"),
	types.Float(BCNHemoglobin, "hemoglobin", 8, 18).WithUnit("g/dL"),
	types.Int(BCNLoopDiureticDose, "loop_diuretic_dose", 0, 500).WithUnit("mg"),
	types.Bool(BCNStatin, "statin"),
	types.Bool(BCNACEiARB, "acei_arb"),
	types.Bool(BCNBetablockers, "betablockers"),
	types.Int(BCNHFDuration, "hf_duration", 0, 480).WithUnit("months"),
	types.Bool(BCNDiabetes, "diabetes"),
	types.Int(BCNHospitalisations, "hospitalisations", 0, 10),
	types.Bool(BCNMRA, "mra"),
	types.Bool(BCNICD, "icd"),
	types.Bool(BCNCRT, "crt"),
	types.Bool(BCNARNI, "arni"),
	types.Bool(BCNSGLT2i, "sglt2i"),
	types.Float(BCNNTproBNP, "nt_probnp", 5, 35000).WithUnit("pg/mL").Optional(),
	types.Float(BCNHsTnT, "hs_tnt", 1, 300).WithUnit("ng/L").Optional(),
	types.Float(BCNST2, "st2", 1, 200).WithUnit("ng/mL").Optional(),
)
