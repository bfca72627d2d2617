package schemas

import "github.com/okian/cardiorisk/internal/domain/types"

// CHARGE-AF fields.
const (
	ChargeAge              = "Age"
	ChargeWhite            = "Race (white)"
	ChargeHeight           = "Height in cm"
	ChargeWeight           = "Weight in kg"
	ChargeSystolicBP       = "Systolic blood pressure in mmHg"
	ChargeDiastolicBP      = "Diastolic blood pressure in mmHg"
	ChargeSmoker           = "Smoking (current)"
	ChargeAntihypertensive = "Antihypertensive medication use"
	ChargeDiabetes         = "Diabetes"
	ChargeHeartFailure     = "Heart failure"
	ChargeMI               = "Myocardial infarction"
)

// ABC-AF fields. The three ABC-AF scores share names where the input is the same.
const (
	ABCPriorStroke  = "Prior Stroke/TIA"
	ABCPriorBleed   = "Prior Bleeding"
	ABCAge          = "Age"
	ABCTroponinT    = "Troponin T in ng/L"
	ABCNTproBNP     = "NT-proBNP in ng/L"
	ABCGDF15        = "GDF-15 in ng/L"
	ABCHemoglobin   = "Hemoglobin in g/dL"
	ABCHeartFailure = "Heart Failure"
	ABCDOAC         = "DOAC"
	ABCAspirin      = "Aspirin"
)

var chargeAF = types.NewSchema(CHARGEAF,
	types.Int(ChargeAge, "age", 46, 94).WithUnit("years"),
	types.Bool(ChargeWhite, "white"),
	types.Float(ChargeHeight, "height", 120, 220).WithUnit("cm"),
	types.Float(ChargeWeight, "weight", 30, 250).WithUnit("kg"),
	types.Int(ChargeSystolicBP, "sbp", 60, 250).WithUnit("mmHg"),
	types.Int(ChargeDiastolicBP, "dbp", 30, 150).WithUnit("mmHg"),
	types.Bool(ChargeSmoker, "smoker"),
	types.Bool(ChargeAntihypertensive, "antihypertensive"),
	types.Bool(ChargeDiabetes, "diabetes"),
	types.Bool(ChargeHeartFailure, "heart_failure"),
	types.Bool(ChargeMI, "myocardial_infarction"),
)

var abcStroke = types.NewSchema(ABCAFStroke,
	types.Bool(ABCPriorStroke, "prior_stroke"),
	types.Int(ABCAge, "age", 22, 95).WithUnit("years"),
	types.Float(ABCTroponinT, "troponin_t", 1, 200).WithUnit("ng/L"),
	types.Float(ABCNTproBNP, "nt_probnp", 5, 35000).WithUnit("ng/L"),
	types.Bool(ABCDOAC, "doac"),
	types.Bool(ABCAspirin, "aspirin"),
)

var abcBleeding = types.NewSchema(ABCAFBleeding,
	types.Bool(ABCPriorBleed, "prior_bleeding"),
	types.Int(ABCAge, "age", 22, 95).WithUnit("years"),
	types.Float(ABCTroponinT, "troponin_t", 1, 200).WithUnit("ng/L"),
	types.Float(ABCGDF15, "gdf15", 400, 20000).WithUnit("ng/L"),
	types.Float(ABCHemoglobin, "hemoglobin", 7, 20).WithUnit("g/dL"),
	types.Bool(ABCDOAC, "doac"),
	types.Bool(ABCAspirin, "aspirin"),
)

var abcDeath = types.NewSchema(ABCAFDeath,
	types.Int(ABCAge, "age", 22, 95).WithUnit("years"),
	types.Float(ABCTroponinT, "troponin_t", 1, 200).WithUnit("ng/L"),
	types.Float(ABCNTproBNP, "nt_probnp", 5, 35000).WithUnit("ng/L"),
	types.Float(ABCGDF15, "gdf15", 400, 20000).WithUnit("ng/L"),
	types.Bool(ABCHeartFailure, "heart_failure"),
)
