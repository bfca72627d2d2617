package schemas

import "github.com/okian/cardiorisk/internal/domain/types"

// SMART fields.
const (
	SMARTAge            = "Age in years"
	SMARTMale           = "Male"
	SMARTSmoker         = "Current smoker"
	SMARTSystolicBP     = "Systolic blood pressure in mmHg"
	SMARTDiabetic       = "Diabetic"
	SMARTCoronary       = "History of coronary artery disease"
	SMARTCerebrovasc    = "History of cerebrovascular disease"
	SMARTAAA            = "Abdominal aortic aneurysm"
	SMARTPeripheral     = "Peripheral artery disease"
	SMARTYearsSinceDiag = "Years since first diagnosis of vascular disease"
	SMARTHDL            = "HDL-cholesterol in mmol/L"
	SMARTTotalChol      = "Total cholesterol in mmol/L"
	SMARTEGFR           = "eGFR in mL/min/1.73m²"
	SMARTCRP            = "hs-CRP in mg/L"
)

// SMARTReach fields.
const (
	ReachAge          = "Age in years"
	ReachMale         = "Male"
	ReachSmoker       = "Current smoker"
	ReachSystolicBP   = "Systolic blood pressure in mmHg"
	ReachTotalChol    = "Total cholesterol in mmol/L"
	ReachCreatinine   = "Creatinine in mg/dL"
	ReachDiabetic     = "Diabetic"
	ReachCoronary     = "History of coronary artery disease"
	ReachCerebrovasc  = "History of cerebrovascular disease"
	ReachPeripheral   = "Peripheral artery disease"
	ReachAtrialFib    = "History of atrial fibrillation"
	ReachHeartFailure = "History of congestive heart failure"
)

var smart = types.NewSchema(SMART,
	types.Int(SMARTAge, "age", 30, 90).WithUnit("years"),
	types.Bool(SMARTMale, "male"),
	types.Bool(SMARTSmoker, "smoker"),
	types.Int(SMARTSystolicBP, "sbp", 70, 200).WithUnit("mmHg"),
	types.Bool(SMARTDiabetic, "diabetic"),
	types.Bool(SMARTCoronary, "cad"),
	types.Bool(SMARTCerebrovasc, "cevd"),
	types.Bool(SMARTAAA, "aaa"),
	types.Bool(SMARTPeripheral, "pad"),
	types.Int(SMARTYearsSinceDiag, "years_since_diagnosis", 0, 30).WithUnit("years"),
	types.Float(SMARTHDL, "hdl", 0.6, 2.5).WithUnit("mmol/L"),
	types.Float(SMARTTotalChol, "total_cholesterol", 2.5, 8.0).WithUnit("mmol/L"),
	types.Float(SMARTEGFR, "egfr", 21, 135).WithUnit("mL/min/1.73m²"),
	types.Float(SMARTCRP, "crp", 0.1, 15).WithUnit("mg/L"),
)

var smartReach = types.NewSchema(SMARTReach,
	types.Int(ReachAge, "age", 45, 80).WithUnit("years"),
	types.Bool(ReachMale, "male"),
	types.Bool(ReachSmoker, "smoker"),
	types.Int(ReachSystolicBP, "sbp", 70, 200).WithUnit("mmHg"),
	types.Float(ReachTotalChol, "total_cholesterol", 2.5, 8.0).WithUnit("mmol/L"),
	types.Float(ReachCreatinine, "creatinine", 0.4, 4.0).WithUnit("mg/dL"),
	types.Bool(ReachDiabetic, "diabetic"),
	types.Bool(ReachCoronary, "cad"),
	types.Bool(ReachCerebrovasc, "cevd"),
	types.Bool(ReachPeripheral, "pad"),
	types.Bool(ReachAtrialFib, "atrial_fibrillation"),
	types.Bool(ReachHeartFailure, "heart_failure"),
)
