package schemas

import "github.com/okian/cardiorisk/internal/domain/types"

// CHA2DS2-VASc fields.
const (
	CHADSCongestiveHeartFailure = "Congestive Heart Failure"
	CHADSHypertension           = "Hypertension"
	CHADSAge75                  = "Age ≥75y"
	CHADSDiabetes               = "Diabetes"
	CHADSStroke                 = "Stroke/TIA/Thromboembolism"
	CHADSVascularDisease        = "Vascular disease"
	CHADSAge65To74              = "Age 65-74y"
	CHADSFemale                 = "Sex category (female)"
)

// HAS-BLED fields.
const (
	HASBLEDHypertension = "Uncontrolled hypertension"
	HASBLEDRenal        = "Abnormal Renal Function"
	HASBLEDLiver        = "Abnormal Liver Function"
	HASBLEDStroke       = "Stroke"
	HASBLEDBleeding     = "Bleeding history or predisposition"
	HASBLEDLabileINR    = "Labile international normalized ratio (INR)"
	HASBLEDElderly      = "Elderly"
	HASBLEDDrugs        = "Drugs"
	HASBLEDAlcohol      = "Alcohol"
)

var cha2ds2vasc = types.NewSchema(CHA2DS2VASc,
	types.Bool(CHADSCongestiveHeartFailure, "chf"),
	types.Bool(CHADSHypertension, "hypertension"),
	types.Bool(CHADSAge75, "age_75"),
	types.Bool(CHADSDiabetes, "diabetes"),
	types.Bool(CHADSStroke, "stroke"),
	types.Bool(CHADSVascularDisease, "vascular_disease"),
	types.Bool(CHADSAge65To74, "age_65_74"),
	types.Bool(CHADSFemale, "female"),
)

var hasbled = types.NewSchema(HASBLED,
	types.Bool(HASBLEDHypertension, "hypertension"),
	types.Bool(HASBLEDRenal, "renal"),
	types.Bool(HASBLEDLiver, "liver"),
	types.Bool(HASBLEDStroke, "stroke"),
	types.Bool(HASBLEDBleeding, "bleeding"),
	types.Bool(HASBLEDLabileINR, "labile_inr"),
	types.Bool(HASBLEDElderly, "elderly"),
	types.Bool(HASBLEDDrugs, "drugs"),
	types.Bool(HASBLEDAlcohol, "alcohol"),
)
