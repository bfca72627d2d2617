package scoring_test

import (
	"errors"
	"testing"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
	"github.com/okian/cardiorisk/internal/domain/scoring"
	"github.com/okian/cardiorisk/internal/domain/validation"
	. "github.com/smartystreets/goconvey/convey"
)

func smartPatient() validation.RawInputs {
	return validation.RawInputs{
		schemas.SMARTAge:            60,
		schemas.SMARTMale:           true,
		schemas.SMARTSystolicBP:     140,
		schemas.SMARTCoronary:       true,
		schemas.SMARTYearsSinceDiag: 5,
		schemas.SMARTHDL:            1.2,
		schemas.SMARTTotalChol:      4.5,
		schemas.SMARTEGFR:           80,
		schemas.SMARTCRP:            2,
	}
}

func TestSMART(t *testing.T) {
	Convey("Given a SMART patient with coronary disease", t, func() {
		raw := smartPatient()

		Convey("When the score is computed", func() {
			res, err := compute(schemas.SMART, build(schemas.SMART, raw))

			Convey("Then the ten-year risk follows the published model", func() {
				So(err, ShouldBeNil)
				So(res.Points, ShouldBeNil)
				So(endpoint(res, "ten_year_risk"), ShouldHaveLength, 1)
				So(endpoint(res, "ten_year_risk")[0], ShouldAlmostEqual, 12.0579, 0.001)
			})
		})

		Convey("When the patient also smokes", func() {
			base, _ := compute(schemas.SMART, build(schemas.SMART, raw))
			raw[schemas.SMARTSmoker] = true
			smoker, err := compute(schemas.SMART, build(schemas.SMART, raw))

			Convey("Then the risk rises", func() {
				So(err, ShouldBeNil)
				So(endpoint(smoker, "ten_year_risk")[0], ShouldBeGreaterThan, endpoint(base, "ten_year_risk")[0])
			})
		})

		Convey("When no vascular location is given", func() {
			raw[schemas.SMARTCoronary] = false
			_, err := compute(schemas.SMART, build(schemas.SMART, raw))

			Convey("Then the combination is rejected", func() {
				So(errors.Is(err, scoring.ErrInvalidCombination), ShouldBeTrue)

				var ce *scoring.CombinationError
				So(errors.As(err, &ce), ShouldBeTrue)
				So(ce.Score, ShouldEqual, schemas.SMART)
				So(ce.Rule, ShouldEqual, "vascular_location")
				So(ce.Fields, ShouldContain, schemas.SMARTAAA)
			})
		})
	})
}

func TestSMARTReach(t *testing.T) {
	raw := func() validation.RawInputs {
		return validation.RawInputs{
			schemas.ReachAge:        60,
			schemas.ReachSystolicBP: 130,
			schemas.ReachTotalChol:  5,
			schemas.ReachCreatinine: 1,
			schemas.ReachCoronary:   true,
		}
	}

	Convey("Given a SMART-REACH patient", t, func() {
		res, err := compute(schemas.SMARTReach, build(schemas.SMARTReach, raw()))

		Convey("Then the endpoints are ordered and bounded", func() {
			So(err, ShouldBeNil)
			ten := endpoint(res, "ten_year_risk")[0]
			life := endpoint(res, "lifetime_risk")[0]
			expectancy := endpoint(res, "cvd_free_life_expectancy")[0]

			So(ten, ShouldBeGreaterThan, 0)
			So(ten, ShouldBeLessThanOrEqualTo, life)
			So(life, ShouldBeLessThanOrEqualTo, 100)
			So(expectancy, ShouldBeGreaterThan, 60)
			So(expectancy, ShouldBeLessThanOrEqualTo, 90)
		})

		Convey("When a second vascular location is added", func() {
			more := raw()
			more[schemas.ReachCerebrovasc] = true
			worse, err := compute(schemas.SMARTReach, build(schemas.SMARTReach, more))

			Convey("Then the ten-year risk rises", func() {
				So(err, ShouldBeNil)
				So(endpoint(worse, "ten_year_risk")[0], ShouldBeGreaterThan, endpoint(res, "ten_year_risk")[0])
			})
		})

		Convey("When the patient is past the ten-year horizon", func() {
			old := raw()
			old[schemas.ReachAge] = 80
			res, err := compute(schemas.SMARTReach, build(schemas.SMARTReach, old))

			Convey("Then ten-year and lifetime risk coincide", func() {
				So(err, ShouldBeNil)
				So(endpoint(res, "ten_year_risk"), ShouldResemble, endpoint(res, "lifetime_risk"))
			})
		})

		Convey("When no location is given", func() {
			none := raw()
			none[schemas.ReachCoronary] = false
			_, err := compute(schemas.SMARTReach, build(schemas.SMARTReach, none))

			Convey("Then the combination is rejected", func() {
				So(errors.Is(err, scoring.ErrInvalidCombination), ShouldBeTrue)
			})
		})
	})
}

func TestCHARGEAF(t *testing.T) {
	Convey("Given a CHARGE-AF patient", t, func() {
		raw := validation.RawInputs{
			schemas.ChargeAge:         65,
			schemas.ChargeWhite:       true,
			schemas.ChargeHeight:      170,
			schemas.ChargeWeight:      80,
			schemas.ChargeSystolicBP:  130,
			schemas.ChargeDiastolicBP: 80,
		}

		Convey("When the score is computed", func() {
			res, err := compute(schemas.CHARGEAF, build(schemas.CHARGEAF, raw))

			Convey("Then the five-year risk follows the simple model", func() {
				So(err, ShouldBeNil)
				So(endpoint(res, "five_year_af_risk")[0], ShouldAlmostEqual, 2.2870, 0.001)
			})
		})

		Convey("When heart failure is present", func() {
			base, _ := compute(schemas.CHARGEAF, build(schemas.CHARGEAF, raw))
			raw[schemas.ChargeHeartFailure] = true
			res, err := compute(schemas.CHARGEAF, build(schemas.CHARGEAF, raw))

			Convey("Then the risk roughly doubles", func() {
				So(err, ShouldBeNil)
				ratio := endpoint(res, "five_year_af_risk")[0] / endpoint(base, "five_year_af_risk")[0]
				So(ratio, ShouldBeBetween, 1.9, 2.1)
			})
		})
	})
}

func abcReference(id string) validation.RawInputs {
	raw := validation.RawInputs{
		schemas.ABCAge:       70,
		schemas.ABCTroponinT: 11,
	}
	schema := schemas.MustGet(id)
	for name, v := range map[string]any{
		schemas.ABCNTproBNP:   800,
		schemas.ABCGDF15:      1400,
		schemas.ABCHemoglobin: 14,
	} {
		if _, ok := schema.Field(name); ok {
			raw[name] = v
		}
	}
	return raw
}

func TestABCAF(t *testing.T) {
	Convey("Given the ABC-AF reference profile", t, func() {
		Convey("When the stroke score is computed on a DOAC", func() {
			raw := abcReference(schemas.ABCAFStroke)
			raw[schemas.ABCDOAC] = true
			res, err := compute(schemas.ABCAFStroke, build(schemas.ABCAFStroke, raw))

			Convey("Then the risk equals the DOAC baseline", func() {
				So(err, ShouldBeNil)
				So(endpoint(res, "one_year_stroke_risk")[0], ShouldAlmostEqual, 1.14, 1e-9)
			})
		})

		Convey("When the stroke score is computed on aspirin", func() {
			raw := abcReference(schemas.ABCAFStroke)
			raw[schemas.ABCAspirin] = true
			res, err := compute(schemas.ABCAFStroke, build(schemas.ABCAFStroke, raw))

			Convey("Then the risk equals the aspirin baseline", func() {
				So(err, ShouldBeNil)
				So(endpoint(res, "one_year_stroke_risk")[0], ShouldAlmostEqual, 2.90, 1e-9)
			})
		})

		Convey("When the bleeding score is computed on a DOAC", func() {
			raw := abcReference(schemas.ABCAFBleeding)
			raw[schemas.ABCDOAC] = true
			res, err := compute(schemas.ABCAFBleeding, build(schemas.ABCAFBleeding, raw))

			Convey("Then the risk equals the DOAC baseline", func() {
				So(err, ShouldBeNil)
				So(endpoint(res, "one_year_bleeding_risk")[0], ShouldAlmostEqual, 2.05, 1e-9)
			})
		})

		Convey("When the death score is computed", func() {
			res, err := compute(schemas.ABCAFDeath, build(schemas.ABCAFDeath, abcReference(schemas.ABCAFDeath)))

			Convey("Then the risk equals the baseline", func() {
				So(err, ShouldBeNil)
				So(endpoint(res, "one_year_death_risk")[0], ShouldAlmostEqual, 3.0, 1e-9)
			})
		})

		Convey("When both or neither antithrombotic is selected", func() {
			for _, id := range []string{schemas.ABCAFStroke, schemas.ABCAFBleeding} {
				both := abcReference(id)
				both[schemas.ABCDOAC] = true
				both[schemas.ABCAspirin] = true
				_, errBoth := compute(id, build(id, both))
				_, errNone := compute(id, build(id, abcReference(id)))

				So(errors.Is(errBoth, scoring.ErrInvalidCombination), ShouldBeTrue)
				So(errors.Is(errNone, scoring.ErrInvalidCombination), ShouldBeTrue)
			}
		})
	})
}

func barcelonaReference() validation.RawInputs {
	return validation.RawInputs{
		schemas.BCNAge:              70,
		schemas.BCNNYHA:             2,
		schemas.BCNEjectionFraction: 35,
		schemas.BCNSodium:           139,
		schemas.BCNEGFR:             60,
		schemas.BCNHemoglobin:       13,
		schemas.BCNLoopDiureticDose: 40,
		schemas.BCNStatin:           true,
		schemas.BCNACEiARB:          true,
		schemas.BCNBetablockers:     true,
		schemas.BCNHFDuration:       24,
	}
}

func TestBarcelona(t *testing.T) {
	Convey("Given the Barcelona reference patient without biomarkers", t, func() {
		res, err := compute(schemas.BarcelonaHF, build(schemas.BarcelonaHF, barcelonaReference()))

		Convey("Then only the clinical branch is returned", func() {
			So(err, ShouldBeNil)
			So(res.BranchNames(), ShouldResemble, []string{model.BranchWithoutBiomarkers})
		})

		Convey("Then the yearly series reproduce the baseline tables", func() {
			b := model.BranchWithoutBiomarkers
			So(branchEndpoint(res, b, "death"), ShouldResemble, []float64{7.5, 14.4, 20.7, 26.6, 32})
			So(branchEndpoint(res, b, "hosp"), ShouldResemble, []float64{14, 22.5, 29.3, 35, 40})
			So(branchEndpoint(res, b, "hosp_death"), ShouldResemble, []float64{18, 29.4, 38.4, 45.8, 52})
			So(branchEndpoint(res, b, "life_expectancy"), ShouldResemble, []float64{10.2})
		})
	})

	Convey("Given a patient whose survival outlasts the baseline table", t, func() {
		raw := barcelonaReference()
		raw[schemas.BCNAge] = 32
		raw[schemas.BCNNYHA] = 1
		raw[schemas.BCNEjectionFraction] = 78
		raw[schemas.BCNEGFR] = 150
		raw[schemas.BCNHemoglobin] = 18
		raw[schemas.BCNSodium] = 145
		raw[schemas.BCNLoopDiureticDose] = 0
		res, err := compute(schemas.BarcelonaHF, build(schemas.BarcelonaHF, raw))
		So(err, ShouldBeNil)
		b, _ := res.Branch(model.BranchWithoutBiomarkers)
		e, ok := b.Endpoint("life_expectancy")
		So(ok, ShouldBeTrue)

		Convey("Then life expectancy is reported as a lower bound", func() {
			So(e.LowerBound, ShouldBeTrue)
			So(e.Value(), ShouldBeLessThanOrEqualTo, 20)
		})
	})

	Convey("Given a patient whose survival ends within the baseline table", t, func() {
		raw := barcelonaReference()
		raw[schemas.BCNAge] = 90
		raw[schemas.BCNNYHA] = 4
		raw[schemas.BCNEjectionFraction] = 13
		raw[schemas.BCNEGFR] = 10
		raw[schemas.BCNHemoglobin] = 8
		raw[schemas.BCNSodium] = 120
		res, err := compute(schemas.BarcelonaHF, build(schemas.BarcelonaHF, raw))
		So(err, ShouldBeNil)
		b, _ := res.Branch(model.BranchWithoutBiomarkers)
		e, _ := b.Endpoint("life_expectancy")

		Convey("Then life expectancy is an estimate, not a bound", func() {
			So(e.LowerBound, ShouldBeFalse)
			So(e.Value(), ShouldBeLessThan, 5)
		})
	})

	Convey("Given every subset of biomarkers", t, func() {
		values := map[string]float64{
			schemas.BCNNTproBNP: 4000,
			schemas.BCNHsTnT:    40,
			schemas.BCNST2:      60,
		}
		for mask := 0; mask < 8; mask++ {
			raw := barcelonaReference()
			for i, name := range schemas.BCNBiomarkers {
				if mask&(1<<i) != 0 {
					raw[name] = values[name]
				}
			}
			res, err := compute(schemas.BarcelonaHF, build(schemas.BarcelonaHF, raw))
			So(err, ShouldBeNil)

			if mask == 0 {
				So(res.BranchNames(), ShouldResemble, []string{model.BranchWithoutBiomarkers})
				continue
			}
			So(res.BranchNames(), ShouldResemble, []string{model.BranchWithoutBiomarkers, model.BranchWithBiomarkers})

			without := branchEndpoint(res, model.BranchWithoutBiomarkers, "death")
			with := branchEndpoint(res, model.BranchWithBiomarkers, "death")
			So(with, ShouldHaveLength, 5)
			So(with[4], ShouldBeGreaterThan, without[4])
		}
	})

	Convey("Given biomarkers at their reference values", t, func() {
		raw := barcelonaReference()
		raw[schemas.BCNNTproBNP] = 1360
		raw[schemas.BCNHsTnT] = 22
		raw[schemas.BCNST2] = 38
		res, err := compute(schemas.BarcelonaHF, build(schemas.BarcelonaHF, raw))

		Convey("Then both branches agree", func() {
			So(err, ShouldBeNil)
			without, _ := res.Branch(model.BranchWithoutBiomarkers)
			with, _ := res.Branch(model.BranchWithBiomarkers)
			So(with.Endpoints, ShouldResemble, without.Endpoints)
		})
	})

	Convey("Given the lowest accepted inputs", t, func() {
		raw := validation.RawInputs{}
		for _, f := range schemas.MustGet(schemas.BarcelonaHF).Fields() {
			if f.Constraint != nil {
				raw[f.Name] = f.Constraint.Min
			}
		}
		res, err := compute(schemas.BarcelonaHF, build(schemas.BarcelonaHF, raw))

		Convey("Then every value stays a finite percentage", func() {
			So(err, ShouldBeNil)
			for _, e := range res.AllEndpoints() {
				for _, v := range e.Values {
					So(v, ShouldBeGreaterThanOrEqualTo, 0)
					if e.Unit == "%" {
						So(v, ShouldBeLessThanOrEqualTo, 100)
					}
				}
			}
		})
	})

	Convey("Given ACEi/ARB combined with ARNI", t, func() {
		raw := barcelonaReference()
		raw[schemas.BCNARNI] = true
		_, err := compute(schemas.BarcelonaHF, build(schemas.BarcelonaHF, raw))

		Convey("Then the combination is rejected", func() {
			So(errors.Is(err, scoring.ErrInvalidCombination), ShouldBeTrue)
		})
	})

	Convey("Given repeated evaluation", t, func() {
		params := build(schemas.BarcelonaHF, barcelonaReference())
		a, _ := compute(schemas.BarcelonaHF, params)
		b, _ := compute(schemas.BarcelonaHF, params)

		Convey("Then results are identical", func() {
			So(a, ShouldResemble, b)
		})
	})
}
