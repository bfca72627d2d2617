package validation_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
	"github.com/okian/cardiorisk/internal/domain/types"
	"github.com/okian/cardiorisk/internal/domain/validation"
	. "github.com/smartystreets/goconvey/convey"
)

// validRaw fills every field of s with an in-range string value.
func validRaw(s types.Schema) validation.RawInputs {
	raw := validation.RawInputs{}
	for _, f := range s.Fields() {
		switch f.Kind {
		case types.KindBool:
			raw[f.Name] = "false"
		case types.KindInt:
			raw[f.Name] = strconv.FormatInt(int64(f.Constraint.Min), 10)
		case types.KindFloat:
			raw[f.Name] = strconv.FormatFloat(f.Constraint.Min, 'g', -1, 64)
		}
	}
	return raw
}

func format(f types.Field, x float64) string {
	if f.Kind == types.KindInt {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

func TestValidate(t *testing.T) {
	Convey("Given the CHA2DS2-VASc schema", t, func() {
		s := schemas.MustGet(schemas.CHA2DS2VASc)

		Convey("When every field is supplied", func() {
			raw := validRaw(s)
			raw[schemas.CHADSCongestiveHeartFailure] = true
			raw["Not a field"] = "ignored"

			params, err := validation.Validate(s, raw)

			Convey("Then values are coerced and unknown keys ignored", func() {
				So(err, ShouldBeNil)
				So(len(params), ShouldEqual, 8)
				So(params.Bool(schemas.CHADSCongestiveHeartFailure), ShouldBeTrue)
				So(params.Has("Not a field"), ShouldBeFalse)
			})
		})

		Convey("When two fields are missing and one is blank", func() {
			raw := validRaw(s)
			delete(raw, schemas.CHADSHypertension)
			delete(raw, schemas.CHADSFemale)
			raw[schemas.CHADSDiabetes] = "   "

			_, err := validation.Validate(s, raw)

			Convey("Then all three are reported in schema order", func() {
				So(errors.Is(err, validation.ErrMissingRequiredField), ShouldBeTrue)
				fieldErrs := validation.FieldErrors(err)
				So(len(fieldErrs), ShouldEqual, 3)

				var missing *validation.MissingFieldError
				So(errors.As(fieldErrs[0], &missing), ShouldBeTrue)
				So(missing.Field, ShouldEqual, schemas.CHADSHypertension)
				So(errors.As(fieldErrs[1], &missing), ShouldBeTrue)
				So(missing.Field, ShouldEqual, schemas.CHADSDiabetes)
				So(errors.As(fieldErrs[2], &missing), ShouldBeTrue)
				So(missing.Field, ShouldEqual, schemas.CHADSFemale)
			})
		})

		Convey("When a boolean is not parseable", func() {
			raw := validRaw(s)
			raw[schemas.CHADSDiabetes] = "maybe"

			_, err := validation.Validate(s, raw)

			Convey("Then InvalidType names the field and raw value", func() {
				var typeErr *validation.TypeError
				So(errors.As(err, &typeErr), ShouldBeTrue)
				So(typeErr.Field, ShouldEqual, schemas.CHADSDiabetes)
				So(typeErr.Raw, ShouldEqual, "maybe")
			})
		})
	})

	Convey("Given the SMART schema", t, func() {
		s := schemas.MustGet(schemas.SMART)

		Convey("When numeric fields carry malformed values", func() {
			raw := validRaw(s)
			raw[schemas.SMARTAge] = "70.5"
			raw[schemas.SMARTHDL] = "NaN"
			raw[schemas.SMARTCRP] = true

			_, err := validation.Validate(s, raw)

			Convey("Then each is an InvalidType", func() {
				fieldErrs := validation.FieldErrors(err)
				So(len(fieldErrs), ShouldEqual, 3)
				for _, fe := range fieldErrs {
					So(errors.Is(fe, validation.ErrInvalidType), ShouldBeTrue)
				}
			})
		})

		Convey("When native numbers from a parameter file are supplied", func() {
			raw := validRaw(s)
			raw[schemas.SMARTAge] = 65.0
			raw[schemas.SMARTHDL] = 1
			raw[schemas.SMARTMale] = true

			params, err := validation.Validate(s, raw)

			Convey("Then lossless conversions are accepted", func() {
				So(err, ShouldBeNil)
				age, _ := params.Int(schemas.SMARTAge)
				So(age, ShouldEqual, 65)
				hdl, _ := params.Float(schemas.SMARTHDL)
				So(hdl, ShouldEqual, 1.0)
				So(params[schemas.SMARTHDL].Kind(), ShouldEqual, types.KindFloat)
			})
		})
	})
}

func TestRangeBoundaries(t *testing.T) {
	Convey("Given every constrained field of every schema", t, func() {
		for _, s := range schemas.All() {
			for _, f := range s.Fields() {
				if f.Constraint == nil {
					continue
				}
				c := *f.Constraint

				for _, x := range []float64{c.Min, c.Max} {
					raw := validRaw(s)
					raw[f.Name] = format(f, x)
					_, err := validation.Validate(s, raw)
					So(err, ShouldBeNil)
				}

				for _, x := range []float64{c.Min - 1, c.Max + 1} {
					raw := validRaw(s)
					raw[f.Name] = format(f, x)
					_, err := validation.Validate(s, raw)

					var rangeErr *validation.RangeError
					So(errors.As(err, &rangeErr), ShouldBeTrue)
					So(rangeErr.Field, ShouldEqual, f.Name)
					So(rangeErr.Min, ShouldEqual, c.Min)
					So(rangeErr.Max, ShouldEqual, c.Max)
				}
			}
		}
	})
}

func TestRequiredAndOptional(t *testing.T) {
	Convey("Given every schema", t, func() {
		for _, s := range schemas.All() {
			for _, f := range s.Fields() {
				raw := validRaw(s)
				delete(raw, f.Name)
				_, err := validation.Validate(s, raw)

				if f.Required {
					So(errors.Is(err, validation.ErrMissingRequiredField), ShouldBeTrue)
				} else {
					So(err, ShouldBeNil)
				}
			}
		}
	})
}

func TestValidatePartial(t *testing.T) {
	Convey("Given the survival schema in relaxed mode", t, func() {
		s := schemas.MustGet(schemas.BarcelonaHF)

		Convey("Then empty input is always accepted", func() {
			So(validation.ValidatePartial(s, schemas.BCNAge, ""), ShouldBeNil)
			So(validation.ValidatePartial(s, schemas.BCNFemale, "  "), ShouldBeNil)
		})

		Convey("Then out of range values are not rejected while typing", func() {
			So(validation.ValidatePartial(s, schemas.BCNAge, "1"), ShouldBeNil)
			So(validation.ValidatePartial(s, schemas.BCNHemoglobin, "99.5"), ShouldBeNil)
		})

		Convey("Then malformed values are rejected", func() {
			err := validation.ValidatePartial(s, schemas.BCNAge, "4x")
			So(errors.Is(err, validation.ErrInvalidType), ShouldBeTrue)
		})

		Convey("Then unknown fields are reported", func() {
			err := validation.ValidatePartial(s, "Height", "1")
			So(errors.Is(err, validation.ErrUnknownField), ShouldBeTrue)
		})
	})
}

func TestCheck(t *testing.T) {
	Convey("Given a typed mapping for SMART", t, func() {
		s := schemas.MustGet(schemas.SMART)
		params, err := validation.Validate(s, validRaw(s))
		So(err, ShouldBeNil)

		Convey("Then a conforming mapping passes", func() {
			So(validation.Check(s, params), ShouldBeNil)
		})

		Convey("When the mapping has an extra key and a wrong kind", func() {
			bad := params.Clone()
			bad["Extra"] = params[schemas.SMARTMale]
			bad[schemas.SMARTAge] = params[schemas.SMARTHDL]

			err := validation.Check(s, bad)

			Convey("Then both are reported", func() {
				So(errors.Is(err, validation.ErrUnknownField), ShouldBeTrue)
				So(errors.Is(err, validation.ErrInvalidType), ShouldBeTrue)
			})
		})

		Convey("When a value is out of range and another is missing", func() {
			bad := params.Clone()
			bad[schemas.SMARTCRP] = model.Float(20)
			delete(bad, schemas.SMARTEGFR)

			err := validation.Check(s, bad)

			Convey("Then both are reported", func() {
				So(errors.Is(err, validation.ErrOutOfRange), ShouldBeTrue)
				So(errors.Is(err, validation.ErrMissingRequiredField), ShouldBeTrue)
			})
		})
	})
}
