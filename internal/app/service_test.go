package service_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	service "github.com/okian/cardiorisk/internal/app"
	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/schemas"
	"github.com/okian/cardiorisk/internal/domain/scoring"
	"github.com/okian/cardiorisk/internal/domain/validation"
	"github.com/okian/cardiorisk/pkg/logger"
	"github.com/okian/cardiorisk/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithLevel("error")); err != nil {
		panic(err)
	}
}

// counter returns the value of the series of name whose labels include
// every pair in labels.
func counter(name string, labels map[string]string) float64 {
	families, err := metrics.GetRegistry().Gather()
	So(err, ShouldBeNil)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			have := make(map[string]string)
			for _, lp := range m.GetLabel() {
				have[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if have[k] != v {
					continue series
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func newService() *service.Service {
	svc, err := service.New(
		service.WithWorkerCount(4),
		service.WithTracerProvider(noop.NewTracerProvider()),
	)
	So(err, ShouldBeNil)
	return svc
}

func chadsRaw() validation.RawInputs {
	return validation.RawInputs{
		schemas.CHADSCongestiveHeartFailure: "true",
		schemas.CHADSHypertension:           "false",
		schemas.CHADSAge75:                  "false",
		schemas.CHADSDiabetes:               "false",
		schemas.CHADSStroke:                 "false",
		schemas.CHADSVascularDisease:        "false",
		schemas.CHADSAge65To74:              "false",
		schemas.CHADSFemale:                 "false",
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc, err := service.New()

		Convey("Then it lists the ten scores in order", func() {
			So(err, ShouldBeNil)
			So(svc.ListScores(), ShouldResemble, schemas.IDs())
		})
	})

	Convey("Given a service built on an explicit registry", t, func() {
		reg, err := scoring.NewRegistry()
		So(err, ShouldBeNil)
		svc, err := service.New(
			service.WithRegistry(reg),
			service.WithQueueSize(64),
			service.WithDedupeSize(128),
			service.WithLogger(logger.Get()),
		)

		Convey("Then it should be created successfully", func() {
			So(err, ShouldBeNil)
			So(svc.ListScores(), ShouldHaveLength, 10)
		})
	})
}

func TestService_Schema(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := newService()

		Convey("When a known schema is requested", func() {
			schema, err := svc.Schema(schemas.BarcelonaHF)

			Convey("Then the biomarkers are optional", func() {
				So(err, ShouldBeNil)
				So(schema.ID(), ShouldEqual, schemas.BarcelonaHF)
				So(schema.Optional(), ShouldHaveLength, 3)
			})
		})

		Convey("When an unknown schema is requested", func() {
			_, err := svc.Schema("GRACE")

			Convey("Then ErrUnknownScore is returned", func() {
				So(errors.Is(err, scoring.ErrUnknownScore), ShouldBeTrue)
			})
		})
	})
}

func TestService_Validate(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := newService()
		ctx := context.Background()

		Convey("When valid form input is validated", func() {
			params, err := svc.Validate(ctx, schemas.CHA2DS2VASc, chadsRaw())

			Convey("Then typed parameters come back", func() {
				So(err, ShouldBeNil)
				So(params.Bool(schemas.CHADSCongestiveHeartFailure), ShouldBeTrue)
				So(params, ShouldHaveLength, 8)
			})
		})

		Convey("When several fields are wrong", func() {
			before := counter("cardiorisk_engine_validation_failures_total",
				map[string]string{"score": schemas.CHA2DS2VASc, "kind": "missing"})
			raw := chadsRaw()
			delete(raw, schemas.CHADSDiabetes)
			raw[schemas.CHADSHypertension] = "maybe"
			_, err := svc.Validate(ctx, schemas.CHA2DS2VASc, raw)

			Convey("Then every failure is reported and counted", func() {
				So(errors.Is(err, validation.ErrMissingRequiredField), ShouldBeTrue)
				So(errors.Is(err, validation.ErrInvalidType), ShouldBeTrue)
				So(validation.FieldErrors(err), ShouldHaveLength, 2)
				after := counter("cardiorisk_engine_validation_failures_total",
					map[string]string{"score": schemas.CHA2DS2VASc, "kind": "missing"})
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When a value is checked while typing", func() {
			Convey("Then empty and well-typed input pass", func() {
				So(svc.ValidatePartial(schemas.MAGGIC, "Age (years)", ""), ShouldBeNil)
				So(svc.ValidatePartial(schemas.MAGGIC, "Age (years)", "7"), ShouldBeNil)
			})

			Convey("Then a malformed value fails", func() {
				err := svc.ValidatePartial(schemas.MAGGIC, "Age (years)", "7.5")
				So(errors.Is(err, validation.ErrInvalidType), ShouldBeTrue)
			})

			Convey("Then an unknown score fails", func() {
				err := svc.ValidatePartial("GRACE", "Age", "7")
				So(errors.Is(err, scoring.ErrUnknownScore), ShouldBeTrue)
			})
		})
	})
}

func TestService_Compute(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := newService()
		ctx := context.Background()

		Convey("When CHA2DS2-VASc is evaluated with only heart failure", func() {
			before := counter("cardiorisk_engine_computations_total",
				map[string]string{"score": schemas.CHA2DS2VASc, "outcome": metrics.OutcomeOK})
			res, err := svc.Evaluate(ctx, schemas.CHA2DS2VASc, chadsRaw())

			Convey("Then the published scenario is reproduced", func() {
				So(err, ShouldBeNil)
				So(*res.Points, ShouldEqual, 1)
				So(res.Category, ShouldEqual, model.CategoryModerate)
				risk, ok := res.Endpoint("annual_stroke_risk")
				So(ok, ShouldBeTrue)
				So(risk.Value(), ShouldEqual, 1.3)
			})

			Convey("And the computation is counted", func() {
				after := counter("cardiorisk_engine_computations_total",
					map[string]string{"score": schemas.CHA2DS2VASc, "outcome": metrics.OutcomeOK})
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When a hand-built mapping is out of range", func() {
			params, err := svc.GenerateRandomParameters(schemas.MAGGIC, 1)
			So(err, ShouldBeNil)
			params["NYHA Class"] = model.Int(5)
			_, err = svc.Compute(ctx, schemas.MAGGIC, params)

			Convey("Then it is rejected before the engine runs", func() {
				So(errors.Is(err, validation.ErrOutOfRange), ShouldBeTrue)
			})
		})

		Convey("When both anticoagulant flags are set", func() {
			before := counter("cardiorisk_engine_combination_failures_total",
				map[string]string{"score": schemas.ABCAFStroke})
			params, err := svc.GenerateRandomParameters(schemas.ABCAFStroke, 1)
			So(err, ShouldBeNil)
			params[schemas.ABCDOAC] = model.Bool(true)
			params[schemas.ABCAspirin] = model.Bool(true)
			_, err = svc.Compute(ctx, schemas.ABCAFStroke, params)

			Convey("Then ErrInvalidCombination is returned and counted", func() {
				So(errors.Is(err, scoring.ErrInvalidCombination), ShouldBeTrue)
				var ce *scoring.CombinationError
				So(errors.As(err, &ce), ShouldBeTrue)
				So(ce.Fields, ShouldContain, schemas.ABCDOAC)
				after := counter("cardiorisk_engine_combination_failures_total",
					map[string]string{"score": schemas.ABCAFStroke})
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When an unknown score is computed", func() {
			_, err := svc.Compute(ctx, "GRACE", model.Parameters{})

			Convey("Then ErrUnknownScore is returned", func() {
				So(errors.Is(err, scoring.ErrUnknownScore), ShouldBeTrue)
			})
		})
	})
}

func TestService_GenerateRandomParameters(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := newService()

		Convey("When parameters are generated twice with one seed", func() {
			a, errA := svc.GenerateRandomParameters(schemas.SMART, 42)
			b, errB := svc.GenerateRandomParameters(schemas.SMART, 42)

			Convey("Then they are identical and computable", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
				_, err := svc.Compute(context.Background(), schemas.SMART, a)
				So(err, ShouldBeNil)
			})
		})

		Convey("When an unknown score is requested", func() {
			_, err := svc.GenerateRandomParameters("GRACE", 1)

			Convey("Then ErrUnknownScore is returned", func() {
				So(errors.Is(err, scoring.ErrUnknownScore), ShouldBeTrue)
			})
		})
	})
}
