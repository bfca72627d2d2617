package types_test

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"

	types "github.com/okian/cardiorisk/internal/domain/types"
)

func TestConstraint(t *testing.T) {
	Convey("Given a constraint [32, 90]", t, func() {
		c := types.NewConstraint(32, 90)

		Convey("Then the bounds are inclusive", func() {
			So(c.Contains(32), ShouldBeTrue)
			So(c.Contains(90), ShouldBeTrue)
			So(c.Contains(31), ShouldBeFalse)
			So(c.Contains(91), ShouldBeFalse)
			So(c.String(), ShouldEqual, "[32, 90]")
		})

		Convey("When the interval is inverted", func() {
			Convey("Then construction panics", func() {
				So(func() { types.NewConstraint(2, 1) }, ShouldPanic)
			})
		})
	})
}

func TestSchema(t *testing.T) {
	Convey("Given a schema with required and optional fields", t, func() {
		s := types.NewSchema("demo",
			types.Int("Age", "age", 18, 100),
			types.Bool("Smoker", "smoker"),
			types.Float("Marker", "marker", 1, 10).Optional().WithUnit("ng/L"),
		)

		Convey("Then order and lookups are preserved", func() {
			So(s.ID(), ShouldEqual, "demo")
			So(s.Len(), ShouldEqual, 3)
			So(s.Names(), ShouldResemble, []string{"Age", "Smoker", "Marker"})
			So(len(s.Required()), ShouldEqual, 2)
			So(len(s.Optional()), ShouldEqual, 1)

			f, ok := s.Field("Marker")
			So(ok, ShouldBeTrue)
			So(f.Kind, ShouldEqual, types.KindFloat)
			So(f.Unit, ShouldEqual, "ng/L")
			So(f.Required, ShouldBeFalse)

			_, ok = s.Field("Unknown")
			So(ok, ShouldBeFalse)
		})

		Convey("When the returned field slice is modified", func() {
			fields := s.Fields()
			fields[0].Name = "changed"
			fields[0].Constraint.Min = -1

			Convey("Then the schema is unaffected", func() {
				f, ok := s.Field("Age")
				So(ok, ShouldBeTrue)
				So(f.Name, ShouldEqual, "Age")
				So(f.Constraint.Min, ShouldEqual, 18)
			})
		})

		Convey("When marshalled to JSON", func() {
			raw, err := json.Marshal(s)
			So(err, ShouldBeNil)

			var doc map[string]any
			So(json.Unmarshal(raw, &doc), ShouldBeNil)

			Convey("Then kinds are rendered by name", func() {
				So(doc["id"], ShouldEqual, "demo")
				fields := doc["fields"].([]any)
				So(fields[1].(map[string]any)["type"], ShouldEqual, "bool")
			})

			Convey("And YAML lists the same fields in the same order", func() {
				out, err := yaml.Marshal(s)
				So(err, ShouldBeNil)
				var ydoc map[string]any
				So(yaml.Unmarshal(out, &ydoc), ShouldBeNil)

				jsonFields := doc["fields"].([]any)
				yamlFields := ydoc["fields"].([]any)
				So(yamlFields, ShouldHaveLength, len(jsonFields))
				for i := range jsonFields {
					So(yamlFields[i].(map[string]any)["name"], ShouldEqual, jsonFields[i].(map[string]any)["name"])
				}
			})
		})
	})

	Convey("Given duplicate field names", t, func() {
		Convey("Then schema construction panics", func() {
			So(func() {
				types.NewSchema("dup", types.Bool("A", "a"), types.Bool("A", "b"))
			}, ShouldPanic)
			So(func() {
				types.NewSchema("dup", types.Bool("A", "a"), types.Bool("B", "a"))
			}, ShouldPanic)
		})
	})
}
