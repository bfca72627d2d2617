package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/cardiorisk/internal/adapters/cli"
	"github.com/okian/cardiorisk/internal/config"
	"github.com/okian/cardiorisk/internal/domain/schemas"
	"github.com/okian/cardiorisk/internal/domain/validation"
	"github.com/smartystreets/goconvey/convey"
)

// run executes the command line and returns stdout.
func run(args ...string) (string, error) {
	ctx := context.Background()
	cfg := config.New(ctx)
	cfg.Color = config.ColorNever
	cfg.LogLevel = "error"
	cfg.Workers = 2
	var stdout, stderr bytes.Buffer
	err := cli.Execute(ctx, cfg, args, &stdout, &stderr)
	return stdout.String(), err
}

func chadsPairs() []string {
	return []string{
		"-p", schemas.CHADSCongestiveHeartFailure + "=yes",
		"-p", schemas.CHADSHypertension + "=no",
		"-p", schemas.CHADSAge75 + "=no",
		"-p", schemas.CHADSDiabetes + "=no",
		"-p", schemas.CHADSStroke + "=no",
		"-p", schemas.CHADSVascularDisease + "=no",
		"-p", schemas.CHADSAge65To74 + "=no",
		"-p", schemas.CHADSFemale + "=no",
	}
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	convey.So(os.WriteFile(path, []byte(content), 0o600), convey.ShouldBeNil)
	return path
}

func TestCatalogCommands(t *testing.T) {
	convey.Convey("Given the command line", t, func() {
		convey.Convey("When listing the scores", func() {
			out, err := run("list")

			convey.Convey("Then every score is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				for _, id := range schemas.IDs() {
					convey.So(out, convey.ShouldContainSubstring, id)
				}
			})
		})

		convey.Convey("When showing a schema as JSON with a loose score name", func() {
			out, err := run("schema", "barcelona-bio-hf-v3", "-o", "json")

			convey.Convey("Then the schema document is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				var doc struct {
					ID     string           `json:"id"`
					Fields []map[string]any `json:"fields"`
				}
				convey.So(json.Unmarshal([]byte(out), &doc), convey.ShouldBeNil)
				convey.So(doc.ID, convey.ShouldEqual, schemas.BarcelonaHF)
				convey.So(len(doc.Fields), convey.ShouldEqual, schemas.MustGet(schemas.BarcelonaHF).Len())
			})
		})

		convey.Convey("When showing an unknown schema", func() {
			_, err := run("schema", "grace")

			convey.Convey("Then the unknown score is reported", func() {
				convey.So(errors.Is(err, schemas.ErrUnknownScore), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When printing the version", func() {
			out, err := run("version")

			convey.Convey("Then the build version is shown", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldStartWith, "cardiorisk dev")
			})
		})

		convey.Convey("When the output format is unknown", func() {
			_, err := run("list", "-o", "xml")

			convey.Convey("Then the configuration is rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestComputeCommands(t *testing.T) {
	convey.Convey("Given the command line", t, func() {
		convey.Convey("When computing CHA2DS2-VASc from flags", func() {
			out, err := run(append([]string{"compute", "cha2ds2-vasc"}, chadsPairs()...)...)

			convey.Convey("Then the text result is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Points: 1")
				convey.So(out, convey.ShouldContainSubstring, "Category: Moderate")
				convey.So(out, convey.ShouldContainSubstring, "1.30")
			})
		})

		convey.Convey("When a required parameter is missing", func() {
			args := append([]string{"compute", "CHA2DS2-VASc"}, chadsPairs()[2:]...)
			_, err := run(args...)

			convey.Convey("Then the validation error is returned", func() {
				convey.So(errors.Is(err, validation.ErrMissingRequiredField), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a parameter is not key=value", func() {
			_, err := run("compute", "maggic", "-p", "Age")

			convey.Convey("Then ErrInvalidParam is returned", func() {
				convey.So(errors.Is(err, cli.ErrInvalidParam), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When validating a YAML parameter file with an override", func() {
			path := writeFile(t, "abc.yaml", strings.Join([]string{
				"Age: 70",
				"Troponin T in ng/L: 11",
				"NT-proBNP in ng/L: 800",
				"GDF-15 in ng/L: 1400",
				"Heart Failure: false",
			}, "\n"))
			out, err := run("validate", "abc-af-death", "-f", path, "-p", "Age=81", "-o", "json")

			convey.Convey("Then the typed parameters reflect the override", func() {
				convey.So(err, convey.ShouldBeNil)
				var got map[string]any
				convey.So(json.Unmarshal([]byte(out), &got), convey.ShouldBeNil)
				convey.So(got["Age"], convey.ShouldEqual, 81.0)
				convey.So(got["Heart Failure"], convey.ShouldEqual, false)
			})
		})

		convey.Convey("When the parameter file is missing", func() {
			_, err := run("compute", "maggic", "-f", filepath.Join(t.TempDir(), "none.yaml"))

			convey.Convey("Then ErrParamFile is returned", func() {
				convey.So(errors.Is(err, cli.ErrParamFile), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When every score is computed from one JSON profile", func() {
			path := writeFile(t, "profile.json", `{"Age": 70, "Troponin T in ng/L": 11, "NT-proBNP in ng/L": 800, "GDF-15 in ng/L": 1400, "Heart Failure": false}`)
			out, err := run("all", "-f", path, "-o", "json")

			convey.Convey("Then each score reports a result or an error", func() {
				convey.So(err, convey.ShouldBeNil)
				var got []map[string]any
				convey.So(json.Unmarshal([]byte(out), &got), convey.ShouldBeNil)
				convey.So(got, convey.ShouldHaveLength, 10)
				death := got[len(got)-1]
				convey.So(death["score"], convey.ShouldEqual, schemas.ABCAFDeath)
				convey.So(death["result"], convey.ShouldNotBeNil)
				convey.So(got[0]["error"], convey.ShouldNotBeEmpty)
			})
		})
	})
}

func TestGenerateAndCheckCommands(t *testing.T) {
	convey.Convey("Given the command line", t, func() {
		convey.Convey("When generating twice with one seed", func() {
			a, errA := run("generate", "smart", "--seed", "5", "-o", "json")
			b, errB := run("generate", "smart", "--seed", "5", "-o", "json")

			convey.Convey("Then the output is identical", func() {
				convey.So(errA, convey.ShouldBeNil)
				convey.So(errB, convey.ShouldBeNil)
				convey.So(a, convey.ShouldEqual, b)
			})
		})

		convey.Convey("When generating and computing", func() {
			out, err := run("generate", "maggic", "--seed", "8", "--compute")

			convey.Convey("Then a result is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "one_year_mortality")
			})
		})

		convey.Convey("When a check run writes a replay file and metrics", func() {
			dir := t.TempDir()
			replay := filepath.Join(dir, "cases.json")
			metricsFile := filepath.Join(dir, "metrics.prom")
			out, err := run("check", "--cases", "3", "--seed", "9", "--out", replay, "--metrics-file", metricsFile)

			convey.Convey("Then the run passes and both files exist", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "seed 9")
				convey.So(out, convey.ShouldContainSubstring, "0 failed")
				_, statErr := os.Stat(replay)
				convey.So(statErr, convey.ShouldBeNil)
				prom, readErr := os.ReadFile(metricsFile)
				convey.So(readErr, convey.ShouldBeNil)
				convey.So(string(prom), convey.ShouldContainSubstring, "cardiorisk_engine_selfcheck_cases_total")
			})

			convey.Convey("And the replay file verifies again", func() {
				_, err := run("check", "--replay", replay, "-o", "yaml")
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a check is restricted to one score", func() {
			out, err := run("check", "--cases", "2", "--seed", "1", "--score", "abc-af-bleeding", "-o", "json")

			convey.Convey("Then only that score is summarised", func() {
				convey.So(err, convey.ShouldBeNil)
				var got struct {
					Scores []struct {
						Score string `json:"score"`
					} `json:"scores"`
				}
				convey.So(json.Unmarshal([]byte(out), &got), convey.ShouldBeNil)
				convey.So(got.Scores, convey.ShouldHaveLength, 1)
				convey.So(got.Scores[0].Score, convey.ShouldEqual, schemas.ABCAFBleeding)
			})
		})
	})
}
