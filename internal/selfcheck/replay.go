package selfcheck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/validation"
)

type replayFile struct {
	RunID string       `json:"run_id" yaml:"run_id"`
	Seed  int64        `json:"seed" yaml:"seed"`
	Cases []replayCase `json:"cases" yaml:"cases"`
}

type replayCase struct {
	ID       string         `json:"id" yaml:"id"`
	Score    string         `json:"score" yaml:"score"`
	Seed     int64          `json:"seed" yaml:"seed"`
	Passed   bool           `json:"passed" yaml:"passed"`
	Failures []string       `json:"failures,omitempty" yaml:"failures,omitempty"`
	Params   map[string]any `json:"params" yaml:"params"`
}

type format int

const (
	formatJSON format = iota + 1
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrReplayFormat, path)
}

// WriteReplay stores every case of report with its seed, parameters and
// verdict. The format follows the file extension (.json, .yaml or .yml).
func WriteReplay(path string, report *Report) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	out := replayFile{RunID: report.RunID, Seed: report.Seed, Cases: make([]replayCase, 0, len(report.Verdicts))}
	for _, v := range report.Verdicts {
		params := make(map[string]any, len(v.Case.Params))
		for k, val := range v.Case.Params {
			params[k] = val.Any()
		}
		out.Cases = append(out.Cases, replayCase{
			ID:       v.Case.ID,
			Score:    v.Case.Score,
			Seed:     v.Case.Seed,
			Passed:   v.Passed,
			Failures: v.Failures,
			Params:   params,
		})
	}

	var data []byte
	switch f {
	case formatJSON:
		data, err = json.MarshalIndent(out, "", "  ")
	case formatYAML:
		data, err = yaml.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteReplay, path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // replay files are meant to be shared
		return fmt.Errorf("%w: %s: %w", ErrWriteReplay, path, err)
	}
	return nil
}

// LoadReplay reads a replay file and validates every case against its
// score's schema.
func (r *Runner) LoadReplay(path string) ([]model.Case, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadReplay, err)
	}

	var in replayFile
	switch f {
	case formatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&in)
	case formatYAML:
		err = yaml.Unmarshal(data, &in)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadReplay, path, err)
	}

	cases := make([]model.Case, 0, len(in.Cases))
	for i, rc := range in.Cases {
		eng, err := r.registry.Engine(rc.Score)
		if err != nil {
			return nil, fmt.Errorf("%w: case %d: %w", ErrReadReplay, i, err)
		}
		params, err := validation.Validate(eng.Schema(), validation.RawInputs(rc.Params))
		if err != nil {
			return nil, fmt.Errorf("%w: case %d (%s): %w", ErrReadReplay, i, rc.Score, err)
		}
		cases = append(cases, model.Case{ID: rc.ID, Score: rc.Score, Seed: rc.Seed, Params: params})
	}
	return cases, nil
}
