package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/okian/cardiorisk/internal/domain/validation"
)

// readInputs merges a parameter file and key=value pairs into raw input.
// Pairs override the file.
func readInputs(file string, pairs []string) (validation.RawInputs, error) {
	raw := validation.RawInputs{}
	if file != "" {
		fromFile, err := readParamFile(file)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			raw[k] = v
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q, expected key=value", ErrInvalidParam, pair)
		}
		raw[key] = value
	}
	return raw, nil
}

// readParamFile reads a flat mapping of field names to values. Files ending
// in .json are decoded as JSON, everything else as YAML.
func readParamFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParamFile, err)
	}
	out := map[string]any{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&out)
	} else {
		err = yaml.Unmarshal(data, &out)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParamFile, path, err)
	}
	return out, nil
}

// resolveScore matches arg against the registered ids ignoring case and
// punctuation, so "abc-af-stroke" selects "ABC-AF Stroke". Unmatched input
// is returned as given.
func resolveScore(ids []string, arg string) string {
	want := normalize(arg)
	for _, id := range ids {
		if id == arg || normalize(id) == want {
			return id
		}
	}
	return arg
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
