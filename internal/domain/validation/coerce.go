package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/types"
)

// blank reports whether raw counts as "not supplied".
func blank(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

// coerce converts a raw form or file value into the field's kind.
func coerce(f types.Field, raw any) (model.Value, error) {
	if n, ok := raw.(json.Number); ok {
		raw = n.String()
	}
	switch f.Kind {
	case types.KindInt:
		return coerceInt(f, raw)
	case types.KindFloat:
		return coerceFloat(f, raw)
	case types.KindBool:
		return coerceBool(f, raw)
	}
	return model.Value{}, &TypeError{Field: f.Name, Kind: f.Kind, Raw: raw}
}

func coerceInt(f types.Field, raw any) (model.Value, error) {
	bad := &TypeError{Field: f.Name, Kind: f.Kind, Raw: raw}
	switch v := raw.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return model.Value{}, bad
		}
		return model.Int(n), nil
	case int:
		return model.Int(int64(v)), nil
	case int32:
		return model.Int(int64(v)), nil
	case int64:
		return model.Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return model.Value{}, bad
		}
		return model.Int(int64(v)), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > 1<<53 {
			return model.Value{}, bad
		}
		return model.Int(int64(v)), nil
	}
	return model.Value{}, bad
}

func coerceFloat(f types.Field, raw any) (model.Value, error) {
	bad := &TypeError{Field: f.Name, Kind: f.Kind, Raw: raw}
	var x float64
	switch v := raw.(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return model.Value{}, bad
		}
		x = parsed
	case float64:
		x = v
	case float32:
		x = float64(v)
	case int:
		x = float64(v)
	case int32:
		x = float64(v)
	case int64:
		x = float64(v)
	case uint64:
		x = float64(v)
	default:
		return model.Value{}, bad
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return model.Value{}, bad
	}
	return model.Float(x), nil
}

func coerceBool(f types.Field, raw any) (model.Value, error) {
	switch v := raw.(type) {
	case bool:
		return model.Bool(v), nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "t", "1", "yes", "y":
			return model.Bool(true), nil
		case "false", "f", "0", "no", "n":
			return model.Bool(false), nil
		}
	}
	return model.Value{}, &TypeError{Field: f.Name, Kind: f.Kind, Raw: raw}
}
