// Package schemas declares the input schema of every supported score.
//
// Schemas are built once at package init and never mutated. Field names are
// the stable keys of the parameter mapping exchanged with callers.
package schemas

import (
	"fmt"

	"github.com/okian/cardiorisk/internal/domain/types"
)

// Score identifiers in presentation order.
const (
	CHA2DS2VASc   = "CHA2DS2-VASc"
	HASBLED       = "HAS-BLED"
	SMART         = "SMART"
	SMARTReach    = "SMARTReach"
	CHARGEAF      = "CHARGE-AF"
	MAGGIC        = "MAGGIC"
	BarcelonaHF   = "BARCELONA Bio-HF V3"
	ABCAFStroke   = "ABC-AF Stroke"
	ABCAFBleeding = "ABC-AF Bleeding"
	ABCAFDeath    = "ABC-AF Death"
)

var order = []string{
	CHA2DS2VASc,
	HASBLED,
	SMART,
	SMARTReach,
	CHARGEAF,
	MAGGIC,
	BarcelonaHF,
	ABCAFStroke,
	ABCAFBleeding,
	ABCAFDeath,
}

var registry = map[string]types.Schema{
	CHA2DS2VASc:   cha2ds2vasc,
	HASBLED:       hasbled,
	SMART:         smart,
	SMARTReach:    smartReach,
	CHARGEAF:      chargeAF,
	MAGGIC:        maggic,
	BarcelonaHF:   barcelona,
	ABCAFStroke:   abcStroke,
	ABCAFBleeding: abcBleeding,
	ABCAFDeath:    abcDeath,
}

// IDs returns the score identifiers in presentation order.
func IDs() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Get returns the schema registered under id.
func Get(id string) (types.Schema, error) {
	s, ok := registry[id]
	if !ok {
		return types.Schema{}, fmt.Errorf("%w: %q", ErrUnknownScore, id)
	}
	return s, nil
}

// MustGet is Get for identifiers known at compile time.
func MustGet(id string) types.Schema {
	s, err := Get(id)
	if err != nil {
		panic(err)
	}
	return s
}

// All returns every schema in presentation order.
func All() []types.Schema {
	out := make([]types.Schema, 0, len(order))
	for _, id := range order {
		out = append(out, registry[id])
	}
	return out
}
