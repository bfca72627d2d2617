package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/cardiorisk/internal/domain/schemas"
)

// Sentinel error kinds for score computation.
var (
	ErrInvalidCombination = errors.New("invalid combination")
	ErrUnknownScore       = schemas.ErrUnknownScore
	ErrRuleEvaluation     = errors.New("rule evaluation failed")
)

// CombinationError reports individually valid fields whose combination is
// clinically inconsistent.
type CombinationError struct {
	Score   string
	Rule    string
	Fields  []string
	Message string
}

func (e *CombinationError) Error() string {
	return fmt.Sprintf("%s: %s: %s (%s)", ErrInvalidCombination, e.Score, e.Message, strings.Join(e.Fields, ", "))
}

func (e *CombinationError) Unwrap() error { return ErrInvalidCombination }
