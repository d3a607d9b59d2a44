package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
)

// Value is a setting parsed according to its declared type. Exactly one of the
// payload fields is meaningful, selected by Type.
type Value struct {
	Type   models.ValueType
	Str    string // string
	Bool   bool   // bool
	Int    int    // int
	Sealed string // encrypted, still in stored form
}

// String renders the value back into its stored form.
func (v Value) String() string {
	switch v.Type {
	case models.ValueTypeBool:
		return strconv.FormatBool(v.Bool)
	case models.ValueTypeInt:
		return strconv.Itoa(v.Int)
	case models.ValueTypeEncrypted:
		return v.Sealed
	default:
		return v.Str
	}
}

type parser func(raw string) (Value, error)

var parsers = map[models.ValueType]parser{
	models.ValueTypeString: func(raw string) (Value, error) {
		return Value{Type: models.ValueTypeString, Str: raw}, nil
	},
	models.ValueTypeBool: func(raw string) (Value, error) {
		switch raw {
		case "true":
			return Value{Type: models.ValueTypeBool, Bool: true}, nil
		case "false":
			return Value{Type: models.ValueTypeBool}, nil
		}
		return Value{}, fmt.Errorf("bool setting must be \"true\" or \"false\", got %q: %w", raw, models.ErrInvalidInput)
	},
	models.ValueTypeInt: func(raw string) (Value, error) {
		n, err := parseInt(raw)
		if err != nil {
			return Value{}, fmt.Errorf("int setting %q: %w", raw, models.ErrInvalidInput)
		}
		return Value{Type: models.ValueTypeInt, Int: n}, nil
	},
	models.ValueTypeEncrypted: func(raw string) (Value, error) {
		return Value{Type: models.ValueTypeEncrypted, Sealed: raw}, nil
	},
}

// Parse validates raw against the declared type.
func Parse(vt models.ValueType, raw string) (Value, error) {
	p, ok := parsers[vt]
	if !ok {
		return Value{}, fmt.Errorf("unknown setting value type %q: %w", vt, models.ErrInvalidInput)
	}
	return p(raw)
}

// parseInt accepts an optionally signed base-10 integer with surrounding
// whitespace. Fractions, hex and trailing text are rejected.
func parseInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}
