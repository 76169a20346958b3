package feature

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNonNumeric is returned when a task field holds a value that cannot be
// read as a number.
var ErrNonNumeric = errors.New("feature value is not numeric")

// Vector is one task input row in task field order.
type Vector struct {
	Fields []string
	Values []float64
}

// Shape returns the shape of the vector as a single-row matrix.
func (v Vector) Shape() (rows, cols int) {
	return 1, len(v.Values)
}

// Build projects a loosely typed request onto the task fields. Absent or
// null fields default to 0.0 and are returned in defaulted so the caller
// can report them. Keys outside the task are ignored.
func Build(task Task, input map[string]any) (vec Vector, defaulted []string, err error) {
	fields := task.Fields()
	if fields == nil {
		return Vector{}, nil, fmt.Errorf("unknown task %q", task)
	}

	values := make([]float64, len(fields))
	for i, name := range fields {
		raw, ok := input[name]
		if !ok || raw == nil {
			defaulted = append(defaulted, name)
			continue
		}
		v, err := toFloat(raw)
		if err != nil {
			return Vector{}, nil, fmt.Errorf("field %s: %w", name, err)
		}
		values[i] = v
	}

	return Vector{Fields: fields, Values: values}, defaulted, nil
}

// toFloat reads one field value. Only finite numbers are accepted.
func toFloat(raw any) (float64, error) {
	f, err := parseFloat(raw)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v is not finite", ErrNonNumeric, raw)
	}
	return f, nil
}

func parseFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNonNumeric, v.String())
		}
		return f, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNonNumeric, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNonNumeric, raw)
	}
}
