package ethplorer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// jsonNumber accepts a JSON number, a numeric string, or anything else
// (treated as absent). Ethplorer mixes all three for the same field.
type jsonNumber struct {
	Value *float64
}

func (n *jsonNumber) UnmarshalJSON(data []byte) error {
	n.Value = nil

	var asFloat float64
	if err := json.Unmarshal(data, &asFloat); err == nil {
		if !math.IsNaN(asFloat) && !math.IsInf(asFloat, 0) {
			n.Value = &asFloat
		}
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		trimmed := strings.TrimSpace(asString)
		if trimmed == "" {
			return nil
		}
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			n.Value = &parsed
		}
		return nil
	}

	// Unexpected shape (bool, object, array): absent, not a fault.
	return nil
}

// jsonString accepts a JSON string or number and normalizes it to a trimmed
// string; anything else is treated as absent. FromNumber records which shape
// the indexer sent, since callers treat numbers more leniently than strings.
type jsonString struct {
	Value      *string
	FromNumber bool
}

func (s *jsonString) UnmarshalJSON(data []byte) error {
	s.Value = nil
	s.FromNumber = false

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		trimmed := strings.TrimSpace(asString)
		if trimmed != "" {
			s.Value = &trimmed
		}
		return nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err == nil {
		value := asNumber.String()
		s.Value = &value
		s.FromNumber = true
		return nil
	}

	return nil
}
