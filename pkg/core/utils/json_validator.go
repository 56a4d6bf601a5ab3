package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes the usual LLM JSON defects: single quotes, unquoted keys,
// trailing commas, unclosed brackets, markdown fences around the object.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// ParseHJSON converts Human JSON (comments, unquoted keys, optional commas)
// into standard JSON text.
func ParseHJSON(input string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(input), &result); err != nil {
		return "", fmt.Errorf("hjson parse failed: %w", err)
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("hjson remarshal failed: %w", err)
	}
	return string(out), nil
}

// SmartParse decodes model output into schema, trying progressively more
// forgiving strategies: strict JSON, then repair, then Hjson. Returns the
// normalized JSON text that finally decoded.
func SmartParse(input string, schema interface{}) (string, error) {
	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return input, nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return repaired, nil
		}
	}

	if normalized, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(normalized), schema); err == nil {
			return normalized, nil
		}
	}

	return "", fmt.Errorf("all parsing strategies failed")
}
