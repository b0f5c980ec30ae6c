package iem

import (
	"encoding/json"
	"fmt"
	"strings"
)

// flexibleString converts a raw JSON value to a string. The portal reports
// batch job ids inconsistently, sometimes as a string and sometimes as a
// number.
func flexibleString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return fmt.Sprintf("%d", int64(numVal))
		}
		return fmt.Sprintf("%g", numVal)
	}

	return strings.TrimSpace(string(raw))
}
