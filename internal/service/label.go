package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"smsclassifier/internal/domain"
)

var truthyWords = map[string]struct{}{
	"true": {},
	"yes":  {},
}

// CoerceLabel maps a raw classifier output onto SPAM or HAM.
// Numbers equal to 1 are SPAM and every other number is HAM. Strings are
// compared case-insensitively: "spam"/"ham" map directly, digit strings follow
// the numeric rule and "true"/"yes" are SPAM. Anything else is HAM, and
// recognized is false so callers can flag it.
func CoerceLabel(raw domain.RawLabel) (label domain.Label, recognized bool) {
	switch v := raw.(type) {
	case domain.Label:
		return CoerceLabel(string(v))
	case bool:
		if v {
			return domain.LabelSpam, true
		}
		return domain.LabelHam, true
	case string:
		return coerceString(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return domain.LabelHam, false
		}
		return numericLabel(f), true
	}
	if f, ok := toFloat(raw); ok {
		return numericLabel(f), true
	}
	return domain.LabelHam, false
}

func coerceString(s string) (domain.Label, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case string(domain.LabelSpam):
		return domain.LabelSpam, true
	case string(domain.LabelHam):
		return domain.LabelHam, true
	}
	if isDigits(s) {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			// Too large to be 1.
			return domain.LabelHam, true
		}
		return numericLabel(float64(n)), true
	}
	if _, ok := truthyWords[s]; ok {
		return domain.LabelSpam, true
	}
	return domain.LabelHam, false
}

func numericLabel(f float64) domain.Label {
	if f == 1 {
		return domain.LabelSpam
	}
	return domain.LabelHam
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
