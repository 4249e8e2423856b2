package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseID accepts a positive base-10 integer as sent in paths and query strings.
func ParseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// looseNumber unwraps a JSON number or a JSON string holding one. HTML form
// inputs hand their values over as strings even for type="number". null and ""
// come back as the empty string.
func looseNumber(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return "", true
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	return string(b), true
}

// LooseID decodes an identifier sent either as a JSON number or as a numeric
// string, which is what HTML select values end up as. null and "" decode to 0
// so the store reports the field as missing.
type LooseID int64

func (id *LooseID) UnmarshalJSON(b []byte) error {
	raw, ok := looseNumber(b)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidID, b)
	}
	if raw == "" {
		*id = 0
		return nil
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*id = LooseID(n)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return fmt.Errorf("%w: %s", ErrInvalidID, raw)
	}
	*id = LooseID(f)
	return nil
}

// LoosePrice is a price sent as a JSON number or a numeric string. It is
// written back as a plain number. null and "" decode to 0 so the required
// check still flags the field.
type LoosePrice float64

func (p *LoosePrice) UnmarshalJSON(b []byte) error {
	raw, ok := looseNumber(b)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, b)
	}
	if raw == "" {
		*p = 0
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, raw)
	}
	*p = LoosePrice(f)
	return nil
}
