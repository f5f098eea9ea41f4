package tangle

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/matzehuels/tangle/pkg/errors"
)

// ID is a caller-supplied entity identifier. Strings and numbers are
// accepted; numbers compare numerically and sort before strings.
//
// The zero value is not a valid ID.
type ID struct {
	key     string
	num     float64
	numeric bool
}

// StringID returns an ID for a string key.
func StringID(s string) ID { return ID{key: s} }

// NumberID returns an ID for a numeric key.
func NumberID(f float64) ID { return ID{key: formatNumber(f), num: f, numeric: true} }

// integerID keeps integers exact: the decimal text is the equality key, so
// distinct integers beyond float64 precision stay distinct.
func integerID(i *big.Int) ID {
	f, _ := new(big.Float).SetInt(i).Float64()
	return ID{key: i.String(), num: f, numeric: true}
}

// ParseID converts a property value into an ID. It accepts strings, Go
// integer and float types and json.Number. Empty strings, non-finite
// numbers and every other type are rejected with MALFORMED_PROPERTIES.
func ParseID(v any) (ID, error) {
	switch x := v.(type) {
	case string:
		if x == "" {
			return ID{}, errors.Malformed("", "identifier must not be empty")
		}
		return StringID(x), nil
	case json.Number:
		if i, ok := new(big.Int).SetString(x.String(), 10); ok {
			return integerID(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return StringID(x.String()), nil
		}
		return checkedNumber(f)
	case int:
		return integerID(big.NewInt(int64(x))), nil
	case int8:
		return integerID(big.NewInt(int64(x))), nil
	case int16:
		return integerID(big.NewInt(int64(x))), nil
	case int32:
		return integerID(big.NewInt(int64(x))), nil
	case int64:
		return integerID(big.NewInt(x)), nil
	case uint:
		return integerID(new(big.Int).SetUint64(uint64(x))), nil
	case uint8:
		return integerID(new(big.Int).SetUint64(uint64(x))), nil
	case uint16:
		return integerID(new(big.Int).SetUint64(uint64(x))), nil
	case uint32:
		return integerID(new(big.Int).SetUint64(uint64(x))), nil
	case uint64:
		return integerID(new(big.Int).SetUint64(x)), nil
	case float32:
		return checkedNumber(float64(x))
	case float64:
		return checkedNumber(x)
	case nil:
		return ID{}, errors.Malformed("", "identifier must not be null")
	default:
		return ID{}, errors.Malformed(fmt.Sprint(v), "identifier must be a string or a number, got %T", v)
	}
}

func checkedNumber(f float64) (ID, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ID{}, errors.Malformed("", "identifier must be a finite number")
	}
	return NumberID(f), nil
}

// formatNumber writes integral values as exact integers, matching the key
// integerID produces for the same value.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		i, _ := big.NewFloat(f).Int(nil)
		return i.String()
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// String returns the canonical text form of the ID.
func (id ID) String() string { return id.key }

// IsNumeric reports whether the ID was built from a number.
func (id ID) IsNumeric() bool { return id.numeric }

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id == ID{} }

// Compare orders IDs naturally: numbers by value, then strings
// lexicographically. It returns -1, 0 or +1.
func (id ID) Compare(other ID) int {
	switch {
	case id.numeric && other.numeric:
		switch {
		case id.num < other.num:
			return -1
		case id.num > other.num:
			return 1
		case id.key == other.key:
			return 0
		}
		return compareExact(id.key, other.key)
	case id.numeric:
		return -1
	case other.numeric:
		return 1
	}
	return strings.Compare(id.key, other.key)
}

// compareExact orders two numeric keys that round to the same float64.
// Such keys are always integers.
func compareExact(a, b string) int {
	x, okA := new(big.Int).SetString(a, 10)
	y, okB := new(big.Int).SetString(b, 10)
	if !okA || !okB {
		return strings.Compare(a, b)
	}
	return x.Cmp(y)
}

// bundleKey derives the display id for a parent set: the ids joined by "_".
// ids must already be sorted with Compare. Distinct sets may share a
// display id; see internKey.
func bundleKey(ids []ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.key
	}
	return strings.Join(parts, "_")
}

// quotedBundleKey is the display id used when bundleKey is ambiguous.
// String ids are quoted, numbers stay bare.
func quotedBundleKey(ids []ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		if id.numeric {
			parts[i] = id.key
		} else {
			parts[i] = strconv.Quote(id.key)
		}
	}
	return strings.Join(parts, "_")
}

// internKey identifies a sorted parent set. Every element carries its kind
// and length, so two sets share a key only if they hold the same ids.
func internKey(ids []ID) string {
	var sb strings.Builder
	for _, id := range ids {
		if id.numeric {
			sb.WriteByte('n')
		} else {
			sb.WriteByte('s')
		}
		sb.WriteString(strconv.Itoa(len(id.key)))
		sb.WriteByte(':')
		sb.WriteString(id.key)
	}
	return sb.String()
}
