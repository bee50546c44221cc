package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// RawKind identifies the shape a tag reader handed back before normalization.
type RawKind int

const (
	RawBytes RawKind = iota
	RawScalar
	RawRational
	RawSequence
)

// Rational is a numerator/denominator pair as stored in EXIF tags.
type Rational struct {
	Num int64
	Den int64
}

// RawValue is the tagged union of value shapes produced by the extraction
// passes. It is built at the ingestion boundary and consumed immediately by
// Normalize; it is never retained.
type RawValue struct {
	Kind      RawKind
	Bytes     []byte
	Scalar    interface{}
	Rationals []Rational
	Seq       []interface{}
}

func BytesValue(b []byte) RawValue {
	return RawValue{Kind: RawBytes, Bytes: b}
}

func ScalarValue(v interface{}) RawValue {
	return RawValue{Kind: RawScalar, Scalar: v}
}

func RationalValue(rats ...Rational) RawValue {
	return RawValue{Kind: RawRational, Rationals: rats}
}

func SequenceValue(items ...interface{}) RawValue {
	return RawValue{Kind: RawSequence, Seq: items}
}

// Normalize converts a raw tag value into its canonical representation.
// The second return is false when the value should be omitted entirely.
// Normalize never panics; an unexpected failure yields a descriptive
// error string instead.
func Normalize(raw RawValue) (out interface{}, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("value_error_%v", r)
			ok = true
		}
	}()

	switch raw.Kind {
	case RawBytes:
		return normalizeBytes(raw.Bytes)
	case RawRational:
		if len(raw.Rationals) == 0 {
			return nil, false
		}
		parts := make([]string, len(raw.Rationals))
		for i, rat := range raw.Rationals {
			parts[i] = rat.String()
		}
		return strings.Join(parts, "|"), true
	case RawSequence:
		if len(raw.Seq) == 0 {
			return nil, false
		}
		parts := make([]string, len(raw.Seq))
		for i, item := range raw.Seq {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, "|"), true
	default:
		if raw.Scalar == nil {
			return nil, false
		}
		s := strings.TrimSpace(fmt.Sprint(raw.Scalar))
		if s == "" {
			return nil, false
		}
		return s, true
	}
}

func (r Rational) String() string {
	if r.Den == 1 {
		return strconv.FormatInt(r.Num, 10)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Float returns the rational as a float64, 0 when the denominator is zero.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// normalizeBytes decodes permissively; a payload that decodes to nothing but
// nulls and spaces becomes a placeholder that records the original length.
func normalizeBytes(b []byte) (interface{}, bool) {
	decoded := strings.ToValidUTF8(string(b), "")
	trimmed := strings.TrimSpace(decoded)
	if trimmed == "" || onlyNullsAndSpaces(trimmed) {
		return fmt.Sprintf("binary_data_%d_bytes", len(b)), true
	}
	return trimmed, true
}

func onlyNullsAndSpaces(s string) bool {
	for _, c := range s {
		if c != 0 && c != ' ' {
			return false
		}
	}
	return true
}
