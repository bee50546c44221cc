package extract

import (
	"testing"
)

func TestNormalizeBytesPlaceholder(t *testing.T) {
	v, ok := Normalize(BytesValue([]byte{0, 0, 0, 0}))
	if !ok {
		t.Fatal("expected a value for null bytes")
	}
	if v != "binary_data_4_bytes" {
		t.Errorf("expected placeholder, got %v", v)
	}
}

func TestNormalizeBytesPrintable(t *testing.T) {
	v, ok := Normalize(BytesValue([]byte("  Canon EOS  ")))
	if !ok {
		t.Fatal("expected a value")
	}
	if v != "Canon EOS" {
		t.Errorf("expected trimmed string, got %q", v)
	}
}

func TestNormalizeBytesInvalidUTF8(t *testing.T) {
	// Invalid sequences drop out; the remaining text survives.
	v, ok := Normalize(BytesValue([]byte{0xFF, 'o', 'k', 0xFE}))
	if !ok {
		t.Fatal("expected a value")
	}
	if v != "ok" {
		t.Errorf("expected %q, got %q", "ok", v)
	}
}

func TestNormalizeRationals(t *testing.T) {
	v, ok := Normalize(RationalValue(
		Rational{Num: 40, Den: 1},
		Rational{Num: 26, Den: 1},
		Rational{Num: 468, Den: 10},
	))
	if !ok {
		t.Fatal("expected a value")
	}
	if v != "40|26|468/10" {
		t.Errorf("expected joined rationals, got %v", v)
	}
}

func TestNormalizeSingleRational(t *testing.T) {
	v, ok := Normalize(RationalValue(Rational{Num: 1, Den: 200}))
	if !ok {
		t.Fatal("expected a value")
	}
	if v != "1/200" {
		t.Errorf("got %v", v)
	}
}

func TestNormalizeSequence(t *testing.T) {
	v, ok := Normalize(SequenceValue(1, 2, 3))
	if !ok {
		t.Fatal("expected a value")
	}
	if v != "1|2|3" {
		t.Errorf("expected pipe-joined sequence, got %v", v)
	}
}

func TestNormalizeEmptyScalarOmitted(t *testing.T) {
	if _, ok := Normalize(ScalarValue("   ")); ok {
		t.Error("whitespace-only scalar should be omitted")
	}
	if _, ok := Normalize(ScalarValue(nil)); ok {
		t.Error("nil scalar should be omitted")
	}
}

func TestNormalizeEmptyCollectionsOmitted(t *testing.T) {
	if _, ok := Normalize(RationalValue()); ok {
		t.Error("empty rational list should be omitted")
	}
	if _, ok := Normalize(SequenceValue()); ok {
		t.Error("empty sequence should be omitted")
	}
}

func TestRationalFloat(t *testing.T) {
	if got := (Rational{Num: 1, Den: 4}).Float(); got != 0.25 {
		t.Errorf("expected 0.25, got %v", got)
	}
	if got := (Rational{Num: 7, Den: 0}).Float(); got != 0 {
		t.Errorf("zero denominator should yield 0, got %v", got)
	}
}
