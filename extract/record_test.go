package extract

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRecordInsertionOrder(t *testing.T) {
	r := NewRecord()
	r.Set("b", 1)
	r.Set("a", 2)
	r.Set("c", 3)

	want := []string{"b", "a", "c"}
	if got := r.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRecordRepeatedKeyKeepsPosition(t *testing.T) {
	r := NewRecord()
	r.Set("a", 1)
	r.Set("b", 2)
	r.Set("a", 3)

	want := []string{"a", "b"}
	if got := r.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if v, _ := r.Get("a"); v != 3 {
		t.Errorf("expected updated value 3, got %v", v)
	}
}

func TestRecordCopyIsIndependent(t *testing.T) {
	r := NewRecord()
	r.Set("a", 1)

	c := r.Copy()
	c.Set("b", 2)
	c.Set("a", 99)

	if r.Has("b") {
		t.Error("copy mutation leaked into original")
	}
	if v, _ := r.Get("a"); v != 1 {
		t.Errorf("original value changed: %v", v)
	}
}

func TestRecordMergePreservesOrder(t *testing.T) {
	r := NewRecord()
	r.Set("x", 1)

	other := NewRecord()
	other.Set("y", 2)
	other.Set("z", 3)
	r.Merge(other)

	want := []string{"x", "y", "z"}
	if got := r.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRecordGetString(t *testing.T) {
	r := NewRecord()
	r.Set("n", 42)
	if got := r.GetString("n"); got != "42" {
		t.Errorf("expected %q, got %q", "42", got)
	}
	if got := r.GetString("missing"); got != "" {
		t.Errorf("missing key should be empty, got %q", got)
	}
}

func TestRecordMarshalOrdered(t *testing.T) {
	r := NewRecord()
	r.Set("zz", 1)
	r.Set("aa", "two")
	r.Set("mm", 3.5)

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"zz":1,"aa":"two","mm":3.5}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestRecordUnmarshalRoundTrip(t *testing.T) {
	r := NewRecord()
	r.Set("zz", int64(1))
	r.Set("aa", "two")
	r.Set("mm", 3.5)

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back.Keys(), r.Keys()) {
		t.Errorf("key order lost: %v vs %v", back.Keys(), r.Keys())
	}
	if v, _ := back.Get("zz"); v != int64(1) {
		t.Errorf("integer came back as %T %v", v, v)
	}
	if v, _ := back.Get("mm"); v != 3.5 {
		t.Errorf("float came back as %T %v", v, v)
	}
}
