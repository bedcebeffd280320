package json

import (
	"testing"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Fatal("New() returned nil")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if got := c.ContentType(); got != "application/json" {
		t.Errorf("ContentType() = %q, want %q", got, "application/json")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()

	in := map[string]any{
		"name":  "test",
		"count": float64(3),
	}
	data, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var out map[string]any
	if err := c.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if out["name"] != "test" {
		t.Errorf("name = %v, want %q", out["name"], "test")
	}
	if out["count"] != float64(3) {
		t.Errorf("count = %v, want 3", out["count"])
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var out map[string]any
	if err := c.Unmarshal([]byte("{not json"), &out); err == nil {
		t.Error("Unmarshal() should fail on invalid input")
	}
}
