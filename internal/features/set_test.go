package features

import (
	"bytes"
	"strings"
	"testing"
)

func TestCatalog(t *testing.T) {
	names := Catalog()
	if len(names) != 30 {
		t.Fatalf("expected 30 catalog names, got %d", len(names))
	}
	if names[0] != "mean radius" || names[1] != "mean texture" {
		t.Errorf("unexpected catalog order: %v", names[:2])
	}

	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate name %q", n)
		}
		seen[n] = true
	}
}

func TestSample_Complete(t *testing.T) {
	s := Sample()
	if !s.Complete(Catalog()) {
		t.Error("sample should be complete for the catalog")
	}
}

func TestSample_ReturnsCopy(t *testing.T) {
	s := Sample()
	s["mean radius"] = "0"
	if Sample()["mean radius"] != "17.99" {
		t.Error("modifying a sample must not affect later samples")
	}
}

func TestSet_Complete(t *testing.T) {
	names := []string{"a", "b"}

	tests := []struct {
		name string
		set  Set
		want bool
	}{
		{"all valid", Set{"a": "1", "b": "2.5"}, true},
		{"one empty", Set{"a": "1", "b": ""}, false},
		{"one invalid", Set{"a": "1", "b": "2x"}, false},
		{"missing key", Set{"a": "1"}, false},
		{"extra key", Set{"a": "1", "b": "2", "c": "3"}, false},
		{"wrong key", Set{"a": "1", "c": "2"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.Complete(names); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}

	if (Set{}).Complete(nil) {
		t.Error("empty name list must never be complete")
	}
}

func TestSet_Vector(t *testing.T) {
	names := []string{"mean radius", "mean texture", "mean area"}
	s := Set{"mean area": "1001", "mean texture": "5", "mean radius": "12.3"}

	vec, err := s.Vector(names)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{12.3, 5, 1001}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("index %d: expected %v, got %v", i, want[i], vec[i])
		}
	}
}

func TestSet_VectorRejectsInvalid(t *testing.T) {
	s := Set{"a": "12abc"}
	if _, err := s.Vector([]string{"a"}); err == nil {
		t.Error("expected error for partial numeric")
	}
	if _, err := s.Vector([]string{"missing"}); err == nil {
		t.Error("expected error for missing feature")
	}
}

func TestSet_JSONRoundTrip(t *testing.T) {
	s := NewSet(Catalog())
	s["mean radius"] = "12.3"
	s["worst area"] = "not yet"

	var buf bytes.Buffer
	if err := s.WriteJSON(&buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if !strings.Contains(buf.String(), "\n  \"") {
		t.Error("expected indented output")
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if len(got) != len(s) {
		t.Fatalf("expected %d keys, got %d", len(s), len(got))
	}
	for k, v := range s {
		if got[k] != v {
			t.Errorf("key %q: expected %q, got %q", k, v, got[k])
		}
	}
}

func TestReadJSON_Numbers(t *testing.T) {
	got, err := ReadJSON(strings.NewReader(`{"a": 12.30, "b": "5"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["a"] != "12.30" || got["b"] != "5" {
		t.Errorf("unexpected set: %v", got)
	}

	if _, err := ReadJSON(strings.NewReader(`{"a": true}`)); err == nil {
		t.Error("expected error for boolean value")
	}
}

func TestGroupsFor(t *testing.T) {
	groups := GroupsFor(Catalog())
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	for _, g := range groups {
		if len(g.Names) != 10 {
			t.Errorf("group %s: expected 10 names, got %d", g.Title, len(g.Names))
		}
	}

	groups = GroupsFor([]string{"mean radius", "tumor age"})
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Title != "Mean Values" || len(groups[0].Names) != 1 {
		t.Errorf("unexpected first group: %+v", groups[0])
	}
	if groups[1].Title != "Other" || groups[1].Names[0] != "tumor age" {
		t.Errorf("unexpected other group: %+v", groups[1])
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"mean radius":             "Mean Radius",
		"fractal dimension error": "Fractal Dimension Error",
		"  worst  area ":          "Worst Area",
		"":                        "",
		"émean radius":            "Émean Radius",
		"über area":               "Über Area",
	}
	for in, want := range tests {
		if got := Label(in); got != want {
			t.Errorf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}
