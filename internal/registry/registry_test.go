// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func modNames(reg *Registry) []string {
	var names []string
	for _, m := range reg.Mods() {
		names = append(names, m.Name)
	}
	return names
}

func TestRegistry_PutKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Put("Zeta", ModRecord{ModPath: "/mods/Zeta"})
	reg.Put("Alpha", ModRecord{ModPath: "/mods/Alpha"})
	reg.Put("Mid", ModRecord{ModPath: "/mods/Mid"})
	reg.Put("Zeta", ModRecord{ModPath: "/mods/Zeta2"})

	if diff := cmp.Diff([]string{"Zeta", "Alpha", "Mid"}, modNames(reg)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if rec, _ := reg.Get("Zeta"); rec.ModPath != "/mods/Zeta2" {
		t.Errorf("Get(Zeta) = %q, want updated path", rec.ModPath)
	}
}

func TestRegistry_Delete(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Put("A", ModRecord{ModPath: "/a"})
	reg.Put("B", ModRecord{ModPath: "/b"})

	if !reg.Delete("A") {
		t.Error("Delete(A) = false, want true")
	}
	if reg.Delete("A") {
		t.Error("second Delete(A) = true, want false")
	}
	if reg.Has("A") || reg.Len() != 1 {
		t.Errorf("after delete: Has(A)=%v Len=%d", reg.Has("A"), reg.Len())
	}
}

func TestRegistry_MarshalPreservesOrder(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Put("b", ModRecord{ModPath: "/x/b"})
	reg.Put("a", ModRecord{ModPath: "/x/<a>&"})

	data, err := json.Marshal(reg)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	// json.Marshal re-escapes HTML characters in Marshaler output; compare
	// by decoding instead of by bytes.
	var back Registry
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if diff := cmp.Diff(reg.Mods(), back.Mods()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\n%s", diff, data)
	}
}

func TestRegistry_UnmarshalDuplicateKeys(t *testing.T) {
	t.Parallel()

	var reg Registry
	input := `{"A": {"mod_path": "/1"}, "B": {"mod_path": "/2"}, "A": {"mod_path": "/3"}}`
	if err := json.Unmarshal([]byte(input), &reg); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	want := []Mod{
		{Name: "A", Record: ModRecord{ModPath: "/3"}},
		{Name: "B", Record: ModRecord{ModPath: "/2"}},
	}
	if diff := cmp.Diff(want, reg.Mods()); diff != "" {
		t.Errorf("Mods() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_UnmarshalRejectsNonObjects(t *testing.T) {
	t.Parallel()

	for _, input := range []string{`[]`, `"text"`, `42`, `{"A": 1}`} {
		reg := New()
		if err := json.Unmarshal([]byte(input), reg); err == nil {
			t.Errorf("Unmarshal(%s) should fail", input)
		}
	}

	err := json.Unmarshal([]byte(`[1]`), New())
	if !errors.Is(err, ErrNotObject) {
		t.Errorf("Unmarshal([1]) error = %v, want ErrNotObject", err)
	}
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Put("A", ModRecord{ModPath: "/a"})
	clone := reg.Clone()
	clone.Put("B", ModRecord{ModPath: "/b"})
	clone.Delete("A")

	if !reg.Has("A") || reg.Has("B") {
		t.Error("mutating the clone changed the original")
	}
	if diff := cmp.Diff([]string{"B"}, modNames(clone)); diff != "" {
		t.Errorf("clone mismatch (-want +got):\n%s", diff)
	}
}
