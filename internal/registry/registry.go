// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrNotObject is returned when registry JSON is well-formed but not an object.
var ErrNotObject = errors.New("registry must be a JSON object")

type (
	// ModRecord is the data stored for one mod.
	ModRecord struct {
		// ModPath is the absolute filesystem path of the mod folder.
		ModPath string `json:"mod_path"`
	}

	// Mod pairs a mod name with its record, as returned by Mods.
	Mod struct {
		Name   string
		Record ModRecord
	}

	// Registry maps mod names to records and remembers insertion order.
	// It serializes as a JSON object whose keys follow that order.
	// The zero value is not usable; call New.
	Registry struct {
		order   []string
		records map[string]ModRecord
	}
)

// New returns an empty registry.
func New() *Registry {
	return &Registry{records: make(map[string]ModRecord)}
}

// Len returns the number of registered mods.
func (r *Registry) Len() int { return len(r.order) }

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.records[name]
	return ok
}

// Get returns the record for name.
func (r *Registry) Get(name string) (ModRecord, bool) {
	rec, ok := r.records[name]
	return rec, ok
}

// Put stores rec under name. A new name is appended to the order; an
// existing name keeps its position.
func (r *Registry) Put(name string, rec ModRecord) {
	if _, ok := r.records[name]; !ok {
		r.order = append(r.order, name)
	}
	r.records[name] = rec
}

// Delete removes name and reports whether it was present.
func (r *Registry) Delete(name string) bool {
	if _, ok := r.records[name]; !ok {
		return false
	}
	delete(r.records, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return true
}

// Mods returns all records in insertion order.
func (r *Registry) Mods() []Mod {
	mods := make([]Mod, 0, len(r.order))
	for _, name := range r.order {
		mods = append(mods, Mod{Name: name, Record: r.records[name]})
	}
	return mods
}

// Clone returns a deep copy.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		order:   slices.Clone(r.order),
		records: make(map[string]ModRecord, len(r.records)),
	}
	for k, v := range r.records {
		c.records[k] = v
	}
	return c
}

// MarshalJSON writes the registry as an object in insertion order.
func (r *Registry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	out := bytes.NewBufferString("{")
	for i, name := range r.order {
		if i > 0 {
			out.WriteByte(',')
		}
		buf.Reset()
		if err := enc.Encode(name); err != nil {
			return nil, err
		}
		out.Write(bytes.TrimSpace(buf.Bytes()))
		out.WriteByte(':')

		buf.Reset()
		if err := enc.Encode(r.records[name]); err != nil {
			return nil, err
		}
		out.Write(bytes.TrimSpace(buf.Bytes()))
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping key order. A repeated key keeps its
// first position and its last value.
func (r *Registry) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w, got %v", ErrNotObject, tok)
	}

	fresh := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected registry key %v", tok)
		}
		var rec ModRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("record %q: %w", name, err)
		}
		fresh.Put(name, rec)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = *fresh
	return nil
}
