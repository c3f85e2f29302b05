// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package elastic

import (
	"errors"
	"math"
	"testing"

	"github.com/pdiddy/wimprate/pkg/units"
)

// synthTable builds a two-key table on a [0, 100] keV grid for tests.
func synthTable(t *testing.T) *StructureFunctions {
	t.Helper()
	grid := []float64{0, 25, 50, 75, 100}
	sf, err := NewStructureFunctions(grid, map[StructureKey][]float64{
		{A: 129, Coupling: "n", Assumption: "central"}: {1.0, 0.8, 0.5, 0.2, 0.1},
		{A: 131, Coupling: "n", Assumption: "central"}: {0.9, 0.7, 0.4, 0.15, 0.05},
	})
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	return sf
}

func TestStructureFunctionsInterpolation(t *testing.T) {
	sf := synthTable(t)
	key := StructureKey{A: 129, Coupling: "n", Assumption: "central"}

	tests := []struct {
		name string
		eKeV float64
		want float64
	}{
		{name: "grid point", eKeV: 25, want: 0.8},
		{name: "midpoint", eKeV: 37.5, want: 0.65},
		{name: "origin", eKeV: 0, want: 1.0},
		{name: "upper edge", eKeV: 100, want: 0.1},
		{name: "below grid", eKeV: -5, want: 0},
		{name: "above grid", eKeV: 250, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sf.Eval(key, tt.eKeV*units.KeV)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Eval(%v keV) = %v, want %v", tt.eKeV, got, tt.want)
			}
		})
	}
}

func TestStructureFunctionsMissingKey(t *testing.T) {
	sf := synthTable(t)
	_, err := sf.Eval(StructureKey{A: 129, Coupling: "p", Assumption: "central"}, 10*units.KeV)
	if !errors.Is(err, ErrUnsupportedConfig) {
		t.Errorf("error = %v, want ErrUnsupportedConfig", err)
	}
}

func TestNewStructureFunctionsValidation(t *testing.T) {
	key := StructureKey{A: 129, Coupling: "n", Assumption: "central"}
	tests := []struct {
		name   string
		grid   []float64
		values []float64
	}{
		{name: "short grid", grid: []float64{1}, values: []float64{1}},
		{name: "length mismatch", grid: []float64{0, 10, 20}, values: []float64{1, 2}},
		{name: "non-increasing grid", grid: []float64{0, 10, 10}, values: []float64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStructureFunctions(tt.grid, map[StructureKey][]float64{key: tt.values})
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestLoadTables(t *testing.T) {
	data := []byte(`energies_kev: [0, 10, 20]
tables:
  - a: 129
    coupling: n
    assumption: central
    values: [0.2, 0.1, 0.05]
`)
	sf, err := LoadTables(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := sf.Eval(StructureKey{A: 129, Coupling: "n", Assumption: "central"}, 5*units.KeV)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-0.15) > 1e-12 {
		t.Errorf("Eval(5 keV) = %v, want 0.15", got)
	}
}

func TestLoadTablesDuplicateKey(t *testing.T) {
	data := []byte(`energies_kev: [0, 10]
tables:
  - {a: 129, coupling: n, assumption: central, values: [1, 2]}
  - {a: 129, coupling: n, assumption: central, values: [3, 4]}
`)
	if _, err := LoadTables(data); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestDefaultStructureFunctions(t *testing.T) {
	sf, err := DefaultStructureFunctions()
	if err != nil {
		t.Fatalf("loading bundled tables: %v", err)
	}

	// Same instance on repeated calls: the table is built once.
	again, err := DefaultStructureFunctions()
	if err != nil {
		t.Fatal(err)
	}
	if sf != again {
		t.Error("DefaultStructureFunctions should return the shared table")
	}

	// Every coupling/assumption combination is present for both
	// spin-active xenon isotopes.
	for _, a := range []int{129, 131} {
		for _, coupling := range []string{"n", "p"} {
			for _, assumption := range []string{"central", "min", "max"} {
				key := StructureKey{A: a, Coupling: coupling, Assumption: assumption}
				if !sf.Has(key) {
					t.Errorf("bundled tables missing %s", key)
					continue
				}
				v, err := sf.Eval(key, 10*units.KeV)
				if err != nil {
					t.Fatal(err)
				}
				if v <= 0 {
					t.Errorf("%s at 10 keV = %v, want positive", key, v)
				}
			}
		}
	}

	// Flat-zero extrapolation above the tabulated range.
	v, err := sf.Eval(StructureKey{A: 129, Coupling: "n", Assumption: "central"}, 5000*units.KeV)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Errorf("far above the grid: %v, want 0", v)
	}
}
