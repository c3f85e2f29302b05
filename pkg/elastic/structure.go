// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package elastic

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"go.yaml.in/yaml/v3"
	"gonum.org/v1/gonum/interp"

	"github.com/pdiddy/wimprate/pkg/units"
)

//go:embed sddata/structure_xe.yaml
var defaultTableYAML []byte

// StructureKey identifies one tabulated spin structure function.
type StructureKey struct {
	// A is the isotope mass number.
	A int `json:"a" yaml:"a"`

	// Coupling selects the nucleon coupling: "n" or "p".
	Coupling string `json:"coupling" yaml:"coupling"`

	// Assumption selects the nuclear-theory variant: "central",
	// "min" or "max".
	Assumption string `json:"assumption" yaml:"assumption"`
}

func (k StructureKey) String() string {
	return fmt.Sprintf("(%d, %s, %s)", k.A, k.Coupling, k.Assumption)
}

// StructureFunctions is an immutable set of interpolated spin structure
// functions sharing one recoil-energy grid. Build it once with
// NewStructureFunctions or LoadTables; evaluation is safe for
// concurrent use.
type StructureFunctions struct {
	emin, emax float64 // grid bounds, keV
	fns        map[StructureKey]interp.PiecewiseLinear
}

// NewStructureFunctions builds the table from an energy grid in keV and
// per-key value arrays aligned with that grid. The grid must be
// strictly increasing and every value array must match its length.
func NewStructureFunctions(energiesKeV []float64, tables map[StructureKey][]float64) (*StructureFunctions, error) {
	if len(energiesKeV) < 2 {
		return nil, fmt.Errorf("%w: structure function grid needs at least 2 points", ErrInvalidArgument)
	}
	for i := 1; i < len(energiesKeV); i++ {
		// interp.Fit panics on a non-increasing grid; reject it here.
		if energiesKeV[i] <= energiesKeV[i-1] {
			return nil, fmt.Errorf("%w: structure function grid must be strictly increasing", ErrInvalidArgument)
		}
	}
	s := &StructureFunctions{
		emin: energiesKeV[0],
		emax: energiesKeV[len(energiesKeV)-1],
		fns:  make(map[StructureKey]interp.PiecewiseLinear, len(tables)),
	}
	for key, values := range tables {
		if len(values) != len(energiesKeV) {
			return nil, fmt.Errorf("%w: table %s has %d values for a %d-point grid",
				ErrInvalidArgument, key, len(values), len(energiesKeV))
		}
		var pl interp.PiecewiseLinear
		if err := pl.Fit(energiesKeV, values); err != nil {
			return nil, fmt.Errorf("fitting table %s: %w", key, err)
		}
		s.fns[key] = pl
	}
	return s, nil
}

// Keys returns the tabulated keys, sorted.
func (s *StructureFunctions) Keys() []StructureKey {
	keys := make([]StructureKey, 0, len(s.fns))
	for k := range s.fns {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.A != b.A {
			return a.A < b.A
		}
		if a.Coupling != b.Coupling {
			return a.Coupling < b.Coupling
		}
		return a.Assumption < b.Assumption
	})
	return keys
}

// Has reports whether the table holds the given key.
func (s *StructureFunctions) Has(key StructureKey) bool {
	_, ok := s.fns[key]
	return ok
}

// Eval returns the structure function for key at recoil energy erec
// (internal units). Energies outside the tabulated grid evaluate to
// zero: physical structure functions vanish far outside the measured
// range, so flat-zero extrapolation is deliberate, not an error.
func (s *StructureFunctions) Eval(key StructureKey, erec float64) (float64, error) {
	pl, ok := s.fns[key]
	if !ok {
		return 0, fmt.Errorf("%w: no structure function tabulated for %s", ErrUnsupportedConfig, key)
	}
	e := erec / units.KeV
	if e < s.emin || e > s.emax {
		return 0, nil
	}
	return pl.Predict(e), nil
}

// tableFile is the YAML interchange schema for structure functions.
type tableFile struct {
	EnergiesKeV []float64 `yaml:"energies_kev"`
	Tables      []struct {
		A          int       `yaml:"a"`
		Coupling   string    `yaml:"coupling"`
		Assumption string    `yaml:"assumption"`
		Values     []float64 `yaml:"values"`
	} `yaml:"tables"`
}

// LoadTables parses a YAML table file into a StructureFunctions.
func LoadTables(data []byte) (*StructureFunctions, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing structure function tables: %w", err)
	}
	tables := make(map[StructureKey][]float64, len(f.Tables))
	for _, t := range f.Tables {
		key := StructureKey{A: t.A, Coupling: t.Coupling, Assumption: t.Assumption}
		if _, dup := tables[key]; dup {
			return nil, fmt.Errorf("%w: duplicate table %s", ErrInvalidArgument, key)
		}
		tables[key] = t.Values
	}
	return NewStructureFunctions(f.EnergiesKeV, tables)
}

var (
	defaultOnce sync.Once
	defaultSF   *StructureFunctions
	defaultErr  error
)

// DefaultStructureFunctions returns the bundled xenon tables, built
// once per process and shared read-only by all callers.
func DefaultStructureFunctions() (*StructureFunctions, error) {
	defaultOnce.Do(func() {
		defaultSF, defaultErr = LoadTables(defaultTableYAML)
	})
	return defaultSF, defaultErr
}
