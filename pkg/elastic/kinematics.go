// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package elastic computes differential cross sections and differential
// event rates for elastic WIMP-nucleus scattering, spin-independent and
// spin-dependent, with optional massive-mediator and momentum-dependent
// modifications. Inputs and outputs are expressed in the internal unit
// system of pkg/units.
package elastic

import (
	"fmt"
	"math"
	"sort"

	"github.com/pdiddy/wimprate/pkg/units"
)

// Material names a detection target.
type Material string

// Supported target materials.
const (
	Xenon     Material = "Xe"
	Argon     Material = "Ar"
	Germanium Material = "Ge"
	Silicon   Material = "Si"
)

// atomicWeight maps a material to its standard atomic weight in amu.
var atomicWeight = map[Material]float64{
	Xenon:     131.293,
	Argon:     39.948,
	Germanium: 72.64,
	Silicon:   28.0855,
}

// SpinIsotope describes a spin-active isotope of a target material.
type SpinIsotope struct {
	// A is the mass number.
	A int `json:"a" yaml:"a"`

	// Mass is the isotope mass.
	Mass float64 `json:"mass" yaml:"mass"`

	// J is the nuclear spin.
	J float64 `json:"j" yaml:"j"`

	// Abundance is the natural abundance fraction, in (0, 1].
	Abundance float64 `json:"abundance" yaml:"abundance"`
}

// xenonSpinIsotopes lists the spin-active xenon isotopes.
// Masses and abundances from the standard isotope tables.
var xenonSpinIsotopes = []SpinIsotope{
	{A: 129, Mass: 128.9047794 * units.Amu, J: 0.5, Abundance: 0.26401},
	{A: 131, Mass: 130.9050824 * units.Amu, J: 1.5, Abundance: 0.21232},
}

// spinIsotopes returns the spin-active isotopes of a material, or nil
// when the material has no tabulated spin data.
func spinIsotopes(m Material) []SpinIsotope {
	if m == Xenon {
		return xenonSpinIsotopes
	}
	return nil
}

// Materials returns the supported material names, sorted.
func Materials() []Material {
	out := make([]Material, 0, len(atomicWeight))
	for m := range atomicWeight {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AtomicWeight returns the standard atomic weight of a material in amu.
func AtomicWeight(m Material) (float64, error) {
	aw, ok := atomicWeight[m]
	if !ok {
		return 0, fmt.Errorf("%w: unknown material %q", ErrUnsupportedConfig, m)
	}
	return aw, nil
}

// NucleusMass returns the mass of the target nucleus (not nucleon).
func NucleusMass(m Material) (float64, error) {
	aw, err := AtomicWeight(m)
	if err != nil {
		return 0, err
	}
	return aw * units.Amu, nil
}

// ReducedMass returns m1*m2/(m1+m2).
func ReducedMass(m1, m2 float64) float64 {
	return m1 * m2 / (m1 + m2)
}

// NucleusReducedMass returns the WIMP-nucleus reduced mass.
func NucleusReducedMass(mw float64, m Material) (float64, error) {
	mn, err := NucleusMass(m)
	if err != nil {
		return 0, err
	}
	return ReducedMass(mw, mn), nil
}

// MaxRecoilEnergy returns the kinematic ceiling on the recoil energy
// for a WIMP of mass mw and speed v scattering off a nucleus of mass
// mNucleus.
func MaxRecoilEnergy(mw, v, mNucleus float64) float64 {
	mu := ReducedMass(mw, mNucleus)
	return 2 * mu * mu * v * v / mNucleus
}

// MinVelocity returns the minimum WIMP speed that can produce a recoil
// of energy erec off the given material. erec must be nonnegative.
func MinVelocity(erec, mw float64, m Material) (float64, error) {
	if erec < 0 {
		return 0, fmt.Errorf("%w: negative recoil energy", ErrInvalidArgument)
	}
	mn, err := NucleusMass(m)
	if err != nil {
		return 0, err
	}
	mu := ReducedMass(mw, mn)
	return math.Sqrt(mn * erec / (2 * mu * mu)), nil
}
