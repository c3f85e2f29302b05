// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package halo provides the standard galactic halo model: local dark
// matter density, escape velocity, and the speed distribution of halo
// particles as seen from Earth.
//
// The galactic-frame distribution is an isotropic Maxwell-Boltzmann
// truncated at the escape velocity; SpeedDist boosts it into the Earth
// frame. A zero time.Time selects the annual-average Earth velocity;
// a concrete timestamp applies the first-order annual modulation.
package halo

import (
	"math"
	"time"

	"github.com/pdiddy/wimprate/pkg/units"
)

// Default parameters of the standard halo model.
const (
	defaultV0     = 238.0 // local circular speed, km/s
	defaultVEsc   = 544.0 // galactic escape velocity, km/s
	defaultRhoGeV = 0.3   // local DM density, GeV/c^2 per cm^3
	vOrbit        = 29.8  // Earth orbital speed, km/s
	orbitProj     = 0.49  // projection of the orbit onto the Sun's motion
	vPecU         = 11.1  // solar peculiar velocity components, km/s
	vPecV         = 12.2
	vPecW         = 7.3
)

// modulationPeak is when the Earth's velocity through the halo peaks.
var modulationPeak = time.Date(2000, time.June, 1, 0, 0, 0, 0, time.UTC)

// Model is a standard halo model parameterization.
type Model struct {
	// RhoDM is the local dark matter mass density.
	RhoDM float64 `json:"rho_dm" yaml:"rho_dm"`

	// V0 is the local standard of rest circular speed (the
	// Maxwell-Boltzmann dispersion parameter).
	V0 float64 `json:"v_0" yaml:"v_0"`

	// VEsc is the galactic escape velocity.
	VEsc float64 `json:"v_esc" yaml:"v_esc"`
}

// Standard returns the standard halo model with the conventional
// parameter values (v0 = 238 km/s, vesc = 544 km/s, rho = 0.3 GeV/c^2/cm^3).
func Standard() *Model {
	return &Model{
		RhoDM: defaultRhoGeV * units.GeV / units.C2 / (units.Cm * units.Cm * units.Cm),
		V0:    units.KmPerSec(defaultV0),
		VEsc:  units.KmPerSec(defaultVEsc),
	}
}

// LocalDensity returns the local dark matter mass density.
func (m *Model) LocalDensity() float64 { return m.RhoDM }

// EscapeVelocity returns the galactic escape velocity.
func (m *Model) EscapeVelocity() float64 { return m.VEsc }

// VEarth returns the speed of the Earth relative to the galactic rest
// frame. The zero time returns the annual average: the Sun's motion
// (circular plus peculiar). A concrete time adds the component of the
// Earth's orbital velocity along the Sun's motion, which peaks around
// June 1 and gives the familiar annual modulation.
func (m *Model) VEarth(t time.Time) float64 {
	v0 := units.InKmPerSec(m.V0)
	avg := math.Sqrt(vPecU*vPecU + (v0+vPecV)*(v0+vPecV) + vPecW*vPecW)
	if t.IsZero() {
		return units.KmPerSec(avg)
	}
	phase := 2 * math.Pi * t.Sub(modulationPeak).Hours() / (24 * 365.25)
	return units.KmPerSec(avg + vOrbit*orbitProj*math.Cos(phase))
}

// VMax returns the maximum halo particle speed observable from Earth
// at time t: the escape velocity plus the Earth's own speed.
func (m *Model) VMax(t time.Time) float64 {
	return m.VEsc + m.VEarth(t)
}

// SpeedDist returns the normalized speed distribution f(v) of halo
// particles in the Earth frame, so that the integral of f over
// [0, VMax] is 1. It vanishes for v outside (0, VEsc + VEarth).
func (m *Model) SpeedDist(v float64, t time.Time) float64 {
	if v <= 0 {
		return 0
	}
	vE := m.VEarth(t)
	if v >= m.VEsc+vE {
		return 0
	}

	// Normalization of the truncated galactic Maxwellian.
	z := m.VEsc / m.V0
	k := math.Erf(z) - 2/math.Sqrt(math.Pi)*z*math.Exp(-z*z)

	// Angular integral cutoff: cos(theta) beyond which the boosted
	// velocity exceeds the escape velocity.
	xmax := math.Min(1, (m.VEsc*m.VEsc-vE*vE-v*v)/(2*vE*v))

	y := math.Exp(-sq((v-vE)/m.V0)) -
		math.Exp(-(v*v+vE*vE+2*v*vE*xmax)/(m.V0*m.V0))
	f := v / (math.Sqrt(math.Pi) * m.V0 * vE * k) * y
	if f < 0 {
		return 0
	}
	return f
}

func sq(x float64) float64 { return x * x }
