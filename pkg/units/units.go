// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package units defines the internal unit system for the physics pipeline.
//
// All quantities inside the module are plain float64 values expressed in
// a single consistent system built from SI base magnitudes. Formulas
// that mix dimensions carry explicit factors of C0, so products and
// ratios stay dimensionally correct regardless of the base choice.
// To express a value in some unit, multiply: mw := 50 * units.GeV / units.C2.
// To read a value out in some unit, divide: fmt.Println(e / units.KeV).
package units

// Base magnitudes. Everything else derives from these three.
const (
	Kg = 1.0
	M  = 1.0
	S  = 1.0
)

// Length.
const (
	Cm = 1e-2 * M
	Km = 1e3 * M
	Fm = 1e-15 * M
)

// Time.
const (
	Sec  = S
	Day  = 86400 * S
	Year = 365.25 * Day
)

// Energy.
const (
	Joule = Kg * M * M / (S * S)
	EV    = 1.602176634e-19 * Joule
	KeV   = 1e3 * EV
	MeV   = 1e6 * EV
	GeV   = 1e9 * EV
)

// Speed of light, and c0^2 for converting mass-energy to mass.
const (
	C0 = 299792458.0 * M / S
	C2 = C0 * C0
)

// Particle and nuclear masses (CODATA 2018).
const (
	Amu        = 1.66053906660e-27 * Kg
	ProtonMass = 1.67262192369e-27 * Kg
)

// KmPerSec converts a speed in km/s into internal units.
func KmPerSec(v float64) float64 { return v * Km / S }

// InKmPerSec reads an internal speed out in km/s.
func InKmPerSec(v float64) float64 { return v / (Km / S) }
