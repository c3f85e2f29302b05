// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package elastic

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/pdiddy/wimprate/pkg/units"
)

func TestSphericalBesselJ1(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{x: 0, want: 0},
		// Reference values of j1(x) = sin(x)/x^2 - cos(x)/x.
		{x: 1, want: math.Sin(1) - math.Cos(1)},
		{x: math.Pi, want: 1 / math.Pi},
		{x: 10, want: math.Sin(10)/100 - math.Cos(10)/10},
	}
	for _, tt := range tests {
		if got := SphericalBesselJ1(tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("j1(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestSphericalBesselJ1SmallX(t *testing.T) {
	// The series branch must join the closed form smoothly and avoid
	// the cancellation that makes the closed form useless near zero.
	for _, x := range []float64{1e-8, 1e-5, 9e-4, 1.1e-3, 2e-3} {
		got := SphericalBesselJ1(x)
		want := x / 3 * (1 - x*x/10)
		if !scalar.EqualWithinAbsOrRel(got, want, 1e-13, 1e-8) {
			t.Errorf("j1(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestHelmFormFactorSquared(t *testing.T) {
	// Finite, nonnegative, and at most 1 across the physical range.
	for _, a := range []float64{28.0855, 39.948, 72.64, 131.293} {
		for _, eKeV := range []float64{0, 0.001, 1, 5, 10, 50, 100, 300, 1000} {
			ff, err := HelmFormFactorSquared(eKeV*units.KeV, a)
			if err != nil {
				t.Fatalf("A=%v E=%v: unexpected error: %v", a, eKeV, err)
			}
			if math.IsNaN(ff) || math.IsInf(ff, 0) {
				t.Fatalf("A=%v E=%v keV: form factor %v not finite", a, eKeV, ff)
			}
			if ff < 0 || ff > 1 {
				t.Errorf("A=%v E=%v keV: form factor %v outside [0, 1]", a, eKeV, ff)
			}
		}
	}
}

func TestHelmFormFactorZeroEnergy(t *testing.T) {
	ff, err := HelmFormFactorSquared(0, 131.293)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(ff-1) > 1e-9 {
		t.Errorf("F^2(0) = %v, want 1", ff)
	}
}

func TestHelmFormFactorDecreases(t *testing.T) {
	// Coherence loss: the form factor falls with recoil energy until
	// the first diffraction zero, well above 50 keV for xenon.
	prev := math.Inf(1)
	for _, eKeV := range []float64{1, 5, 10, 20, 30, 50} {
		ff, err := HelmFormFactorSquared(eKeV*units.KeV, 131.293)
		if err != nil {
			t.Fatal(err)
		}
		if ff >= prev {
			t.Errorf("F^2 not decreasing at %v keV: %v >= %v", eKeV, ff, prev)
		}
		prev = ff
	}
}

func TestHelmFormFactorInvalidA(t *testing.T) {
	for _, a := range []float64{0, -1, -131} {
		if _, err := HelmFormFactorSquared(10*units.KeV, a); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("A=%v: error = %v, want ErrInvalidArgument", a, err)
		}
	}
}

func TestHelmFormFactorSeries(t *testing.T) {
	erec := []float64{1 * units.KeV, 10 * units.KeV, 100 * units.KeV}
	got, err := HelmFormFactorSquaredSeries(erec, 131.293)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(erec) {
		t.Fatalf("len = %d, want %d", len(got), len(erec))
	}
	for i, e := range erec {
		want, err := HelmFormFactorSquared(e, 131.293)
		if err != nil {
			t.Fatal(err)
		}
		if got[i] != want {
			t.Errorf("element %d: %v != scalar %v", i, got[i], want)
		}
	}
}
