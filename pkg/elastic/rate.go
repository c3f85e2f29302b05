// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package elastic

import (
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/wimprate/internal/quadrature"
	"github.com/pdiddy/wimprate/pkg/halo"
)

// HaloModel is the velocity-distribution collaborator the rate
// integral needs. *halo.Model satisfies it.
type HaloModel interface {
	// LocalDensity returns the local dark matter mass density.
	LocalDensity() float64

	// EscapeVelocity returns the galactic escape velocity.
	EscapeVelocity() float64

	// VMax returns the maximum halo particle speed observable from
	// Earth at time t.
	VMax(t time.Time) float64

	// SpeedDist returns the Earth-frame speed distribution at speed v
	// and time t, normalized to unit integral over [0, VMax].
	SpeedDist(v float64, t time.Time) float64
}

// RateOptions extends Options with the rate-only knobs.
// The zero value selects the standard halo model, the time-averaged
// Earth velocity, and the default integration tolerances.
type RateOptions struct {
	Options `yaml:",inline"`

	// Time is the observation time. The zero value uses the annual
	// average Earth velocity.
	Time time.Time `json:"time,omitempty" yaml:"time,omitempty"`

	// Halo overrides the standard halo model.
	Halo HaloModel `json:"-" yaml:"-"`

	// Quad tunes the velocity integration.
	Quad quadrature.Options `json:"quad" yaml:"quad"`
}

func (o RateOptions) withDefaults() RateOptions {
	o.Options = o.Options.withDefaults()
	if o.Halo == nil {
		o.Halo = halo.Standard()
	}
	return o
}

// Rate returns the differential event rate per unit detector mass and
// recoil energy, dR/dE at erec, for a WIMP of mass mw with nucleon
// cross section sigmaNucleon. Recoil energies beyond kinematic reach
// return exactly zero without invoking the integrator.
//
// The result is in internal units; divide by e.g.
// 1/(units.Kg*units.Day*units.KeV) to express it in events/kg/day/keV.
func Rate(erec, mw, sigmaNucleon float64, opts RateOptions) (float64, error) {
	opts = opts.withDefaults()

	vMin, err := MinVelocity(erec, mw, opts.Material)
	if err != nil {
		return 0, err
	}
	vMax := opts.Halo.VMax(opts.Time)
	if vMin >= vMax {
		return 0, nil
	}

	if err := opts.validate(); err != nil {
		return 0, err
	}
	// Surface configuration errors before integrating: the cross
	// section branch taken does not depend on v, so one probe
	// evaluation validates every integrand call.
	if _, err := CrossSection(erec, vMax, mw, sigmaNucleon, opts.Options); err != nil {
		return 0, err
	}

	mn, err := NucleusMass(opts.Material)
	if err != nil {
		return 0, err
	}

	integrand := func(v float64) float64 {
		cs, _ := CrossSection(erec, v, mw, sigmaNucleon, opts.Options)
		return cs * v * opts.Halo.SpeedDist(v, opts.Time)
	}
	integral, err := quadrature.Integrate(integrand, vMin, vMax, opts.Quad)

	rate := opts.Halo.LocalDensity() / mw * (1 / mn) * integral
	return rate, err
}

// RateSeries evaluates Rate independently per recoil energy, in
// parallel. Elements share only the immutable tables, so each result
// equals the corresponding scalar Rate call, in order.
func RateSeries(erec []float64, mw, sigmaNucleon float64, opts RateOptions) ([]float64, error) {
	out := make([]float64, len(erec))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, e := range erec {
		i, e := i, e
		g.Go(func() error {
			r, err := Rate(e, mw, sigmaNucleon, opts)
			out[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
