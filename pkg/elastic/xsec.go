// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package elastic

import (
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/wimprate/pkg/units"
)

// QRef is the default reference momentum for momentum-dependent dark
// matter, 10 MeV/c (arXiv:0908.3192, eq. 10).
const QRef = 10 * units.MeV / units.C0

// Options selects the interaction model for CrossSection and Rate.
// The zero value means: spin-independent, xenon, contact interaction,
// no momentum dependence, standard halo model, time-averaged Earth
// velocity, default integration tolerances.
type Options struct {
	// Interaction labels the DM-nucleus interaction: "SI" or
	// "SD_<coupling>_<assumption>", e.g. "SD_n_central".
	Interaction string `json:"interaction" yaml:"interaction"`

	// Material names the detection target.
	Material Material `json:"material" yaml:"material"`

	// MediatorMass is the mediator mass. Zero or +Inf selects the
	// contact-interaction limit.
	MediatorMass float64 `json:"mediator_mass" yaml:"mediator_mass"`

	// MomentumPower is the power n of the extra momentum dependence
	// (q/q_ref)^(2n). It must be supplied together with MomentumRef.
	MomentumPower *float64 `json:"momentum_power,omitempty" yaml:"momentum_power,omitempty"`

	// MomentumRef is the reference momentum q_ref. It must be supplied
	// together with MomentumPower.
	MomentumRef *float64 `json:"momentum_ref,omitempty" yaml:"momentum_ref,omitempty"`

	// Structures overrides the bundled structure function tables.
	Structures *StructureFunctions `json:"-" yaml:"-"`
}

func (o Options) withDefaults() Options {
	if o.Interaction == "" {
		o.Interaction = "SI"
	}
	if o.Material == "" {
		o.Material = Xenon
	}
	if o.MediatorMass <= 0 {
		o.MediatorMass = math.Inf(1)
	}
	return o
}

// validate applies the eager checks: momentum-dependence parameters
// must be supplied in full or not at all.
func (o Options) validate() error {
	if (o.MomentumPower == nil) != (o.MomentumRef == nil) {
		return fmt.Errorf("%w (power=%v, reference=%v)",
			ErrMomentumParams, o.MomentumPower, o.MomentumRef)
	}
	return nil
}

func (o Options) structures() (*StructureFunctions, error) {
	if o.Structures != nil {
		return o.Structures, nil
	}
	return DefaultStructureFunctions()
}

// CrossSection returns the differential elastic WIMP-nucleus cross
// section dsigma/dE at recoil energy erec for a WIMP of mass mw moving
// at speed v in the detector frame, scaled from the WIMP-nucleon cross
// section sigmaNucleon.
func CrossSection(erec, v, mw, sigmaNucleon float64, opts Options) (float64, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return 0, err
	}
	if erec < 0 {
		return 0, fmt.Errorf("%w: negative recoil energy", ErrInvalidArgument)
	}

	var result float64
	switch {
	case opts.Interaction == "SI":
		si, err := crossSectionSI(erec, v, mw, sigmaNucleon, opts.Material)
		if err != nil {
			return 0, err
		}
		result = si

	case strings.HasPrefix(opts.Interaction, "SD"):
		sd, err := crossSectionSD(erec, v, mw, sigmaNucleon, opts)
		if err != nil {
			return 0, err
		}
		result = sd

	default:
		return 0, fmt.Errorf("%w %q", ErrUnsupportedInteraction, opts.Interaction)
	}

	// Universal modifiers, applied as ordered multiplicative stages.
	mn, err := NucleusMass(opts.Material)
	if err != nil {
		return 0, err
	}
	result *= mediatorFactor(erec, opts.MediatorMass, mn)
	if opts.MomentumPower != nil && opts.MomentumRef != nil {
		result *= extraMomentumFactor(erec, opts.MediatorMass, mn,
			*opts.MomentumPower, *opts.MomentumRef)
	}
	return result, nil
}

// CrossSectionSeries evaluates CrossSection elementwise over a slice of
// recoil energies.
func CrossSectionSeries(erec []float64, v, mw, sigmaNucleon float64, opts Options) ([]float64, error) {
	out := make([]float64, len(erec))
	for i, e := range erec {
		cs, err := CrossSection(e, v, mw, sigmaNucleon, opts)
		if err != nil {
			return nil, err
		}
		out[i] = cs
	}
	return out, nil
}

// crossSectionSI is the spin-independent branch: coherent A^2
// enhancement, reduced-mass rescaling from the nucleon cross section,
// and the Helm form factor.
func crossSectionSI(erec, v, mw, sigmaNucleon float64, material Material) (float64, error) {
	aw, err := AtomicWeight(material)
	if err != nil {
		return 0, err
	}
	mn := aw * units.Amu
	muNucleus := ReducedMass(mw, mn)
	muNucleon := ReducedMass(units.Amu, mw)

	sigmaNucleus := sigmaNucleon * sq(muNucleus/muNucleon) * aw * aw

	ff, err := HelmFormFactorSquared(erec, aw)
	if err != nil {
		return 0, err
	}
	return sigmaNucleus / MaxRecoilEnergy(mw, v, mn) * ff, nil
}

// crossSectionSD is the spin-dependent branch: an isotope-weighted sum
// over the material's spin-active isotopes against the tabulated
// structure functions.
func crossSectionSD(erec, v, mw, sigmaNucleon float64, opts Options) (float64, error) {
	coupling, assumption, err := parseSDLabel(opts.Interaction)
	if err != nil {
		return 0, err
	}
	isotopes := spinIsotopes(opts.Material)
	if isotopes == nil {
		return 0, fmt.Errorf("%w: no spin structure functions for %s detectors",
			ErrUnsupportedConfig, opts.Material)
	}
	sf, err := opts.structures()
	if err != nil {
		return 0, err
	}

	var result float64
	for _, iso := range isotopes {
		key := StructureKey{A: iso.A, Coupling: coupling, Assumption: assumption}
		if !sf.Has(key) {
			return 0, fmt.Errorf("%w %q: no structure function tabulated for %s",
				ErrUnsupportedInteraction, opts.Interaction, key)
		}
		s, err := sf.Eval(key, erec)
		if err != nil {
			return 0, err
		}
		// Not quite sigma_nucleus: the structure function at zero
		// momentum transfer would cancel between this factor and the
		// next, so it is left out of both.
		x := sigmaNucleon * 4 * math.Pi * sq(ReducedMass(mw, iso.Mass)) /
			(3 * sq(ReducedMass(mw, units.ProtonMass)) * (2*iso.J + 1))
		result += iso.Abundance * x / MaxRecoilEnergy(mw, v, iso.Mass) * s
	}
	return result, nil
}

// parseSDLabel splits "SD_<coupling>_<assumption>" into its parts.
func parseSDLabel(interaction string) (coupling, assumption string, err error) {
	parts := strings.Split(interaction, "_")
	if len(parts) != 3 || parts[0] != "SD" || parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("%w %q", ErrUnsupportedInteraction, interaction)
	}
	return parts[1], parts[2], nil
}

// mediatorFactor is the propagator suppression for a mediator of mass
// mMed: 1 in the contact limit, m^4/(m^2 + (q/c)^2)^2 otherwise.
func mediatorFactor(erec, mMed, mNucleus float64) float64 {
	if math.IsInf(mMed, 1) {
		return 1
	}
	q := math.Sqrt(2 * mNucleus * erec)
	qm := q / units.C0
	return sq(mMed*mMed) / sq(mMed*mMed+qm*qm)
}

// extraMomentumFactor is the momentum-dependent dark matter modifier
// (arXiv:0908.3192, eq. 10): (q/q_ref)^(2n), with an additional
// propagator ratio when the mediator is massive.
func extraMomentumFactor(erec, mMed, mNucleus, n, qRef float64) float64 {
	q := math.Sqrt(2 * mNucleus * erec)
	qm := q / units.C0
	qrefm := qRef / units.C0

	f := math.Pow(qm/qrefm, 2*n)
	if math.IsInf(mMed, 1) {
		return f
	}
	return f * (qrefm*qrefm + mMed*mMed) / (qm*qm + mMed*mMed)
}

func sq(x float64) float64 { return x * x }
