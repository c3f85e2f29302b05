// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package elastic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wimprate/pkg/units"
)

const (
	testMW    = 50 * units.GeV / units.C2
	testSigma = 1e-45 * units.Cm * units.Cm
)

func testV() float64 { return units.KmPerSec(230) }

func TestCrossSectionSI(t *testing.T) {
	cs, err := CrossSection(10*units.KeV, testV(), testMW, testSigma, Options{})
	require.NoError(t, err)
	assert.Greater(t, cs, 0.0)
	assert.False(t, math.IsInf(cs, 0))

	// Linear in the nucleon cross section.
	cs2, err := CrossSection(10*units.KeV, testV(), testMW, 2*testSigma, Options{})
	require.NoError(t, err)
	assert.InEpsilon(t, 2*cs, cs2, 1e-12)
}

func TestCrossSectionSIMaterials(t *testing.T) {
	for _, m := range Materials() {
		cs, err := CrossSection(5*units.KeV, testV(), testMW, testSigma, Options{Material: m})
		require.NoError(t, err, "material %s", m)
		assert.Greater(t, cs, 0.0, "material %s", m)
	}
}

func TestCrossSectionSICoherentEnhancement(t *testing.T) {
	// At zero momentum transfer the xenon cross section beats the
	// silicon one through the A^2 coherent factor.
	xe, err := CrossSection(0.001*units.KeV, testV(), testMW, testSigma, Options{Material: Xenon})
	require.NoError(t, err)
	si, err := CrossSection(0.001*units.KeV, testV(), testMW, testSigma, Options{Material: Silicon})
	require.NoError(t, err)
	assert.Greater(t, xe, si)
}

func TestCrossSectionSD(t *testing.T) {
	for _, interaction := range []string{"SD_n_central", "SD_p_central", "SD_n_min", "SD_n_max"} {
		cs, err := CrossSection(10*units.KeV, testV(), testMW, testSigma, Options{Interaction: interaction})
		require.NoError(t, err, interaction)
		assert.Greater(t, cs, 0.0, interaction)
	}

	// Neutron-coupling scattering dominates proton-coupling on xenon.
	n, err := CrossSection(10*units.KeV, testV(), testMW, testSigma, Options{Interaction: "SD_n_central"})
	require.NoError(t, err)
	p, err := CrossSection(10*units.KeV, testV(), testMW, testSigma, Options{Interaction: "SD_p_central"})
	require.NoError(t, err)
	assert.Greater(t, n, p)
}

func TestCrossSectionSDOutsideGrid(t *testing.T) {
	// The tabulated structure functions vanish outside their grid, so
	// the cross section does too. Not an error.
	cs, err := CrossSection(5000*units.KeV, units.KmPerSec(3000), testMW, testSigma,
		Options{Interaction: "SD_n_central"})
	require.NoError(t, err)
	assert.Zero(t, cs)
}

func TestCrossSectionSDUnsupportedMaterial(t *testing.T) {
	for _, m := range []Material{Argon, Germanium, Silicon} {
		_, err := CrossSection(10*units.KeV, testV(), testMW, testSigma,
			Options{Interaction: "SD_n_central", Material: m})
		assert.ErrorIs(t, err, ErrUnsupportedConfig, "material %s", m)
	}
}

func TestCrossSectionUnsupportedInteraction(t *testing.T) {
	for _, interaction := range []string{"XYZ", "SD", "SD_n", "SD__central", "SD_n_central_extra"} {
		_, err := CrossSection(10*units.KeV, testV(), testMW, testSigma, Options{Interaction: interaction})
		assert.ErrorIs(t, err, ErrUnsupportedInteraction, "interaction %q", interaction)
		assert.ErrorContains(t, err, interaction)
	}
}

func TestCrossSectionSDMissingTable(t *testing.T) {
	_, err := CrossSection(10*units.KeV, testV(), testMW, testSigma,
		Options{Interaction: "SD_q_central"})
	assert.ErrorIs(t, err, ErrUnsupportedInteraction)
}

func TestCrossSectionNegativeRecoil(t *testing.T) {
	_, err := CrossSection(-1*units.KeV, testV(), testMW, testSigma, Options{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCrossSectionMomentumParamsPartial(t *testing.T) {
	n := 1.0
	qref := QRef
	for _, interaction := range []string{"SI", "SD_n_central"} {
		_, err := CrossSection(10*units.KeV, testV(), testMW, testSigma,
			Options{Interaction: interaction, MomentumPower: &n})
		assert.ErrorIs(t, err, ErrMomentumParams, "%s: power only", interaction)

		_, err = CrossSection(10*units.KeV, testV(), testMW, testSigma,
			Options{Interaction: interaction, MomentumRef: &qref})
		assert.ErrorIs(t, err, ErrMomentumParams, "%s: reference only", interaction)
	}
}

func TestCrossSectionMediatorSuppression(t *testing.T) {
	erec := 50 * units.KeV
	contact, err := CrossSection(erec, testV(), testMW, testSigma, Options{})
	require.NoError(t, err)
	massive, err := CrossSection(erec, testV(), testMW, testSigma,
		Options{MediatorMass: 0.1 * units.GeV / units.C2})
	require.NoError(t, err)
	assert.Less(t, massive, contact)

	// The suppression matches the propagator factor directly.
	mn, err := NucleusMass(Xenon)
	require.NoError(t, err)
	q := math.Sqrt(2*mn*erec) / units.C0
	mMed := 0.1 * units.GeV / units.C2
	want := math.Pow(mMed*mMed, 2) / math.Pow(mMed*mMed+q*q, 2)
	assert.InEpsilon(t, want, massive/contact, 1e-9)
}

func TestCrossSectionMomentumFactor(t *testing.T) {
	erec := 20 * units.KeV
	base, err := CrossSection(erec, testV(), testMW, testSigma, Options{})
	require.NoError(t, err)

	// n = 0 in the contact limit is the identity.
	zero := 0.0
	qref := QRef
	same, err := CrossSection(erec, testV(), testMW, testSigma,
		Options{MomentumPower: &zero, MomentumRef: &qref})
	require.NoError(t, err)
	assert.InEpsilon(t, base, same, 1e-12)

	// n = 1 multiplies by (q/q_ref)^2.
	one := 1.0
	modified, err := CrossSection(erec, testV(), testMW, testSigma,
		Options{MomentumPower: &one, MomentumRef: &qref})
	require.NoError(t, err)

	mn, err := NucleusMass(Xenon)
	require.NoError(t, err)
	q := math.Sqrt(2 * mn * erec)
	assert.InEpsilon(t, base*math.Pow(q/QRef, 2), modified, 1e-9)
}

func TestCrossSectionSyntheticTable(t *testing.T) {
	// A synthetic table makes the SD sum directly checkable: constant
	// structure functions factor out of the isotope sum.
	grid := []float64{0, 100}
	sf, err := NewStructureFunctions(grid, map[StructureKey][]float64{
		{A: 129, Coupling: "n", Assumption: "flat"}: {1, 1},
		{A: 131, Coupling: "n", Assumption: "flat"}: {1, 1},
	})
	require.NoError(t, err)

	erec := 10 * units.KeV
	got, err := CrossSection(erec, testV(), testMW, testSigma,
		Options{Interaction: "SD_n_flat", Structures: sf})
	require.NoError(t, err)

	var want float64
	for _, iso := range spinIsotopes(Xenon) {
		x := testSigma * 4 * math.Pi * sq(ReducedMass(testMW, iso.Mass)) /
			(3 * sq(ReducedMass(testMW, units.ProtonMass)) * (2*iso.J + 1))
		want += iso.Abundance * x / MaxRecoilEnergy(testMW, testV(), iso.Mass)
	}
	assert.InEpsilon(t, want, got, 1e-12)
}

func TestCrossSectionSeriesMatchesScalar(t *testing.T) {
	erec := []float64{1 * units.KeV, 5 * units.KeV, 20 * units.KeV, 80 * units.KeV}
	series, err := CrossSectionSeries(erec, testV(), testMW, testSigma, Options{})
	require.NoError(t, err)
	require.Len(t, series, len(erec))
	for i, e := range erec {
		scalar, err := CrossSection(e, testV(), testMW, testSigma, Options{})
		require.NoError(t, err)
		assert.Equal(t, scalar, series[i], "element %d", i)
	}
}
