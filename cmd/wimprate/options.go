// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wimprate/internal/sfstore"
	"github.com/pdiddy/wimprate/pkg/elastic"
	"github.com/pdiddy/wimprate/pkg/units"
)

// viperFloat reads a float config key, returning 0 when unset.
func viperFloat(key string) float64 {
	if !viper.IsSet(key) {
		return 0
	}
	return viper.GetFloat64(key)
}

// physicsFlags registers the interaction-model flags shared by the
// rate and xsec commands.
func physicsFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("mw", 50, "WIMP mass in GeV/c^2")
	cmd.Flags().Float64("sigma", 1e-45, "WIMP-nucleon cross section in cm^2")
	cmd.Flags().String("interaction", "SI", "interaction: SI or SD_<coupling>_<assumption>, e.g. SD_n_central")
	cmd.Flags().String("material", "", "target material: Xe, Ar, Ge, Si (default from config)")
	cmd.Flags().Float64("mediator", 0, "mediator mass in GeV/c^2 (0 = contact interaction)")
	cmd.Flags().Float64("mddm-n", 0, "momentum dependence power n (use with --mddm-qref)")
	cmd.Flags().Float64("mddm-qref", 0, "momentum dependence reference momentum in MeV/c (use with --mddm-n)")
	cmd.Flags().String("tables-db", "", "SQLite structure-function database to use instead of the bundled tables")
}

// physicsOptions resolves the shared flags into elastic.Options.
func physicsOptions(cmd *cobra.Command) (elastic.Options, error) {
	interaction, _ := cmd.Flags().GetString("interaction")
	material, _ := cmd.Flags().GetString("material")
	if material == "" {
		material = viper.GetString("material")
	}

	opts := elastic.Options{
		Interaction: interaction,
		Material:    elastic.Material(material),
	}

	if mediator, _ := cmd.Flags().GetFloat64("mediator"); mediator > 0 {
		opts.MediatorMass = mediator * units.GeV / units.C2
	} else {
		opts.MediatorMass = math.Inf(1)
	}

	// Partial momentum-dependence specification is passed through so
	// the library rejects it with its own error.
	if cmd.Flags().Changed("mddm-n") {
		n, _ := cmd.Flags().GetFloat64("mddm-n")
		opts.MomentumPower = &n
	}
	if cmd.Flags().Changed("mddm-qref") {
		qref, _ := cmd.Flags().GetFloat64("mddm-qref")
		q := qref * units.MeV / units.C0
		opts.MomentumRef = &q
	}

	if db, _ := cmd.Flags().GetString("tables-db"); db != "" {
		store, err := sfstore.Open(db)
		if err != nil {
			return opts, err
		}
		defer store.Close()
		sf, err := store.Load(cmd.Context())
		if err != nil {
			return opts, fmt.Errorf("loading structure functions from %s: %w", db, err)
		}
		opts.Structures = sf
	}

	return opts, nil
}

// energyFlags registers the recoil-energy grid flags.
func energyFlags(cmd *cobra.Command) {
	cmd.Flags().String("erec", "", "comma-separated recoil energies in keV (overrides the scan flags)")
	cmd.Flags().Float64("erec-min", 1, "scan start in keV")
	cmd.Flags().Float64("erec-max", 100, "scan end in keV")
	cmd.Flags().Int("points", 50, "number of scan points")
	cmd.Flags().Bool("log", false, "log-spaced scan instead of linear")
}

// energyGrid resolves the recoil-energy flags into internal units.
func energyGrid(cmd *cobra.Command) ([]float64, error) {
	if list, _ := cmd.Flags().GetString("erec"); list != "" {
		var out []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("parsing --erec entry %q: %w", field, err)
			}
			out = append(out, v*units.KeV)
		}
		return out, nil
	}

	min, _ := cmd.Flags().GetFloat64("erec-min")
	max, _ := cmd.Flags().GetFloat64("erec-max")
	points, _ := cmd.Flags().GetInt("points")
	logScale, _ := cmd.Flags().GetBool("log")
	if points < 2 {
		return nil, fmt.Errorf("--points must be at least 2")
	}
	if min <= 0 && logScale {
		return nil, fmt.Errorf("--erec-min must be positive for a log scan")
	}
	if max <= min {
		return nil, fmt.Errorf("--erec-max must exceed --erec-min")
	}

	out := make([]float64, points)
	for i := range out {
		frac := float64(i) / float64(points-1)
		var e float64
		if logScale {
			e = min * math.Pow(max/min, frac)
		} else {
			e = min + (max-min)*frac
		}
		out[i] = e * units.KeV
	}
	return out, nil
}
