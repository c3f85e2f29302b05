// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wimprate/internal/quadrature"
	"github.com/pdiddy/wimprate/pkg/elastic"
	"github.com/pdiddy/wimprate/pkg/halo"
	"github.com/pdiddy/wimprate/pkg/units"
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Compute the differential event rate dR/dE over a recoil-energy scan",
	Long: `Rate integrates the differential cross section against the standard
halo velocity distribution and prints dR/dE in events per kg per day
per keV for each recoil energy in the scan.

Energies beyond the kinematic ceiling for the chosen WIMP mass come
out as exactly zero.`,
	RunE: runRate,
}

// scanPoint is one row of a rate or cross-section scan: the recoil
// energy in keV and the computed value in the output unit named by the
// table header.
type scanPoint struct {
	ErecKeV float64 `json:"erec_kev" yaml:"erec_kev"`
	Value   float64 `json:"value" yaml:"value"`
}

func runRate(cmd *cobra.Command, args []string) error {
	opts, err := physicsOptions(cmd)
	if err != nil {
		return err
	}
	erec, err := energyGrid(cmd)
	if err != nil {
		return err
	}

	mwGeV, _ := cmd.Flags().GetFloat64("mw")
	sigmaCm2, _ := cmd.Flags().GetFloat64("sigma")
	mw := mwGeV * units.GeV / units.C2
	sigma := sigmaCm2 * units.Cm * units.Cm

	rateOpts := elastic.RateOptions{
		Options: opts,
		Halo:    haloFromConfig(),
		Quad:    quadOptions(cmd),
	}
	if ts, _ := cmd.Flags().GetString("time"); ts != "" {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return fmt.Errorf("parsing --time: %w", err)
		}
		rateOpts.Time = t
	}

	rates, err := elastic.RateSeries(erec, mw, sigma, rateOpts)
	if err != nil {
		return err
	}

	points := make([]scanPoint, len(erec))
	for i := range erec {
		points[i] = scanPoint{
			ErecKeV: erec[i] / units.KeV,
			Value:   rates[i] * units.Kg * units.Day * units.KeV,
		}
	}
	return writePoints(cmd, points, "dR/dE [1/(kg day keV)]")
}

// haloFromConfig builds the halo model, applying any config overrides.
func haloFromConfig() *halo.Model {
	m := halo.Standard()
	if v := viperFloat("halo.v0_kms"); v > 0 {
		m.V0 = units.KmPerSec(v)
	}
	if v := viperFloat("halo.vesc_kms"); v > 0 {
		m.VEsc = units.KmPerSec(v)
	}
	if v := viperFloat("halo.rho_gev_cm3"); v > 0 {
		m.RhoDM = v * units.GeV / units.C2 / (units.Cm * units.Cm * units.Cm)
	}
	return m
}

func quadOptions(cmd *cobra.Command) quadrature.Options {
	relTol, _ := cmd.Flags().GetFloat64("rel-tol")
	absTol, _ := cmd.Flags().GetFloat64("abs-tol")
	maxNodes, _ := cmd.Flags().GetInt("max-nodes")
	return quadrature.Options{AbsTol: absTol, RelTol: relTol, MaxNodes: maxNodes}
}

// writePoints prints a scan as a table, JSON, or YAML.
func writePoints(cmd *cobra.Command, points []scanPoint, valueHeader string) error {
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	}
	if yamlOut, _ := cmd.Flags().GetBool("yaml"); yamlOut {
		data, err := yaml.Marshal(points)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	fmt.Fprintf(os.Stdout, "%-12s  %s\n", "E_r [keV]", valueHeader)
	for _, p := range points {
		fmt.Fprintf(os.Stdout, "%-12.4g  %.6g\n", p.ErecKeV, p.Value)
	}
	return nil
}

func init() {
	physicsFlags(rateCmd)
	energyFlags(rateCmd)
	rateCmd.Flags().String("time", "", "observation time (RFC3339); default is the annual average")
	rateCmd.Flags().Float64("rel-tol", 0, "relative integration tolerance (0 = default)")
	rateCmd.Flags().Float64("abs-tol", 0, "absolute integration tolerance (0 = disabled)")
	rateCmd.Flags().Int("max-nodes", 0, "integration node budget (0 = default)")
	rateCmd.Flags().Bool("json", false, "output as JSON")
	rateCmd.Flags().Bool("yaml", false, "output as YAML")

	rootCmd.AddCommand(rateCmd)
}
