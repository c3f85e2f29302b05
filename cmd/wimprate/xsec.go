// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/wimprate/pkg/elastic"
	"github.com/pdiddy/wimprate/pkg/units"
)

var xsecCmd = &cobra.Command{
	Use:   "xsec",
	Short: "Compute the differential cross section dsigma/dE over a recoil-energy scan",
	Long: `Xsec evaluates the differential WIMP-nucleus cross section at a fixed
WIMP speed, without the halo velocity integration, and prints
dsigma/dE in cm^2 per keV for each recoil energy in the scan.`,
	RunE: runXsec,
}

func runXsec(cmd *cobra.Command, args []string) error {
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
	vKms, _ := cmd.Flags().GetFloat64("v")
	mw := mwGeV * units.GeV / units.C2
	sigma := sigmaCm2 * units.Cm * units.Cm
	v := units.KmPerSec(vKms)

	xs, err := elastic.CrossSectionSeries(erec, v, mw, sigma, opts)
	if err != nil {
		return err
	}

	points := make([]scanPoint, len(erec))
	for i := range erec {
		points[i] = scanPoint{
			ErecKeV: erec[i] / units.KeV,
			Value:   xs[i] / (units.Cm * units.Cm / units.KeV),
		}
	}
	return writePoints(cmd, points, "dsigma/dE [cm^2/keV]")
}

func init() {
	physicsFlags(xsecCmd)
	energyFlags(xsecCmd)
	xsecCmd.Flags().Float64("v", 230, "WIMP speed in km/s (detector frame)")
	xsecCmd.Flags().Bool("json", false, "output as JSON")
	xsecCmd.Flags().Bool("yaml", false, "output as YAML")

	rootCmd.AddCommand(xsecCmd)
}
