// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wimprate/internal/sfstore"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage the structure-function table database",
	Long: `Tables manages a local SQLite database of spin-dependent structure
functions. Imported tables replace the bundled xenon defaults when a
rate or xsec command is run with --tables-db.`,
}

var tablesImportCmd = &cobra.Command{
	Use:   "import [file.yaml]",
	Short: "Import structure-function tables from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTablesDB(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := store.Import(cmd.Context(), args[0], os.Stdout)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d table(s) failed to import", summary.Failed)
		}
		return nil
	},
}

var tablesExportCmd = &cobra.Command{
	Use:   "export [file.yaml]",
	Short: "Export the stored structure-function tables to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTablesDB(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Export(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", args[0])
		return nil
	},
}

var tablesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored structure-function tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTablesDB(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No tables stored.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-5s  %-8s  %-10s  %-7s  %-24s  %s\n",
			"A", "Coupling", "Assumption", "Points", "Source", "Imported")
		for _, e := range entries {
			fmt.Fprintf(os.Stdout, "%-5d  %-8s  %-10s  %-7d  %-24s  %s\n",
				e.A, e.Coupling, e.Assumption, e.Points, e.Source, e.ImportedAt)
		}
		return nil
	},
}

func openTablesDB(cmd *cobra.Command) (*sfstore.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = viper.GetString("tables.db")
	}
	return sfstore.Open(path)
}

func init() {
	tablesCmd.PersistentFlags().String("db", "", "database path (default from config: tables.db)")

	tablesCmd.AddCommand(tablesImportCmd)
	tablesCmd.AddCommand(tablesExportCmd)
	tablesCmd.AddCommand(tablesListCmd)

	rootCmd.AddCommand(tablesCmd)
}
