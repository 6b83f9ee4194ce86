package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theopenlane/sentinel/internal/fingerprint"
)

// fingerprintsCmd prints the effective fingerprint registry, built-in plus custom, as JSON
var fingerprintsCmd = &cobra.Command{
	Use:   "fingerprints",
	Short: "list the provider fingerprints in effect",
	RunE: func(cmd *cobra.Command, _ []string) error {
		table, err := fingerprint.Load(k.String("fingerprints"))
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		if err := enc.Encode(table.Fingerprints()); err != nil {
			return fmt.Errorf("writing fingerprints: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(fingerprintsCmd)
	fingerprintsCmd.Flags().String("fingerprints", "", "YAML or JSON file of custom provider fingerprints")
}
