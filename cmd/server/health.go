package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/mathanim/api/internal/model"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the render environment and print the health snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c, err := buildComponents(cfg)
		if err != nil {
			return err
		}

		snap := c.generate.Health(cmd.Context())
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return err
		}
		if snap.Status != model.HealthStatusHealthy {
			return errors.New("environment is not ready to render")
		}
		return nil
	},
}
