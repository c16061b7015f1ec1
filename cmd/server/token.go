package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mathanim/api/internal/auth"
)

var (
	tokenClient string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a client token for the generation endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenClient == "" {
			return errors.New("--client is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		token, err := auth.IssueToken(cfg.JWT.Secret, tokenClient, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenClient, "client", "c", "", "Client id embedded in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}
