package main

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mathanim/api/internal/service"
)

var (
	scriptPrompt  string
	scriptOffline bool
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Print the scene script generated for a prompt without rendering it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if scriptOffline {
			cfg.Groq.APIKey = ""
		}

		c, err := buildComponents(cfg)
		if err != nil {
			return err
		}

		script, err := c.generate.Script(cmd.Context(), scriptPrompt)
		if errors.Is(err, service.ErrPromptRequired) {
			return fmt.Errorf("--prompt is required")
		}
		if err != nil {
			return err
		}

		log.Infof("topic=%s source=%s", script.Topic, script.Source)
		fmt.Fprint(cmd.OutOrStdout(), script.Code)
		return nil
	},
}

func init() {
	scriptCmd.Flags().StringVarP(&scriptPrompt, "prompt", "p", "", "Prompt to generate a scene for")
	scriptCmd.Flags().BoolVar(&scriptOffline, "offline", false, "Skip the language model and use the template library")
}
