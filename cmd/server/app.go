package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/mathanim/api/internal/classifier"
	"github.com/mathanim/api/internal/client"
	"github.com/mathanim/api/internal/config"
	"github.com/mathanim/api/internal/logging"
	"github.com/mathanim/api/internal/model"
	"github.com/mathanim/api/internal/scene"
	"github.com/mathanim/api/internal/service"
)

// components are the long-lived objects shared by all commands.
type components struct {
	cfg       *config.Config
	groq      *client.GroqClient
	codegen   *service.CodegenService
	generate  *service.GenerateService
	storage   client.StorageClient
	publisher service.Publisher
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.Server.LogLevel, cfg.Server.LogFormat)
	return cfg, nil
}

func buildComponents(cfg *config.Config) (*components, error) {
	rules := classifier.DefaultRules()
	if cfg.Classifier.RulesFile != "" {
		loaded, err := classifier.LoadRules(cfg.Classifier.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("classifier rules: %w", err)
		}
		rules = loaded
		log.Infof("Loaded %d classifier rules from %s", len(rules), cfg.Classifier.RulesFile)
	}

	groqClient := client.NewGroqClient(&cfg.Groq)
	manim := client.NewManimCLI(&cfg.Renderer)
	codegen := service.NewCodegenService(groqClient, classifier.New(rules), scene.NewLibrary())

	c := &components{cfg: cfg, groq: groqClient, codegen: codegen}

	// Object storage is optional; videos are served locally without it
	c.publisher = service.NewLocalPublisher(cfg.Paths.VideoDir)
	if cfg.R2.Enabled() {
		r2Client, err := client.NewR2Client(&cfg.R2)
		if err != nil {
			log.Warnf("R2 client not initialized, publishing locally: %v", err)
		} else {
			c.storage = r2Client
			c.publisher = service.NewStoragePublisher(r2Client)
		}
	}

	health := service.NewHealthService(manim, groqClient.IsConfigured(), c.publisher.Name(), model.HealthDirectories{
		VideoFolder:    cfg.Paths.VideoDir,
		TempFolder:     cfg.Paths.TempDir,
		FrontendFolder: cfg.Paths.FrontendDir,
	})

	c.generate = service.NewGenerateService(
		codegen,
		service.NewRenderService(manim, c.publisher),
		service.NewWorkspace(cfg.Paths.TempDir),
		health,
	)
	return c, nil
}
