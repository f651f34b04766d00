package main

import (
	"fmt"

	"go.uber.org/zap"

	"smsclassifier/internal/artifacts"
	"smsclassifier/internal/config"
	"smsclassifier/internal/service"
)

func loadConfig(path string) (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if path == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func artifactPaths(cfg *config.AppConfig) artifacts.Paths {
	return artifacts.Paths{
		Vectorizer: cfg.Artifacts.Vectorizer,
		Classifier: cfg.Artifacts.Classifier,
	}
}

// openClassifier loads the artifacts once and wraps them in the service.
// A non-nil error is always a *artifacts.LoadError. The returned paths are
// the ones the loader read, after defaults.
func openClassifier(cfg *config.AppConfig, logger *zap.Logger) (*service.Classifier, artifacts.Paths, error) {
	loader := artifacts.NewLoader(artifactPaths(cfg), logger)
	bundle, err := loader.Load()
	if err != nil {
		return nil, loader.Paths(), err
	}
	classifier, err := service.New(bundle, service.WithLogger(logger))
	return classifier, loader.Paths(), err
}
