package main

import (
	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/internal/bootstrap"
	"github.com/russofg/event-chaos-sub000/pkg/pipeline"
	"github.com/russofg/event-chaos-sub000/pkg/service"
)

// buildPipeline wires the rules of a pipeline YAML onto store.
func buildPipeline(path string, store service.Store) (*pipeline.Manager, error) {
	cfg, err := pipeline.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return bootstrap.BuildDirectorPipeline(cfg, store, logrus.WithField("component", "pipeline"))
}
