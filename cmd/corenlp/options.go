package cmd

import (
	"github.com/getzep/corenlp/config"
	"github.com/getzep/corenlp/pkg/client"
	"github.com/getzep/corenlp/pkg/models"
	"github.com/getzep/corenlp/pkg/properties"
)

// clientOptions maps the configuration onto client.Options.
func clientOptions(cfg *config.Config) client.Options {
	return client.Options{
		Endpoint:         cfg.Server.Endpoint,
		StartMode:        models.StartMode(cfg.Server.StartMode),
		Annotators:       cfg.Client.Annotators,
		OutputFormat:     cfg.Client.OutputFormat,
		Properties:       properties.ParseSource(cfg.Server.Properties),
		JavaBinary:       cfg.Server.JavaBinary,
		ClassPath:        cfg.Server.ClassPath,
		Memory:           cfg.Server.Memory,
		Timeout:          cfg.Server.Timeout,
		Threads:          cfg.Server.Threads,
		MaxCharLength:    cfg.Server.MaxCharLength,
		Quiet:            cfg.Server.Quiet,
		DisablePreload:   cfg.Server.DisablePreload,
		Args:             cfg.Server.Args,
		Kwargs:           cfg.Server.Kwargs,
		TempDir:          cfg.Server.TempDir,
		LivenessDeadline: cfg.Liveness.Deadline,
		PollInterval:     cfg.Liveness.PollInterval,
		StopGracePeriod:  cfg.Liveness.StopGracePeriod,
		ProbeTimeout:     cfg.Liveness.ProbeTimeout,
		RequestTimeout:   cfg.Client.RequestTimeout,
	}
}
