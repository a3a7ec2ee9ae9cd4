package exporter

import (
	"household-reshaper/internal/config"
	"household-reshaper/internal/model"
)

// Exporter is the unified interface for all output formats
type Exporter interface {
	Export(result *model.Result, cfg *config.Config) error
}
