package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/llm-phishing-analyzer/internal/adapters/httpserver"
	"github.com/mikey/llm-phishing-analyzer/internal/config"
	"github.com/mikey/llm-phishing-analyzer/internal/core"
	"github.com/mikey/llm-phishing-analyzer/internal/ports"
)

// FrontendFactory creates the user-facing surface
type FrontendFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.AnalyzerService
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(cfg *config.Config, logger *zap.Logger, service *core.AnalyzerService) *FrontendFactory {
	return &FrontendFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateFrontend creates the HTTP frontend
func (f *FrontendFactory) CreateFrontend() (ports.Frontend, error) {
	serverCfg := f.cfg.GetServer()
	return httpserver.NewServer(f.service, f.logger, serverCfg.ListenAddress), nil
}
