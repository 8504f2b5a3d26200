package common

import (
	"github.com/futig/support-bot/internal/config"
	pkgHTTP "github.com/futig/support-bot/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds the shared outbound HTTP connector. The Google
// Generative Language API authenticates through the x-goog-api-key header
// rather than a Bearer token.
func NewBaseConnector(cfg config.HTTPClientConfig, apiKey string, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return pkgHTTP.NewConnector(
		connCfg,
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthHeader("x-goog-api-key", apiKey),
	)
}
