package logs

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/grafana/loki-client-go/loki"
	promconfig "github.com/prometheus/common/config"
	slogloki "github.com/samber/slog-loki/v3"

	"github.com/Alijeyrad/vitum_backend/config"
)

// newLokiHandler pushes records to Loki in batches. stop flushes the batch.
func newLokiHandler(cfg config.LokiConfig, level slog.Level) (slog.Handler, func(), error) {
	lc, err := loki.NewDefaultConfig(strings.TrimRight(cfg.Endpoint, "/") + "/loki/api/v1/push")
	if err != nil {
		return nil, nil, fmt.Errorf("loki config: %w", err)
	}
	lc.TenantID = cfg.TenantID
	if cfg.Username != "" {
		lc.Client.BasicAuth = &promconfig.BasicAuth{
			Username: cfg.Username,
			Password: promconfig.Secret(cfg.Password),
		}
	}

	client, err := loki.New(lc)
	if err != nil {
		return nil, nil, fmt.Errorf("loki client: %w", err)
	}

	h := slogloki.Option{Level: level, Client: client}.NewLokiHandler()
	return h, client.Stop, nil
}
