package status

import (
	"sonarfleet/api/web"
	"sonarfleet/domains/onboard"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func Configure(e *echo.Echo, l *zap.Logger, stats *onboard.Stats) {
	e.GET("/healthz", web.Wrap(Health, l))
	e.GET("/stats", web.Wrap(GetStats(stats), l))
}
