package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/utils"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthHandler(p Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		err := p.Ping(ctx)
		data := map[string]interface{}{
			"db":   err == nil,
			"time": time.Now().UTC(),
		}
		if err != nil {
			logger.Error("health check failed", "err", err)
			utils.WriteJSONResponse(w, http.StatusServiceUnavailable, false, "db unreachable", data)
			return
		}
		utils.WriteJSONResponse(w, http.StatusOK, true, "ok", data)
	}
}
