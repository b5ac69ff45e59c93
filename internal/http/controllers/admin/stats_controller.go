package admin

import (
	"net/http"
	"time"

	httperrors "github.com/dropDatabas3/accessway/internal/http/errors"
	"github.com/dropDatabas3/accessway/internal/http/helpers"
	svc "github.com/dropDatabas3/accessway/internal/http/services/admin"
)

// StatsController expone los agregados de telemetría.
type StatsController struct {
	service *svc.StatsService
}

func NewStatsController(service *svc.StatsService) *StatsController {
	return &StatsController{service: service}
}

// Query maneja GET /v1/admin/stats?clientId=&siteId=&from=&to=
// from/to en RFC3339.
func (c *StatsController) Query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var from, to time.Time
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("from debe ser RFC3339"))
			return
		}
		from = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("to debe ser RFC3339"))
			return
		}
		to = t
	}

	resp, err := c.service.Query(r.Context(), q.Get("clientId"), q.Get("siteId"), from, to)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
