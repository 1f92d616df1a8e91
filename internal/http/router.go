package http

import (
	"net/http"

	"github.com/jaekwang-park/agenda-api/internal/http/handler"
	"github.com/jaekwang-park/agenda-api/internal/service"
)

// Services bundles what the API routes delegate to.
type Services struct {
	Tasks  *service.TaskService
	Radar  *service.RadarService
	Agenda *service.AgendaService
}

func NewRouter(svc Services, checks map[string]handler.Pinger) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api/v1 for ALB health check compatibility
	mux.Handle("/health", handler.NewHealthHandler(checks))

	taskHandler := handler.NewTaskHandler(svc.Tasks)
	mux.Handle("/api/v1/tasks", taskHandler)
	mux.Handle("/api/v1/tasks/", taskHandler)

	radarHandler := handler.NewRadarHandler(svc.Radar)
	mux.Handle("/api/v1/radar", radarHandler)
	mux.Handle("/api/v1/radar/", radarHandler)

	mux.Handle("/api/v1/agenda/", handler.NewAgendaHandler(svc.Agenda))

	return mux
}
