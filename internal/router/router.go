package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tablekit/tableboard-backend/internal/handlers"
	"github.com/tablekit/tableboard-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	lm := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(lm.LoggerMiddleware)

	am := middleware.NewMiddleware(deps.Firebase)
	r.Use(am.FirebaseAuth)

	lh := handlers.NewLayoutHandlers(deps)
	wh := handlers.NewWidgetHandlers(deps)

	r.Mount("/layouts", lh.LayoutRoutes())
	r.Mount("/tables", lh.TableRoutes())
	r.Mount("/widgets", wh.WidgetRoutes())
	r.Get("/widget-types", wh.GetWidgetTypes)
	return r
}
