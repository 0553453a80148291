package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/tablekit/tableboard-backend/internal/bootstrap"
	"github.com/tablekit/tableboard-backend/internal/config"
	"github.com/tablekit/tableboard-backend/internal/handlers"
	"github.com/tablekit/tableboard-backend/internal/response"
	"github.com/tablekit/tableboard-backend/internal/router"
	"github.com/tablekit/tableboard-backend/internal/services"
	"github.com/tablekit/tableboard-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	lstore := store.NewLayoutStore(bs.Firestore)
	wstore := store.NewWidgetStore(bs.Firestore)
	rstore := store.NewRecordStore(bs.Firestore)

	// services
	lserv := services.NewLayoutService(lstore)
	wserv := services.NewWidgetService(wstore, lstore, rstore)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.LayoutSvc = lserv
	deps.WidgetSvc = wserv

	// router
	r := router.NewRouter(deps)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
