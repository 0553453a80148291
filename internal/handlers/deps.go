package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/tablekit/tableboard-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client
	LayoutSvc       LayoutService
	WidgetSvc       WidgetService
}
