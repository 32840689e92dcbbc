package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/prathomik/sheba/core/audit"
)

type auditApi struct {
	svc *audit.Service
}

func registerAuditAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *audit.Service) {
	api := auditApi{svc: svc}

	g.GET("/audit", api.query, jwt, superAdminMiddleware())
}

// Handlers

func (api *auditApi) query(ctx echo.Context) error {
	entries, err := api.svc.Query()
	if err != nil {
		return errors.Wrap(err, "querying audit log")
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}
