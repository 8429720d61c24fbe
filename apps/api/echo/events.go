package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/Sajalaxena/edu-Darshi-sub000/services/events"
)

func registerEventsAPI(g *echo.Group, authed echo.MiddlewareFunc, hub *eventsvc.Hub) {
	g.GET("/admin/events", func(ctx echo.Context) error {
		// the upgrader writes its own error responses
		_ = hub.ServeWS(ctx.Response(), ctx.Request())
		return nil
	}, authed)
}
