package http

import "github.com/labstack/echo/v4"

// Handler is implemented by anything that mounts routes on the server,
// such as the transit API handler.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
