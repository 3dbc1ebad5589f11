package handler

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed assets/docs.html
var docsPage []byte

// Health godoc
// @Summary Health check
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "docs": "/docs"})
}

// Docs serves the static API reference page.
func Docs(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, docsPage)
}
