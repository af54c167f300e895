// Package server exposes a view over HTTP: the rendered scene, toolbar and
// pointer actions, layout import/export, health updates and device edits.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/braunma/netmap/pkg/layoutdoc"
	"github.com/braunma/netmap/pkg/reconciler"
	"github.com/braunma/netmap/pkg/utils"
	"github.com/braunma/netmap/pkg/view"
)

// Options configures the HTTP server
type Options struct {
	AllowedOrigins []string
	AutoSave       bool
}

// Server serves one view
type Server struct {
	view   *view.View
	echo   *echo.Echo
	logger *utils.Logger
}

// New builds the router. With AutoSave, every node move persists the store.
func New(v *view.View, opts Options, logger *utils.Logger) *Server {
	s := &Server{
		view:   v,
		echo:   echo.New(),
		logger: utils.OrNop(logger),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError

	s.echo.Use(middleware.Recover())
	s.echo.Use(requestLogger(s.logger))
	s.echo.Use(cors(opts.AllowedOrigins))

	if opts.AutoSave {
		v.AddListener(&autoSaver{view: v, logger: s.logger})
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")
	api.GET("/scene", s.getScene)
	api.GET("/scene.svg", s.getSceneSVG)
	api.POST("/select", s.postSelect)
	api.POST("/mode", s.postMode)
	api.PUT("/health", s.putHealth)

	pointer := api.Group("/pointer")
	pointer.POST("/down", s.pointerDown)
	pointer.POST("/move", s.pointerMove)
	pointer.POST("/up", s.pointerUp)

	vp := api.Group("/viewport")
	vp.GET("", s.getViewport)
	vp.POST("/zoom-in", s.zoomIn)
	vp.POST("/zoom-out", s.zoomOut)
	vp.POST("/reset", s.resetView)
	vp.POST("/fit", s.fitView)
	vp.POST("/center/:id", s.centerOn)

	layout := api.Group("/layout")
	layout.POST("/clear", s.clearLayout)
	layout.POST("/save", s.saveLayout)
	layout.GET("/export", s.exportLayout)
	layout.POST("/import", s.importLayout)

	devices := api.Group("/devices")
	devices.POST("", s.addDevice)
	devices.PATCH("/:id", s.updateDevice)
	devices.DELETE("/:id", s.removeDevice)
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown
func (s *Server) Start(addr string) error {
	s.logger.Success("Serving on http://%s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleError maps domain errors onto status codes
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		msg = fmt.Sprint(he.Message)
	case errors.Is(err, view.ErrUnknownNode), errors.Is(err, reconciler.ErrUnknownDevice):
		code = http.StatusNotFound
	case errors.Is(err, reconciler.ErrDuplicateDevice):
		code = http.StatusConflict
	case errors.Is(err, layoutdoc.ErrUnsupportedVersion):
		code = http.StatusUnprocessableEntity
	}

	if code >= http.StatusInternalServerError {
		s.logger.Error("Request failed", err)
	}
	if err := c.JSON(code, map[string]string{"error": msg}); err != nil {
		s.logger.Error("Failed to write error response", err)
	}
}

// autoSaver persists the store after every node move
type autoSaver struct {
	view   *view.View
	logger *utils.Logger
}

func (a *autoSaver) NodeSelected(string) {}

func (a *autoSaver) NodePositionChanged(id string, x, y float64) {
	if err := a.view.Save(context.Background()); err != nil {
		a.logger.Error("Failed to save position of %s", err, id)
		return
	}
	a.logger.Debug("Saved position of %s (%.1f, %.1f)", id, x, y)
}
