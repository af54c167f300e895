package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/braunma/netmap/pkg/interaction"
	"github.com/braunma/netmap/pkg/layoutdoc"
	"github.com/braunma/netmap/pkg/loader"
	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/reconciler"
	"github.com/braunma/netmap/pkg/render"
	"github.com/braunma/netmap/pkg/viewport"
)

type selectRequest struct {
	ID string `json:"id"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type pointerRequest struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type viewportResponse struct {
	Current viewport.Transform `json:"current"`
	Target  viewport.Transform `json:"target"`
}

func (s *Server) getScene(c echo.Context) error {
	return c.JSON(http.StatusOK, s.view.Scene())
}

func (s *Server) getSceneSVG(c echo.Context) error {
	scene := s.view.Scene()
	c.Response().Header().Set(echo.HeaderContentType, "image/svg+xml")
	c.Response().WriteHeader(http.StatusOK)
	return render.WriteSVG(c.Response(), scene)
}

func (s *Server) postSelect(c echo.Context) error {
	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.view.Select(req.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, selectRequest{ID: s.view.Selected()})
}

func (s *Server) postMode(c echo.Context) error {
	var req modeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	mode, err := interaction.ParseMode(req.Mode)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.view.SetMode(mode)
	return c.JSON(http.StatusOK, modeRequest{Mode: string(mode)})
}

func (s *Server) putHealth(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body")
	}
	metrics, err := loader.ParseHealth(data)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	changed := s.view.SetHealth(metrics)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"changed":     changed,
		"fingerprint": s.view.Fingerprint(),
	})
}

func (s *Server) pointerDown(c echo.Context) error {
	var req pointerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.view.PointerDown(req.ID, req.X, req.Y); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) pointerMove(c echo.Context) error {
	var req pointerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	s.view.PointerMove(req.X, req.Y)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) pointerUp(c echo.Context) error {
	var req pointerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	outcome := s.view.PointerUp(req.X, req.Y)
	return c.JSON(http.StatusOK, map[string]string{
		"outcome":  outcome.String(),
		"selected": s.view.Selected(),
	})
}

func (s *Server) viewportState(c echo.Context) error {
	return c.JSON(http.StatusOK, viewportResponse{
		Current: s.view.Transform(),
		Target:  s.view.TargetTransform(),
	})
}

func (s *Server) getViewport(c echo.Context) error {
	return s.viewportState(c)
}

func (s *Server) zoomIn(c echo.Context) error {
	s.view.ZoomIn()
	return s.viewportState(c)
}

func (s *Server) zoomOut(c echo.Context) error {
	s.view.ZoomOut()
	return s.viewportState(c)
}

func (s *Server) resetView(c echo.Context) error {
	s.view.ResetView()
	return s.viewportState(c)
}

func (s *Server) fitView(c echo.Context) error {
	if !s.view.FitToView() {
		s.logger.Debug("Fit requested with nothing drawn")
	}
	return s.viewportState(c)
}

func (s *Server) centerOn(c echo.Context) error {
	if err := s.view.CenterOn(c.Param("id")); err != nil {
		return err
	}
	return s.viewportState(c)
}

func (s *Server) clearLayout(c echo.Context) error {
	if err := s.view.ClearLayout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) saveLayout(c echo.Context) error {
	if err := s.view.Save(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) exportLayout(c echo.Context) error {
	doc := s.view.Export()
	data, err := layoutdoc.Marshal(doc)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="layout.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (s *Server) importLayout(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body")
	}
	doc, err := layoutdoc.Import(data)
	if err != nil {
		if errors.Is(err, layoutdoc.ErrUnsupportedVersion) {
			return err
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := s.view.Import(doc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) addDevice(c echo.Context) error {
	var node models.DeviceNode
	if err := c.Bind(&node); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if node.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "device id is required")
	}
	if err := s.view.AddDevice(&node); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, &node)
}

func (s *Server) updateDevice(c echo.Context) error {
	var u reconciler.DeviceUpdate
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	changes, err := s.view.UpdateDevice(c.Param("id"), u)
	if err != nil {
		return err
	}
	if changes == nil {
		changes = []models.ChangeEntry{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"changes": changes})
}

func (s *Server) removeDevice(c echo.Context) error {
	reparented, err := s.view.RemoveDevice(c.Param("id"))
	if err != nil {
		return err
	}
	if reparented == nil {
		reparented = []string{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"reparented": reparented})
}
