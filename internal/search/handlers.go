package search

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ViewerContextKey is the echo context key under which the viewer identity
// middleware stores the resolved Viewer.
const ViewerContextKey = "viewer"

// Handlers provides HTTP handlers for search operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new search handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers search routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
}

// Search runs a torrent search.
// GET /api/v1/search?q=&c=&f=&u=&p=&s=&o=&feed=
func (h *Handlers) Search(c echo.Context) error {
	viewer, _ := c.Get(ViewerContextKey).(Viewer)

	req := Request{
		Term:     c.QueryParam("q"),
		Category: c.QueryParam("c"),
		Quality:  c.QueryParam("f"),
		Sort:     c.QueryParam("s"),
		Order:    c.QueryParam("o"),
		Feed:     c.QueryParam("feed") == "1" || c.QueryParam("feed") == "true",
	}
	if p := c.QueryParam("p"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid page number")
		}
		req.Page = v
	}
	if l := c.QueryParam("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			req.PerPage = v
		}
	}
	if u := c.QueryParam("u"); u != "" {
		v, err := strconv.ParseInt(u, 10, 64)
		if err != nil || v < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
		}
		req.TargetUserID = v
	}

	result, err := h.service.Search(c.Request().Context(), req, viewer)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// httpError maps typed search errors onto HTTP status codes. The mapping
// lives here so library embedders remain free to choose their own.
func httpError(err error) error {
	var serr *Error
	if !errors.As(err, &serr) {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	switch serr.Code {
	case CodeValidation:
		return echo.NewHTTPError(http.StatusBadRequest, serr.Message)
	case CodePageLimit:
		return echo.NewHTTPError(http.StatusForbidden, serr.Message)
	case CodeNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
}
