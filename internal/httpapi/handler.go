package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"io/fs"
	"strconv"
	"sync"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/voidshard/autotile"
	"github.com/voidshard/autotile/render"
)

// SheetLoader reads tileset pixels for image export.
type SheetLoader func(path string) (image.Image, error)

// Handler serves a single engine over HTTP.
//
// The engine has no locking of its own so every request holds mu for the
// whole edit (or read) it performs. Edits are written to the Store first; the
// engine only changes once that succeeds.
type Handler struct {
	mu sync.Mutex

	Engine *autotile.Engine

	// Store, if set, mirrors every edit so the map survives restarts
	Store *autotile.Store

	// Sheets reads tileset images, render.LoadSheet if nil
	Sheets SheetLoader

	// Scale is passed to render.Scale for image export
	Scale int
}

// NewHandler returns a handler for the given engine & optional store.
func NewHandler(e *autotile.Engine, s *autotile.Store) *Handler {
	return &Handler{Engine: e, Store: s, Sheets: render.LoadSheet, Scale: 1}
}

// RegisterRoutes adds the /api routes to the given server.
func (h *Handler) RegisterRoutes(s *server.Hertz) {
	api := s.Group("/api")
	api.GET("/map", h.document)
	api.GET("/cells", h.cells)
	api.GET("/cells/:x/:y", h.cell)
	api.POST("/tiles", h.addTile)
	api.DELETE("/tiles/:x/:y", h.removeTile)
	api.DELETE("/tiles", h.clearTiles)
	api.PUT("/tileset", h.setTileset)
	api.GET("/export.png", h.exportPNG)
}

type tileRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type tilesetRequest struct {
	Path string `json:"path"`
}

type cellResponse struct {
	X       int              `json:"x"`
	Y       int              `json:"y"`
	Variant autotile.Variant `json:"variant"`
	Stored  bool             `json:"stored"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) document(c context.Context, ctx *app.RequestContext) {
	h.mu.Lock()
	doc := h.Engine.Document()
	h.mu.Unlock()

	ctx.JSON(consts.StatusOK, doc)
}

func (h *Handler) cells(c context.Context, ctx *app.RequestContext) {
	h.mu.Lock()
	cells := h.Engine.Cells()
	h.mu.Unlock()

	ctx.JSON(consts.StatusOK, cells)
}

func (h *Handler) cell(c context.Context, ctx *app.RequestContext) {
	x, y, err := pointParams(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_point", err.Error())
		return
	}

	h.mu.Lock()
	v, ok := h.Engine.Get(x, y)
	h.mu.Unlock()

	if !ok {
		v = autotile.Default
	}
	ctx.JSON(consts.StatusOK, cellResponse{X: x, Y: y, Variant: v, Stored: ok})
}

func (h *Handler) addTile(c context.Context, ctx *app.RequestContext) {
	var body tileRequest
	if err := decodeJSON(ctx, &body); err != nil || body.X == nil || body.Y == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "expected {\"x\": int, \"y\": int}")
		return
	}
	x, y := *body.X, *body.Y

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Store != nil {
		if err := h.Store.Fill(x, y); err != nil {
			autotile.Logf("httpapi: failed to store tile (%d,%d): %v", x, y, err)
			writeErrorBody(ctx, consts.StatusInternalServerError, "store_failed", err.Error())
			return
		}
	}
	h.Engine.AddTile(x, y)

	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h *Handler) removeTile(c context.Context, ctx *app.RequestContext) {
	x, y, err := pointParams(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_point", err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Store != nil {
		if err := h.Store.Erase(x, y); err != nil {
			autotile.Logf("httpapi: failed to erase tile (%d,%d): %v", x, y, err)
			writeErrorBody(ctx, consts.StatusInternalServerError, "store_failed", err.Error())
			return
		}
	}
	h.Engine.RemoveTile(x, y)

	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h *Handler) clearTiles(c context.Context, ctx *app.RequestContext) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Store != nil {
		if err := h.Store.Clear(); err != nil {
			autotile.Logf("httpapi: failed to clear store: %v", err)
			writeErrorBody(ctx, consts.StatusInternalServerError, "store_failed", err.Error())
			return
		}
	}
	h.Engine.ClearTiles()

	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h *Handler) setTileset(c context.Context, ctx *app.RequestContext) {
	var body tilesetRequest
	if err := decodeJSON(ctx, &body); err != nil || body.Path == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "expected {\"path\": string}")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Store != nil {
		// the path is kept even when rejected, same as a saved document
		if err := h.Store.SetTileset(body.Path); err != nil {
			autotile.Logf("httpapi: failed to store tileset: %v", err)
			writeErrorBody(ctx, consts.StatusInternalServerError, "store_failed", err.Error())
			return
		}
	}
	if err := h.Engine.SetTileset(body.Path); err != nil {
		writeError(ctx, err)
		return
	}

	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h *Handler) exportPNG(c context.Context, ctx *app.RequestContext) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Engine.HasTileset() {
		writeError(ctx, autotile.ErrNoTileset)
		return
	}

	loader := h.Sheets
	if loader == nil {
		loader = render.LoadSheet
	}
	sheet, err := loader(h.Engine.Tileset().Path)
	if err != nil {
		writeError(ctx, err)
		return
	}

	im, err := render.Engine(h.Engine, sheet, h.Scale)
	if err != nil {
		writeError(ctx, err)
		return
	}

	data, err := render.PNG(im)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Data(consts.StatusOK, "image/png", data)
}

// pointParams reads the :x and :y route params
func pointParams(ctx *app.RequestContext) (int, int, error) {
	x, err := strconv.Atoi(ctx.Param("x"))
	if err != nil {
		return 0, 0, errors.New("x must be an integer")
	}
	y, err := strconv.Atoi(ctx.Param("y"))
	if err != nil {
		return 0, 0, errors.New("y must be an integer")
	}
	return x, y, nil
}

func decodeJSON(ctx *app.RequestContext, out interface{}) error {
	return json.Unmarshal(ctx.Request.Body(), out)
}

// writeError maps engine errors to a status code
func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, autotile.ErrInvalidTileset):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "invalid_tileset", err.Error())
	case errors.Is(err, autotile.ErrNoTileset):
		writeErrorBody(ctx, consts.StatusConflict, "no_tileset", err.Error())
	case errors.Is(err, autotile.ErrOutOfRange):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "out_of_range", err.Error())
	case errors.Is(err, autotile.ErrEmptyGrid):
		writeErrorBody(ctx, consts.StatusConflict, "empty_grid", err.Error())
	case errors.Is(err, fs.ErrNotExist):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, errorResponse{Code: code, Message: message})
}
