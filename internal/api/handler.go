// Package api exposes the dashboard over a JSON HTTP surface. Session
// identity travels in the X-Session-Id header; every response echoes
// the effective id back so first requests mint one transparently.
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Tincho2002/RRHH-sub000/internal/aggregate"
	"github.com/Tincho2002/RRHH-sub000/internal/export"
	"github.com/Tincho2002/RRHH-sub000/internal/filter"
	"github.com/Tincho2002/RRHH-sub000/internal/ingest"
	"github.com/Tincho2002/RRHH-sub000/internal/model"
	"github.com/Tincho2002/RRHH-sub000/internal/view"
)

const sessionHeader = "X-Session-Id"

// Handler wires the orchestrator to gin routes.
type Handler struct {
	orch      *view.Orchestrator
	downloads *downloadStore
}

// NewHandler creates the API handler.
func NewHandler(orch *view.Orchestrator) *Handler {
	return &Handler{
		orch:      orch,
		downloads: newDownloadStore(5 * time.Minute),
	}
}

// RegisterRoutes mounts the API on a router group.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)
	router.GET("/pages", h.ListPages)

	router.POST("/pages/:page/upload", h.Upload)
	router.GET("/pages/:page/filters", h.GetFilters)
	router.PUT("/pages/:page/filters/:dim", h.CommitFilter)
	router.POST("/pages/:page/filters/reset", h.ResetFilters)
	router.PUT("/pages/:page/map-compare", h.SetMapCompare)

	router.GET("/pages/:page/render", h.Render)
	router.POST("/pages/:page/simulate", h.Simulate)

	router.POST("/pages/:page/export/:panel", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}

// session resolves the caller's session, minting one when absent, and
// echoes the id on the response.
func (h *Handler) session(c *gin.Context) string {
	sess := h.orch.Sessions().GetOrCreate(c.GetHeader(sessionHeader))
	c.Header(sessionHeader, sess.ID)
	return sess.ID
}

func pageParam(c *gin.Context) model.Page {
	return model.Page(c.Param("page"))
}

// fail maps domain errors onto HTTP status codes.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ingest.ErrUnknownPage), errors.Is(err, view.ErrUnknownPanel):
		status = http.StatusNotFound
	case errors.Is(err, view.ErrNoUpload), errors.Is(err, view.ErrNoFrame):
		status = http.StatusConflict
	case errors.Is(err, ingest.ErrMissingSheet), errors.Is(err, ingest.ErrMissingColumn):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// GetStatus reports liveness and session population.
// GET /api/v1/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": h.orch.Sessions().Count(),
	})
}

type pageInfo struct {
	Page       model.Page `json:"page"`
	Title      string     `json:"title"`
	FilterDims []string   `json:"filterDims"`
	Measures   []string   `json:"measures,omitempty"`
	Panels     []string   `json:"panels"`
}

// ListPages describes the registered pages and their panels.
// GET /api/v1/pages
func (h *Handler) ListPages(c *gin.Context) {
	items := make([]pageInfo, 0, 5)
	for _, pv := range view.Pages() {
		info := pageInfo{
			Page:       pv.Page,
			Title:      pv.Title,
			FilterDims: pv.FilterDims,
			Measures:   pv.Measures,
		}
		for _, panel := range pv.Panels {
			info.Panels = append(info.Panels, panel.ID)
		}
		items = append(items, info)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Upload ingests a spreadsheet for one page. The file never touches
// disk; it is read into memory and hashed for the idempotence check.
// POST /api/v1/pages/:page/upload  (multipart field "file")
func (h *Handler) Upload(c *gin.Context) {
	sessionID := h.session(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no se encontró el archivo en el formulario"})
		return
	}
	maxBytes := int64(h.orch.Config().Ingest.MaxUploadMB) << 20
	if fileHeader.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "el archivo supera el tamaño máximo permitido"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no se pudo abrir el archivo"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil || int64(len(data)) > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "no se pudo leer el archivo"})
		return
	}

	state, err := h.orch.Upload(sessionID, pageParam(c), data)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId": sessionID,
		"hash":      state.UploadHash,
		"rows":      state.Table.Len(),
		"dims":      state.FilterDims,
	})
}

type filterState struct {
	Dim       string   `json:"dim"`
	Options   []string `json:"options"`
	Selection []string `json:"selection"`
}

func filterStates(m *filter.Model) []filterState {
	dims := m.Dims()
	out := make([]filterState, 0, len(dims))
	for _, dim := range dims {
		options := m.Options(dim)
		available := make(map[string]bool, len(options))
		for _, v := range options {
			available[v] = true
		}
		// A selection value another dimension's narrowing made
		// infeasible is dropped from the model on its next commit;
		// the reported chips drop it immediately so they never
		// disagree with the options list.
		selection := make([]string, 0)
		for _, v := range m.Selection(dim) {
			if available[v] {
				selection = append(selection, v)
			}
		}
		out = append(out, filterState{
			Dim:       dim,
			Options:   options,
			Selection: selection,
		})
	}
	return out
}

// GetFilters returns per-dimension options and selections. Options for
// a dimension ignore that dimension's own selection.
// GET /api/v1/pages/:page/filters
func (h *Handler) GetFilters(c *gin.Context) {
	sessionID := h.session(c)
	state, err := h.orch.State(sessionID, pageParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"filters": filterStates(state.Filter),
		"mutated": state.Filter.Mutated(),
	})
}

type commitRequest struct {
	Values []string `json:"values"`
}

// CommitFilter replaces one dimension's selection. Values outside the
// currently available options are discarded.
// PUT /api/v1/pages/:page/filters/:dim
func (h *Handler) CommitFilter(c *gin.Context) {
	sessionID := h.session(c)
	state, err := h.orch.State(sessionID, pageParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	var req commitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de solicitud inválido"})
		return
	}
	state.Filter.Commit(c.Param("dim"), req.Values)
	c.JSON(http.StatusOK, gin.H{
		"filters": filterStates(state.Filter),
		"mutated": state.Filter.Mutated(),
	})
}

// ResetFilters restores the page to its post-upload state.
// POST /api/v1/pages/:page/filters/reset
func (h *Handler) ResetFilters(c *gin.Context) {
	sessionID := h.session(c)
	page := pageParam(c)
	if _, err := h.orch.State(sessionID, page); err != nil {
		fail(c, err)
		return
	}
	state := h.orch.Sessions().ResetPage(sessionID, page)
	c.JSON(http.StatusOK, gin.H{
		"filters": filterStates(state.Filter),
		"mutated": state.Filter.Mutated(),
	})
}

type mapCompareRequest struct {
	Show bool `json:"show"`
}

// SetMapCompare toggles the side-by-side relation maps.
// PUT /api/v1/pages/:page/map-compare
func (h *Handler) SetMapCompare(c *gin.Context) {
	sessionID := h.session(c)
	page := pageParam(c)
	if _, err := h.orch.State(sessionID, page); err != nil {
		fail(c, err)
		return
	}
	var req mapCompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de solicitud inválido"})
		return
	}
	h.orch.Sessions().SetShowMapCompare(sessionID, page, req.Show)
	c.JSON(http.StatusOK, gin.H{"show": req.Show})
}

func panelParams(c *gin.Context) view.PanelParams {
	pct, _ := strconv.ParseFloat(c.Query("whatIfPct"), 64)
	return view.PanelParams{
		WhatIfPct:    pct,
		WhatIfLevels: c.QueryArray("whatIfLevels"),
	}
}

// Render computes every panel of a page for the current selections.
// GET /api/v1/pages/:page/render
func (h *Handler) Render(c *gin.Context) {
	sessionID := h.session(c)
	result, err := h.orch.Render(c.Request.Context(), sessionID, pageParam(c), panelParams(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type simulateRequest struct {
	Pct    float64  `json:"pct"`
	Levels []string `json:"levels"`
}

// Simulate runs the salary raise what-if.
// POST /api/v1/pages/:page/simulate
func (h *Handler) Simulate(c *gin.Context) {
	sessionID := h.session(c)
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de solicitud inválido"})
		return
	}
	result, err := h.orch.Simulate(sessionID, pageParam(c), req.Pct, req.Levels)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type exportRequest struct {
	Format string `json:"format"`
}

// Export renders one panel's frame in the requested format and stages
// the bytes behind a single-use download token.
// POST /api/v1/pages/:page/export/:panel
func (h *Handler) Export(c *gin.Context) {
	sessionID := h.session(c)
	page := pageParam(c)

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de solicitud inválido"})
		return
	}
	kind := export.Kind(req.Format)
	switch kind {
	case export.KindCSV, export.KindXLSX, export.KindPDF:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de exportación desconocido: " + req.Format})
		return
	}

	frame, err := h.orch.PanelFrame(c.Request.Context(), sessionID, page, c.Param("panel"), panelParams(c))
	if err != nil {
		fail(c, err)
		return
	}

	state, err := h.orch.State(sessionID, page)
	if err != nil {
		fail(c, err)
		return
	}
	pv, _ := view.PageFor(page)
	money := make(map[string]bool, len(pv.MoneyColumns))
	for _, col := range pv.MoneyColumns {
		money[col] = true
	}
	opts := export.Options{
		Title:        frame.Title,
		MoneyColumns: money,
		MaxRows:      h.orch.Config().Export.PDFMaxRows,
		MaxCols:      h.orch.Config().Export.PDFMaxCols,
	}
	if p, ok := aggregate.LatestPeriod(state.Filter.Apply()); ok {
		opts.PeriodLabel = p.Label()
	}

	data, err := export.Bytes(frame, kind, opts)
	if err != nil {
		fail(c, err)
		return
	}

	fileName := export.FileName(frame.Title, kind)
	token := h.downloads.put(fileName, export.ContentType(kind), data)
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"fileName": fileName,
		"size":     len(data),
	})
}

// DownloadExport redeems a staged export token.
// GET /api/v1/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.take(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "descarga no encontrada o vencida"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+item.fileName+`"`)
	c.Data(http.StatusOK, item.contentType, item.data)
}
