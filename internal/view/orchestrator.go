package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tincho2002/RRHH-sub000/internal/aggregate"
	"github.com/Tincho2002/RRHH-sub000/internal/config"
	"github.com/Tincho2002/RRHH-sub000/internal/geo"
	"github.com/Tincho2002/RRHH-sub000/internal/ingest"
	"github.com/Tincho2002/RRHH-sub000/internal/model"
	"github.com/Tincho2002/RRHH-sub000/internal/session"
)

var (
	// ErrNoUpload means the page was asked to render before any upload.
	ErrNoUpload = errors.New("no hay datos cargados para esta página")
	// ErrUnknownPanel means the panel id is not declared on the page.
	ErrUnknownPanel = errors.New("panel desconocido")
	// ErrNoFrame means the panel has no tabular form to export.
	ErrNoFrame = errors.New("el panel no tiene datos exportables")
)

// Deps are the request-scoped collaborators panels may use.
type Deps struct {
	Geo    *geo.Fetcher
	GeoURL string
}

// RenderResult is one full page render.
type RenderResult struct {
	Page    model.Page    `json:"page"`
	Title   string        `json:"title"`
	Mutated bool          `json:"mutated"`
	Panels  []PanelResult `json:"panels"`
}

// Orchestrator composes ingestion, session state and aggregation into
// page renders. All methods are safe for concurrent use.
type Orchestrator struct {
	cfg      *config.AppConfig
	ingester *ingest.Service
	sessions *session.Store
	deps     *Deps
}

// New wires an orchestrator from configuration.
func New(cfg *config.AppConfig) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		ingester: ingest.NewService(cfg.Ingest.CacheEntries),
		sessions: session.NewStore(time.Duration(cfg.Ingest.SessionMinute) * time.Minute),
		deps: &Deps{
			Geo:    geo.NewFetcher(),
			GeoURL: cfg.Geo.CoordinatesURL,
		},
	}
}

// SetGeoURL overrides the coordinates source, mainly for tests.
func (o *Orchestrator) SetGeoURL(url string) { o.deps.GeoURL = url }

// Sessions exposes the session store to the HTTP layer.
func (o *Orchestrator) Sessions() *session.Store { return o.sessions }

// Config exposes the effective configuration.
func (o *Orchestrator) Config() *config.AppConfig { return o.cfg }

// Upload ingests a spreadsheet for a page and installs it on the
// session. An identical re-upload keeps the existing selections.
func (o *Orchestrator) Upload(sessionID string, page model.Page, data []byte) (*session.PageState, error) {
	pv, ok := PageFor(page)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ingest.ErrUnknownPage, page)
	}
	table, hash, err := o.ingester.Ingest(data, page)
	if err != nil {
		return nil, err
	}
	dims := presentDims(pv.FilterDims, table)
	state := o.sessions.SetUpload(sessionID, page, table, hash, dims)
	if state == nil {
		return nil, ErrNoUpload
	}
	return state, nil
}

// State returns a page's session state, or ErrNoUpload.
func (o *Orchestrator) State(sessionID string, page model.Page) (*session.PageState, error) {
	if _, ok := PageFor(page); !ok {
		return nil, fmt.Errorf("%w: %s", ingest.ErrUnknownPage, page)
	}
	state := o.sessions.Page(sessionID, page)
	if state == nil {
		return nil, ErrNoUpload
	}
	return state, nil
}

// Render computes every panel of a page against the current filtered
// slice and clears the pending-change flag.
func (o *Orchestrator) Render(ctx context.Context, sessionID string, page model.Page, params PanelParams) (*RenderResult, error) {
	pv, _ := PageFor(page)
	state, err := o.State(sessionID, page)
	if err != nil {
		return nil, err
	}

	result := &RenderResult{
		Page:    page,
		Title:   pv.Title,
		Mutated: state.Filter.Mutated(),
	}
	slice := state.Filter.Apply()
	bc := o.buildContext(ctx, state, slice, params)
	for _, panel := range pv.Panels {
		result.Panels = append(result.Panels, o.renderPanel(panel, bc))
	}
	state.Filter.ClearMutated()
	return result, nil
}

// PanelFrame computes one panel's tabular form for export.
func (o *Orchestrator) PanelFrame(ctx context.Context, sessionID string, page model.Page, panelID string, params PanelParams) (*model.Frame, error) {
	pv, _ := PageFor(page)
	state, err := o.State(sessionID, page)
	if err != nil {
		return nil, err
	}
	for _, panel := range pv.Panels {
		if panel.ID != panelID {
			continue
		}
		if len(panel.Exports) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoFrame, panelID)
		}
		slice := state.Filter.Apply()
		_, frame, err := panel.Build(o.buildContext(ctx, state, slice, params))
		if err != nil {
			return nil, err
		}
		if frame == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoFrame, panelID)
		}
		return frame, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPanel, panelID)
}

// Simulate runs the salary what-if against the page's current filtered
// slice. The percentage is clamped to the configured bounds.
func (o *Orchestrator) Simulate(sessionID string, page model.Page, pct float64, levels []string) (model.WhatIfResult, error) {
	state, err := o.State(sessionID, page)
	if err != nil {
		return model.WhatIfResult{}, err
	}
	pct = clamp(pct, o.cfg.Simulate.MinPct, o.cfg.Simulate.MaxPct)
	return aggregate.WhatIf(state.Filter.Apply(), pct, levels), nil
}

func (o *Orchestrator) buildContext(ctx context.Context, state *session.PageState, slice []model.Row, params PanelParams) BuildContext {
	params.WhatIfPct = clamp(params.WhatIfPct, o.cfg.Simulate.MinPct, o.cfg.Simulate.MaxPct)
	return BuildContext{
		Ctx:    ctx,
		Slice:  slice,
		State:  state,
		Params: params,
		Deps:   o.deps,
	}
}

func (o *Orchestrator) renderPanel(panel Panel, bc BuildContext) PanelResult {
	result := PanelResult{
		ID:      panel.ID,
		Title:   panel.Title,
		Kind:    panel.Kind,
		Exports: panel.Exports,
	}
	if len(bc.Slice) == 0 {
		result.Empty = true
		result.Message = "Sin datos para la selección actual"
		return result
	}
	data, frame, err := panel.Build(bc)
	if err != nil {
		result.Empty = true
		result.Message = fmt.Sprintf("No se pudo calcular el panel: %v", err)
		return result
	}
	result.Data = data
	result.Frame = frame
	return result
}

// presentDims keeps only the declared filter dimensions the ingested
// schema actually carries.
func presentDims(declared []string, table *model.Table) []string {
	out := make([]string, 0, len(declared))
	for _, d := range declared {
		if table.Schema.HasDim(d) {
			out = append(out, d)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
