package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"eraleague.org/roster-web/internal/dom"
	"eraleague.org/roster-web/internal/handlers"
	mw "eraleague.org/roster-web/internal/middleware"
	"eraleague.org/roster-web/internal/observability"
	"eraleague.org/roster-web/internal/roster"
	"eraleague.org/roster-web/internal/source"
)

const maxEventBody = 4 << 10

// focusEvent is the client event that moves keyboard focus after a swap.
const focusEvent = "roster:focus"

// rosterApp serves the roster page and applies the events it posts back.
type rosterApp struct {
	source     *source.Client
	pages      *roster.Store
	iconSprite string
	location   *time.Location
	baseURL    string
}

type eventRequest struct {
	Page   string `json:"page"`
	Type   string `json:"type"`
	Target string `json:"target"`
	Key    string `json:"key"`
}

// PageHandler renders the host page, loads the roster data into it and
// registers the live page for later events.
func (a *rosterApp) PageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)
	lang := mw.Lang(r)

	vm := handlers.BuildRosterPage(lang, i18nBundle.T, handlers.PageOptions{
		Path:       r.URL.Path,
		BaseURL:    a.baseURL,
		CSRFToken:  mw.CSRFToken(r),
		IconSprite: a.iconSprite,
		Supported:  i18nBundle.Supported(),
	})
	var buf bytes.Buffer
	if err := renderTemplate(&buf, "base", vm); err != nil {
		logger.Error("render page", zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	raw := buf.Bytes()

	doc, err := dom.Parse(bytes.NewReader(raw))
	if err != nil {
		logger.Error("parse page", zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	page, err := roster.New(doc, roster.Options{
		Lang:       lang,
		Copy:       roster.NewCopy(func(key string) string { return i18nBundle.T(lang, key) }),
		IconSprite: a.iconSprite,
		Location:   a.location,
	})
	if errors.Is(err, roster.ErrMissingContainers) {
		logger.Debug("roster containers missing; serving host page unchanged")
		writeHTML(w, raw)
		return
	}
	if err != nil {
		logger.Error("mount roster", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	snap, err := a.source.Fetch(ctx)
	if err != nil {
		fields := []zap.Field{zap.Error(err), zap.String("source", a.source.Location())}
		var statusErr *source.StatusError
		if errors.As(err, &statusErr) {
			fields = append(fields, zap.Int("upstream_status", statusErr.StatusCode))
		}
		logger.Error("roster data load failed", fields...)
		page.RenderError(page.Copy().LoadError)
	} else {
		page.Load(snap)
		applySelection(page, r)
	}
	a.pages.Put(page)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		logger.Error("write page", zap.Error(err))
	}
}

// applySelection honours ?division= and ?group= so a selection can be linked
// and the page reads correctly without JavaScript.
func applySelection(page *roster.Controller, r *http.Request) {
	q := r.URL.Query()
	st := page.State()
	if id := q.Get("division"); id != "" {
		if _, ok := st.Data.Division(id); ok {
			page.SetActiveDivision(id)
			st = page.State()
		}
	}
	if g := q.Get("group"); g != "" {
		if d, ok := st.Data.Division(st.ActiveDivisionID); ok && d.HasGroups() && d.HasGroup(g) {
			page.SetActiveGroup(d.ID, g)
		}
	}
}

// EventsHandler applies one user event to a live page and answers with the
// changed regions as out-of-band swaps.
func (a *rosterApp) EventsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	req, err := decodeEvent(w, r)
	if err != nil || req.Page == "" || req.Type == "" {
		mw.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event"})
		return
	}

	page, ok := a.pages.Get(ctx, req.Page)
	if !ok {
		// the page expired; a reload builds a new one
		mw.SetRefresh(w)
		w.WriteHeader(http.StatusGone)
		return
	}

	res := page.Dispatch(ctx, roster.Event{Type: req.Type, Target: req.Target, Key: req.Key})
	body, err := page.Fragments(res)
	if err != nil {
		logger.Error("render fragments", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if res.Focus != "" {
		if err := mw.SetTriggerAfterSettle(w, map[string]any{focusEvent: res.Focus}); err != nil {
			logger.Warn("encode focus trigger", zap.Error(err))
		}
	}
	logger.Debug("roster event",
		zap.String("type", req.Type),
		zap.String("target", req.Target),
		zap.Int("regions", len(res.Regions)),
		zap.Int("elements", len(res.Elements)),
	)
	writeHTML(w, []byte(body))
}

// decodeEvent accepts a JSON body or htmx's default form encoding.
func decodeEvent(w http.ResponseWriter, r *http.Request) (eventRequest, error) {
	var req eventRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
		if err != nil {
			return req, err
		}
		err = sonic.Unmarshal(raw, &req)
		return req, err
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxEventBody)
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Page = r.PostForm.Get("page")
	req.Type = r.PostForm.Get("type")
	req.Target = r.PostForm.Get("target")
	req.Key = r.PostForm.Get("key")
	return req, nil
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
