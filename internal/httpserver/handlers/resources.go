package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/httpserver/deps"
	"github.com/MrSnakeDoc/pnptools/internal/logger"
	"github.com/MrSnakeDoc/pnptools/internal/session"
	"github.com/MrSnakeDoc/pnptools/internal/submission"
	"github.com/MrSnakeDoc/pnptools/internal/transport"
	"github.com/MrSnakeDoc/pnptools/internal/utils"
)

const (
	msgInvalidJSON  = "Invalid JSON body."
	msgMissing      = "Missing required fields: category, title, description, link."
	msgInvalidURLs  = "Link and image must be valid http(s) URLs."
	msgServerError  = "Server error."
	msgBodyTooLarge = "Request body too large."
)

// rejection is a finished error response.
type rejection struct {
	status int
	body   errorResponse
}

type queryResponse struct {
	Count     int           `json:"count"`
	CountText string        `json:"count_text"`
	Query     string        `json:"query"`
	Category  string        `json:"category"`
	Sort      string        `json:"sort"`
	Resources []domain.Card `json:"resources"`
}

// QueryResources returns the session's view of the catalog. Parameters
// q, category and sort update the session state when present; absent ones
// keep their previous value.
func QueryResources(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		update := func(s domain.QueryState) domain.QueryState {
			if params.Has("q") {
				s = s.WithSearch(params.Get("q"))
			}
			if params.Has("category") {
				s = s.WithCategory(params.Get("category"), d.Normalizer)
			}
			if params.Has("sort") {
				s = s.WithSort(params.Get("sort"))
			}
			return s
		}

		var state domain.QueryState
		if s, ok := session.FromContext(r.Context()); ok {
			state = s.UpdateQuery(update)
		} else {
			state = update(domain.NewQueryState())
		}

		records := domain.QueryResources(d.Catalog.Store().All(), state, d.Normalizer)
		cards := make([]domain.Card, 0, len(records))
		for _, rec := range records {
			cards = append(cards, domain.NewCard(rec, d.Normalizer, d.BasePath))
		}

		writeJSON(w, http.StatusOK, queryResponse{
			Count:     len(cards),
			CountText: domain.CountText(len(cards)),
			Query:     state.Search,
			Category:  state.Category,
			Sort:      string(state.Sort),
			Resources: cards,
		})
	}
}

// CreateResource accepts a submission and appends it to the catalog.
func CreateResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env, rej := decodeEnvelope(w, r, d.MaxBodyBytes)
		if rej == nil {
			rej = screen(r, d, env.Payload, d.StrictSubmissions)
		}
		if rej != nil {
			writeJSON(w, rej.status, rej.body)
			return
		}

		p := env.Payload.Sanitized()
		res := p.Resource()
		if err := d.Catalog.Add(res); err != nil {
			d.Logger.Error("failed to append resource",
				logger.String("title", res.Title),
				logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgServerError, Detail: err.Error()})
			return
		}

		ctx := r.Context()
		rec := submission.Record{
			ID:          uuid.NewString(),
			Payload:     p,
			SubmittedAt: d.Now().UTC(),
			Source:      env.Source,
			ClientIP:    utils.ClientIP(r, d.TrustProxy),
		}
		if err := d.Recent.Push(ctx, rec); err != nil {
			d.Logger.Warn("failed to record submission",
				logger.String("id", rec.ID),
				logger.Error(err))
		}
		if d.Shared != nil {
			if err := d.Shared.RememberResource(ctx, res); err != nil {
				d.Logger.Warn("failed to share duplicate keys",
					logger.String("title", res.Title),
					logger.Error(err))
			}
		}

		d.Logger.Info("resource submitted",
			logger.String("id", rec.ID),
			logger.String("title", res.Title),
			logger.String("category", res.Category))
		writeJSON(w, http.StatusCreated, okResponse{OK: true})
	}
}

// CheckResource runs every submission rule without persisting anything.
func CheckResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env, rej := decodeEnvelope(w, r, d.MaxBodyBytes)
		if rej == nil {
			rej = screen(r, d, env.Payload, true)
		}
		if rej != nil {
			writeJSON(w, rej.status, rej.body)
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}

// decodeEnvelope reads the JSON body. An empty body decodes as {}.
func decodeEnvelope(w http.ResponseWriter, r *http.Request, limit int64) (transport.Envelope, *rejection) {
	var env transport.Envelope

	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return env, &rejection{status: http.StatusRequestEntityTooLarge, body: errorResponse{Error: msgBodyTooLarge}}
		}
		return env, &rejection{status: http.StatusBadRequest, body: errorResponse{Error: msgInvalidJSON}}
	}

	if strings.TrimSpace(string(raw)) == "" {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, &rejection{status: http.StatusBadRequest, body: errorResponse{Error: msgInvalidJSON}}
	}
	return env, nil
}

// screen applies the submission rules. The required-field and URL checks
// always run; strict adds the full rule set and duplicate detection.
func screen(r *http.Request, d deps.Deps, p submission.Payload, strict bool) *rejection {
	p = p.Sanitized()

	if p.Category == "" || p.Title == "" || p.Description == "" || p.Link == "" {
		return &rejection{status: http.StatusBadRequest, body: errorResponse{Error: msgMissing}}
	}
	if !submission.IsHTTPURL(p.Link) || (p.Image != "" && !submission.IsHTTPURL(p.Image)) {
		return &rejection{status: http.StatusBadRequest, body: errorResponse{Error: msgInvalidURLs}}
	}
	if !strict {
		return nil
	}

	if err := d.Validator.Validate(p); err != nil {
		var ve *submission.ValidationError
		if errors.As(err, &ve) {
			return &rejection{
				status: http.StatusUnprocessableEntity,
				body:   errorResponse{Error: ve.Reason, Field: ve.Field, Rule: string(ve.Rule)},
			}
		}
		return &rejection{status: http.StatusUnprocessableEntity, body: errorResponse{Error: err.Error()}}
	}

	if dup := findDuplicate(r, d, p); dup != nil {
		return &rejection{
			status: http.StatusConflict,
			body:   errorResponse{Error: "This resource is already listed: " + dup.Existing + ".", Reason: dup.Reason},
		}
	}
	return nil
}

// findDuplicate checks the session's index first, then the shared index.
// A failing shared index is logged and skipped.
func findDuplicate(r *http.Request, d deps.Deps, p submission.Payload) *submission.DuplicateError {
	var idx *submission.DuplicateIndex
	if s, ok := session.FromContext(r.Context()); ok {
		idx = s.DuplicateIndex(d.Catalog.Store(), d.Normalizer)
	} else {
		idx = submission.NewDuplicateIndex(d.Catalog.Store().All(), d.Normalizer)
	}
	if dup := idx.Find(p); dup != nil {
		return dup
	}

	if d.Shared == nil {
		return nil
	}
	dup, err := d.Shared.FindDuplicate(r.Context(), p)
	if err != nil {
		d.Logger.Warn("shared duplicate lookup failed",
			logger.String("link", p.Link),
			logger.Error(err))
		return nil
	}
	return dup
}
