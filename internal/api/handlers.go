package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/outreach"
	"github.com/sells-group/outreach-cli/internal/store"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Provider  string            `json:"provider"`
	WebSearch bool              `json:"webSearch"`
	Store     string            `json:"store"`
	Breakers  map[string]string `json:"breakers"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Provider:  h.svc.Provider(),
		WebSearch: h.svc.SupportsWebSearch(),
		Store:     "disabled",
		Breakers:  make(map[string]string),
	}
	for name, state := range h.svc.Breakers() {
		resp.Breakers[name] = state.String()
	}

	status := http.StatusOK
	if st := h.svc.Store(); st != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		resp.Store = "ok"
		if err := st.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Store = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp)
}

// companySearchRequest is SearchCriteria plus the call mode.
type companySearchRequest struct {
	model.SearchCriteria
	Mode outreach.Mode `json:"mode,omitempty"`
}

func (h *Handler) searchCompanies(w http.ResponseWriter, r *http.Request) {
	var req companySearchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	env, err := h.svc.SearchCompanies(r.Context(), req.SearchCriteria, req.Mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *Handler) searchEmployees(w http.ResponseWriter, r *http.Request) {
	var q outreach.EmployeeQuery
	if err := decode(w, r, &q); err != nil {
		writeError(w, r, err)
		return
	}
	env, err := h.svc.SearchEmployees(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

type batchRequest struct {
	Queries     []outreach.EmployeeQuery `json:"queries"`
	Concurrency int                      `json:"concurrency,omitempty"`
}

type batchResponse struct {
	Results []outreach.BatchResult `json:"results"`
}

const maxBatchQueries = 50

func (h *Handler) searchEmployeesBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Queries) == 0 {
		writeError(w, r, badRequest("queries is required"))
		return
	}
	if len(req.Queries) > maxBatchQueries {
		writeError(w, r, badRequest("at most %d queries per batch", maxBatchQueries))
		return
	}
	results, err := h.svc.SearchEmployeesBatch(r.Context(), req.Queries, req.Concurrency)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Results: results})
}

func (h *Handler) guessEmail(w http.ResponseWriter, r *http.Request) {
	var q outreach.EmailQuery
	if err := decode(w, r, &q); err != nil {
		writeError(w, r, err)
		return
	}
	env, err := h.svc.GuessEmail(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *Handler) generateEmail(w http.ResponseWriter, r *http.Request) {
	var req outreach.DraftRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	env, err := h.svc.GenerateEmail(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *Handler) linkedInURL(w http.ResponseWriter, r *http.Request) {
	var q outreach.LinkedInQuery
	if err := decode(w, r, &q); err != nil {
		writeError(w, r, err)
		return
	}
	env, err := h.svc.LinkedInURL(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

type searchesResponse struct {
	Searches []model.SearchRecord `json:"searches"`
}

func (h *Handler) listSearches(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Store()
	if st == nil {
		writeError(w, r, errHistoryDisabled)
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	recs, err := st.ListSearches(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []model.SearchRecord{}
	}
	writeJSON(w, http.StatusOK, searchesResponse{Searches: recs})
}

func (h *Handler) getSearch(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Store()
	if st == nil {
		writeError(w, r, errHistoryDisabled)
		return
	}
	rec, err := st.GetSearch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// parseFilter reads kind, since (RFC 3339), limit and offset.
func parseFilter(r *http.Request) (store.SearchFilter, error) {
	q := r.URL.Query()
	var f store.SearchFilter

	if k := q.Get("kind"); k != "" {
		kind, err := model.ParseSearchKind(k)
		if err != nil {
			return f, badRequest("%v", err)
		}
		f.Kind = kind
	}
	if s := q.Get("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return f, badRequest("since must be an RFC 3339 timestamp")
		}
		f.Since = t
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &f.Limit}, {"offset", &f.Offset}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, badRequest("%s must be a non-negative integer", p.name)
		}
		*p.dst = n
	}
	return f, nil
}
