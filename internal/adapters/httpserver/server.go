package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/sokuryo-crm/internal/domain"
	"github.com/phenrril/sokuryo-crm/internal/kana"
	"github.com/phenrril/sokuryo-crm/internal/usecase"
)

const maxBody = 1 << 20

type Server struct {
	mux         *http.ServeMux
	accounts    *usecase.AccountUC
	individuals *usecase.IndividualUC
	address     *usecase.AddressUC
}

func New(accounts *usecase.AccountUC, individuals *usecase.IndividualUC, address *usecase.AddressUC) http.Handler {
	s := &Server{accounts: accounts, individuals: individuals, address: address, mux: http.NewServeMux()}
	s.routes()
	return Chain(s.mux,
		Recovery,
		Logging,
		RequestID,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/api/accounts", s.apiAccounts)
	s.mux.HandleFunc("/api/accounts/export.xlsx", s.apiAccountsExport)
	// GET|PUT|DELETE /api/accounts/{id} · DELETE /api/accounts/{id}/branches/{branchID}
	s.mux.HandleFunc("/api/accounts/", s.apiAccountByID)

	s.mux.HandleFunc("/api/individuals", s.apiIndividuals)
	s.mux.HandleFunc("/api/individuals/", s.apiIndividualByID)

	s.mux.HandleFunc("/api/address/postal-code", s.apiPostalEstimate)
	s.mux.HandleFunc("/api/kana/strip", s.apiKanaStrip)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{"status": "ok"})
}

func (s *Server) apiAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		f := domain.AccountFilter{
			Query:      q.Get("q"),
			Prefecture: q.Get("prefecture"),
			Industry:   q.Get("industry"),
			Page:       atoiDefault(q.Get("page"), 1),
			PageSize:   atoiDefault(q.Get("page_size"), 20),
		}
		list, total, err := s.accounts.List(r.Context(), f)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list, "total": total})
	case http.MethodPost:
		var a domain.Account
		if !decodeJSON(w, r, &a) {
			return
		}
		a.ID = uuid.Nil
		res, err := s.accounts.Save(r.Context(), &a)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 201, res)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiAccountByID(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(strings.TrimPrefix(r.URL.Path, "/api/accounts/"))
	if len(parts) == 0 {
		http.NotFound(w, r)
		return
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, "id", 400)
		return
	}

	if len(parts) == 3 && parts[1] == "branches" {
		if r.Method != http.MethodDelete {
			http.Error(w, "method", 405)
			return
		}
		branchID, err := uuid.Parse(parts[2])
		if err != nil {
			http.Error(w, "branch id", 400)
			return
		}
		a, err := s.accounts.DeleteBranch(r.Context(), id, branchID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 200, a)
		return
	}
	if len(parts) != 1 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a, err := s.accounts.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 200, map[string]any{"account": a, "primary_unset": a.PrimaryUnset()})
	case http.MethodPut:
		var a domain.Account
		if !decodeJSON(w, r, &a) {
			return
		}
		if _, err := s.accounts.Get(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		a.ID = id
		res, err := s.accounts.Save(r.Context(), &a)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 200, res)
	case http.MethodDelete:
		if err := s.accounts.Delete(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method", 405)
	}
}

// individualRequest accepts birth_date as a plain calendar date or as the
// timestamp form the API itself returns.
type individualRequest struct {
	domain.IndividualContact
	BirthDate string `json:"birth_date"`
}

func (req *individualRequest) contact() (*domain.IndividualContact, error) {
	c := req.IndividualContact
	c.BirthDate = nil
	if d := strings.TrimSpace(req.BirthDate); d != "" {
		t, ok := parseBirthDate(d)
		if !ok {
			return nil, &domain.ValidationError{Violations: []domain.Violation{{
				Field: "birth_date", Code: "date", Message: "birth date must be YYYY-MM-DD",
			}}}
		}
		c.BirthDate = &t
	}
	return &c, nil
}

func parseBirthDate(d string) (time.Time, bool) {
	if t, err := time.Parse(time.DateOnly, d); err == nil {
		return t, true
	}
	t, err := time.Parse(time.RFC3339, d)
	if err != nil {
		return time.Time{}, false
	}
	// keep the calendar day as written, dropping clock and offset
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

func (s *Server) apiIndividuals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		f := domain.IndividualFilter{
			Query:    q.Get("q"),
			Page:     atoiDefault(q.Get("page"), 1),
			PageSize: atoiDefault(q.Get("page_size"), 20),
		}
		list, total, err := s.individuals.List(r.Context(), f)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list, "total": total})
	case http.MethodPost:
		var req individualRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		c, err := req.contact()
		if err == nil {
			c.ID = uuid.Nil
			err = s.individuals.Save(r.Context(), c)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 201, c)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiIndividualByID(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(strings.TrimPrefix(r.URL.Path, "/api/individuals/"))
	if len(parts) != 1 {
		http.NotFound(w, r)
		return
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	switch r.Method {
	case http.MethodGet:
		c, err := s.individuals.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 200, c)
	case http.MethodPut:
		var req individualRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if _, err := s.individuals.Get(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		c, err := req.contact()
		if err == nil {
			c.ID = id
			err = s.individuals.Save(r.Context(), c)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, 200, c)
	case http.MethodDelete:
		if err := s.individuals.Delete(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method", 405)
	}
}

// apiPostalEstimate always answers 200: a failed estimate is advisory text for
// the form, not an HTTP error.
func (s *Server) apiPostalEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req usecase.EstimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, 200, s.address.EstimatePostalCode(r.Context(), req))
}

func (s *Server) apiKanaStrip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		Value string `json:"value"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, 200, map[string]string{
		"core":     kana.StripCorporateTitle(req.Value),
		"sort_key": kana.SortKey(req.Value),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		http.Error(w, "json", 400)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, 422, map[string]any{"error": "validation", "violations": ve.Violations})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, 404, map[string]any{"error": "not_found"})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("request_id", requestID(r)).Msg("request failed")
		writeJSON(w, 500, map[string]any{"error": "internal"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func splitPath(p string) []string {
	out := []string{}
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
