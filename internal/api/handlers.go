package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/cgr-group/prospect-api/internal/model"
	"github.com/cgr-group/prospect-api/internal/reveal"
	"github.com/cgr-group/prospect-api/internal/search"
	"github.com/cgr-group/prospect-api/pkg/enrichit"
)

// maxBodyBytes bounds inbound request bodies.
const maxBodyBytes = 1 << 20

// defaultHistoryLimit and maxHistoryLimit bound GET /api/history.
const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch multiplexes the five search flavors. The body is read once
// and re-decoded into the flavor-specific request after the discriminator
// is known.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, &search.ValidationError{Message: "corps de requête illisible"})
		return
	}

	var envelope struct {
		SearchType model.SearchType `json:"searchType"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		s.writeError(w, &search.ValidationError{Message: "JSON invalide"})
		return
	}

	ctx := r.Context()
	switch envelope.SearchType {
	case model.SearchEnterprises:
		var req model.EnterpriseSearchRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, &search.ValidationError{Message: "JSON invalide"})
			return
		}
		resp, err := s.svc.SearchEnterprises(ctx, req)
		s.respond(w, resp, err)

	case model.SearchBrainstorming:
		var req model.BrainstormRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, &search.ValidationError{Message: "JSON invalide"})
			return
		}
		resp, err := s.svc.Brainstorm(ctx, req)
		s.respond(w, resp, err)

	case model.SearchCompetitor:
		var req model.CompetitorAnalysisRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, &search.ValidationError{Message: "JSON invalide"})
			return
		}
		resp, err := s.svc.AnalyzeCompetitors(ctx, req)
		s.respond(w, resp, err)

	case model.SearchIdentify:
		var req model.CompetitorIdentifyRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, &search.ValidationError{Message: "JSON invalide"})
			return
		}
		resp, err := s.svc.IdentifyCompetitors(ctx, req)
		s.respond(w, resp, err)

	case model.SearchContacts:
		var req model.ContactSearchRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, &search.ValidationError{Message: "JSON invalide"})
			return
		}
		resp, err := s.svc.SearchContacts(ctx, req)
		s.respond(w, resp, err)

	default:
		s.writeError(w, &search.ValidationError{Message: "searchType inconnu: " + string(envelope.SearchType)})
	}
}

// handleEnrichWebhook receives an asynchronous phone reveal. The delivered
// number is cached under the contact fingerprint so later contact searches
// pick it up; the pending entry, when still present, is consumed.
func (s *Server) handleEnrichWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, &search.ValidationError{Message: "corps de requête illisible"})
		return
	}

	var payload enrichit.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.writeError(w, &search.ValidationError{Message: "JSON invalide"})
		return
	}
	if payload.FirstName == "" || payload.LastName == "" || payload.Company == "" || payload.Phone == "" {
		s.writeError(w, &search.ValidationError{Message: "champs requis manquants: firstName, lastName, company, phone"})
		return
	}

	fingerprint := reveal.Fingerprint(payload.FirstName, payload.LastName, payload.Company)
	entry, pending := s.svc.Reveals().Resolve(fingerprint)
	if !pending {
		// Late delivery after TTL or eviction. The number is still worth
		// keeping.
		zap.L().Warn("api: webhook for unknown reveal", zap.String("fingerprint", fingerprint))
	} else {
		zap.L().Info("api: phone revealed",
			zap.String("company", entry.Company),
			zap.String("position", entry.Position))
	}

	key := search.PhoneCacheKey(fingerprint)
	if err := s.svc.Cache().Set(r.Context(), key, []byte(payload.Phone), s.cfg.Cache.ContactTTL); err != nil {
		zap.L().Error("api: phone cache write failed", zap.Error(err))
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, &search.ValidationError{Message: "limit doit être un entier positif"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := s.svc.History().ListRecent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []model.SearchHistoryRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"history": records,
		"count":   len(records),
	})
}

// respond writes either the successful search response or its mapped error.
func (s *Server) respond(w http.ResponseWriter, resp any, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	buf, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
