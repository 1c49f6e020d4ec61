package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cgr-group/prospect-api/internal/cache"
	"github.com/cgr-group/prospect-api/internal/model"
	"github.com/cgr-group/prospect-api/internal/reveal"
	"github.com/cgr-group/prospect-api/pkg/enrichit"
)

// contactFetchLimit is how many raw people we request from the enrichment
// provider before relevance filtering trims them down.
const contactFetchLimit = 25

// SearchContacts finds people at a target company and keeps only those
// whose role is a plausible buyer of technical metal parts. Kept contacts
// get a generated pitch; those without a phone number trigger an
// asynchronous reveal resolved later by webhook.
func (s *Service) SearchContacts(ctx context.Context, req model.ContactSearchRequest) (*model.ContactSearchResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	key := contactCacheKey(req)
	var cached model.ContactSearchResponse
	if s.cacheLookup(ctx, key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	start := time.Now()
	budget := s.cfg.Search.ContactTimeout
	callCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	people, err := s.enrich.SearchPeople(callCtx, enrichit.PersonSearchRequest{
		Company:    req.CompanyName,
		Website:    req.Website,
		Roles:      req.Roles,
		MaxResults: contactFetchLimit,
	})
	if err != nil {
		return nil, providerCallError(callCtx, err, "enrichit", "recherche de contacts", budget)
	}

	var (
		contacts []model.Contact
		sources  []string
		dropped  int
	)
	for _, p := range people.People {
		decision := s.filter.Evaluate(p.Position, req.Roles)
		if !decision.Relevant {
			dropped++
			zap.L().Debug("search: contact filtered out",
				zap.String("position", p.Position),
				zap.Float64("score", decision.Score),
				zap.String("reason", decision.Reason))
			continue
		}

		contact := model.Contact{
			LastName:       p.LastName,
			FirstName:      p.FirstName,
			Position:       p.Position,
			Email:          p.Email,
			LinkedInURL:    p.LinkedInURL,
			Verified:       p.Verified,
			RelevanceScore: decision.Score,
			Sources:        p.Sources,
		}
		s.attachPitch(callCtx, &contact, req.CompanyName, req.Product)
		s.resolvePhone(callCtx, &contact, req.CompanyName)

		contacts = append(contacts, contact)
		sources = append(sources, p.Sources...)
	}
	if len(contacts) == 0 {
		return nil, &NoResultsError{Suggestion: "élargissez les rôles recherchés ou vérifiez le nom de l'entreprise"}
	}

	resp := &model.ContactSearchResponse{
		SearchType: model.SearchContacts,
		Contacts:   contacts,
		TotalFound: len(contacts),
		Sources:    dedupe(sources),
		Debug: &model.Debug{
			Provider:      "enrichit",
			RawCandidates: len(people.People),
			Rejected:      dropped,
			DurationMS:    time.Since(start).Milliseconds(),
		},
	}

	zap.L().Info("search: contacts completed",
		zap.String("company", req.CompanyName),
		zap.Int("kept", len(contacts)),
		zap.Int("filtered", dropped),
		zap.Duration("elapsed", time.Since(start)))

	s.recordHistory(ctx, model.SearchHistoryRecord{
		Product:       primary([]string{req.Product}, "catalogue"),
		Location:      req.CompanyName,
		ReferenceURLs: dedupe(sources),
		ResultsCount:  len(contacts),
		SearchQuery:   "contacts: " + req.CompanyName,
	})
	s.cachePersist(ctx, key, resp, s.cfg.Cache.ContactTTL)
	return resp, nil
}

// attachPitch generates a personalized opening line. Pitch generation is
// best effort: a provider hiccup leaves the field empty rather than
// failing the whole search.
func (s *Service) attachPitch(ctx context.Context, contact *model.Contact, company, product string) {
	pitch, err := s.claude.Complete(ctx, pitchSystemPrompt, pitchUserPrompt(*contact, company, product))
	if err != nil {
		zap.L().Warn("search: pitch generation failed",
			zap.String("contact", contact.FirstName+" "+contact.LastName),
			zap.Error(err))
		return
	}
	contact.CustomPitch = pitch
}

// resolvePhone fills the phone number from a previously delivered reveal,
// or requests a new asynchronous reveal when none is cached. Reveal
// requests are best effort.
func (s *Service) resolvePhone(ctx context.Context, contact *model.Contact, company string) {
	fingerprint := reveal.Fingerprint(contact.FirstName, contact.LastName, company)
	phoneKey := PhoneCacheKey(fingerprint)

	if raw, ok, err := s.cache.Get(ctx, phoneKey); err == nil && ok {
		contact.Phone = string(raw)
		return
	}

	if s.cfg.Enrich.WebhookURL == "" {
		return
	}
	err := s.enrich.RequestReveal(ctx, enrichit.RevealRequest{
		FirstName:  contact.FirstName,
		LastName:   contact.LastName,
		Company:    company,
		WebhookURL: s.cfg.Enrich.WebhookURL,
	})
	if err != nil {
		zap.L().Warn("search: reveal request failed",
			zap.String("fingerprint", fingerprint),
			zap.Error(err))
		return
	}
	s.reveals.Register(fingerprint, reveal.Entry{
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Company:   company,
		Position:  contact.Position,
	})
}

// PhoneCacheKey is where a delivered phone number lives, keyed by the
// contact fingerprint. Shared with the webhook handler.
func PhoneCacheKey(fingerprint string) string {
	return cache.Key("reveal", fingerprint)
}

func contactCacheKey(req model.ContactSearchRequest) string {
	params := []string{"type=" + string(model.SearchContacts)}
	params = append(params, req.Roles...)
	if req.Website != "" {
		params = append(params, req.Website)
	}
	return cache.Key(primary([]string{req.Product}, "contacts"), req.CompanyName, params...)
}
