package search

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgr-group/prospect-api/internal/model"
	"github.com/cgr-group/prospect-api/internal/reveal"
	"github.com/cgr-group/prospect-api/pkg/enrichit"
)

func testPeople() []enrichit.Person {
	return []enrichit.Person{
		{
			FirstName: "Claire",
			LastName:  "Moreau",
			Position:  "Responsable Achats",
			Email:     "c.moreau@mecanix.example.fr",
			Verified:  true,
			Sources:   []string{"https://linkedin.com/in/cmoreau"},
		},
		{
			FirstName: "Luc",
			LastName:  "Bernard",
			Position:  "Directeur Marketing",
			Sources:   []string{"https://linkedin.com/in/lbernard"},
		},
		{
			FirstName: "Anne",
			LastName:  "Petit",
			Position:  "Responsable Qualité",
			Sources:   []string{"https://linkedin.com/in/apetit"},
		},
	}
}

func TestSearchContacts_FiltersAndEnriches(t *testing.T) {
	deps := newTestService(t)
	deps.enrich.people = testPeople()

	resp, err := deps.svc.SearchContacts(context.Background(), model.ContactSearchRequest{
		CompanyName: "Mecanix SAS",
		Roles:       []string{"responsable achats"},
		Product:     "ressorts de compression",
	})
	require.NoError(t, err)

	assert.Equal(t, model.SearchContacts, resp.SearchType)
	require.Len(t, resp.Contacts, 2)
	assert.Equal(t, 3, resp.Debug.RawCandidates)
	assert.Equal(t, 1, resp.Debug.Rejected)

	// The marketing director never reaches the response.
	for _, c := range resp.Contacts {
		assert.NotEqual(t, "Luc", c.FirstName)
		assert.GreaterOrEqual(t, c.RelevanceScore, 0.7)
		assert.NotEmpty(t, c.CustomPitch)
	}

	// Both kept contacts lack a phone, so both trigger a reveal request and
	// a pending entry keyed by fingerprint.
	assert.Len(t, deps.enrich.reveals, 2)
	assert.Equal(t, 2, deps.svc.Reveals().Len())
	assert.Equal(t, "https://prospect.example.fr/api/webhook/enrich", deps.enrich.reveals[0].WebhookURL)
}

func TestSearchContacts_AllFilteredIsNoResults(t *testing.T) {
	deps := newTestService(t)
	deps.enrich.people = []enrichit.Person{
		{FirstName: "Luc", LastName: "Bernard", Position: "Directeur Marketing"},
		{FirstName: "Zoé", LastName: "Roux", Position: "Responsable RH"},
	}

	_, err := deps.svc.SearchContacts(context.Background(), model.ContactSearchRequest{
		CompanyName: "Mecanix SAS",
	})
	require.Error(t, err)
	assert.Equal(t, TypeNoResults, TypeOf(err))
}

func TestSearchContacts_RequiresCompanyName(t *testing.T) {
	deps := newTestService(t)

	_, err := deps.svc.SearchContacts(context.Background(), model.ContactSearchRequest{})
	require.Error(t, err)
	assert.Equal(t, TypeValidation, TypeOf(err))
	assert.Equal(t, 0, deps.enrich.searchCalls)
}

func TestSearchContacts_ProviderFailure(t *testing.T) {
	deps := newTestService(t)
	deps.enrich.searchErr = eris.New("enrichit: status 503")

	_, err := deps.svc.SearchContacts(context.Background(), model.ContactSearchRequest{
		CompanyName: "Mecanix SAS",
	})
	require.Error(t, err)
	assert.Equal(t, TypeProvider, TypeOf(err))
}

func TestSearchContacts_PitchFailureIsNonFatal(t *testing.T) {
	deps := newTestService(t)
	deps.enrich.people = testPeople()
	deps.claude.err = eris.New("claude: status 529")

	resp, err := deps.svc.SearchContacts(context.Background(), model.ContactSearchRequest{
		CompanyName: "Mecanix SAS",
	})
	require.NoError(t, err)
	require.Len(t, resp.Contacts, 2)
	for _, c := range resp.Contacts {
		assert.Empty(t, c.CustomPitch)
	}
}

func TestSearchContacts_CachedPhoneAttached(t *testing.T) {
	deps := newTestService(t)
	deps.enrich.people = testPeople()[:1]

	fingerprint := reveal.Fingerprint("Claire", "Moreau", "Mecanix SAS")
	require.NoError(t, deps.cache.Set(context.Background(),
		PhoneCacheKey(fingerprint), []byte("+33 6 12 34 56 78"), 0))

	resp, err := deps.svc.SearchContacts(context.Background(), model.ContactSearchRequest{
		CompanyName: "Mecanix SAS",
	})
	require.NoError(t, err)
	require.Len(t, resp.Contacts, 1)
	assert.Equal(t, "+33 6 12 34 56 78", resp.Contacts[0].Phone)

	// A known phone never triggers another reveal.
	assert.Empty(t, deps.enrich.reveals)
	assert.Equal(t, 0, deps.svc.Reveals().Len())
}

func TestSearchContacts_CacheHit(t *testing.T) {
	deps := newTestService(t)
	deps.enrich.people = testPeople()

	req := model.ContactSearchRequest{CompanyName: "Mecanix SAS", Product: "clips"}

	first, err := deps.svc.SearchContacts(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := deps.svc.SearchContacts(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, deps.enrich.searchCalls)
}
