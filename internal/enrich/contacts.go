package enrich

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/normalize"
	"github.com/renbran/dubai-sme-scraper-sub000/pkg/hunter"
)

const defaultContactLimit = 10

// contactSeniority restricts lookups to decision makers.
var contactSeniority = []string{"executive", "senior"}

// HunterEnricher finds executives through Hunter.io domain search.
type HunterEnricher struct {
	client hunter.Client
	limit  int
}

// NewHunterEnricher creates a contact enricher returning at most limit
// contacts per domain. A non-positive limit selects 10.
func NewHunterEnricher(client hunter.Client, limit int) *HunterEnricher {
	if limit <= 0 {
		limit = defaultContactLimit
	}
	return &HunterEnricher{client: client, limit: limit}
}

// Enrich looks up executives for domain. Lookup failures are reported as
// ErrEnrichmentUnavailable.
func (h *HunterEnricher) Enrich(ctx context.Context, domain string) (*model.ContactResult, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, eris.Wrap(model.ErrInvalidInput, "enrich: empty domain")
	}

	res, err := h.client.DomainSearch(ctx, hunter.DomainSearchParams{
		Domain:    domain,
		Limit:     h.limit,
		Seniority: contactSeniority,
		Type:      "personal",
	})
	if err != nil {
		return nil, enrichmentUnavailable(eris.Wrapf(err, "enrich: hunter domain search %s", domain))
	}

	out := &model.ContactResult{
		Domain:       res.Domain,
		Organization: res.Organization,
		Headcount:    res.Headcount,
	}
	if out.Domain == "" {
		out.Domain = domain
	}
	for _, e := range res.Emails {
		email := normalize.Email(e.Value)
		if email == "" {
			continue
		}
		out.Executives = append(out.Executives, model.Contact{
			Name:       e.FullName(),
			Email:      email,
			Position:   e.Position,
			Seniority:  e.Seniority,
			Department: e.Department,
			LinkedIn:   e.LinkedIn,
			Confidence: e.Confidence,
		})
	}
	return out, nil
}
