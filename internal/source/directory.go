package source

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/normalize"
)

// DirectoryName is the registry name of the synthetic directory source.
const DirectoryName = "directory"

// directoryConfidence marks synthetic records as untrustworthy.
const directoryConfidence = 0.5

const directoryRecords = 3

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// businessTypes maps query keywords to directory business types, checked in
// order.
var businessTypes = []struct {
	keyword string
	label   string
}{
	{"accounting", "Accounting Firm"},
	{"real estate", "Real Estate Agency"},
	{"consulting", "Business Consulting"},
	{"property", "Property Management"},
	{"legal", "Legal Services"},
	{"marketing", "Marketing Agency"},
	{" it ", "IT Services"},
	{"finance", "Financial Services"},
}

var directoryAreas = []string{"DIFC", "Dubai Marina", "Business Bay", "Downtown Dubai", "Jumeirah", "Deira"}

// directoryPrefixes lead each synthetic name. Records from one search take
// consecutive entries, which keeps their names far enough apart that the
// deduplicator does not fold them together.
var directoryPrefixes = []string{
	"Al Noor", "Emirates Crown", "Falcon Ridge", "Gulf Horizon",
	"Oasis Point", "Sandstone", "Pearl Coast", "Desert Rose",
}

// Directory stands in for a business directory integration that does not
// exist yet. It fabricates a few plausible records derived from the query so
// the pipeline can be exercised end to end. Every record is flagged
// IsSynthetic and carries low confidence. Output is deterministic for a
// given query and location.
type Directory struct {
	region model.Region
}

// NewDirectory creates the synthetic directory source.
func NewDirectory(region model.Region) *Directory {
	return &Directory{region: region}
}

// Name implements Client.
func (d *Directory) Name() string { return DirectoryName }

// Search implements Client.
func (d *Directory) Search(ctx context.Context, query, location string, limits Limits) ([]model.BusinessRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, Unavailable(DirectoryName, err, 0)
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(query + "|" + location)))
	seed := h.Sum64()

	kind := businessType(query)
	slug := nonAlnumRe.ReplaceAllString(strings.ToLower(kind), "")

	records := make([]model.BusinessRecord, 0, directoryRecords)
	for i := 0; i < directoryRecords; i++ {
		area := directoryAreas[(int(seed%uint64(len(directoryAreas)))+i)%len(directoryAreas)]
		prefix := directoryPrefixes[(int((seed>>32)%uint64(len(directoryPrefixes)))+i)%len(directoryPrefixes)]
		areaSlug := nonAlnumRe.ReplaceAllString(strings.ToLower(area), "")
		local := 1000000 + (seed>>(8*uint(i)))%9000000

		rec := model.BusinessRecord{
			Name:        fmt.Sprintf("%s %s %s", prefix, kind, area),
			Address:     fmt.Sprintf("%s, Dubai, UAE", area),
			Website:     normalize.Website(fmt.Sprintf("www.%s-%s.ae", slug, areaSlug)),
			Category:    kind,
			IsSynthetic: true,
		}
		rec.Phone, _ = normalize.Phone(fmt.Sprintf("+971-4-%07d", local))
		records = append(records, rec)
	}
	return finalize(records, model.SourceDirectory, directoryConfidence, d.region, limits.MaxResults), nil
}

func businessType(query string) string {
	lower := " " + strings.ToLower(query) + " "
	for _, bt := range businessTypes {
		if strings.Contains(lower, bt.keyword) {
			return bt.label
		}
	}
	return "Business Services"
}
