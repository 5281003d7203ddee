package search

import (
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Query is a search phrase plus its location.
type Query struct {
	Text     string
	Location string
}

// Rewriter derives a broader alternative to a query that found nothing.
// ok is false when the rewriter does not apply.
type Rewriter interface {
	Rewrite(q Query) (out Query, ok bool)
}

// RewriterFunc adapts a function to Rewriter.
type RewriterFunc func(q Query) (Query, bool)

// Rewrite implements Rewriter.
func (f RewriterFunc) Rewrite(q Query) (Query, bool) { return f(q) }

// Substitute replaces a whole word in the query text and location,
// case-insensitively.
type Substitute struct {
	From string
	To   string
}

// Rewrite implements Rewriter.
func (s Substitute) Rewrite(q Query) (Query, bool) {
	if s.From == "" {
		return q, false
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(s.From) + `\b`)
	out := Query{
		Text:     collapse(re.ReplaceAllString(q.Text, s.To)),
		Location: collapse(re.ReplaceAllString(q.Location, s.To)),
	}
	return out, out != q
}

// StripQualifiers removes qualifying adjectives such as "best" or "top".
type StripQualifiers struct {
	Words []string
}

// Rewrite implements Rewriter.
func (s StripQualifiers) Rewrite(q Query) (Query, bool) {
	drop := make(map[string]bool, len(s.Words))
	for _, w := range s.Words {
		drop[strings.ToLower(w)] = true
	}
	var kept []string
	for _, tok := range strings.Fields(q.Text) {
		if !drop[strings.ToLower(tok)] {
			kept = append(kept, tok)
		}
	}
	if len(kept) == 0 {
		return q, false
	}
	out := Query{Text: strings.Join(kept, " "), Location: q.Location}
	return out, out.Text != collapse(q.Text)
}

// Truncate keeps only the first Tokens words of the query text.
type Truncate struct {
	Tokens int
}

// Rewrite implements Rewriter.
func (t Truncate) Rewrite(q Query) (Query, bool) {
	toks := strings.Fields(q.Text)
	if t.Tokens <= 0 || len(toks) <= t.Tokens {
		return q, false
	}
	return Query{Text: strings.Join(toks[:t.Tokens], " "), Location: q.Location}, true
}

// GenericBusiness turns the query into "<first word> business".
type GenericBusiness struct{}

// Rewrite implements Rewriter.
func (GenericBusiness) Rewrite(q Query) (Query, bool) {
	toks := strings.Fields(q.Text)
	if len(toks) == 0 || strings.EqualFold(toks[0], "business") {
		return q, false
	}
	return Query{Text: toks[0] + " business", Location: q.Location}, true
}

// Alternatives applies each rewriter to q, in order, and returns the
// distinct results that differ from q.
func Alternatives(q Query, rewriters []Rewriter) []Query {
	seen := map[Query]bool{normalizeQuery(q): true}
	var out []Query
	for _, rw := range rewriters {
		alt, ok := rw.Rewrite(q)
		if !ok || strings.TrimSpace(alt.Text) == "" {
			continue
		}
		key := normalizeQuery(alt)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, alt)
	}
	return out
}

// DefaultQualifiers are the adjectives StripQualifiers removes by default.
var DefaultQualifiers = []string{
	"best", "top", "leading", "professional", "affordable", "cheap",
	"premium", "luxury", "local", "trusted",
}

// DefaultRewriters returns the built-in rewrite chain.
func DefaultRewriters() []Rewriter {
	return []Rewriter{
		Substitute{From: "Dubai", To: "UAE"},
		Substitute{From: "companies", To: "services"},
		Substitute{From: "firms", To: "services"},
		Substitute{From: "agencies", To: "services"},
		StripQualifiers{Words: DefaultQualifiers},
		Truncate{Tokens: 2},
		GenericBusiness{},
	}
}

// RewriteRules is the YAML form of a rewrite chain. Rules apply in the
// order: substitutions, qualifier stripping, truncation, generic fallback.
type RewriteRules struct {
	Substitutions []struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"substitutions"`
	Qualifiers     []string `yaml:"qualifiers"`
	TruncateTokens int      `yaml:"truncate_tokens"`
	Generic        bool     `yaml:"generic"`
}

// LoadRewriteRules reads rewrite rules from a YAML file.
func LoadRewriteRules(path string) (*RewriteRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "search: read rewrite rules %s", path)
	}
	return ParseRewriteRules(data)
}

// ParseRewriteRules parses rewrite rules from YAML.
func ParseRewriteRules(data []byte) (*RewriteRules, error) {
	var rules RewriteRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, eris.Wrap(err, "search: parse rewrite rules")
	}
	for i, s := range rules.Substitutions {
		if strings.TrimSpace(s.From) == "" {
			return nil, eris.Errorf("search: rewrite substitution %d has empty 'from'", i)
		}
	}
	if rules.TruncateTokens < 0 {
		return nil, eris.New("search: truncate_tokens must not be negative")
	}
	return &rules, nil
}

// Rewriters builds the rewrite chain described by r.
func (r *RewriteRules) Rewriters() []Rewriter {
	var out []Rewriter
	for _, s := range r.Substitutions {
		out = append(out, Substitute{From: s.From, To: s.To})
	}
	if len(r.Qualifiers) > 0 {
		out = append(out, StripQualifiers{Words: r.Qualifiers})
	}
	if r.TruncateTokens > 0 {
		out = append(out, Truncate{Tokens: r.TruncateTokens})
	}
	if r.Generic {
		out = append(out, GenericBusiness{})
	}
	return out
}

func normalizeQuery(q Query) Query {
	return Query{Text: strings.ToLower(collapse(q.Text)), Location: strings.ToLower(collapse(q.Location))}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
