package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitute(t *testing.T) {
	rw := Substitute{From: "Dubai", To: "UAE"}

	got, ok := rw.Rewrite(Query{Text: "cafes in dubai marina", Location: "Dubai"})
	require.True(t, ok)
	assert.Equal(t, Query{Text: "cafes in UAE marina", Location: "UAE"}, got)

	_, ok = rw.Rewrite(Query{Text: "cafes", Location: "Sharjah"})
	assert.False(t, ok)

	// Whole words only.
	_, ok = Substitute{From: "firms", To: "services"}.Rewrite(Query{Text: "firmsville shops"})
	assert.False(t, ok)
}

func TestStripQualifiers(t *testing.T) {
	rw := StripQualifiers{Words: DefaultQualifiers}

	got, ok := rw.Rewrite(Query{Text: "Best  affordable dental clinics", Location: "Dubai"})
	require.True(t, ok)
	assert.Equal(t, "dental clinics", got.Text)
	assert.Equal(t, "Dubai", got.Location)

	_, ok = rw.Rewrite(Query{Text: "dental clinics"})
	assert.False(t, ok)

	_, ok = rw.Rewrite(Query{Text: "top best"})
	assert.False(t, ok, "stripping everything is not a usable rewrite")
}

func TestTruncate(t *testing.T) {
	got, ok := Truncate{Tokens: 2}.Rewrite(Query{Text: "real estate agencies Dubai"})
	require.True(t, ok)
	assert.Equal(t, "real estate", got.Text)

	_, ok = Truncate{Tokens: 2}.Rewrite(Query{Text: "real estate"})
	assert.False(t, ok)
}

func TestGenericBusiness(t *testing.T) {
	got, ok := GenericBusiness{}.Rewrite(Query{Text: "accounting firms", Location: "Deira"})
	require.True(t, ok)
	assert.Equal(t, Query{Text: "accounting business", Location: "Deira"}, got)

	_, ok = GenericBusiness{}.Rewrite(Query{Text: "business"})
	assert.False(t, ok)
}

func TestAlternatives_SkipsDuplicatesAndOriginal(t *testing.T) {
	q := Query{Text: "top consulting firms", Location: "Dubai"}
	got := Alternatives(q, DefaultRewriters())

	assert.Equal(t, []Query{
		{Text: "top consulting firms", Location: "UAE"},
		{Text: "top consulting services", Location: "Dubai"},
		{Text: "consulting firms", Location: "Dubai"},
		{Text: "top consulting", Location: "Dubai"},
		{Text: "top business", Location: "Dubai"},
	}, got)

	dup := []Rewriter{
		Truncate{Tokens: 2},
		RewriterFunc(func(q Query) (Query, bool) { return Query{Text: "TOP  consulting", Location: q.Location}, true }),
		RewriterFunc(func(q Query) (Query, bool) { return q, true }),
	}
	assert.Equal(t, []Query{{Text: "top consulting", Location: "Dubai"}}, Alternatives(q, dup))
}

func TestParseRewriteRules(t *testing.T) {
	data := []byte(`
substitutions:
  - from: Dubai
    to: Emirates
qualifiers: [best, top]
truncate_tokens: 1
generic: true
`)
	rules, err := ParseRewriteRules(data)
	require.NoError(t, err)

	rws := rules.Rewriters()
	require.Len(t, rws, 4)
	got := Alternatives(Query{Text: "best web designers", Location: "Dubai"}, rws)
	assert.Equal(t, []Query{
		{Text: "best web designers", Location: "Emirates"},
		{Text: "web designers", Location: "Dubai"},
		{Text: "best", Location: "Dubai"},
		{Text: "best business", Location: "Dubai"},
	}, got)
}

func TestParseRewriteRules_Invalid(t *testing.T) {
	_, err := ParseRewriteRules([]byte("substitutions:\n  - to: x\n"))
	assert.Error(t, err)

	_, err = ParseRewriteRules([]byte("truncate_tokens: -1\n"))
	assert.Error(t, err)

	_, err = ParseRewriteRules([]byte("qualifiers: {bad"))
	assert.Error(t, err)
}

func TestLoadRewriteRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewrites.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generic: true\n"), 0o600))

	rules, err := LoadRewriteRules(path)
	require.NoError(t, err)
	assert.True(t, rules.Generic)
	assert.Len(t, rules.Rewriters(), 1)

	_, err = LoadRewriteRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
