package dedupe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
)

func rec(name, phone string) model.BusinessRecord {
	return model.BusinessRecord{Name: name, Phone: phone}
}

func names(records []model.BusinessRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestMerge_SimilarNames(t *testing.T) {
	d := New(DefaultThreshold)

	out := d.Merge([]model.BusinessRecord{
		rec("Al Noor Trading LLC", ""),
		rec("Al Noor Trading L.L.C.", ""),
	})

	require.Len(t, out, 1)
	assert.Equal(t, "Al Noor Trading LLC", out[0].Name)
}

func TestMerge_CaseInsensitiveNames(t *testing.T) {
	d := New(DefaultThreshold)
	out := d.Merge([]model.BusinessRecord{rec("EMIRATES LEGAL", ""), rec("Emirates Legal", "")})
	assert.Len(t, out, 1)
}

func TestMerge_SamePhoneDifferentFormat(t *testing.T) {
	d := New(DefaultThreshold)

	out := d.Merge([]model.BusinessRecord{
		{Name: "Gulf Realty", Phone: "+971-4-368-5555", Confidence: 1.0},
		{Name: "Palm Properties", Phone: "04 368 5555", Confidence: 0.85},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "Gulf Realty", out[0].Name)
	assert.Equal(t, 1.0, out[0].Confidence)
}

func TestMerge_EmptyNamesDifferentPhones(t *testing.T) {
	d := New(DefaultThreshold)

	out := d.Merge([]model.BusinessRecord{
		rec("", "+971501111111"),
		rec("", "+971502222222"),
	})

	assert.Len(t, out, 2)
}

func TestMerge_EmptyPhonesNeverMatch(t *testing.T) {
	d := New(DefaultThreshold)

	out := d.Merge([]model.BusinessRecord{
		rec("Desert Bakery", ""),
		rec("Marina Dental Clinic", ""),
	})

	assert.Len(t, out, 2)
}

func TestMerge_ThresholdIsStrict(t *testing.T) {
	// "abcde" vs "abcdx": similarity exactly 0.8.
	d := New(0.8)
	out := d.Merge([]model.BusinessRecord{rec("abcde", ""), rec("abcdx", "")})
	assert.Len(t, out, 2)

	loose := New(0.79)
	out = loose.Merge([]model.BusinessRecord{rec("abcde", ""), rec("abcdx", "")})
	assert.Len(t, out, 1)
}

func TestMerge_PreservesOrder(t *testing.T) {
	d := New(DefaultThreshold)

	out := d.Merge([]model.BusinessRecord{
		rec("Zeta Consulting", ""),
		rec("Alpha Interiors", "+97143000000"),
		rec("Zeta Consultin", ""),
		rec("Mid Logistics", "+97143000000"),
		rec("Beta Clinic", ""),
	})

	assert.Equal(t, []string{"Zeta Consulting", "Alpha Interiors", "Beta Clinic"}, names(out))
}

func TestMerge_Idempotent(t *testing.T) {
	d := New(DefaultThreshold)
	inputs := [][]model.BusinessRecord{
		nil,
		{rec("A", "")},
		{
			rec("Al Noor Trading LLC", "+97143685555"),
			rec("Al Noor Trading L.L.C.", ""),
			rec("", "04 368 5555"),
			rec("", ""),
			rec("", ""),
			rec("Blue Wave Marine", "0501234567"),
			rec("Blue Wave Marine Services", ""),
			rec("Desert Rose Cafe", "+971501234567"),
		},
	}
	for _, in := range inputs {
		once := d.Merge(in)
		twice := d.Merge(once)
		assert.Equal(t, once, twice)
	}
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, New(DefaultThreshold).Merge(nil))
}

func TestNew_InvalidThresholdFallsBack(t *testing.T) {
	assert.Equal(t, DefaultThreshold, New(0).Threshold())
	assert.Equal(t, DefaultThreshold, New(1.5).Threshold())
	assert.Equal(t, 0.9, New(0.9).Threshold())
}

func TestDuplicate(t *testing.T) {
	d := New(DefaultThreshold)
	assert.True(t, d.Duplicate(rec("Acme", "+97143685555"), rec("Other", "+971 4 368 5555")))
	assert.False(t, d.Duplicate(rec("", ""), rec("", "")))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate([]model.BusinessRecord{rec("A", "")}))

	err := Validate([]model.BusinessRecord{rec("A", ""), rec("  ", "")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}
