package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ConstructionWatch/internal/domain"
)

func TestExtractDatesPatterns(t *testing.T) {
	t.Parallel()

	e := New(DefaultLexicon(), nil)

	tests := []struct {
		name      string
		text      string
		iso       string
		precision domain.DatePrecision
	}{
		{"numeric", "vào 05/09/2024 tới", "2024-09-05", domain.PrecisionDay},
		{"dashed", "hạn chót 1-12-2025", "2025-12-01", domain.PrecisionDay},
		{"spelled", "ngày 2 tháng 9 năm 2025", "2025-09-02", domain.PrecisionDay},
		{"month slash", "tháng 4/2025", "2025-04", domain.PrecisionMonth},
		{"month words", "tháng 3 năm 2024", "2024-03", domain.PrecisionMonth},
		{"quarter roman", "quý ii/2025", "2025-04", domain.PrecisionQuarter},
		{"quarter digit", "quý 4 năm 2026", "2026-10", domain.PrecisionQuarter},
		{"year", "trong năm 2030", "2030", domain.PrecisionYear},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dates := e.extractDates(tc.text)
			require.Len(t, dates, 1)
			assert.Equal(t, tc.iso, dates[0].ISO())
			assert.Equal(t, tc.precision, dates[0].Precision)
			assert.Equal(t, domain.DateMentioned, dates[0].Type)
			assert.Equal(t, 0.5, dates[0].Confidence)
		})
	}
}

func TestExtractDatesDropsImpossible(t *testing.T) {
	t.Parallel()

	e := New(DefaultLexicon(), nil)
	assert.Empty(t, e.extractDates("ngày 31/2/2024 và 45/13/2024, tháng 13/2024, năm 1500"))
}

func TestExtractDatesOrderAndCues(t *testing.T) {
	t.Parallel()

	e := New(DefaultLexicon(), nil)
	dates := e.extractDates("sở đã công bố kế hoạch năm 2023. dự án sẽ khởi công quý i/2024 và khánh thành tháng 12/2025.")
	require.Len(t, dates, 3)

	assert.Equal(t, domain.DateAnnounced, dates[0].Type)
	assert.Equal(t, 0.7, dates[0].Confidence)
	assert.Equal(t, domain.DateStart, dates[1].Type)
	assert.Equal(t, domain.DateEnd, dates[2].Type)
}

func TestExtractDatesCueOutsideWindow(t *testing.T) {
	t.Parallel()

	e := New(DefaultLexicon(), nil)
	filler := "một hai ba bốn năm sáu bảy tám chín mười một hai ba bốn năm sáu bảy"
	dates := e.extractDates("khởi công " + filler + " 10/10/2024")
	require.Len(t, dates, 1)
	assert.Equal(t, domain.DateMentioned, dates[0].Type)
}
