package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ConstructionWatch/internal/domain"
)

type fakeGeocoder struct {
	known map[string]domain.Coordinates
	err   error
	calls []string
}

func (f *fakeGeocoder) Resolve(_ context.Context, query, _ string) (*domain.Coordinates, error) {
	f.calls = append(f.calls, query)
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.known[query]; ok {
		return &c, nil
	}
	return nil, nil
}

var scrapedAt = time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)

func bridgeArticle() domain.RawArticle {
	return domain.RawArticle{
		Source:    "vnexpress",
		SourceURL: "https://vnexpress.net/cau-vuot-an-phu.html?utm_source=rss",
		Title:     "TP.HCM khởi công cầu vượt nút giao An Phú",
		Content: "Sáng nay, UBND TP.HCM chính thức khởi công ngày 15/3/2025 dự án cầu vượt tại Thủ Đức. " +
			"Dự kiến hoàn thành vào tháng 6/2026.",
		ScrapedAt: scrapedAt,
	}
}

func TestExtractClassifiesStartDate(t *testing.T) {
	t.Parallel()

	geo := &fakeGeocoder{known: map[string]domain.Coordinates{"Thủ Đức": {Longitude: 106.77, Latitude: 10.85}}}
	e := New(DefaultLexicon(), nil, WithGeocoder(geo))

	res, err := e.Extract(context.Background(), bridgeArticle())
	require.NoError(t, err)
	require.NotNil(t, res)

	require.Len(t, res.ExtractedData.Dates, 2)
	start := res.ExtractedData.Dates[0]
	assert.Equal(t, domain.DateStart, start.Type)
	assert.Equal(t, 0.8, start.Confidence)
	assert.Equal(t, domain.PrecisionDay, start.Precision)
	assert.Equal(t, "2025-03-15", start.ISO())

	end := res.ExtractedData.Dates[1]
	assert.Equal(t, domain.DateEnd, end.Type)
	assert.Equal(t, 0.8, end.Confidence)
	assert.Equal(t, "2026-06", end.ISO())

	require.Len(t, res.ExtractedData.Locations, 1)
	loc := res.ExtractedData.Locations[0]
	assert.Equal(t, "Thủ Đức", loc.Text)
	assert.Equal(t, "Thủ Đức", loc.District)
	require.NotNil(t, loc.Coordinates)
	assert.Equal(t, 0.8, loc.Confidence)

	assert.Equal(t, domain.TypeBridge, res.ExtractedData.ConstructionType)
	assert.Equal(t, domain.ProjectCompleted, res.ExtractedData.Status)
	assert.Contains(t, res.ExtractedData.Keywords, "khởi công")
	assert.Contains(t, res.ExtractedData.Keywords, "cầu vượt")

	assert.InDelta(t, 0.90, res.Confidence, 1e-9)
	assert.Equal(t, scrapedAt, res.ScrapedAt)
	assert.Len(t, res.ContentHash, 64)
}

func TestExtractIsIdempotent(t *testing.T) {
	t.Parallel()

	geo := &fakeGeocoder{known: map[string]domain.Coordinates{"Thủ Đức": {Longitude: 106.77, Latitude: 10.85}}}
	e := New(DefaultLexicon(), nil, WithGeocoder(geo))

	first, err := e.Extract(context.Background(), bridgeArticle())
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), bridgeArticle())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractHashIgnoresTracking(t *testing.T) {
	t.Parallel()

	e := New(DefaultLexicon(), nil)
	a := bridgeArticle()
	b := bridgeArticle()
	b.SourceURL = "https://vnexpress.net/cau-vuot-an-phu.html"
	b.Title = "  tp.hcm KHỞI CÔNG cầu vượt   nút giao An Phú "

	ra, err := e.Extract(context.Background(), a)
	require.NoError(t, err)
	rb, err := e.Extract(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, ra.ContentHash, rb.ContentHash)
}

func TestRelevanceFilterIsConjunctive(t *testing.T) {
	t.Parallel()

	e := New(DefaultLexicon(), nil)
	ctx := context.Background()

	cases := map[string]domain.RawArticle{
		"region without keyword": {
			Title:   "Đội bóng TP.HCM thắng trận",
			Content: "Trận đấu tại Thủ Đức kết thúc với tỷ số 2-1.",
		},
		"keyword without region": {
			Title:   "Hà Nội khởi công dự án metro",
			Content: "Công trình dự kiến hoàn thành năm 2027.",
		},
	}
	for name, article := range cases {
		res, err := e.Extract(ctx, article)
		require.NoError(t, err, name)
		assert.Nil(t, res, name)
	}

	res, err := e.Extract(ctx, domain.RawArticle{Title: "Khởi công dự án", Content: "Dự án nằm ở Gò Vấp."})
	require.NoError(t, err)
	assert.NotNil(t, res, "district mention satisfies the region condition")
}

func TestExtractDropsUntitled(t *testing.T) {
	t.Parallel()

	e := New(DefaultLexicon(), nil)
	a := bridgeArticle()
	a.Title = "   "

	res, err := e.Extract(context.Background(), a)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestExtractGeocodeFailureDegrades(t *testing.T) {
	t.Parallel()

	geo := &fakeGeocoder{err: errors.New("timeout")}
	e := New(DefaultLexicon(), nil, WithGeocoder(geo))

	res, err := e.Extract(context.Background(), bridgeArticle())
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.ExtractedData.Locations, 1)
	assert.Nil(t, res.ExtractedData.Locations[0].Coordinates)
	assert.Equal(t, 0.7, res.ExtractedData.Locations[0].Confidence)
	assert.InDelta(t, 0.70, res.Confidence, 1e-9)
}

func TestExtractStreets(t *testing.T) {
	t.Parallel()

	geo := &fakeGeocoder{known: map[string]domain.Coordinates{
		"đường Nguyễn Hữu Cảnh": {Longitude: 106.72, Latitude: 10.79},
	}}
	e := New(DefaultLexicon(), nil, WithGeocoder(geo))

	res, err := e.Extract(context.Background(), domain.RawArticle{
		Title:   "Mở rộng đường Nguyễn Hữu Cảnh, quận Bình Thạnh",
		Content: "Sở Giao thông TP.HCM đề xuất nâng cấp đường Võ Văn Kiệt và đường Nguyễn Hữu Cảnh.",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	var texts []string
	for _, loc := range res.ExtractedData.Locations {
		texts = append(texts, loc.Text)
	}
	assert.Equal(t, []string{"Bình Thạnh", "đường Nguyễn Hữu Cảnh", "đường Võ Văn Kiệt"}, texts)

	nhc := res.ExtractedData.Locations[1]
	require.NotNil(t, nhc.Coordinates)
	assert.Equal(t, 0.7, nhc.Confidence)

	vvk := res.ExtractedData.Locations[2]
	assert.Nil(t, vvk.Coordinates)
	assert.Equal(t, 0.5, vvk.Confidence)
}

func TestExtractTruncatesRawText(t *testing.T) {
	t.Parallel()

	e := New(DefaultLexicon(), nil, WithRawTextLimit(20))
	a := bridgeArticle()
	a.Content += strings.Repeat("ô", 100)

	res, err := e.Extract(context.Background(), a)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 20, len([]rune(res.RawText)))
}

func TestExtractHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(DefaultLexicon(), nil).Extract(ctx, bridgeArticle())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestWithKeywordsOverridesFilter(t *testing.T) {
	t.Parallel()

	base := New(DefaultLexicon(), nil)
	custom := base.WithKeywords([]string{"Nhà ga"})
	article := domain.RawArticle{Title: "Nhà ga Bến Thành", Content: "Nhà ga ngầm ở Quận 1 đón khách."}

	res, err := base.Extract(context.Background(), article)
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = custom.Extract(context.Background(), article)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"nhà ga"}, res.ExtractedData.Keywords)

	assert.Same(t, base, base.WithKeywords(nil))
}

func TestClassifyTypeTieBreaksByRuleOrder(t *testing.T) {
	t.Parallel()

	e := New(DefaultLexicon(), nil)
	assert.Equal(t, domain.TypeMetro, e.classifyType("tuyến metro nối với cao tốc"))
	assert.Equal(t, domain.TypeHighway, e.classifyType("metro, cao tốc và vành đai"))
	assert.Equal(t, domain.ConstructionType(""), e.classifyType("không có gì"))
}

func TestClassifyStatusPriority(t *testing.T) {
	t.Parallel()

	e := New(DefaultLexicon(), nil)
	assert.Equal(t, domain.ProjectPaused, e.classifyStatus("dự án đang thi công thì tạm dừng"))
	assert.Equal(t, domain.ProjectPlanned, e.classifyStatus("đề xuất mở rộng"))
	assert.Equal(t, domain.ProjectStatus(""), e.classifyStatus("không có gì"))
}

func TestRelevanceAcceptsCanonicalRegionName(t *testing.T) {
	t.Parallel()

	lex := DefaultLexicon()
	lex.RegionName = "Hà Nội"
	lex.RegionAliases = []string{"hn"}
	lex.Districts = nil
	e := New(lex, nil)

	res, err := e.Extract(context.Background(), domain.RawArticle{
		SourceURL: "https://example.vn/cau-vuot",
		Title:     "Khởi công dự án cầu vượt ở Hà Nội",
		Content:   "Công trình dự kiến hoàn thành năm 2026.",
	})
	require.NoError(t, err)
	require.NotNil(t, res, "canonical region name alone must satisfy the region check")

	res, err = e.Extract(context.Background(), domain.RawArticle{
		SourceURL: "https://example.vn/khac",
		Title:     "Khởi công dự án cầu vượt ở Đà Nẵng",
	})
	require.NoError(t, err)
	assert.Nil(t, res)
}
