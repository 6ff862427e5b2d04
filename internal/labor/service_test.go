package labor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/logging"
)

type fakeBLS struct {
	calls  atomic.Int32
	status int
	last   map[string]interface{}
}

func (f *fakeBLS) server(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if f.status != 0 {
			http.Error(w, "upstream down", f.status)
			return
		}
		assert.Equal(t, "/timeseries/data/", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.last))
		series := f.last["seriesid"].([]interface{})[0].(string)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "REQUEST_SUCCEEDED",
			"Results": map[string]interface{}{
				"series": []interface{}{map[string]interface{}{
					"seriesID": series,
					"data":     []interface{}{map[string]string{"year": "2024", "period": "A01", "value": "121,500"}},
				}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestService_WageFromUpstreamThenCache(t *testing.T) {
	fake := &fakeBLS{}
	srv := fake.server(t)
	svc := NewService(NewBLSClient(srv.URL, "key"), nil, NewMemoryCache(), logging.Discard())
	ctx := context.Background()

	w := svc.Wage(ctx, "15-2051")
	assert.Equal(t, SourceBLS, w.Source)
	assert.Equal(t, 121500.0, w.AnnualMeanWage)
	assert.Equal(t, 2024, w.Year)
	assert.False(t, w.Cached)
	assert.Equal(t, "OEUN000000000000015205104", fake.last["seriesid"].([]interface{})[0])
	assert.Equal(t, "key", fake.last["registrationkey"])

	again := svc.Wage(ctx, "15-2051")
	assert.True(t, again.Cached)
	assert.Equal(t, SourceBLS, again.Source)
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestService_UpstreamFailureServesEstimate(t *testing.T) {
	fake := &fakeBLS{status: http.StatusServiceUnavailable}
	srv := fake.server(t)
	svc := NewService(NewBLSClient(srv.URL, "key"), nil, NewMemoryCache(), logging.Discard())
	ctx := context.Background()

	w := svc.Wage(ctx, "15-2051.01")
	assert.Equal(t, SourceEstimate, w.Source)
	assert.Equal(t, "Data Scientists", w.Title)
	assert.Positive(t, w.AnnualMeanWage)

	e := svc.Employment(ctx, "99-9999")
	assert.Equal(t, SourceEstimate, e.Source)
	assert.Equal(t, defaultEstimate.Employment, e.Employment)

	svc.Wage(ctx, "15-2051.01")
	assert.Equal(t, int32(3), fake.calls.Load(), "estimates are not cached")
}

func TestService_NoKeyNeverCallsUpstream(t *testing.T) {
	fake := &fakeBLS{}
	srv := fake.server(t)
	svc := NewService(NewBLSClient(srv.URL, ""), NewONetClient(srv.URL, ""), nil, logging.Discard())

	assert.Equal(t, SourceEstimate, svc.Wage(context.Background(), "29-9021").Source)
	assert.Equal(t, SourceEstimate, svc.SearchOccupations(context.Background(), "nurse").Source)
	assert.Equal(t, int32(0), fake.calls.Load())
}

func TestService_NilLoggerServesEstimates(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)
	ctx := context.Background()

	require.NotPanics(t, func() {
		assert.Equal(t, SourceEstimate, svc.Wage(ctx, "15-2051").Source)
		assert.Equal(t, SourceEstimate, svc.OccupationSkills(ctx, "15-2051.00").Source)
	})
}

func TestService_ONet(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		switch r.URL.Path {
		case "/online/search":
			assert.Equal(t, "informatics", r.URL.Query().Get("keyword"))
			w.Write([]byte(`{"occupation":[{"code":"15-1211.01","title":"Health Informatics Specialists"}]}`))
		case "/online/occupations/15-1211.01/summary/skills":
			w.Write([]byte(`{"element":[{"id":"2.A.2.a","name":"Critical Thinking","description":"Using logic"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := NewService(nil, NewONetClient(srv.URL, "onet-key"), NewMemoryCache(), logging.Discard())
	ctx := context.Background()

	found := svc.SearchOccupations(ctx, "informatics")
	assert.Equal(t, "onet-key", gotKey)
	assert.Equal(t, SourceONet, found.Source)
	require.Len(t, found.Occupations, 1)
	assert.Equal(t, "15-1211.01", found.Occupations[0].Code)

	skills := svc.OccupationSkills(ctx, "15-1211.01")
	assert.Equal(t, SourceONet, skills.Source)
	require.Len(t, skills.Skills, 1)
	assert.Equal(t, "Critical Thinking", skills.Skills[0].Name)

	missing := svc.OccupationSkills(ctx, "11-1111.00")
	assert.Equal(t, SourceEstimate, missing.Source)
	assert.NotEmpty(t, missing.Skills)
}

func TestEstimatedSearch(t *testing.T) {
	got := estimatedSearch("Analysts")
	require.Len(t, got.Occupations, 2)
	assert.Equal(t, "15-1211.00", got.Occupations[0].Code)
	assert.Equal(t, "15-1212.00", got.Occupations[1].Code)

	assert.Empty(t, estimatedSearch("astronaut").Occupations)
	assert.NotNil(t, estimatedSearch("astronaut").Occupations)
}

func TestMemoryCache_Expires(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	b, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", string(b))

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestHandler_AlwaysServesAShape(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	svc := NewService(NewBLSClient(down.URL, "k"), NewONetClient(down.URL, "k"), nil, logging.Discard())
	h := NewHandler(svc)
	r := chi.NewRouter()
	r.Route("/api/bls", h.BLSRoutes)
	r.Route("/api/onet", h.ONetRoutes)

	tests := []struct {
		path string
		want int
	}{
		{"/api/bls/wages/15-2051", http.StatusOK},
		{"/api/bls/employment/29-1141", http.StatusOK},
		{"/api/onet/search?keyword=nurse", http.StatusOK},
		{"/api/onet/skills/15-2051.00", http.StatusOK},
		{"/api/bls/wages/not-a-code", http.StatusBadRequest},
		{"/api/onet/search", http.StatusBadRequest},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		require.Equal(t, tc.want, rec.Code, tc.path)
		if tc.want == http.StatusOK {
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, SourceEstimate, body["source"], tc.path)
		}
	}
}
