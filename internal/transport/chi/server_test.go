package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/bizlist/internal/db"
	"github.com/kailas-cloud/bizlist/internal/db/memory"
	"github.com/kailas-cloud/bizlist/internal/domain"
	"github.com/kailas-cloud/bizlist/internal/domain/business"
	domlisting "github.com/kailas-cloud/bizlist/internal/domain/listing"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/filter"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
	"github.com/kailas-cloud/bizlist/internal/metrics"
	healthuc "github.com/kailas-cloud/bizlist/internal/usecase/health"
	listinguc "github.com/kailas-cloud/bizlist/internal/usecase/listing"
)

func TestMain(m *testing.M) {
	metrics.RegisterListingMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockLister struct {
	listFn func(ctx context.Context, q listinguc.Query) ([]domlisting.Row, error)
	got    *listinguc.Query
}

func (m *mockLister) List(ctx context.Context, q listinguc.Query) ([]domlisting.Row, error) {
	m.got = &q
	if m.listFn != nil {
		return m.listFn(ctx, q)
	}
	return nil, nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

func newTestRouter(l Lister, h HealthChecker) http.Handler {
	r := chi.NewRouter()
	NewServer(l, h, 50).Register(r)
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

// --- Parameter binding ---

func TestListBusinesses_BindsParams(t *testing.T) {
	ml := &mockLister{}
	rr := get(t, newTestRouter(ml, nil),
		"/businesses?category=defi&chain=solana&has_photo=true&limit=7&order_by=name&order=desc")

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NotNil(t, ml.got)
	q := *ml.got
	assert.Equal(t, 7, q.Limit)
	assert.False(t, q.Sample)
	assert.Equal(t, selection.Order{Field: selection.FieldName, Desc: true}, q.Order)

	cat, ok := q.Filters.Category()
	assert.True(t, ok)
	assert.Equal(t, "defi", cat)
	chain, _ := q.Filters.Chain()
	assert.Equal(t, "solana", chain)
	hp, ok := q.Filters.HasPhoto()
	assert.True(t, ok && hp)
}

func TestListBusinesses_OnlyLimit(t *testing.T) {
	ml := &mockLister{}
	rr := get(t, newTestRouter(ml, nil), "/businesses?limit=20")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 20, ml.got.Limit)
	assert.True(t, ml.got.Filters.IsEmpty())
	assert.Equal(t, selection.Order{Field: selection.FieldID}, ml.got.Order)
	assert.JSONEq(t, `{"items":[]}`, rr.Body.String())
}

func TestList_MissingLimitRejected(t *testing.T) {
	for _, target := range []string{"/businesses", "/businesses?category=defi", "/rand-businesses?category=defi"} {
		t.Run(target, func(t *testing.T) {
			ml := &mockLister{}
			rr := get(t, newTestRouter(ml, nil), target)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			resp := decodeError(t, rr)
			assert.Equal(t, ErrorResponseCodeValidationFailed, resp.Code)
			assert.Contains(t, resp.Message, "limit is required")
			assert.Nil(t, ml.got, "lister must not be called")
		})
	}
}

func TestListBusinesses_TagOverridesCategory(t *testing.T) {
	ml := &mockLister{}
	rr := get(t, newTestRouter(ml, nil), "/businesses?category=defi&tag=dex&limit=10")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ml.got.Filters.Has(filter.Category))
	tag, ok := ml.got.Filters.Tag()
	assert.True(t, ok)
	assert.Equal(t, "dex", tag)
}

func TestRandomBusinesses_Samples(t *testing.T) {
	ml := &mockLister{}
	rr := get(t, newTestRouter(ml, nil), "/rand-businesses?limit=5&tag=nft")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, ml.got.Sample)
	assert.Equal(t, 5, ml.got.Limit)
}

func TestList_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"zero limit", "/businesses?limit=0"},
		{"limit above max", "/businesses?limit=51"},
		{"non-numeric limit", "/businesses?limit=ten"},
		{"bad has_photo", "/businesses?has_photo=maybe"},
		{"empty category", "/businesses?category="},
		{"repeated param", "/businesses?chain=a&chain=b"},
		{"unknown param", "/businesses?color=red"},
		{"bad order field", "/businesses?order_by=score"},
		{"bad order direction", "/businesses?order=sideways"},
		{"order on random", "/rand-businesses?order_by=name"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ml := &mockLister{}
			rr := get(t, newTestRouter(ml, nil), tc.target)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, ErrorResponseCodeValidationFailed, decodeError(t, rr).Code)
			assert.Nil(t, ml.got, "lister must not be called")
		})
	}
}

// --- Error mapping ---

func TestList_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrorResponseCode
	}{
		{"validation", domain.Validationf("limit must be at least 1"),
			http.StatusBadRequest, ErrorResponseCodeValidationFailed},
		{"timeout", domain.NewStoreError(domain.StoreTimeout, db.OpQueryParents, context.DeadlineExceeded),
			http.StatusServiceUnavailable, ErrorResponseCodeStoreUnavailable},
		{"connection", domain.NewStoreError(domain.StoreConnectionFailure, db.OpQueryChildren, errors.New("refused")),
			http.StatusServiceUnavailable, ErrorResponseCodeStoreUnavailable},
		{"constraint", domain.NewStoreError(domain.StoreConstraintViolation, db.OpQueryParents, errors.New("fk")),
			http.StatusInternalServerError, ErrorResponseCodeInternalError},
		{"consistency", domain.ErrInternalConsistency,
			http.StatusInternalServerError, ErrorResponseCodeInternalError},
		{"unexpected", errors.New("boom"),
			http.StatusInternalServerError, ErrorResponseCodeInternalError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ml := &mockLister{listFn: func(context.Context, listinguc.Query) ([]domlisting.Row, error) {
				return nil, tc.err
			}}
			rr := get(t, newTestRouter(ml, nil), "/businesses?limit=10")

			assert.Equal(t, tc.wantStatus, rr.Code)
			resp := decodeError(t, rr)
			assert.Equal(t, tc.wantCode, resp.Code)
			if tc.wantCode != ErrorResponseCodeValidationFailed {
				assert.NotContains(t, resp.Message, "refused", "internals must not leak")
			}
		})
	}
}

// --- Health ---

func TestHealthCheck(t *testing.T) {
	ok := &mockHealth{report: healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
	}}
	rr := get(t, newTestRouter(&mockLister{}, ok), "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok"}}`, rr.Body.String())

	down := &mockHealth{report: healthuc.Report{
		Status: healthuc.Unhealthy,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
	}}
	rr = get(t, newTestRouter(&mockLister{}, down), "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

// --- End to end over the memory store ---

func TestListBusinesses_EndToEnd(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.Seed(context.Background(), db.Dataset{
		Businesses: []business.Business{
			{ID: 1, Name: "Orca Whirlpools", Category: "defi", Tags: []string{"dex"}, Status: business.Approved},
			{ID: 2, Name: "Magic Eden", Category: "nft", Status: business.Approved},
			{ID: 3, Name: "Pending Co", Category: "defi", Status: business.Pending},
		},
		Media: []media.Media{
			{ID: 10, BusinessID: 1, Source: media.Photo, URL: "https://cdn/10.png"},
			{ID: 11, BusinessID: 1, Source: media.Twitter, URL: "https://x.com/orca"},
			{ID: 12, BusinessID: 3, Source: media.Photo, URL: "https://cdn/12.png"},
		},
	}))
	svc := listinguc.New(store, listinguc.Config{})
	h := newTestRouter(svc, healthuc.New(store))

	rr := get(t, h, "/businesses?category=defi&limit=10")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp BusinessListResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	item := resp.Items[0]
	assert.Equal(t, int64(1), item.ID)
	assert.Equal(t, "orca-whirlpools", item.Slug)
	assert.Equal(t, []string{"dex"}, item.Tags)
	assert.Equal(t, []string{}, item.Types)
	require.Len(t, item.Media, 1)
	assert.Equal(t, MediaResponse{ID: 10, Source: "Photo", URL: "https://cdn/10.png"}, item.Media[0])

	rr = get(t, h, "/businesses?has_photo=true&order_by=name&order=desc&limit=10")
	require.Equal(t, http.StatusOK, rr.Code)
	resp = BusinessListResponse{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.Items, 1, "pending business with a photo stays hidden")

	rr = get(t, h, "/businesses?category=nft&limit=10")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"media":[]`)
}
