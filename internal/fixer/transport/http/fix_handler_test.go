package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nexfone/portfix/internal/fixer/app"
	"github.com/nexfone/portfix/internal/fixer/domain"
	httptransport "github.com/nexfone/portfix/internal/fixer/transport/http"
)

type MockFixService struct {
	mock.Mock
}

func (m *MockFixService) FixNumberPool(ctx context.Context, input string, target domain.EnpTarget, dryRun bool) (*app.NumberPoolResult, error) {
	args := m.Called(ctx, input, target, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.NumberPoolResult), args.Error(1)
}

func (m *MockFixService) FixRoutingCache(ctx context.Context, input string, dryRun bool) (*app.RoutingCacheResult, error) {
	args := m.Called(ctx, input, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.RoutingCacheResult), args.Error(1)
}

func (m *MockFixService) FixProvisioning(ctx context.Context, input string, dryRun bool) (*app.ProvisioningResult, error) {
	args := m.Called(ctx, input, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.ProvisioningResult), args.Error(1)
}

func newTestRouter(service httptransport.FixService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := httptransport.NewFixHandler(service, logger, validator.New())
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleFixNumberPoolDryRun(t *testing.T) {
	service := new(MockFixService)
	result := &app.NumberPoolResult{
		DryRun:      true,
		OperationID: "op-1",
		EnpTarget:   domain.EnpTargetNXP1,
		SystemID:    500,
		NPRN:        98067,
		Preview: app.Preview{
			Count:           1,
			ExpandedTargets: []string{"0449510080"},
			ExpandedDNs:     []string{"41449510080"},
		},
	}
	service.On("FixNumberPool", mock.Anything, "0449510080", domain.EnpTargetNXP1, true).Return(result, nil)

	rec := postJSON(t, newTestRouter(service), "/fix/enp", map[string]any{
		"input":   "0449510080",
		"dry_run": true,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["dry_run"])
	assert.Equal(t, "NXP1", got["enp_target"])
	assert.Equal(t, float64(500), got["system_id"])
	assert.Equal(t, []any{"41449510080"}, got["expanded_dns"])
	service.AssertExpectations(t)
}

func TestHandleFixNumberPoolDefaultsTargetToNXP1(t *testing.T) {
	service := new(MockFixService)
	service.On("FixNumberPool", mock.Anything, "0449510080", domain.EnpTargetNXP1, false).
		Return(&app.NumberPoolResult{OperationID: "op-2"}, nil)

	rec := postJSON(t, newTestRouter(service), "/fix/enp", map[string]any{"input": "0449510080"})

	require.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestHandleFixNumberPoolRejectsUnknownTarget(t *testing.T) {
	service := new(MockFixService)

	rec := postJSON(t, newTestRouter(service), "/fix/enp", map[string]any{
		"input":      "0449510080",
		"enp_target": "NXP9",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "FixNumberPool")
}

func TestHandleFixNumberPoolAllPairsFailedIsBadGateway(t *testing.T) {
	service := new(MockFixService)
	result := &app.NumberPoolResult{
		OperationID: "op-3",
		Outcomes: []app.PairOutcome{
			{DN: "41449510080", Error: "pool down"},
			{DN: "41449510081", Error: "pool down"},
		},
	}
	service.On("FixNumberPool", mock.Anything, "0449510080-81", domain.EnpTargetNXP1, false).Return(result, nil)

	rec := postJSON(t, newTestRouter(service), "/fix/enp", map[string]any{"input": "0449510080-81"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleFixValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"invalid format", fmt.Errorf("%w: %q", domain.ErrInvalidFormat, "xyz")},
		{"invalid range", fmt.Errorf("%w: 89-80", domain.ErrInvalidRange)},
		{"range too large", fmt.Errorf("%w: 460 numbers", domain.ErrRangeTooLarge)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := new(MockFixService)
			service.On("FixRoutingCache", mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)

			rec := postJSON(t, newTestRouter(service), "/fix/nprn", map[string]any{"input": "whatever"})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleFixBackendErrorIsBadGateway(t *testing.T) {
	service := new(MockFixService)
	service.On("FixProvisioning", mock.Anything, "0449510080", false).
		Return(nil, errors.New("mariadb down"))

	rec := postJSON(t, newTestRouter(service), "/fix/disp", map[string]any{"input": "0449510080"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleFixRejectsMissingInput(t *testing.T) {
	service := new(MockFixService)

	rec := postJSON(t, newTestRouter(service), "/fix/nprn", map[string]any{"dry_run": true})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "FixRoutingCache")
}

func TestHandleFixRejectsMalformedJSON(t *testing.T) {
	service := new(MockFixService)
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/fix/disp", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "FixProvisioning")
}

func TestHandleFixRoutingCacheRealRun(t *testing.T) {
	service := new(MockFixService)
	result := &app.RoutingCacheResult{
		OperationID: "op-4",
		Preview: app.Preview{
			Count:           2,
			ExpandedTargets: []string{"0449510080", "0449510081"},
			ExpandedDNs:     []string{"41449510080", "41449510081"},
		},
		ExpandedRedisKeys: []string{"nprn:routing:41449510080", "nprn:routing:41449510081"},
		DeletedCounts:     []int64{1, 0},
	}
	service.On("FixRoutingCache", mock.Anything, "0449510080-81", false).Return(result, nil)

	rec := postJSON(t, newTestRouter(service), "/fix/nprn", map[string]any{"input": "0449510080-81"})

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []any{"nprn:routing:41449510080", "nprn:routing:41449510081"}, got["expanded_redis_keys"])
	assert.Equal(t, []any{float64(1), float64(0)}, got["deleted_counts"])
}

func TestHandleFixProvisioningZeroMatches(t *testing.T) {
	service := new(MockFixService)
	result := &app.ProvisioningResult{
		OperationID: "op-5",
		Preview: app.Preview{
			Count:           1,
			ExpandedTargets: []string{"0449510080"},
			ExpandedDNs:     []string{"41449510080"},
		},
		MatchedRows: []domain.ProvisioningRow{},
	}
	service.On("FixProvisioning", mock.Anything, "0449510080", false).Return(result, nil)

	rec := postJSON(t, newTestRouter(service), "/fix/disp", map[string]any{"input": "0449510080"})

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, float64(0), got["matched_count"])
	assert.Equal(t, []any{}, got["matched_rows"])
	assert.Equal(t, float64(0), got["deleted_count"])
}
