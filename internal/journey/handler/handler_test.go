package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gtm_backend/internal/journey/transport"
	"gtm_backend/platform/apperr"
	"gtm_backend/platform/httpkit"
	"gtm_backend/platform/logger"
	"gtm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	workspace uuid.UUID
	limit     int
	leadID    string
	err       error
}

func (f *fakeService) ListJourneys(_ context.Context, ws uuid.UUID, limit int) (transport.JourneyListResponse, error) {
	f.workspace, f.limit = ws, limit
	if f.err != nil {
		return transport.JourneyListResponse{}, f.err
	}
	mrr := "€149"
	return transport.JourneyListResponse{Journeys: []transport.JourneyResponse{{
		ID: "RVN-ABC12345", Source: "Clay", Outbound: "CRM", Status: "won", MRR: &mrr,
		Steps: []string{"Clay", "CRM", "Stripe"},
	}}}, nil
}

func (f *fakeService) GetJourney(_ context.Context, ws uuid.UUID, leadID string) (transport.JourneyResponse, error) {
	f.workspace, f.leadID = ws, leadID
	if f.err != nil {
		return transport.JourneyResponse{}, f.err
	}
	return transport.JourneyResponse{ID: leadID, Source: "Unknown", Outbound: "Pending", Status: "pipeline", Steps: []string{"Unknown"}}, nil
}

func (f *fakeService) Performance(_ context.Context, ws uuid.UUID) (transport.PerformanceResponse, error) {
	f.workspace = ws
	return transport.PerformanceResponse{
		Tools:        []transport.ToolPerformanceResponse{},
		Summary:      transport.PerformanceSummaryResponse{TotalLeadsInfluenced: 60, TotalMRRFormatted: "€0"},
		TopWorkflows: []transport.WorkflowResponse{},
	}, f.err
}

func (f *fakeService) Funnel(_ context.Context, ws uuid.UUID) (transport.FunnelResponse, error) {
	f.workspace = ws
	return transport.FunnelResponse{Stages: []transport.FunnelStageResponse{{ID: "new", Label: "New", Count: 2}}, Total: 2}, f.err
}

func setupRouter(svc Service, workspaceID uuid.UUID, authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if authenticated {
		r.Use(func(c *gin.Context) {
			httpkit.SetIdentity(c, uuid.New(), workspaceID)
			c.Next()
		})
	}
	New(svc, validator.New(), logger.Discard()).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestListJourneys(t *testing.T) {
	svc := &fakeService{}
	ws := uuid.New()
	r := setupRouter(svc, ws, true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/journeys?limit=25", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ws, svc.workspace)
	assert.Equal(t, 25, svc.limit)

	var body struct {
		Journeys []map[string]any `json:"journeys"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Journeys, 1)
	assert.Equal(t, "RVN-ABC12345", body.Journeys[0]["id"])
	assert.Equal(t, "€149", body.Journeys[0]["mrr"])
	assert.Equal(t, []any{"Clay", "CRM", "Stripe"}, body.Journeys[0]["steps"])
}

func TestListJourneysRejectsBadLimit(t *testing.T) {
	r := setupRouter(&fakeService{}, uuid.New(), true)

	for _, q := range []string{"limit=-1", "limit=abc"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/journeys?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestGetJourneyNormalizesLeadID(t *testing.T) {
	svc := &fakeService{}
	r := setupRouter(svc, uuid.New(), true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/journeys/rvn-abc12345", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "RVN-ABC12345", svc.leadID)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	_, hasMRR := body["mrr"]
	assert.False(t, hasMRR, "mrr must be omitted when absent")
}

func TestGetJourneyInvalidID(t *testing.T) {
	r := setupRouter(&fakeService{}, uuid.New(), true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/journeys/not-a-lead", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetJourneyNotFound(t *testing.T) {
	r := setupRouter(&fakeService{err: apperr.NotFound("lead not found")}, uuid.New(), true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/journeys/RVN-FFFFFFFF", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "lead not found")
}

func TestInternalErrorsAreHidden(t *testing.T) {
	r := setupRouter(&fakeService{err: errors.New("pq: connection refused")}, uuid.New(), true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/journeys", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestPerformanceAndFunnel(t *testing.T) {
	svc := &fakeService{}
	ws := uuid.New()
	r := setupRouter(svc, ws, true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/performance", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalLeadsInfluenced":60`)
	assert.Contains(t, w.Body.String(), `"topWorkflows":[]`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/funnel", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
	assert.Equal(t, ws, svc.workspace)
}

func TestRequiresIdentity(t *testing.T) {
	r := setupRouter(&fakeService{}, uuid.New(), false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/performance", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
