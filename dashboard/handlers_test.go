package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/job"
)

type fakeStore struct {
	jobs          []*job.Job
	summary       qc.StatsSummary
	retryErr      error
	retriedJobIDs []string
}

func (f *fakeStore) GetJob(context.Context, string) (*job.Job, error) { return nil, qc.ErrNotFound }

func (f *fakeStore) ListJobs(context.Context, qc.ListFilter) ([]*job.Job, error) {
	return f.jobs, nil
}

func (f *fakeStore) ListJobsPaginated(_ context.Context, _ job.State, page, perPage int) ([]*job.Job, int, error) {
	return f.jobs, len(f.jobs), nil
}

func (f *fakeStore) StatsSummary(context.Context) (qc.StatsSummary, error) {
	return f.summary, nil
}

func (f *fakeStore) GetJobEvents(context.Context, string, int) ([]*job.Event, error) {
	msg := "boom"
	return []*job.Event{{Seq: 1, JobID: "j1", Type: "claimed", Message: &msg}}, nil
}

func (f *fakeStore) RetryDead(_ context.Context, id string) error {
	f.retriedJobIDs = append(f.retriedJobIDs, id)
	return f.retryErr
}

func (f *fakeStore) DeleteCompletedBefore(context.Context, int64) (int, error) { return 0, nil }

func newTestDashboard(fs *fakeStore, token string) (*Dashboard, *gin.Engine) {
	clock := func() int64 { return 1700000000 }
	d := New(fs, fs, clock, NewAuth(token), nil)
	gin.SetMode(gin.TestMode)
	return d, NewRouter(d)
}

func TestHealthEndpoint(t *testing.T) {
	_, r := newTestDashboard(&fakeStore{}, "")
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestListJobsEndpoint(t *testing.T) {
	fs := &fakeStore{jobs: []*job.Job{{ID: "a", State: job.Pending}, {ID: "b", State: job.Dead}}}
	_, r := newTestDashboard(fs, "")
	req := httptest.NewRequest(http.MethodGet, "/api/jobs?page=1&per_page=10", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"total":2`) {
		t.Fatalf("expected total=2 in body, got %s", rec.Body.String())
	}
}

func TestListJobsRejectsBadState(t *testing.T) {
	_, r := newTestDashboard(&fakeStore{}, "")
	req := httptest.NewRequest(http.MethodGet, "/api/jobs?state=bogus", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	fs := &fakeStore{summary: qc.StatsSummary{Pending: 1, Total: 1}}
	_, r := newTestDashboard(fs, "")
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"timestamp":1700000000`) {
		t.Fatalf("expected timestamp in body, got %s", rec.Body.String())
	}
}

func TestJobEventsEndpoint(t *testing.T) {
	fs := &fakeStore{}
	_, r := newTestDashboard(fs, "")
	req := httptest.NewRequest(http.MethodGet, "/api/jobs/j1/events?limit=5", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"event_type":"claimed"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestDLQRetryRequiresTokenWhenConfigured(t *testing.T) {
	fs := &fakeStore{}
	_, r := newTestDashboard(fs, "secret")

	form := url.Values{"job_id": {"j1"}}
	req := httptest.NewRequest(http.MethodPost, "/api/dlq/retry", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if len(fs.retriedJobIDs) != 0 {
		t.Fatal("expected no retry to be attempted without a valid token")
	}
}

func TestDLQRetrySucceedsWithToken(t *testing.T) {
	fs := &fakeStore{}
	_, r := newTestDashboard(fs, "secret")

	form := url.Values{"job_id": {"j1"}}
	req := httptest.NewRequest(http.MethodPost, "/api/dlq/retry", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Api-Key", "secret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(fs.retriedJobIDs) != 1 || fs.retriedJobIDs[0] != "j1" {
		t.Fatalf("expected retry for j1, got %v", fs.retriedJobIDs)
	}
}

func TestDLQRetryNotDead(t *testing.T) {
	fs := &fakeStore{retryErr: qc.ErrJobNotDead}
	_, r := newTestDashboard(fs, "")

	form := url.Values{"job_id": {"j1"}}
	req := httptest.NewRequest(http.MethodPost, "/api/dlq/retry", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWSRejectsBadToken(t *testing.T) {
	_, r := newTestDashboard(&fakeStore{}, "secret")
	req := httptest.NewRequest(http.MethodGet, "/ws?token=wrong", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
