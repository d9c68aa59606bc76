package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	qc "github.com/ruubhagat/queuectl"
	"github.com/ruubhagat/queuectl/broadcast"
	"github.com/ruubhagat/queuectl/job"
)

// Dashboard is the thin adapter translating dashboard HTTP/WS requests
// into Store reads and retries. It holds no state of its own beyond
// what it needs to build responses and gate mutations.
type Dashboard struct {
	reader      qc.Reader
	retentioner qc.Retentioner
	clock       qc.Clock
	auth        Auth
	broadcaster *broadcast.Broadcaster
}

// New creates a Dashboard. clock defaults to qc.SystemClock if nil.
func New(reader qc.Reader, retentioner qc.Retentioner, clock qc.Clock, auth Auth, broadcaster *broadcast.Broadcaster) *Dashboard {
	if clock == nil {
		clock = qc.SystemClock
	}
	return &Dashboard{
		reader:      reader,
		retentioner: retentioner,
		clock:       clock,
		auth:        auth,
		broadcaster: broadcaster,
	}
}

type jobsResponse struct {
	Jobs    []*job.Job `json:"jobs"`
	Total   int        `json:"total"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
}

// ListJobs implements GET /api/jobs.
func (d *Dashboard) ListJobs(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 20)

	state := job.Unknown
	if raw := c.Query("state"); raw != "" {
		parsed, err := job.ParseState(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
			return
		}
		state = parsed
	}

	jobs, total, err := d.reader.ListJobsPaginated(c.Request.Context(), state, page, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, jobsResponse{Jobs: jobs, Total: total, Page: page, PerPage: perPage})
}

// Status implements GET /api/status.
func (d *Dashboard) Status(c *gin.Context) {
	status, err := broadcast.BuildStatus(c.Request.Context(), d.reader, d.clock)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// JobEvents implements GET /api/jobs/:id/events.
func (d *Dashboard) JobEvents(c *gin.Context) {
	id := c.Param("id")
	limit := queryInt(c, "limit", 100)

	events, err := d.reader.GetJobEvents(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}

// DLQRetry implements POST /api/dlq/retry. It requires the auth token
// when one is configured.
func (d *Dashboard) DLQRetry(c *gin.Context) {
	if !d.auth.Check(c.GetHeader("X-Api-Key")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := c.PostForm("job_id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id is required"})
		return
	}

	err := d.retentioner.RetryDead(c.Request.Context(), id)
	switch err {
	case nil:
		if d.broadcaster != nil {
			d.broadcaster.TriggerNow(c.Request.Context())
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "requeued " + id})
	case qc.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
	case qc.ErrJobNotDead:
		c.JSON(http.StatusBadRequest, gin.H{"error": "job not in DLQ"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Health implements GET /api/health.
func (d *Dashboard) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": d.clock()})
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
