// Package httpapi is the REST surface: the manual scrape trigger, run
// status, and the read-only query interface the web client builds its
// filter UI on.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"naijajobs-engine/internal/database"
	"naijajobs-engine/internal/models"
	"naijajobs-engine/internal/scrape"
)

// Runner is the orchestrator slice the API needs.
type Runner interface {
	Run(ctx context.Context) (int, error)
	Status() scrape.Status
}

// JobStore is the read side of the repository.
type JobStore interface {
	List(ctx context.Context, f database.JobFilter) ([]models.Job, error)
	CountBySource(ctx context.Context) (map[string]int64, error)
}

type Deps struct {
	Runner Runner
	Store  JobStore
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r.POST("/scrape/run", runScrape(d.Runner))
	r.GET("/scrape/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, d.Runner.Status())
	})

	r.GET("/jobs", listJobs(d.Store))
	r.GET("/jobs/counts", func(c *gin.Context) {
		counts, err := d.Store.CountBySource(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count jobs"})
			return
		}
		c.JSON(http.StatusOK, counts)
	})

	return r
}

// runScrape triggers a full cycle and blocks until it completes, per the
// manual-trigger contract. Partial failures inside the run are not errors;
// only a failed launch or a concurrent run produce a non-2xx status.
func runScrape(runner Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		saved, err := runner.Run(c.Request.Context())
		switch {
		case errors.Is(err, scrape.ErrAlreadyRunning):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "scrape run failed"})
		default:
			c.JSON(http.StatusOK, gin.H{
				"message": "scrape cycle completed",
				"saved":   saved,
			})
		}
	}
}

func listJobs(store JobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := database.JobFilter{
			Query:    c.Query("q"),
			Location: c.Query("location"),
			Source:   c.Query("source"),
		}

		if jt := c.Query("jobType"); jt != "" {
			parsed, ok := models.ParseJobType(jt)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown jobType: " + jt})
				return
			}
			f.JobType = string(parsed)
		}

		if days := c.Query("postedWithinDays"); days != "" {
			n, err := strconv.Atoi(days)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "postedWithinDays must be a positive integer"})
				return
			}
			f.Since = time.Now().AddDate(0, 0, -n)
		}

		f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		if f.Limit <= 0 {
			f.Limit = 20
		}
		f.Offset = (page - 1) * f.Limit

		jobs, err := store.List(c.Request.Context(), f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
			return
		}
		if jobs == nil {
			jobs = []models.Job{}
		}
		c.JSON(http.StatusOK, gin.H{
			"jobs":  jobs,
			"page":  page,
			"limit": f.Limit,
			"count": len(jobs),
		})
	}
}
