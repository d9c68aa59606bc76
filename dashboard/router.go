package dashboard

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin Engine serving d's routes, matching the
// route table in spec.md §4.6.
func NewRouter(d *Dashboard) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "X-Api-Key", "Content-Type"},
	}))

	api := r.Group("/api")
	{
		api.GET("/jobs", d.ListJobs)
		api.GET("/status", d.Status)
		api.GET("/jobs/:id/events", d.JobEvents)
		api.POST("/dlq/retry", d.DLQRetry)
		api.GET("/health", d.Health)
	}
	r.GET("/ws", d.WS)

	return r
}
