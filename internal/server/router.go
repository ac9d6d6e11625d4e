package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(svc *AnalyticsService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/healthz", svc.Health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/uploads", svc.Upload)
		v1.GET("/report", svc.GetReport)
		v1.GET("/report/monthly", svc.GetMonthlyBreakdown)
		v1.GET("/report/ltv", svc.GetLTV)
		v1.GET("/report/export", svc.ExportReport)
	}
	return r
}
