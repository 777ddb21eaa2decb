package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"algomate-backend/internal/analyses"
	"algomate-backend/internal/shared/config"
	"algomate-backend/internal/shared/metrics"
	"algomate-backend/internal/shared/server/middleware"
	"algomate-backend/internal/shared/server/respond"
)

const apiVersion = "1.0.0"

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	DBConnected     bool
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	cfg := deps.Config
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.SecurityHeaders(cfg.Env),
	)

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{
			"message":     "AlgoMate Resume Analysis API is running",
			"status":      "healthy",
			"environment": cfg.Env,
			"version":     apiVersion,
		})
	})
	r.GET("/health", healthCheck(cfg, deps.DBConnected))
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}

	return r
}

// healthCheck reports per-service configuration state. Production
// deployments answer 503 when a critical collaborator is missing so the
// load balancer stops routing to a box that can only fail jobs.
func healthCheck(cfg config.Config, dbConnected bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		services := gin.H{
			"gemini_ai": configuredLabel(cfg.AIConfigured()),
			"database":  configuredLabel(dbConnected),
			"ocr":       configuredLabel(cfg.OCRConfigured()),
		}
		body := gin.H{
			"status":      "healthy",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"services":    services,
			"environment": cfg.Env,
		}

		if cfg.Env == "production" && (!cfg.AIConfigured() || !dbConnected) {
			body["status"] = "unhealthy"
			respond.JSON(c, http.StatusServiceUnavailable, body)
			return
		}
		respond.OK(c, body)
	}
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "missing"
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
