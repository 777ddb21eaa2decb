package analyses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"algomate-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc     *Service
	limiter *pollLimiter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{
		Svc:     svc,
		limiter: newPollLimiter(pollLimitWindow, nil),
	}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.registerUpload)
	rg.POST("/analyze-resume", h.startAnalysis)
	rg.GET("/analysis-status/:id", h.analysisStatus)
}

type registerUploadRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	FilePath string `json:"file_path" binding:"required"`
	FileURL  string `json:"file_url"`
	MimeType string `json:"mime_type"`
}

func (h *Handler) registerUpload(c *gin.Context) {
	var req registerUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "user_id and file_path are required", nil)
		return
	}

	analysis, err := h.Svc.RegisterUpload(c.Request.Context(), UploadInput{
		UserID:   req.UserID,
		FilePath: req.FilePath,
		FileURL:  req.FileURL,
		MimeType: req.MimeType,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to register upload", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"analysis_id": analysis.ID,
		"status":      analysis.Status,
	})
}

type startAnalysisRequest struct {
	FileURL  string `json:"file_url"`
	FilePath string `json:"file_path" binding:"required"`
	UserID   string `json:"user_id" binding:"required"`
}

func (h *Handler) startAnalysis(c *gin.Context) {
	var req startAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "user_id and file_path are required", nil)
		return
	}

	res, err := h.Svc.Start(c.Request.Context(), StartInput{
		FileURL:  req.FileURL,
		FilePath: req.FilePath,
		UserID:   req.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume analysis record not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start resume analysis", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"message":     "Resume analysis started",
		"analysis_id": res.JobID,
		"status":      res.Status,
	})
}

func (h *Handler) analysisStatus(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}

	if !h.limiter.Allow(c.ClientIP(), analysisID) {
		c.Header("Retry-After", strconv.Itoa(h.limiter.RetryAfterSeconds()))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "status is polled too frequently", nil)
		return
	}

	analysis, err := h.Svc.Status(c.Request.Context(), analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "status check failed", nil)
		}
		return
	}

	resp := gin.H{
		"analysis_id": analysis.ID,
		"status":      analysis.Status,
	}
	if analysis.Error != "" {
		resp["error"] = analysis.Error
	}
	respond.OK(c, resp)
}
