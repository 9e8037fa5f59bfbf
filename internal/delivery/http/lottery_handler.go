package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
	lotterydto "github.com/fairwayops/lottery-service/internal/usecase/dto/lottery"
	"github.com/fairwayops/lottery-service/internal/usecase/lottery"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const dateLayout = "2006-01-02"

// HTTPHandler holds the dependencies for the HTTP handlers.
type HTTPHandler struct {
	usecase lottery.LotteryUsecase
	logger  *slog.Logger
}

func NewHTTPHandler(uc lottery.LotteryUsecase, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{
		usecase: uc,
		logger:  logger,
	}
}

// RegisterRoutes registers all the application routes.
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/lottery")
	api.POST("/entries", h.SubmitEntry)
	api.GET("/entries/:id", h.GetEntry)
	api.POST("/runs", h.ProcessDate)
	api.GET("/runs/:id", h.GetRun)
	api.GET("/runs/:id/entries", h.GetRunEntries)
	api.GET("/dates/:date/run", h.GetCommittedRun)

	router.GET("/healthz", h.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

type submitEntryRequest struct {
	OrganizerID     string   `json:"organizer_id" binding:"required"`
	MemberIDs       []string `json:"member_ids" binding:"required"`
	LotteryDate     string   `json:"lottery_date" binding:"required"`
	PreferredWindow string   `json:"preferred_window" binding:"required"`
	AlternateWindow string   `json:"alternate_window"`
}

type processDateRequest struct {
	LotteryDate string `json:"lottery_date" binding:"required"`
}

// SubmitEntry accepts one organizer request for a future lottery date.
func (h *HTTPHandler) SubmitEntry(c *gin.Context) {
	var req submitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.LotteryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lottery_date must be formatted as YYYY-MM-DD"})
		return
	}

	entry, err := h.usecase.SubmitEntry(&lotterydto.SubmitEntryInput{
		OrganizerID:     req.OrganizerID,
		MemberIDs:       req.MemberIDs,
		LotteryDate:     date,
		PreferredWindow: req.PreferredWindow,
		AlternateWindow: req.AlternateWindow,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry_id":     entry.ID,
		"status":       string(entry.Status),
		"submitted_at": entry.SubmittedAt,
	})
}

// GetEntry reports where one entry stands: waiting for a run, or its
// terminal status and window.
func (h *HTTPHandler) GetEntry(c *gin.Context) {
	entry, err := h.usecase.GetEntry(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ProcessDate triggers the allocation batch for a single date.
func (h *HTTPHandler) ProcessDate(c *gin.Context) {
	var req processDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.LotteryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lottery_date must be formatted as YYYY-MM-DD"})
		return
	}

	run, err := h.usecase.ProcessDate(c.Request.Context(), date)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, run)
}

func (h *HTTPHandler) GetRun(c *gin.Context) {
	run, err := h.usecase.GetRun(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *HTTPHandler) GetRunEntries(c *gin.Context) {
	logs, err := h.usecase.GetRunEntries(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": logs})
}

// GetCommittedRun returns the current authoritative run for a date.
func (h *HTTPHandler) GetCommittedRun(c *gin.Context) {
	date, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
		return
	}

	run, err := h.usecase.GetCommittedRun(date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *HTTPHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HTTPHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyMemberSet):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateEntry):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRunNotFound), errors.Is(err, domain.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoWindows), errors.Is(err, domain.ErrInvalidConfig):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
