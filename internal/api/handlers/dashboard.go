package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mathapp/internal/api/middleware"
	"github.com/abhisek/mathapp/internal/api/response"
	"github.com/abhisek/mathapp/internal/dashboard"
	"github.com/abhisek/mathapp/internal/logger"
	"github.com/abhisek/mathapp/internal/store"
)

type DashboardHandler struct {
	log     *logger.Logger
	catalog catalog
}

func NewDashboardHandler(log *logger.Logger, st *store.Store) *DashboardHandler {
	return &DashboardHandler{
		log:     log.With("handler", "dashboard"),
		catalog: catalog{lessons: st.LessonRepo(), progress: st.ProgressRepo()},
	}
}

func (h *DashboardHandler) summaries(c *gin.Context) ([]dashboard.LessonSummary, bool) {
	userID := middleware.UserID(c)
	entries, err := h.catalog.forUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("load dashboard", "user_id", userID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return nil, false
	}

	out := make([]dashboard.LessonSummary, len(entries))
	for i, e := range entries {
		out[i] = e.Summary()
	}
	return out, true
}

// Dashboard serves GET /dashboard.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	lessons, ok := h.summaries(c)
	if !ok {
		return
	}

	ui := make([]uiLessonDTO, len(lessons))
	for i, l := range lessons {
		ui[i] = toUILesson(l)
	}
	response.RespondOK(c, dashboardDTO{
		Stats:   toStats(dashboard.Aggregate(lessons)),
		Lessons: ui,
	})
}

// Stats serves GET /user/stats.
func (h *DashboardHandler) Stats(c *gin.Context) {
	lessons, ok := h.summaries(c)
	if !ok {
		return
	}
	response.RespondOK(c, toStats(dashboard.Aggregate(lessons)))
}
