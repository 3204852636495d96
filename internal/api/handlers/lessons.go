package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mathapp/internal/api/middleware"
	"github.com/abhisek/mathapp/internal/api/response"
	"github.com/abhisek/mathapp/internal/logger"
	"github.com/abhisek/mathapp/internal/session"
	"github.com/abhisek/mathapp/internal/store"
)

type LessonHandler struct {
	log         *logger.Logger
	catalog     catalog
	submissions store.SubmissionRepo
	now         func() time.Time
}

func NewLessonHandler(log *logger.Logger, st *store.Store) *LessonHandler {
	return &LessonHandler{
		log:         log.With("handler", "lessons"),
		catalog:     catalog{lessons: st.LessonRepo(), progress: st.ProgressRepo()},
		submissions: st.SubmissionRepo(),
		now:         time.Now,
	}
}

// List serves GET /lessons. user_id defaults to the authenticated learner.
func (h *LessonHandler) List(c *gin.Context) {
	userID := c.DefaultQuery("user_id", middleware.UserID(c))

	entries, err := h.catalog.forUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("list lessons", "user_id", userID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to load lessons")
		return
	}

	rows := make([]lessonRowDTO, len(entries))
	for i, e := range entries {
		rows[i] = toLessonRow(e)
	}
	response.Data(c, rows)
}

// Get serves GET /lessons/:lessonId.
func (h *LessonHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	lessonID := c.Param("lessonId")

	lesson, err := h.catalog.lessons.Get(ctx, lessonID)
	if errors.Is(err, store.ErrNotFound) {
		response.RespondError(c, http.StatusNotFound, "Lesson not found")
		return
	}
	if err != nil {
		h.log.Error("get lesson", "lesson_id", lessonID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to load lesson")
		return
	}

	progress, err := h.catalog.progress.Get(ctx, middleware.UserID(c), lessonID)
	if err != nil {
		h.log.Error("get progress", "lesson_id", lessonID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to load lesson")
		return
	}

	response.Data(c, toLessonDetail(lesson, progress))
}

// Submit serves POST /lessons/:submissionId/submit. The submission ID is
// chosen by the client, so a retried request returns the stored result
// instead of grading twice.
func (h *LessonHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	submissionID := c.Param("lessonId")
	userID := middleware.UserID(c)

	var input submitRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Invalid submission")
		return
	}

	if prior, err := h.submissions.Get(ctx, submissionID); err == nil {
		h.replay(c, prior, userID, input.LessonID)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.log.Error("get submission", "submission_id", submissionID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to submit lesson")
		return
	}

	lesson, err := h.catalog.lessons.Get(ctx, input.LessonID)
	if errors.Is(err, store.ErrNotFound) {
		response.RespondError(c, http.StatusNotFound, "Lesson not found")
		return
	}
	if err != nil {
		h.log.Error("get lesson", "lesson_id", input.LessonID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to submit lesson")
		return
	}

	answers := make([]session.AnswerRecord, len(input.Answers))
	for i, a := range input.Answers {
		answers[i] = session.AnswerRecord{ProblemID: a.ProblemID, SelectedOptionID: a.SelectedOptionID}
	}
	elapsed := session.Untimed
	if input.TimeSpent != nil && *input.TimeSpent >= 0 {
		elapsed = time.Duration(*input.TimeSpent) * time.Second
	}

	result := session.Score(submissionID, lesson.Domain(), answers, elapsed)

	sub := &store.Submission{ID: submissionID, UserID: userID, LessonID: lesson.ID, Result: result}
	if err := h.submissions.Append(ctx, sub); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost a race with a concurrent retry; serve the winner.
			if prior, getErr := h.submissions.Get(ctx, submissionID); getErr == nil {
				h.replay(c, prior, userID, lesson.ID)
				return
			}
		}
		h.log.Error("store submission", "submission_id", submissionID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to submit lesson")
		return
	}

	_, err = h.catalog.progress.RecordAttempt(ctx, store.Attempt{
		UserID:   userID,
		LessonID: lesson.ID,
		Score:    result.Score,
		XP:       result.XPEarned,
		Total:    len(lesson.Problems),
		Passed:   session.Passed(result.Score),
		At:       h.now().UTC(),
	})
	if err != nil {
		// The graded result is already stored; report it anyway.
		h.log.Error("record attempt", "submission_id", submissionID, "error", err)
	}

	h.log.Info("lesson submitted",
		"submission_id", submissionID,
		"lesson_id", lesson.ID,
		"score", result.Score,
		"xp", result.XPEarned,
	)
	response.RespondOK(c, toSubmitResponse(result))
}

// replay answers a retried submission with its stored result. An ID that
// belongs to another learner or lesson is a conflict, not a retry.
func (h *LessonHandler) replay(c *gin.Context, prior *store.Submission, userID, lessonID string) {
	if prior.UserID != userID || prior.LessonID != lessonID {
		h.log.Warn("submission id reused",
			"submission_id", prior.ID,
			"user_id", userID,
			"lesson_id", lessonID,
		)
		response.RespondError(c, http.StatusConflict, "Submission ID already used")
		return
	}
	response.RespondOK(c, toSubmitResponse(prior.Result))
}

// UpdateProgress serves PUT /lessons/:lessonId/progress.
func (h *LessonHandler) UpdateProgress(c *gin.Context) {
	ctx := c.Request.Context()
	lessonID := c.Param("lessonId")

	var input progressRequest
	if err := c.ShouldBindJSON(&input); err != nil || *input.CompletedExercises < 0 {
		response.RespondError(c, http.StatusBadRequest, "completedExercises must be a non-negative integer")
		return
	}

	lesson, err := h.catalog.lessons.Get(ctx, lessonID)
	if errors.Is(err, store.ErrNotFound) {
		response.RespondError(c, http.StatusNotFound, "Lesson not found")
		return
	}
	if err != nil {
		h.log.Error("get lesson", "lesson_id", lessonID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to update progress")
		return
	}

	total := len(lesson.Problems)
	completed := min(*input.CompletedExercises, total)
	if _, err := h.catalog.progress.SetCompleted(ctx, middleware.UserID(c), lessonID, completed, total, h.now().UTC()); err != nil {
		h.log.Error("update progress", "lesson_id", lessonID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to update progress")
		return
	}
	c.Status(http.StatusNoContent)
}
