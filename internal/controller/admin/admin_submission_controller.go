package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/internal/controller"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/middleware"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminSubmissionController struct {
	submissionService service.SubmissionService
	reviewAssistant   service.ReviewAssistantService
	analyticsService  service.AnalyticsService
}

func NewAdminSubmissionController(
	ss service.SubmissionService,
	ra service.ReviewAssistantService,
	as service.AnalyticsService,
) *AdminSubmissionController {
	return &AdminSubmissionController{
		submissionService: ss,
		reviewAssistant:   ra,
		analyticsService:  as,
	}
}

// ListSubmissions godoc
// @Summary (Admin) List submissions
// @Description Newest first, optionally filtered.
// @Tags Admin - Submissions
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending or graded"
// @Param testId query int false "Test ID"
// @Param userId query int false "User ID"
// @Param testType query string false "Listening, Reading, Writing, Speaking or Full"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} dto.SubmissionSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /admin/submissions [get]
func (c *AdminSubmissionController) ListSubmissions(ctx *gin.Context) {
	var filter dto.SubmissionFilterDTO
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		controller.RespondBindError(ctx, "Admin ListSubmissions", err)
		return
	}
	results, err := c.submissionService.ListAllSubmissions(ctx.Request.Context(), middleware.Principal(ctx), filter)
	if err != nil {
		controller.RespondError(ctx, "Admin ListSubmissions", err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}

// ReviewQueue godoc
// @Summary (Admin) Submissions awaiting manual review
// @Description Pending submissions, oldest first.
// @Tags Admin - Submissions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 50)"
// @Success 200 {array} dto.SubmissionSummaryDTO
// @Router /admin/submissions/pending [get]
func (c *AdminSubmissionController) ReviewQueue(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid limit"})
		return
	}
	results, err := c.submissionService.PendingReviewQueue(ctx.Request.Context(), middleware.Principal(ctx), limit)
	if err != nil {
		controller.RespondError(ctx, "Admin ReviewQueue", err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}

// GradeSubmission godoc
// @Summary (Admin) Grade or re-grade a submission
// @Description Merges the supplied part scores into the submission. Parts not listed keep their stored score, and every part must be scored afterwards.
// @Description The request must carry the version it was based on; a stale version is rejected with 409.
// @Tags Admin - Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission_id path int true "Submission ID"
// @Param grade body dto.GradeSubmissionDTO true "Part scores, comments and the version read"
// @Success 200 {object} dto.SubmissionDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Score out of range, unknown part or missing scores"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Failure 409 {object} dto.ErrorResponse "Submission was graded concurrently"
// @Router /admin/submissions/{submission_id}/grade [put]
func (c *AdminSubmissionController) GradeSubmission(ctx *gin.Context) {
	submissionID, ok := controller.UintParam(ctx, "submission_id")
	if !ok {
		return
	}
	var req dto.GradeSubmissionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, "Admin GradeSubmission", err)
		return
	}

	principal := middleware.Principal(ctx)
	log.Info().Uint("submissionID", submissionID).Uint("adminID", principal.UserID).Uint("version", req.Version).Msg("Admin GradeSubmission: received grade")
	result, err := c.submissionService.Grade(ctx.Request.Context(), principal, submissionID, req)
	if err != nil {
		controller.RespondError(ctx, "Admin GradeSubmission", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// SuggestPartScore godoc
// @Summary (Admin) Ask the AI examiner for a score suggestion
// @Description Returns a suggested score and feedback for a part awaiting manual review. Nothing is saved.
// @Tags Admin - Submissions
// @Produce json
// @Security BearerAuth
// @Param submission_id path int true "Submission ID"
// @Param part_number path int true "Part number"
// @Success 200 {object} dto.ScoreSuggestionDTO
// @Failure 400 {object} dto.ErrorResponse "Part is graded automatically"
// @Failure 404 {object} dto.ErrorResponse "Submission or part not found"
// @Failure 503 {object} dto.ErrorResponse "AI examiner not configured or unavailable"
// @Router /admin/submissions/{submission_id}/parts/{part_number}/suggestion [post]
func (c *AdminSubmissionController) SuggestPartScore(ctx *gin.Context) {
	submissionID, ok := controller.UintParam(ctx, "submission_id")
	if !ok {
		return
	}
	partNumber, ok := controller.UintParam(ctx, "part_number")
	if !ok {
		return
	}
	suggestion, err := c.reviewAssistant.SuggestPartScore(ctx.Request.Context(), middleware.Principal(ctx), submissionID, int(partNumber))
	if err != nil {
		controller.RespondError(ctx, "Admin SuggestPartScore", err)
		return
	}
	ctx.JSON(http.StatusOK, suggestion)
}

// GetAnalytics godoc
// @Summary (Admin) Dashboard statistics
// @Description Student count, attempts, pending reviews, per-section averages (null when a section has no graded submissions) and the most attempted tests.
// @Tags Admin - Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AnalyticsDTO
// @Failure 503 {object} dto.ErrorResponse "Database unavailable"
// @Router /admin/analytics [get]
func (c *AdminSubmissionController) GetAnalytics(ctx *gin.Context) {
	summary, err := c.analyticsService.GetSummary(ctx.Request.Context(), middleware.Principal(ctx))
	if err != nil {
		controller.RespondError(ctx, "Admin GetAnalytics", err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}
