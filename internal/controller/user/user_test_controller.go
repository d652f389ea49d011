package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/internal/controller"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/middleware"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/rs/zerolog/log"
)

type UserTestController struct {
	userTestService   service.UserTestService
	submissionService service.SubmissionService
}

func NewUserTestController(uts service.UserTestService, ss service.SubmissionService) *UserTestController {
	return &UserTestController{
		userTestService:   uts,
		submissionService: ss,
	}
}

// GetAllTests godoc
// @Summary (User) List all available tests
// @Description Get the test catalog with part and question counts.
// @Tags User - Tests & Submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TestSummaryDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 503 {object} dto.ErrorResponse "Database unavailable"
// @Router /tests [get]
func (c *UserTestController) GetAllTests(ctx *gin.Context) {
	tests, err := c.userTestService.GetAllTests(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, "User GetAllTests", err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTestDetails godoc
// @Summary (User) Get details of a specific test
// @Description Get a test with its ordered parts and questions. Answer keys are only returned to administrators.
// @Tags User - Tests & Submissions
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Test ID format"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/{test_id} [get]
func (c *UserTestController) GetTestDetails(ctx *gin.Context) {
	testID, ok := controller.UintParam(ctx, "test_id")
	if !ok {
		return
	}
	testDetails, err := c.userTestService.GetTestDetails(ctx.Request.Context(), middleware.Principal(ctx), testID)
	if err != nil {
		controller.RespondError(ctx, "User GetTestDetails", err)
		return
	}
	ctx.JSON(http.StatusOK, testDetails)
}

// SubmitTest godoc
// @Summary (User) Submit answers for an entire test
// @Description Grades objective parts immediately. Writing and Speaking parts are stored for manual review and the submission stays pending.
// @Description Each part's answers may be a list ordered by question number or an object keyed by question number.
// @Tags User - Tests & Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "ID of the Test being attempted"
// @Param submission body dto.SubmitTestDTO true "Answers grouped by part number"
// @Success 201 {object} dto.SubmissionDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown part number or malformed answers"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 503 {object} dto.ErrorResponse "Database unavailable"
// @Router /tests/{test_id}/submissions [post]
func (c *UserTestController) SubmitTest(ctx *gin.Context) {
	testID, ok := controller.UintParam(ctx, "test_id")
	if !ok {
		return
	}
	var req dto.SubmitTestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, "User SubmitTest", err)
		return
	}

	principal := middleware.Principal(ctx)
	log.Info().Uint("testID", testID).Uint("userID", principal.UserID).Int("parts", len(req.Parts)).Msg("User SubmitTest: received submission")
	result, err := c.submissionService.Submit(ctx.Request.Context(), principal, testID, req)
	if err != nil {
		controller.RespondError(ctx, "User SubmitTest", err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// GetSubmission godoc
// @Summary (User) Get one submission
// @Description Owners and administrators can read a submission with per-part results.
// @Tags User - Tests & Submissions
// @Produce json
// @Security BearerAuth
// @Param submission_id path int true "Submission ID"
// @Success 200 {object} dto.SubmissionDetailDTO
// @Failure 403 {object} dto.ErrorResponse "Submission belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /submissions/{submission_id} [get]
func (c *UserTestController) GetSubmission(ctx *gin.Context) {
	submissionID, ok := controller.UintParam(ctx, "submission_id")
	if !ok {
		return
	}
	result, err := c.submissionService.GetSubmission(ctx.Request.Context(), middleware.Principal(ctx), submissionID)
	if err != nil {
		controller.RespondError(ctx, "User GetSubmission", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetUserSubmissions godoc
// @Summary (User) List a user's submissions
// @Description Newest first. Learners may only list their own submissions.
// @Tags User - Tests & Submissions
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.SubmissionSummaryDTO
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /users/{user_id}/submissions [get]
func (c *UserTestController) GetUserSubmissions(ctx *gin.Context) {
	userID, ok := controller.UintParam(ctx, "user_id")
	if !ok {
		return
	}
	results, err := c.submissionService.ListSubmissionsForUser(ctx.Request.Context(), middleware.Principal(ctx), userID)
	if err != nil {
		controller.RespondError(ctx, "User GetUserSubmissions", err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}
