package controller

import (
	"strconv"

	"coursehub_backend/internal/middleware"
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	Enrollments *service.EnrollmentService
}

func NewEnrollmentController(enrollments *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{Enrollments: enrollments}
}

type progressRequest struct {
	// Pointer so index 0 still satisfies required.
	LessonIndex *int `json:"lessonIndex" binding:"required"`
}

func (ctl *EnrollmentController) Enroll(c *gin.Context) {
	id := middleware.GetIdentity(c)

	enrollment, err := ctl.Enrollments.Enroll(id.UserID, c.Param("id"))
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.Created(c, "Enrolled successfully", gin.H{"enrollment": enrollment})
}

func (ctl *EnrollmentController) MyCourses(c *gin.Context) {
	id := middleware.GetIdentity(c)

	rows, err := ctl.Enrollments.MyEnrollments(id.UserID)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.Success(c, gin.H{"enrollments": rows})
}

func (ctl *EnrollmentController) Get(c *gin.Context) {
	id := middleware.GetIdentity(c)

	enrollmentID, ok := parseID(c)
	if !ok {
		return
	}

	enrollment, course, err := ctl.Enrollments.Get(enrollmentID, id)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.Success(c, gin.H{"enrollment": enrollment, "course": course})
}

func (ctl *EnrollmentController) UpdateProgress(c *gin.Context) {
	id := middleware.GetIdentity(c)

	enrollmentID, ok := parseID(c)
	if !ok {
		return
	}

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "lessonIndex is required")
		return
	}

	enrollment, err := ctl.Enrollments.UpdateProgress(enrollmentID, id, *req.LessonIndex)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.SuccessMessage(c, "Progress updated", gin.H{"enrollment": enrollment})
}

func (ctl *EnrollmentController) Unenroll(c *gin.Context) {
	id := middleware.GetIdentity(c)

	enrollmentID, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctl.Enrollments.Unenroll(enrollmentID, id); err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.SuccessMessage(c, "Unenrolled successfully", nil)
}

func parseID(c *gin.Context) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(c, "Invalid enrollment id")
		return 0, false
	}
	return uint(raw), true
}
