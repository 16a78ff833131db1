package controller

import (
	"strconv"

	"coursehub_backend/internal/middleware"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	Courses *service.CourseService
}

func NewCourseController(courses *service.CourseService) *CourseController {
	return &CourseController{Courses: courses}
}

type createCourseRequest struct {
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Category         string            `json:"category"`
	Level            model.CourseLevel `json:"level"`
	Price            *float64          `json:"price"`
	Duration         int               `json:"duration"`
	Requirements     model.StringList  `json:"requirements"`
	LearningOutcomes model.StringList  `json:"learningOutcomes"`
	Thumbnail        string            `json:"thumbnail"`
}

type addLessonRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	VideoURL string `json:"videoUrl"`
	Duration int    `json:"duration"`
	Order    int    `json:"order"`
}

// List serves the public catalog. Filters and pagination come from query
// parameters; signed-in callers additionally get their enrollment flags.
func (ctl *CourseController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultPageSize)))

	filter := repository.CourseFilter{
		Category: c.Query("category"),
		Level:    c.Query("level"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}

	result, err := ctl.Courses.ListCatalog(filter, callerID(c))
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.Success(c, gin.H{
		"courses": result.Items,
		"total":   result.Total,
		"page":    result.Page,
		"limit":   result.Limit,
	})
}

func (ctl *CourseController) Get(c *gin.Context) {
	course, isEnrolled, err := ctl.Courses.GetCourse(c.Param("id"), callerID(c))
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.Success(c, gin.H{"course": course, "isEnrolled": isEnrolled})
}

func (ctl *CourseController) Create(c *gin.Context) {
	id := middleware.GetIdentity(c)

	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid course data: "+err.Error())
		return
	}

	course, err := ctl.Courses.CreateCourse(id.UserID, service.CreateCourseInput{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Level:            req.Level,
		Price:            req.Price,
		Duration:         req.Duration,
		Requirements:     req.Requirements,
		LearningOutcomes: req.LearningOutcomes,
		Thumbnail:        req.Thumbnail,
	})
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.Created(c, "Course created successfully", gin.H{"course": course})
}

func (ctl *CourseController) MyCourses(c *gin.Context) {
	id := middleware.GetIdentity(c)

	courses, err := ctl.Courses.MyCourses(id.UserID)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.Success(c, gin.H{"courses": courses})
}

func (ctl *CourseController) Delete(c *gin.Context) {
	id := middleware.GetIdentity(c)

	if err := ctl.Courses.DeleteCourse(c.Param("id"), id); err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.SuccessMessage(c, "Course deleted successfully", nil)
}

func (ctl *CourseController) AddLesson(c *gin.Context) {
	id := middleware.GetIdentity(c)

	var req addLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid lesson data")
		return
	}

	lesson, err := ctl.Courses.AddLesson(c.Request.Context(), c.Param("id"), id, service.AddLessonInput{
		Title:    req.Title,
		Content:  req.Content,
		VideoURL: req.VideoURL,
		Duration: req.Duration,
		Order:    req.Order,
	})
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.Created(c, "Lesson added", gin.H{"lesson": lesson})
}

func (ctl *CourseController) SuggestVideos(c *gin.Context) {
	id := middleware.GetIdentity(c)

	query, videos, err := ctl.Courses.SuggestVideos(c.Request.Context(), c.Param("id"), id, c.Query("topic"))
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}

	util.Success(c, gin.H{"query": query, "videos": videos})
}

// callerID returns the resolved user id or 0 for anonymous requests.
func callerID(c *gin.Context) uint {
	if id := middleware.GetIdentity(c); id != nil {
		return id.UserID
	}
	return 0
}
