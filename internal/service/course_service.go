package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/session"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100

	defaultThumbnail = "https://images.unsplash.com/photo-1516321318423-f06f85e504b3?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80"

	catalogCacheKey = "catalog:front"
	catalogCacheTTL = time.Minute
)

// categoryThumbnails backs the thumbnail default when the instructor does
// not supply one.
var categoryThumbnails = map[string]string{
	"programming": "https://images.unsplash.com/photo-1551650975-87deedd944c3?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
	"design":      "https://images.unsplash.com/photo-1561070791-2526d30994b5?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
	"business":    "https://images.unsplash.com/photo-1507679799987-c73779587ccf?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
	"marketing":   "https://images.unsplash.com/photo-1533750349088-cd871a92f312?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
	"music":       "https://images.unsplash.com/photo-1511379938547-c1f69419868d?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
	"photography": "https://images.unsplash.com/photo-1516035069371-29a1b244cc32?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
}

type CourseService struct {
	Courses     CourseStore
	Enrollments EnrollmentStore
	Users       UserStore
	YouTube     *YouTubeService
	Redis       *redis.Client
}

func NewCourseService(courses CourseStore, enrollments EnrollmentStore, users UserStore, youtube *YouTubeService, rdb *redis.Client) *CourseService {
	return &CourseService{
		Courses:     courses,
		Enrollments: enrollments,
		Users:       users,
		YouTube:     youtube,
		Redis:       rdb,
	}
}

type CreateCourseInput struct {
	Title            string
	Description      string
	Category         string
	Level            model.CourseLevel
	Price            *float64
	Duration         int
	Requirements     model.StringList
	LearningOutcomes model.StringList
	Thumbnail        string
}

// CreateCourse validates the input, fills the derived fields and publishes
// the course immediately under the caller's ownership.
func (s *CourseService) CreateCourse(callerID uint, input CreateCourseInput) (*model.Course, error) {
	switch {
	case input.Title == "":
		return nil, util.ValidationError("title is required")
	case input.Description == "":
		return nil, util.ValidationError("description is required")
	case input.Category == "":
		return nil, util.ValidationError("category is required")
	case input.Level == "":
		return nil, util.ValidationError("level is required")
	case input.Price == nil:
		return nil, util.ValidationError("price is required")
	case *input.Price < 0:
		return nil, util.ValidationError("price must not be negative")
	case input.Duration <= 0:
		return nil, util.ValidationError("duration must be positive")
	}

	switch input.Level {
	case model.Beginner, model.Intermediate, model.Advanced:
	default:
		return nil, util.ValidationError("unknown level %q", input.Level)
	}

	owner, err := s.Users.FindByID(callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	thumbnail := input.Thumbnail
	if thumbnail == "" {
		thumbnail = ThumbnailForCategory(input.Category)
	}

	course := &model.Course{
		Title:            input.Title,
		Description:      input.Description,
		Instructor:       owner.FullName,
		InstructorID:     owner.ID,
		Category:         input.Category,
		Price:            *input.Price,
		Duration:         input.Duration,
		Level:            input.Level,
		Requirements:     orEmpty(input.Requirements),
		LearningOutcomes: orEmpty(input.LearningOutcomes),
		IsPublished:      true,
		Thumbnail:        thumbnail,
	}

	if err := s.Courses.Create(course); err != nil {
		return nil, err
	}

	s.invalidateCatalogCache()
	return course, nil
}

func ThumbnailForCategory(category string) string {
	if url, ok := categoryThumbnails[category]; ok {
		return url
	}
	return defaultThumbnail
}

func orEmpty(list model.StringList) model.StringList {
	if list == nil {
		return model.StringList{}
	}
	return list
}

// CatalogPage is one page of the public listing.
type CatalogPage struct {
	Items []model.CatalogItem `json:"courses"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

// ListCatalog returns published courses with filters, search and
// pagination applied. callerID 0 means anonymous; otherwise every item is
// annotated with whether the caller already holds an enrollment. The
// anonymous unfiltered front page is served from redis when possible.
func (s *CourseService) ListCatalog(filter repository.CourseFilter, callerID uint) (*CatalogPage, error) {
	filter = normalizeFilter(filter)

	cacheable := callerID == 0 && s.Redis != nil &&
		filter.Category == "" && filter.Level == "" && filter.Search == "" &&
		filter.Page == 1 && filter.Limit == DefaultPageSize

	if cacheable {
		if cached, err := s.Redis.Get(context.Background(), catalogCacheKey).Result(); err == nil {
			var page CatalogPage
			if json.Unmarshal([]byte(cached), &page) == nil {
				return &page, nil
			}
		}
	}

	courses, total, err := s.Courses.ListPublished(filter)
	if err != nil {
		return nil, err
	}

	enrolled := map[uint]bool{}
	if callerID != 0 {
		ids := make([]uint, 0, len(courses))
		for i := range courses {
			ids = append(ids, courses[i].ID)
		}
		enrolled, err = s.Enrollments.EnrolledCourseIDs(callerID, ids)
		if err != nil {
			return nil, err
		}
	}

	items := make([]model.CatalogItem, 0, len(courses))
	for i := range courses {
		items = append(items, courses[i].CatalogItem(enrolled[courses[i].ID]))
	}

	page := &CatalogPage{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}

	if cacheable {
		if raw, err := json.Marshal(page); err == nil {
			if err := s.Redis.Set(context.Background(), catalogCacheKey, raw, catalogCacheTTL).Err(); err != nil {
				logger.Log.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}

	return page, nil
}

func normalizeFilter(filter repository.CourseFilter) repository.CourseFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit > MaxPageSize {
		filter.Limit = MaxPageSize
	}
	return filter
}

// GetCourse resolves a course by canonical or legacy id and reports
// whether the caller is enrolled in it.
func (s *CourseService) GetCourse(id string, callerID uint) (*model.Course, bool, error) {
	course, err := s.Courses.FindByAnyID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, util.ErrCourseNotFound
		}
		return nil, false, err
	}

	isEnrolled := false
	if callerID != 0 {
		if _, err := s.Enrollments.FindByStudentAndCourse(callerID, course.ID); err == nil {
			isEnrolled = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}

	return course, isEnrolled, nil
}

// MyCourses lists everything the instructor owns, drafts included.
func (s *CourseService) MyCourses(instructorID uint) ([]model.Course, error) {
	return s.Courses.FindByInstructor(instructorID)
}

// DeleteCourse removes the course and every enrollment referencing it.
// Only the owning instructor or an admin may delete.
func (s *CourseService) DeleteCourse(id string, caller *session.Identity) error {
	course, err := s.Courses.FindByAnyID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}

	if course.InstructorID != caller.UserID && caller.Role != model.Admin {
		return util.ErrForbidden
	}

	if err := s.Courses.DeleteCascade(course.ID); err != nil {
		return err
	}

	s.invalidateCatalogCache()
	return nil
}

type AddLessonInput struct {
	Title    string
	Content  string
	VideoURL string
	Duration int
	Order    int
}

// AddLesson appends a lesson to an owned course. When a video URL is
// given and the video platform is configured, duration and display
// metadata come from the fetched video.
func (s *CourseService) AddLesson(ctx context.Context, courseID string, caller *session.Identity, input AddLessonInput) (*model.Lesson, error) {
	if input.Title == "" {
		return nil, util.ValidationError("lesson title is required")
	}

	course, err := s.Courses.FindByAnyID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if course.InstructorID != caller.UserID && caller.Role != model.Admin {
		return nil, util.ErrForbidden
	}

	lesson := &model.Lesson{
		CourseID:   course.ID,
		Title:      input.Title,
		Content:    input.Content,
		VideoURL:   input.VideoURL,
		Duration:   input.Duration,
		OrderIndex: input.Order,
	}

	if lesson.OrderIndex == 0 {
		count, err := s.Courses.CountLessons(course.ID)
		if err != nil {
			return nil, err
		}
		lesson.OrderIndex = int(count) + 1
	}

	if input.VideoURL != "" && s.YouTube.Enabled() {
		if videoID := util.ExtractVideoID(input.VideoURL); videoID != "" {
			info, err := s.YouTube.VideoInfo(ctx, videoID)
			if err != nil {
				// Metadata is best-effort; the lesson still gets created.
				logger.Log.Warn("video metadata fetch failed",
					zap.String("videoId", videoID), zap.Error(err))
			} else {
				lesson.VideoTitle = info.Title
				lesson.VideoThumbnail = info.Thumbnail
				lesson.VideoChannel = info.Channel
				lesson.Duration = info.Duration / 60
			}
		}
	}

	if err := s.Courses.AddLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// SuggestVideos searches the video platform for lesson material, using
// the course title when no topic is given.
func (s *CourseService) SuggestVideos(ctx context.Context, courseID string, caller *session.Identity, topic string) (string, []Video, error) {
	course, err := s.Courses.FindByAnyID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrCourseNotFound
		}
		return "", nil, err
	}

	if course.InstructorID != caller.UserID && caller.Role != model.Admin {
		return "", nil, util.ErrForbidden
	}

	query := topic
	if query == "" {
		query = course.Title + " tutorial"
	}

	videos, err := s.YouTube.Search(ctx, query, 10)
	if err != nil {
		return "", nil, err
	}
	return query, videos, nil
}

func (s *CourseService) invalidateCatalogCache() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), catalogCacheKey).Err(); err != nil && err != redis.Nil {
		logger.Log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
