package service

import (
	"errors"
	"math"
	"time"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/session"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	Enrollments EnrollmentStore
	Courses     CourseStore
}

func NewEnrollmentService(enrollments EnrollmentStore, courses CourseStore) *EnrollmentService {
	return &EnrollmentService{Enrollments: enrollments, Courses: courses}
}

// Enroll registers the student on a published course. The enrollment row
// and the course counter move in the same transaction, so a failed insert
// never bumps the counter.
func (s *EnrollmentService) Enroll(studentID uint, courseID string) (*model.Enrollment, error) {
	course, err := s.Courses.FindByAnyID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if !course.IsPublished {
		return nil, util.ValidationError("course is not open for enrollment")
	}

	if _, err := s.Enrollments.FindByStudentAndCourse(studentID, course.ID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	enrollment := &model.Enrollment{
		StudentID:        studentID,
		CourseID:         course.ID,
		Progress:         0,
		CompletedLessons: model.IntSet{},
		EnrolledAt:       now,
		LastAccessed:     now,
	}

	if err := s.Enrollments.CreateWithCounter(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// MyEnrollments lists the student's enrollments joined with course display
// fields, most recently accessed first. Enrollments whose course has
// vanished are skipped rather than failing the whole listing.
func (s *EnrollmentService) MyEnrollments(studentID uint) ([]model.EnrolledCourse, error) {
	enrollments, err := s.Enrollments.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}

	rows := make([]model.EnrolledCourse, 0, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		course, err := s.Courses.FindByID(e.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Log.Warn("enrollment references missing course",
					zap.Uint("enrollmentId", e.ID), zap.Uint("courseId", e.CourseID))
				continue
			}
			return nil, err
		}
		rows = append(rows, joinEnrolledCourse(e, course))
	}
	return rows, nil
}

func joinEnrolledCourse(e *model.Enrollment, c *model.Course) model.EnrolledCourse {
	row := model.EnrolledCourse{
		EnrollmentID:     e.ID,
		Progress:         e.Progress,
		CompletedLessons: e.CompletedLessons,
		EnrolledAt:       e.EnrolledAt,
		CompletedAt:      e.CompletedAt,
		LastAccessed:     e.LastAccessed,
	}
	row.Course.ID = c.ID
	row.Course.Title = c.Title
	row.Course.Description = c.Description
	row.Course.Instructor = c.Instructor
	row.Course.Thumbnail = c.Thumbnail
	row.Course.Duration = c.Duration
	row.Course.Price = c.Price
	return row
}

// Get returns one enrollment with its course. Students see only their
// own; admins see any.
func (s *EnrollmentService) Get(enrollmentID uint, caller *session.Identity) (*model.Enrollment, *model.Course, error) {
	enrollment, err := s.Enrollments.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrEnrollmentNotFound
		}
		return nil, nil, err
	}

	if enrollment.StudentID != caller.UserID && caller.Role != model.Admin {
		return nil, nil, util.ErrForbidden
	}

	course, err := s.Courses.FindByID(enrollment.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrCourseNotFound
		}
		return nil, nil, err
	}

	return enrollment, course, nil
}

// UpdateProgress marks one lesson completed and recomputes the percentage
// from the course's current lesson count. Marking the same lesson twice
// is a no-op for the set, and completedAt latches the first time the
// course hits 100.
func (s *EnrollmentService) UpdateProgress(enrollmentID uint, caller *session.Identity, lessonIndex int) (*model.Enrollment, error) {
	enrollment, err := s.Enrollments.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	if enrollment.StudentID != caller.UserID {
		return nil, util.ErrForbidden
	}

	course, err := s.Courses.FindByID(enrollment.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if lessonIndex < 0 || lessonIndex >= len(course.Lessons) {
		return nil, util.ValidationError("lesson index %d out of range", lessonIndex)
	}

	if enrollment.CompletedLessons == nil {
		enrollment.CompletedLessons = model.IntSet{}
	}
	enrollment.CompletedLessons.Add(lessonIndex)

	total := len(course.Lessons)
	enrollment.Progress = int(math.Round(float64(len(enrollment.CompletedLessons)) / float64(total) * 100))

	if enrollment.Progress >= 100 && enrollment.CompletedAt == nil {
		now := time.Now()
		enrollment.CompletedAt = &now
	}
	enrollment.LastAccessed = time.Now()

	if err := s.Enrollments.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Unenroll drops the enrollment and decrements the course counter in one
// transaction. The counter never goes below zero even if it drifted.
func (s *EnrollmentService) Unenroll(enrollmentID uint, caller *session.Identity) error {
	enrollment, err := s.Enrollments.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEnrollmentNotFound
		}
		return err
	}

	if enrollment.StudentID != caller.UserID && caller.Role != model.Admin {
		return util.ErrForbidden
	}

	return s.Enrollments.DeleteWithCounter(enrollment)
}
