package service

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
)

// Services talk to storage through these interfaces; the gorm-backed
// repositories satisfy them, and tests swap in fakes.

type UserStore interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Update(user *model.User) error
	UpdateLastLogin(userID uint) error
}

type CourseStore interface {
	Create(course *model.Course) error
	Save(course *model.Course) error
	FindByID(id uint) (*model.Course, error)
	FindByAnyID(id string) (*model.Course, error)
	FindByInstructor(instructorID uint) ([]model.Course, error)
	ListPublished(filter repository.CourseFilter) ([]model.Course, int64, error)
	AddLesson(lesson *model.Lesson) error
	CountLessons(courseID uint) (int64, error)
	DeleteCascade(courseID uint) error
}

type EnrollmentStore interface {
	FindByID(id uint) (*model.Enrollment, error)
	FindByStudentAndCourse(studentID, courseID uint) (*model.Enrollment, error)
	FindByStudent(studentID uint) ([]model.Enrollment, error)
	EnrolledCourseIDs(studentID uint, courseIDs []uint) (map[uint]bool, error)
	Update(enrollment *model.Enrollment) error
	CreateWithCounter(enrollment *model.Enrollment) error
	DeleteWithCounter(enrollment *model.Enrollment) error
}
