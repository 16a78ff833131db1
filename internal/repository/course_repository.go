package repository

import (
	"coursehub_backend/internal/model"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// CourseFilter narrows the public catalog listing.
type CourseFilter struct {
	Category string
	Level    string
	Search   string
	Page     int
	Limit    int
}

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Save(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.order_index ASC")
	}).First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByAnyID resolves either the numeric primary key or, for records
// migrated from the old JSON-file store, the legacy string id. The
// canonical id wins when both could match.
func (r *CourseRepository) FindByAnyID(id string) (*model.Course, error) {
	if n, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64); err == nil {
		if course, err := r.FindByID(uint(n)); err == nil {
			return course, nil
		}
	}

	var course model.Course
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.order_index ASC")
	}).Where("legacy_id = ?", id).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindByInstructor(instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.order_index ASC")
	}).Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

// ListPublished applies the catalog filters and returns one page plus the
// total match count.
func (r *CourseRepository) ListPublished(filter CourseFilter) ([]model.Course, int64, error) {
	query := r.DB.Model(&model.Course{}).Where("is_published = ?", true)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := query.
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) AddLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *CourseRepository) CountLessons(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

// DeleteCascade removes the course together with its lessons and every
// enrollment referencing it, so no orphan survives the delete.
func (r *CourseRepository) DeleteCascade(courseID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, courseID).Error
	})
}
