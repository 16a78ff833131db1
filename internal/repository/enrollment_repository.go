package repository

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.First(&enrollment, id).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByStudentAndCourse(studentID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByStudent(studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("student_id = ?", studentID).
		Order("last_accessed DESC").
		Find(&enrollments).Error
	return enrollments, err
}

// EnrolledCourseIDs reports which of the given courses the student holds a
// live enrollment for. Used to annotate catalog listings in one query.
func (r *EnrollmentRepository) EnrolledCourseIDs(studentID uint, courseIDs []uint) (map[uint]bool, error) {
	enrolled := make(map[uint]bool, len(courseIDs))
	if len(courseIDs) == 0 {
		return enrolled, nil
	}

	var ids []uint
	err := r.DB.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id IN ?", studentID, courseIDs).
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		enrolled[id] = true
	}
	return enrolled, nil
}

func (r *EnrollmentRepository) Update(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}

// CreateWithCounter writes the enrollment and bumps the course's enrolled
// counter in one transaction, so neither write can land alone. Two racing
// enrolls can both pass the service's duplicate check; the composite
// unique index catches the loser here, and that is still a conflict, not
// an internal failure.
func (r *EnrollmentRepository) CreateWithCounter(enrollment *model.Enrollment) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return util.ErrAlreadyEnrolled
			}
			return err
		}
		return tx.Model(&model.Course{}).
			Where("id = ?", enrollment.CourseID).
			Update("students_enrolled", gorm.Expr("students_enrolled + 1")).
			Error
	})
}

// DeleteWithCounter removes the enrollment and decrements the course's
// counter, floored at zero. A course deleted out from under the
// enrollment just makes the decrement a no-op.
func (r *EnrollmentRepository) DeleteWithCounter(enrollment *model.Enrollment) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Course{}).
			Where("id = ? AND students_enrolled > 0", enrollment.CourseID).
			Update("students_enrolled", gorm.Expr("students_enrolled - 1")).
			Error; err != nil {
			return err
		}
		return tx.Delete(&model.Enrollment{}, enrollment.ID).Error
	})
}
