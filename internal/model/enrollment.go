package model

import "time"

type Enrollment struct {
	BaseModel
	StudentID uint `gorm:"uniqueIndex:idx_student_course;not null" json:"studentId"`
	CourseID  uint `gorm:"uniqueIndex:idx_student_course;index;not null" json:"courseId"`
	// Progress is round(100 * completed / lesson count), 0..100.
	Progress         int        `gorm:"default:0" json:"progress"`
	CompletedLessons IntSet     `gorm:"type:json" json:"completedLessons"`
	EnrolledAt       time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"enrolledAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	LastAccessed     time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastAccessed"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// EnrolledCourse is the joined row returned by the my-courses listing:
// the enrollment state plus minimal course display fields.
type EnrolledCourse struct {
	EnrollmentID     uint       `json:"enrollmentId"`
	Progress         int        `json:"progress"`
	CompletedLessons IntSet     `json:"completedLessons"`
	EnrolledAt       time.Time  `json:"enrolledAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	LastAccessed     time.Time  `json:"lastAccessed"`
	Course           struct {
		ID          uint    `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Instructor  string  `json:"instructor"`
		Thumbnail   string  `json:"thumbnail"`
		Duration    int     `json:"duration"`
		Price       float64 `json:"price"`
	} `json:"course"`
}
