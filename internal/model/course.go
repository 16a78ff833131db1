package model

type CourseLevel string

const (
	Beginner     CourseLevel = "beginner"
	Intermediate CourseLevel = "intermediate"
	Advanced     CourseLevel = "advanced"
)

type Course struct {
	BaseModel
	Title        string `gorm:"size:200;not null" json:"title"`
	Description  string `gorm:"type:text;not null" json:"description"`
	Instructor   string `gorm:"size:100;not null" json:"instructor"`
	InstructorID uint   `gorm:"index;not null" json:"instructorId"`
	// LegacyID carries the string id of records imported from the old
	// JSON-file store. Lookups fall back to it when the numeric id misses.
	LegacyID         string      `gorm:"size:64;index" json:"legacyId,omitempty"`
	Category         string      `gorm:"size:50;index;not null" json:"category"`
	Price            float64     `gorm:"default:0" json:"price"`
	Duration         int         `gorm:"not null" json:"duration"`
	Level            CourseLevel `gorm:"type:enum('beginner','intermediate','advanced');default:'beginner';index" json:"level"`
	StudentsEnrolled int         `gorm:"default:0" json:"studentsEnrolled"`
	Rating           float64     `gorm:"default:0" json:"rating"`
	Lessons          []Lesson    `gorm:"foreignKey:CourseID" json:"lessons"`
	Requirements     StringList  `gorm:"type:json" json:"requirements"`
	LearningOutcomes StringList  `gorm:"type:json" json:"learningOutcomes"`
	IsPublished      bool        `gorm:"default:false;index" json:"isPublished"`
	Thumbnail        string      `gorm:"size:512" json:"thumbnail"`
}

func (Course) TableName() string {
	return "courses"
}

type Lesson struct {
	BaseModel
	CourseID   uint   `gorm:"index;not null" json:"courseId"`
	Title      string `gorm:"size:200;not null" json:"title"`
	Content    string `gorm:"type:text" json:"content"`
	VideoURL   string `gorm:"size:512" json:"videoUrl,omitempty"`
	Duration   int    `json:"duration"`
	OrderIndex int    `gorm:"index" json:"order"`

	// Metadata fetched from the video platform at creation time.
	VideoTitle     string `gorm:"size:255" json:"videoTitle,omitempty"`
	VideoThumbnail string `gorm:"size:512" json:"videoThumbnail,omitempty"`
	VideoChannel   string `gorm:"size:255" json:"videoChannel,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// CatalogItem is the catalog projection of a course: no lesson bodies, no
// instructor id, plus the per-caller enrollment flag.
type CatalogItem struct {
	ID               uint        `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Instructor       string      `json:"instructor"`
	Category         string      `json:"category"`
	Price            float64     `json:"price"`
	Duration         int         `json:"duration"`
	Level            CourseLevel `json:"level"`
	StudentsEnrolled int         `json:"studentsEnrolled"`
	Rating           float64     `json:"rating"`
	Thumbnail        string      `json:"thumbnail"`
	IsEnrolled       bool        `json:"isEnrolled"`
}

func (c *Course) CatalogItem(isEnrolled bool) CatalogItem {
	return CatalogItem{
		ID:               c.ID,
		Title:            c.Title,
		Description:      c.Description,
		Instructor:       c.Instructor,
		Category:         c.Category,
		Price:            c.Price,
		Duration:         c.Duration,
		Level:            c.Level,
		StudentsEnrolled: c.StudentsEnrolled,
		Rating:           c.Rating,
		Thumbnail:        c.Thumbnail,
		IsEnrolled:       isEnrolled,
	}
}
