package database

import (
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// Surfaces unique-index violations as gorm.ErrDuplicatedKey.
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Lesson{},
		&model.Enrollment{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedCatalog(db)

	return db, nil
}

// seedCatalog inserts a demo instructor and two starter courses the first
// time the server comes up against an empty database.
func seedCatalog(db *gorm.DB) {
	var userCount int64
	db.Model(&model.User{}).Count(&userCount)
	if userCount == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err == nil {
			db.Create(&model.User{
				Username: "john_doe",
				Email:    "john@example.com",
				Password: string(hashed),
				FullName: "John Doe",
				Role:     model.Instructor,
				Bio:      "Senior Web Developer",
				Avatar:   model.DefaultAvatar,
			})
		}
	}

	var courseCount int64
	db.Model(&model.Course{}).Count(&courseCount)
	if courseCount == 0 {
		var instructor model.User
		if err := db.Where("role = ?", model.Instructor).First(&instructor).Error; err != nil {
			return
		}

		defaults := []model.Course{
			{
				Title:            "JavaScript Basics",
				Description:      "Learn JavaScript from scratch",
				Instructor:       instructor.FullName,
				InstructorID:     instructor.ID,
				LegacyID:         "1",
				Category:         "programming",
				Price:            0,
				Duration:         30,
				Level:            model.Beginner,
				Rating:           4.5,
				Requirements:     model.StringList{"Basic computer literacy", "A text editor"},
				LearningOutcomes: model.StringList{"Understand JavaScript fundamentals", "Write simple programs"},
				IsPublished:      true,
				Thumbnail:        "https://images.unsplash.com/photo-1551650975-87deedd944c3?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
			},
			{
				Title:            "Python Programming",
				Description:      "Learn Python from zero to hero. Perfect for beginners who want to start programming.",
				Instructor:       instructor.FullName,
				InstructorID:     instructor.ID,
				LegacyID:         "4",
				Category:         "programming",
				Price:            30,
				Duration:         35,
				Level:            model.Beginner,
				Rating:           4.6,
				Requirements:     model.StringList{"Basic Python familiarity"},
				LearningOutcomes: model.StringList{"Write Python programs", "Work with data"},
				IsPublished:      true,
				Thumbnail:        "https://images.unsplash.com/photo-1526379879527-8559ecfcaec6?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
				Lessons: []model.Lesson{
					{Title: "Python Basics", Content: "Syntax and basic concepts", Duration: 45, OrderIndex: 1},
					{Title: "Data Structures", Content: "Lists, dictionaries, tuples", Duration: 55, OrderIndex: 2},
				},
			},
		}
		for i := range defaults {
			db.Create(&defaults[i])
		}
	}
}
