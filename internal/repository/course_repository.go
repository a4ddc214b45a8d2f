package repository

import (
	"gorm.io/gorm"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/models"
)

type CourseRepository interface {
	Create(course *models.Course) error
	Update(course *models.Course) error
	Delete(id uint) error
	GetByID(id uint) (*models.Course, error)
	GetBySlug(slug string) (*models.Course, error)
	List(status string) ([]models.Course, error)
	ExistsByTitle(title string) (bool, error)

	// SaveTree persists a whole course tree in one transaction: the course
	// row, upserted sections/contents/quizzes, and hard deletion of the
	// children whose ids arrive marked for deletion.
	SaveTree(course *models.Course, deleted DeletedIDs) error
}

// DeletedIDs carries the persisted children a submission marked deleted.
type DeletedIDs struct {
	Sections []uint
	Contents []uint
	Quizzes  []uint
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) Update(course *models.Course) error {
	return r.db.Save(course).Error
}

func (r *courseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Course{}, id).Error
}

func (r *courseRepository) GetByID(id uint) (*models.Course, error) {
	var course models.Course
	err := r.preloadTree(r.db).First(&course, id).Error
	return &course, err
}

func (r *courseRepository) GetBySlug(slug string) (*models.Course, error) {
	var course models.Course
	err := r.preloadTree(r.db).Where("slug = ?", slug).First(&course).Error
	return &course, err
}

func (r *courseRepository) List(status string) ([]models.Course, error) {
	var courses []models.Course
	query := r.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&courses).Error
	return courses, err
}

func (r *courseRepository) ExistsByTitle(title string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Course{}).Where("title = ?", title).Count(&count).Error
	return count > 0, err
}

func (r *courseRepository) SaveTree(course *models.Course, deleted DeletedIDs) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(course).Error; err != nil {
			return err
		}

		for i := range course.Sections {
			section := &course.Sections[i]
			section.CourseID = course.ID
			if err := tx.Save(section).Error; err != nil {
				return err
			}

			for j := range section.Contents {
				section.Contents[j].SectionID = section.ID
				if err := tx.Save(&section.Contents[j]).Error; err != nil {
					return err
				}
			}
			for j := range section.Quizzes {
				section.Quizzes[j].SectionID = section.ID
				if err := tx.Save(&section.Quizzes[j]).Error; err != nil {
					return err
				}
			}
		}

		if len(deleted.Contents) > 0 {
			if err := tx.Delete(&models.Content{}, deleted.Contents).Error; err != nil {
				return err
			}
		}
		if len(deleted.Quizzes) > 0 {
			if err := tx.Delete(&models.Quiz{}, deleted.Quizzes).Error; err != nil {
				return err
			}
		}
		if len(deleted.Sections) > 0 {
			if err := tx.Where("section_id IN ?", deleted.Sections).Delete(&models.Content{}).Error; err != nil {
				return err
			}
			if err := tx.Where("section_id IN ?", deleted.Sections).Delete(&models.Quiz{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Section{}, deleted.Sections).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *courseRepository) preloadTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sections.\"order\" ASC")
		}).
		Preload("Sections.Contents", func(db *gorm.DB) *gorm.DB {
			return db.Order("contents.\"order\" ASC")
		}).
		Preload("Sections.Quizzes", func(db *gorm.DB) *gorm.DB {
			return db.Order("quizzes.\"order\" ASC")
		})
}
