package seeder

import (
	"log"

	"gorm.io/gorm"

	"github.com/tesseract-hub/directory-service/internal/models"
)

// SeedDatabase seeds the database with the default category tree.
// Idempotent: a non-empty categories table is left untouched.
func SeedDatabase(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Printf("Database already seeded with %d categories, skipping...", count)
		return nil
	}

	log.Println("Seeding categories...")
	return seedCategories(db)
}

func seedCategories(db *gorm.DB) error {
	categories := defaultCategories()

	for _, category := range categories {
		if err := db.Create(&category).Error; err != nil {
			log.Printf("Failed to seed category %s: %v", category.Name, err)
			// Continue with other categories even if one fails
		}
	}

	log.Printf("Seeded %d categories", len(categories))
	return nil
}

func defaultCategories() []models.Category {
	return []models.Category{
		{Name: "Restaurants & Food", Slug: "restaurants-food", SortOrder: 1},
		{Name: "Health & Medical", Slug: "health-medical", SortOrder: 2},
		{Name: "Home Services", Slug: "home-services", SortOrder: 3},
		{Name: "Automotive", Slug: "automotive", SortOrder: 4},
		{Name: "Beauty & Wellness", Slug: "beauty-wellness", SortOrder: 5},
		{Name: "Professional Services", Slug: "professional-services", SortOrder: 6},
		{Name: "Shopping & Retail", Slug: "shopping-retail", SortOrder: 7},
		{Name: "Education", Slug: "education", SortOrder: 8},
		{Name: "Real Estate", Slug: "real-estate", SortOrder: 9},
		{Name: "Travel & Hospitality", Slug: "travel-hospitality", SortOrder: 10},
		{Name: "Arts & Entertainment", Slug: "arts-entertainment", SortOrder: 11},
		{Name: "Sports & Fitness", Slug: "sports-fitness", SortOrder: 12},
		{Name: "Pets", Slug: "pets", SortOrder: 13},
		{Name: "Technology", Slug: "technology", SortOrder: 14},
		{Name: "Financial Services", Slug: "financial-services", SortOrder: 15},
	}
}
