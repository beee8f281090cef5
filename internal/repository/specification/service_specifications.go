package specification

import "gorm.io/gorm"

// ByCategory filters services by catalog category
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// WithEmbedding keeps only services that have been indexed at least once
type WithEmbedding struct{}

func (s WithEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding_value IS NOT NULL")
}
