package specification

import "gorm.io/gorm"

// BySessionID filters chat events by their opaque session token
type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByQuestion filters chat events by question tag
type ByQuestion struct {
	Question string
}

func (s ByQuestion) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("question = ?", s.Question)
}
