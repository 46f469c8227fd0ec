package models

import (
	"github.com/google/uuid"
	"time"
)

// SocialLinks holds the fixed set of supported platforms. Empty entries are
// omitted from JSON rather than stored as empty strings.
type SocialLinks struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type Profile struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Status         string    `gorm:"not null"`
	Company        string
	Location       string
	Website        string
	Bio            string
	GithubUsername string
	Skills         []string    `gorm:"serializer:json"`
	Social         SocialLinks `gorm:"serializer:json"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	User       User         `gorm:"foreignKey:UserID"`
	Experience []Experience `gorm:"foreignKey:ProfileID"`
	Education  []Education  `gorm:"foreignKey:ProfileID"`
}

type Experience struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProfileID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Company     string    `gorm:"not null"`
	Location    string
	From        time.Time `gorm:"not null"`
	To          *time.Time
	Current     bool
	Description string
	CreatedAt   time.Time
}

type Education struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProfileID    uuid.UUID `gorm:"type:uuid;not null;index"`
	School       string    `gorm:"not null"`
	Degree       string    `gorm:"not null"`
	FieldOfStudy string    `gorm:"not null"`
	From         time.Time `gorm:"not null"`
	To           *time.Time
	Current      bool
	Description  string
	CreatedAt    time.Time
}
