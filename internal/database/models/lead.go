package models

import "github.com/google/uuid"

type LeadState string

const (
	LeadStatePending    LeadState = "PENDING"
	LeadStateReachedOut LeadState = "REACHED_OUT"
)

// Valid reports whether s is one of the two defined workflow states.
// Unrecognized values are rejected, never coerced.
func (s LeadState) Valid() bool {
	return s == LeadStatePending || s == LeadStateReachedOut
}

type Lead struct {
	Base
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Email     string `gorm:"not null;index" json:"email"`

	// ResumePath is the generated file name inside the upload directory,
	// never a caller-supplied path. Set once at creation.
	ResumePath string `gorm:"not null" json:"resume_path"`

	State LeadState `gorm:"type:varchar(20);default:'PENDING';index" json:"state"`
	Notes *string   `json:"notes"`

	// UpdatedBy is a weak reference to the reviewer who last mutated the
	// lead; nil until the first update. Deleting a user does not cascade.
	UpdatedBy     *uuid.UUID `gorm:"type:uuid" json:"updated_by"`
	UpdatedByUser *User      `gorm:"foreignKey:UpdatedBy" json:"-"`
}

func (Lead) TableName() string {
	return "leads"
}
