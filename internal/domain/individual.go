package domain

import (
	"time"

	"github.com/google/uuid"
)

// IndividualContact is a private (non-corporate) customer. It has no link to
// any Account.
type IndividualContact struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LastName      string     `gorm:"size:60;not null" json:"last_name"`
	FirstName     string     `gorm:"size:60;not null" json:"first_name"`
	LastNameKana  string     `gorm:"size:120" json:"last_name_kana"`
	FirstNameKana string     `gorm:"size:120" json:"first_name_kana"`
	BirthDate     *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	Phone         string     `gorm:"size:30" json:"phone"`
	Email         string     `gorm:"size:140;index" json:"email"`
	PostalCode    *string    `gorm:"size:7" json:"postal_code"`
	Prefecture    string     `gorm:"size:10" json:"prefecture"`
	City          string     `gorm:"size:120" json:"city"`
	Street        string     `gorm:"size:255" json:"street"`
	Building      string     `gorm:"size:255" json:"building"`
	Notes         string     `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (c *IndividualContact) Validate() []Violation {
	var vs []Violation
	vs = requireField(vs, "last_name", c.LastName)
	vs = requireField(vs, "first_name", c.FirstName)
	vs = checkPostalCode(vs, "postal_code", c.PostalCode)
	return vs
}

// Normalize canonicalizes free-form input before validation.
func (c *IndividualContact) Normalize() {
	c.PostalCode = NormalizePostalCode(c.PostalCode)
}
