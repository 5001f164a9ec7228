package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a corporate customer.
type Account struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyName         string    `gorm:"size:180;not null" json:"company_name"`
	CompanyNameKana     string    `gorm:"size:255" json:"company_name_kana"`
	CompanyNameKanaCore string    `gorm:"size:255;index" json:"company_name_kana_core"`
	CorporateNumber     string    `gorm:"size:13;index" json:"corporate_number"`
	MainPhone           string    `gorm:"size:30" json:"main_phone"`
	Fax                 string    `gorm:"size:30" json:"fax"`
	PostalCode          *string   `gorm:"size:7" json:"postal_code"`
	Prefecture          string    `gorm:"size:10" json:"prefecture"`
	City                string    `gorm:"size:120" json:"city"`
	Street              string    `gorm:"size:255" json:"street"`
	Building            string    `gorm:"size:255" json:"building"`
	Industry            string    `gorm:"size:60;index" json:"industry"`
	Notes               string    `gorm:"type:text" json:"notes"`
	Branches            []Branch  `gorm:"constraint:OnDelete:CASCADE" json:"branches"`
	Contacts            []Contact `gorm:"constraint:OnDelete:CASCADE" json:"contacts"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Branch is a sub-location owned by exactly one Account.
type Branch struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID  uuid.UUID `gorm:"type:uuid;index;not null" json:"account_id"`
	Name       string    `gorm:"size:180;not null" json:"name"`
	Phone      string    `gorm:"size:30" json:"phone"`
	Fax        string    `gorm:"size:30" json:"fax"`
	PostalCode *string   `gorm:"size:7" json:"postal_code"`
	Prefecture string    `gorm:"size:10" json:"prefecture"`
	City       string    `gorm:"size:120" json:"city"`
	Street     string    `gorm:"size:255" json:"street"`
	Building   string    `gorm:"size:255" json:"building"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Contact is a person working for an Account, optionally at one of its branches.
type Contact struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"account_id"`
	BranchID      *uuid.UUID `gorm:"type:uuid;index" json:"branch_id"`
	LastName      string     `gorm:"size:60;not null" json:"last_name"`
	FirstName     string     `gorm:"size:60;not null" json:"first_name"`
	LastNameKana  string     `gorm:"size:120" json:"last_name_kana"`
	FirstNameKana string     `gorm:"size:120" json:"first_name_kana"`
	Phone         string     `gorm:"size:30" json:"phone"`
	Email         string     `gorm:"size:140" json:"email"`
	Department    string     `gorm:"size:120" json:"department"`
	Position      string     `gorm:"size:120" json:"position"`
	IsPrimary     bool       `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AssignIDs fills missing ids and points every child at this account.
func (a *Account) AssignIDs() {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	for i := range a.Branches {
		if a.Branches[i].ID == uuid.Nil {
			a.Branches[i].ID = uuid.New()
		}
		a.Branches[i].AccountID = a.ID
	}
	for i := range a.Contacts {
		if a.Contacts[i].ID == uuid.Nil {
			a.Contacts[i].ID = uuid.New()
		}
		a.Contacts[i].AccountID = a.ID
	}
}

// ReissueChildIDs gives a fresh id to every branch and contact whose id is not
// in owned, so a submitted id can never address another account's row.
// Contacts that pointed at a reissued branch follow it to the new id.
func (a *Account) ReissueChildIDs(owned map[uuid.UUID]bool) {
	moved := map[uuid.UUID]uuid.UUID{}
	for i := range a.Branches {
		if !owned[a.Branches[i].ID] {
			id := uuid.New()
			moved[a.Branches[i].ID] = id
			a.Branches[i].ID = id
		}
	}
	for i := range a.Contacts {
		c := &a.Contacts[i]
		if !owned[c.ID] {
			c.ID = uuid.New()
		}
		if c.BranchID != nil {
			if id, ok := moved[*c.BranchID]; ok {
				c.BranchID = &id
			}
		}
	}
}

// ChildIDs lists the ids of all branches and contacts on the account.
func (a *Account) ChildIDs() map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool, len(a.Branches)+len(a.Contacts))
	for _, b := range a.Branches {
		ids[b.ID] = true
	}
	for _, c := range a.Contacts {
		ids[c.ID] = true
	}
	return ids
}

// Normalize canonicalizes postal codes on the account and its branches.
func (a *Account) Normalize() {
	a.PostalCode = NormalizePostalCode(a.PostalCode)
	for i := range a.Branches {
		a.Branches[i].PostalCode = NormalizePostalCode(a.Branches[i].PostalCode)
	}
}

func (a *Account) HasBranch(id uuid.UUID) bool {
	for _, b := range a.Branches {
		if b.ID == id {
			return true
		}
	}
	return false
}

// RemoveBranch drops the branch and clears BranchID on every contact that
// pointed at it. It reports whether the branch existed.
func (a *Account) RemoveBranch(id uuid.UUID) bool {
	idx := -1
	for i, b := range a.Branches {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	a.Branches = append(a.Branches[:idx], a.Branches[idx+1:]...)
	for i := range a.Contacts {
		if bid := a.Contacts[i].BranchID; bid != nil && *bid == id {
			a.Contacts[i].BranchID = nil
		}
	}
	return true
}

// PrimaryContact returns the primary contact when exactly one is marked.
func (a *Account) PrimaryContact() (*Contact, bool) {
	var found *Contact
	for i := range a.Contacts {
		if a.Contacts[i].IsPrimary {
			if found != nil {
				return nil, false
			}
			found = &a.Contacts[i]
		}
	}
	return found, found != nil
}

// PrimaryUnset reports contacts exist but none is primary. This is an
// advisory state for the form, not a violation.
func (a *Account) PrimaryUnset() bool {
	if len(a.Contacts) == 0 {
		return false
	}
	for _, c := range a.Contacts {
		if c.IsPrimary {
			return false
		}
	}
	return true
}

// SetPrimary marks the given contact primary and clears the flag on the rest.
func (a *Account) SetPrimary(contactID uuid.UUID) bool {
	ok := false
	for i := range a.Contacts {
		if a.Contacts[i].ID == contactID {
			ok = true
		}
	}
	if !ok {
		return false
	}
	for i := range a.Contacts {
		a.Contacts[i].IsPrimary = a.Contacts[i].ID == contactID
	}
	return true
}
