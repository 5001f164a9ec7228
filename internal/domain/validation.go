package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	CodeRequired         = "required"
	CodePostalCode       = "postal_code"
	CodeDigitsOnly       = "digits_only"
	CodeBranchReference  = "branch_reference"
	CodeDuplicatePrimary = "duplicate_primary"
)

const corporateNumberLen = 13

// Violation is one field-level problem found by Validate.
type Violation struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError carries every violation of a record that failed to save.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Code)
	}
	return "invalid record: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Validate checks the account together with its branches and contacts. An
// account with contacts but no primary passes; see PrimaryUnset.
func (a *Account) Validate() []Violation {
	var vs []Violation
	vs = requireField(vs, "company_name", a.CompanyName)
	vs = checkPostalCode(vs, "postal_code", a.PostalCode)
	if n := strings.TrimSpace(a.CorporateNumber); n != "" {
		if !isDigits(n) || len(n) != corporateNumberLen {
			vs = append(vs, Violation{Field: "corporate_number", Code: CodeDigitsOnly, Message: "corporate number must be 13 digits"})
		}
	}

	for i := range a.Branches {
		for _, v := range a.Branches[i].Validate() {
			v.Field = fmt.Sprintf("branches[%d].%s", i, v.Field)
			vs = append(vs, v)
		}
	}

	branches := make(map[uuid.UUID]struct{}, len(a.Branches))
	for _, b := range a.Branches {
		branches[b.ID] = struct{}{}
	}
	primaries := 0
	for i := range a.Contacts {
		c := &a.Contacts[i]
		for _, v := range c.Validate() {
			v.Field = fmt.Sprintf("contacts[%d].%s", i, v.Field)
			vs = append(vs, v)
		}
		if c.BranchID != nil {
			if _, ok := branches[*c.BranchID]; !ok {
				vs = append(vs, Violation{
					Field:   fmt.Sprintf("contacts[%d].branch_id", i),
					Code:    CodeBranchReference,
					Message: "branch does not belong to this account",
				})
			}
		}
		if c.IsPrimary {
			primaries++
			if primaries > 1 {
				vs = append(vs, Violation{
					Field:   fmt.Sprintf("contacts[%d].is_primary", i),
					Code:    CodeDuplicatePrimary,
					Message: "only one contact can be primary",
				})
			}
		}
	}
	return vs
}

func (b *Branch) Validate() []Violation {
	var vs []Violation
	vs = requireField(vs, "name", b.Name)
	vs = checkPostalCode(vs, "postal_code", b.PostalCode)
	return vs
}

// Validate checks the contact's own fields. Branch linkage needs the owning
// account and is checked by Account.Validate.
func (c *Contact) Validate() []Violation {
	var vs []Violation
	vs = requireField(vs, "last_name", c.LastName)
	vs = requireField(vs, "first_name", c.FirstName)
	return vs
}

func requireField(vs []Violation, field, value string) []Violation {
	if strings.TrimSpace(value) == "" {
		return append(vs, Violation{Field: field, Code: CodeRequired, Message: field + " is required"})
	}
	return vs
}

func checkPostalCode(vs []Violation, field string, v *string) []Violation {
	if v == nil || IsPostalCode(*v) {
		return vs
	}
	return append(vs, Violation{Field: field, Code: CodePostalCode, Message: "postal code must be 7 digits without hyphen"})
}
