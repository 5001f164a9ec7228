package domain

import (
	"context"

	"github.com/google/uuid"
)

type AccountFilter struct {
	Query      string
	Prefecture string
	Industry   string
	Page       int
	PageSize   int
}

type AccountRepo interface {
	Save(ctx context.Context, a *Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	List(ctx context.Context, f AccountFilter) ([]Account, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBranch(ctx context.Context, accountID, branchID uuid.UUID) error
}

type IndividualFilter struct {
	Query    string
	Page     int
	PageSize int
}

type IndividualRepo interface {
	Save(ctx context.Context, c *IndividualContact) error
	FindByID(ctx context.Context, id uuid.UUID) (*IndividualContact, error)
	List(ctx context.Context, f IndividualFilter) ([]IndividualContact, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Completer is a single-shot text completion backend.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}
