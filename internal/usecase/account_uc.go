package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/sokuryo-crm/internal/domain"
	"github.com/phenrril/sokuryo-crm/internal/kana"
)

type AccountUC struct {
	Accounts domain.AccountRepo
}

// SaveResult tells the form whether it should ask staff to pick a primary
// contact. PrimaryUnset never blocks the save.
type SaveResult struct {
	Account      *domain.Account `json:"account"`
	PrimaryUnset bool            `json:"primary_unset"`
}

func (uc *AccountUC) Save(ctx context.Context, a *domain.Account) (*SaveResult, error) {
	if a == nil {
		return nil, errors.New("account nil")
	}
	a.CompanyName = strings.TrimSpace(a.CompanyName)
	a.CompanyNameKana = strings.TrimSpace(a.CompanyNameKana)
	a.CompanyNameKanaCore = kana.SortKey(a.CompanyNameKana)
	a.CorporateNumber = strings.TrimSpace(a.CorporateNumber)
	a.Normalize()
	existing := a.ID != uuid.Nil
	a.AssignIDs()

	if vs := a.Validate(); len(vs) > 0 {
		return nil, &domain.ValidationError{Violations: vs}
	}
	owned := map[uuid.UUID]bool{}
	if existing {
		prev, err := uc.Accounts.FindByID(ctx, a.ID)
		switch {
		case err == nil:
			owned = prev.ChildIDs()
			keepCreatedAt(a, prev)
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}
	// child ids the stored record does not own are treated as new rows
	a.ReissueChildIDs(owned)
	if err := uc.Accounts.Save(ctx, a); err != nil {
		return nil, err
	}
	return &SaveResult{Account: a, PrimaryUnset: a.PrimaryUnset()}, nil
}

func (uc *AccountUC) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if id == uuid.Nil {
		return nil, errors.New("account id")
	}
	return uc.Accounts.FindByID(ctx, id)
}

func (uc *AccountUC) List(ctx context.Context, f domain.AccountFilter) ([]domain.Account, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	if f.Page == 0 {
		f.Page = 1
	}
	f.Query = strings.TrimSpace(f.Query)
	return uc.Accounts.List(ctx, f)
}

func (uc *AccountUC) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("account id")
	}
	return uc.Accounts.Delete(ctx, id)
}

// DeleteBranch removes a branch and unlinks the contacts assigned to it.
func (uc *AccountUC) DeleteBranch(ctx context.Context, accountID, branchID uuid.UUID) (*domain.Account, error) {
	a, err := uc.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !a.RemoveBranch(branchID) {
		return nil, domain.ErrNotFound
	}
	if err := uc.Accounts.DeleteBranch(ctx, accountID, branchID); err != nil {
		return nil, err
	}
	return a, nil
}

// keepCreatedAt carries creation times over from the stored record, since
// edits arrive without them.
func keepCreatedAt(a, prev *domain.Account) {
	a.CreatedAt = prev.CreatedAt
	created := make(map[uuid.UUID]time.Time, len(prev.Branches)+len(prev.Contacts))
	for _, b := range prev.Branches {
		created[b.ID] = b.CreatedAt
	}
	for _, c := range prev.Contacts {
		created[c.ID] = c.CreatedAt
	}
	for i := range a.Branches {
		if t, ok := created[a.Branches[i].ID]; ok {
			a.Branches[i].CreatedAt = t
		}
	}
	for i := range a.Contacts {
		if t, ok := created[a.Contacts[i].ID]; ok {
			a.Contacts[i].CreatedAt = t
		}
	}
}
