package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phenrril/sokuryo-crm/internal/domain"
	"github.com/phenrril/sokuryo-crm/internal/kana"
)

type AccountRepo struct{ db *gorm.DB }

func NewAccountRepo(db *gorm.DB) *AccountRepo { return &AccountRepo{db: db} }

// Save writes the account with its full branch and contact sets. Children no
// longer present on the account are deleted.
func (r *AccountRepo) Save(ctx context.Context, a *domain.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rejectForeignChildren(tx, a); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(a).Error; err != nil {
			return err
		}

		contactIDs := make([]uuid.UUID, 0, len(a.Contacts))
		for _, c := range a.Contacts {
			contactIDs = append(contactIDs, c.ID)
		}
		if err := deleteMissing(tx, &domain.Contact{}, a.ID, contactIDs); err != nil {
			return err
		}

		branchIDs := make([]uuid.UUID, 0, len(a.Branches))
		for _, b := range a.Branches {
			branchIDs = append(branchIDs, b.ID)
		}
		if err := deleteMissing(tx, &domain.Branch{}, a.ID, branchIDs); err != nil {
			return err
		}
		if len(a.Branches) > 0 {
			if err := tx.Save(&a.Branches).Error; err != nil {
				return err
			}
		}

		// the primary flag moves between rows; clear it first so the partial
		// unique index never sees two primaries
		if err := tx.Model(&domain.Contact{}).Where("account_id = ? AND is_primary", a.ID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		if len(a.Contacts) > 0 {
			if err := tx.Save(&a.Contacts).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// rejectForeignChildren fails when a branch or contact id already belongs to a
// different account. Upserts by primary key would otherwise move the row.
func rejectForeignChildren(tx *gorm.DB, a *domain.Account) error {
	var vs []domain.Violation
	for i, b := range a.Branches {
		if owner, err := ownerOf(tx, &domain.Branch{}, b.ID); err != nil {
			return err
		} else if owner != uuid.Nil && owner != a.ID {
			vs = append(vs, domain.Violation{
				Field: fmt.Sprintf("branches[%d].id", i), Code: domain.CodeBranchReference,
				Message: "branch belongs to another account",
			})
		}
	}
	for i, c := range a.Contacts {
		if owner, err := ownerOf(tx, &domain.Contact{}, c.ID); err != nil {
			return err
		} else if owner != uuid.Nil && owner != a.ID {
			vs = append(vs, domain.Violation{
				Field: fmt.Sprintf("contacts[%d].id", i), Code: domain.CodeBranchReference,
				Message: "contact belongs to another account",
			})
		}
	}
	if len(vs) > 0 {
		return &domain.ValidationError{Violations: vs}
	}
	return nil
}

func ownerOf(tx *gorm.DB, model any, id uuid.UUID) (uuid.UUID, error) {
	var owners []uuid.UUID
	if err := tx.Model(model).Where("id = ?", id).Limit(1).Pluck("account_id", &owners).Error; err != nil {
		return uuid.Nil, err
	}
	if len(owners) == 0 {
		return uuid.Nil, nil
	}
	return owners[0], nil
}

func deleteMissing(tx *gorm.DB, model any, accountID uuid.UUID, keep []uuid.UUID) error {
	q := tx.Where("account_id = ?", accountID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	return q.Delete(model).Error
}

func (r *AccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var a domain.Account
	err := r.db.WithContext(ctx).
		Preload("Branches", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Contacts", func(db *gorm.DB) *gorm.DB { return db.Order("is_primary desc, created_at asc") }).
		First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) List(ctx context.Context, f domain.AccountFilter) ([]domain.Account, int64, error) {
	var list []domain.Account
	q := r.db.WithContext(ctx).Model(&domain.Account{})
	if f.Prefecture != "" {
		q = q.Where("prefecture = ?", f.Prefecture)
	}
	if f.Industry != "" {
		q = q.Where("industry = ?", f.Industry)
	}
	if query := strings.TrimSpace(f.Query); query != "" {
		like := "%" + query + "%"
		kanaLike := "%" + kana.SortKey(query) + "%"
		q = q.Where("LOWER(company_name) LIKE LOWER(?) OR company_name_kana_core LIKE ? OR corporate_number = ?", like, kanaLike, query)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	offset := (f.Page - 1) * f.PageSize
	err := q.Order("company_name_kana_core asc, company_name asc").
		Offset(offset).Limit(f.PageSize).
		Preload("Branches", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Contacts", func(db *gorm.DB) *gorm.DB { return db.Order("is_primary desc, created_at asc") }).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *AccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&domain.Contact{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&domain.Branch{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Account{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// DeleteBranch unlinks the branch's contacts before removing it.
func (r *AccountRepo) DeleteBranch(ctx context.Context, accountID, branchID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Contact{}).
			Where("account_id = ? AND branch_id = ?", accountID, branchID).
			Update("branch_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("account_id = ?", accountID).Delete(&domain.Branch{}, "id = ?", branchID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
