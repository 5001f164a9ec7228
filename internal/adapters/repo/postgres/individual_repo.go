package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/sokuryo-crm/internal/domain"
)

type IndividualRepo struct{ db *gorm.DB }

func NewIndividualRepo(db *gorm.DB) *IndividualRepo { return &IndividualRepo{db: db} }

func (r *IndividualRepo) Save(ctx context.Context, c *domain.IndividualContact) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *IndividualRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.IndividualContact, error) {
	var c domain.IndividualContact
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *IndividualRepo) List(ctx context.Context, f domain.IndividualFilter) ([]domain.IndividualContact, int64, error) {
	var list []domain.IndividualContact
	q := r.db.WithContext(ctx).Model(&domain.IndividualContact{})
	if query := strings.TrimSpace(f.Query); query != "" {
		like := "%" + query + "%"
		q = q.Where("last_name || first_name LIKE ? OR last_name_kana || first_name_kana LIKE ? OR LOWER(email) LIKE LOWER(?) OR phone LIKE ?", like, like, like, like)
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
	if err := q.Order("last_name_kana asc, first_name_kana asc, created_at asc").Offset(offset).Limit(f.PageSize).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *IndividualRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&domain.IndividualContact{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
