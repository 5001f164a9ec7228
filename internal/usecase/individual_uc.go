package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/phenrril/sokuryo-crm/internal/domain"
)

type IndividualUC struct {
	Individuals domain.IndividualRepo
}

func (uc *IndividualUC) Save(ctx context.Context, c *domain.IndividualContact) error {
	if c == nil {
		return errors.New("contact nil")
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Normalize()
	if vs := c.Validate(); len(vs) > 0 {
		return &domain.ValidationError{Violations: vs}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	} else {
		prev, err := uc.Individuals.FindByID(ctx, c.ID)
		switch {
		case err == nil:
			c.CreatedAt = prev.CreatedAt
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
	}
	return uc.Individuals.Save(ctx, c)
}

func (uc *IndividualUC) Get(ctx context.Context, id uuid.UUID) (*domain.IndividualContact, error) {
	if id == uuid.Nil {
		return nil, errors.New("contact id")
	}
	return uc.Individuals.FindByID(ctx, id)
}

func (uc *IndividualUC) List(ctx context.Context, f domain.IndividualFilter) ([]domain.IndividualContact, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	if f.Page == 0 {
		f.Page = 1
	}
	f.Query = strings.TrimSpace(f.Query)
	return uc.Individuals.List(ctx, f)
}

func (uc *IndividualUC) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("contact id")
	}
	return uc.Individuals.Delete(ctx, id)
}
