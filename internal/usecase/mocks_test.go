package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/phenrril/sokuryo-crm/internal/domain"
)

type completerMock struct{ mock.Mock }

func (m *completerMock) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	args := m.Called(ctx, prompt, maxTokens)
	return args.String(0), args.Error(1)
}

type accountRepoMock struct{ mock.Mock }

func (m *accountRepoMock) Save(ctx context.Context, a *domain.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *accountRepoMock) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *accountRepoMock) List(ctx context.Context, f domain.AccountFilter) ([]domain.Account, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]domain.Account)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *accountRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *accountRepoMock) DeleteBranch(ctx context.Context, accountID, branchID uuid.UUID) error {
	return m.Called(ctx, accountID, branchID).Error(0)
}

type individualRepoMock struct{ mock.Mock }

func (m *individualRepoMock) Save(ctx context.Context, c *domain.IndividualContact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *individualRepoMock) FindByID(ctx context.Context, id uuid.UUID) (*domain.IndividualContact, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.IndividualContact)
	return c, args.Error(1)
}

func (m *individualRepoMock) List(ctx context.Context, f domain.IndividualFilter) ([]domain.IndividualContact, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]domain.IndividualContact)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *individualRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
