package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/sokuryo-crm/internal/domain"
)

// openTestDB connects to TEST_DB_DSN and migrates a clean schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&domain.Contact{}, &domain.Branch{}, &domain.Account{}, &domain.IndividualContact{}))
	require.NoError(t, Migrate(db))
	return db
}

func TestAccountRepo_SaveAndFind(t *testing.T) {
	db := openTestDB(t)
	repo := NewAccountRepo(db)
	ctx := context.Background()

	pc := "1000001"
	a := &domain.Account{
		CompanyName:         "山田測量株式会社",
		CompanyNameKanaCore: "ヤマダソクリョウ",
		PostalCode:          &pc,
		Branches:            []domain.Branch{{Name: "大阪支店"}},
		Contacts: []domain.Contact{
			{LastName: "山田", FirstName: "太郎", IsPrimary: true},
			{LastName: "佐藤", FirstName: "花子"},
		},
	}
	a.AssignIDs()
	a.Contacts[1].BranchID = &a.Branches[0].ID
	require.NoError(t, repo.Save(ctx, a))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "山田測量株式会社", got.CompanyName)
	require.Len(t, got.Branches, 1)
	require.Len(t, got.Contacts, 2)
	assert.True(t, got.Contacts[0].IsPrimary)

	// move primary and drop the branch from the set
	got.SetPrimary(got.Contacts[1].ID)
	got.RemoveBranch(got.Branches[0].ID)
	require.NoError(t, repo.Save(ctx, got))

	again, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Branches)
	p, ok := again.PrimaryContact()
	require.True(t, ok)
	assert.Equal(t, "佐藤", p.LastName)
	assert.Nil(t, p.BranchID)

	list, total, err := repo.List(ctx, domain.AccountFilter{Query: "ﾔﾏﾀﾞ"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}

func TestAccountRepo_DeleteBranchAndAccount(t *testing.T) {
	db := openTestDB(t)
	repo := NewAccountRepo(db)
	ctx := context.Background()

	a := &domain.Account{
		CompanyName: "鈴木登記",
		Branches:    []domain.Branch{{Name: "本店"}},
		Contacts:    []domain.Contact{{LastName: "鈴木", FirstName: "一郎"}},
	}
	a.AssignIDs()
	a.Contacts[0].BranchID = &a.Branches[0].ID
	require.NoError(t, repo.Save(ctx, a))

	require.NoError(t, repo.DeleteBranch(ctx, a.ID, a.Branches[0].ID))
	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Branches)
	assert.Nil(t, got.Contacts[0].BranchID)
	assert.ErrorIs(t, repo.DeleteBranch(ctx, a.ID, uuid.New()), domain.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), domain.ErrNotFound)
}

func TestAccountRepo_SaveRejectsOtherAccountsChildren(t *testing.T) {
	db := openTestDB(t)
	repo := NewAccountRepo(db)
	ctx := context.Background()

	b := &domain.Account{
		CompanyName: "佐藤測量",
		Branches:    []domain.Branch{{Name: "名古屋支店"}},
		Contacts:    []domain.Contact{{LastName: "佐藤", FirstName: "花子"}},
	}
	b.AssignIDs()
	b.Contacts[0].BranchID = &b.Branches[0].ID
	require.NoError(t, repo.Save(ctx, b))

	a := &domain.Account{
		CompanyName: "山田測量",
		Branches:    []domain.Branch{{ID: b.Branches[0].ID, Name: "奪取"}},
		Contacts:    []domain.Contact{{ID: b.Contacts[0].ID, LastName: "山田", FirstName: "太郎"}},
	}
	a.AssignIDs()
	err := repo.Save(ctx, a)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Violations, 2)

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.Branches, 1)
	assert.Equal(t, "名古屋支店", got.Branches[0].Name)
	require.Len(t, got.Contacts, 1)
	assert.Equal(t, "佐藤", got.Contacts[0].LastName)
	assert.Empty(t, got.Validate())

	_, err = repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndividualRepo_CRUD(t *testing.T) {
	db := openTestDB(t)
	repo := NewIndividualRepo(db)
	ctx := context.Background()

	c := &domain.IndividualContact{ID: uuid.New(), LastName: "田中", FirstName: "次郎", LastNameKana: "タナカ", Email: "jiro@example.jp"}
	require.NoError(t, repo.Save(ctx, c))

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "jiro@example.jp", got.Email)

	list, total, err := repo.List(ctx, domain.IndividualFilter{Query: "タナカ"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, c.ID))
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), domain.ErrNotFound)
}
