package postgres

import (
	"gorm.io/gorm"

	"github.com/phenrril/sokuryo-crm/internal/domain"
)

// Migrate creates the customer tables. The partial unique index backs the
// one-primary-contact rule at the storage level.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Account{}, &domain.Branch{}, &domain.Contact{}, &domain.IndividualContact{},
	); err != nil {
		return err
	}
	stmts := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_one_primary ON contacts (account_id) WHERE is_primary",
		"CREATE INDEX IF NOT EXISTS idx_accounts_postal_code ON accounts (postal_code)",
		"CREATE INDEX IF NOT EXISTS idx_individual_contacts_kana ON individual_contacts (last_name_kana, first_name_kana)",
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
