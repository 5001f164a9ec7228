package app

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/phenrril/sokuryo-crm/internal/adapters/httpserver"
	"github.com/phenrril/sokuryo-crm/internal/adapters/llm/openai"
	"github.com/phenrril/sokuryo-crm/internal/adapters/repo/postgres"
	"github.com/phenrril/sokuryo-crm/internal/usecase"
)

type App struct {
	DB           *gorm.DB
	AccountUC    *usecase.AccountUC
	IndividualUC *usecase.IndividualUC
	AddressUC    *usecase.AddressUC
}

// openAIKey is read on every estimate so a key added after startup is used.
func openAIKey() string { return os.Getenv("OPENAI_API_KEY") }

func NewApp(db *gorm.DB) (*App, error) {
	accountRepo := postgres.NewAccountRepo(db)
	individualRepo := postgres.NewIndividualRepo(db)

	rps, _ := strconv.ParseFloat(strings.TrimSpace(os.Getenv("OPENAI_RPS")), 64)
	completer := openai.NewCompleter(openAIKey,
		openai.WithModel(os.Getenv("OPENAI_MODEL")),
		openai.WithBaseURL(os.Getenv("OPENAI_BASE_URL")),
		openai.WithRateLimit(rps),
	)
	if openAIKey() == "" {
		log.Warn().Msg("OPENAI_API_KEY not set; postal code estimation disabled until configured")
	}

	app := &App{}
	app.DB = db
	app.AccountUC = &usecase.AccountUC{Accounts: accountRepo}
	app.IndividualUC = &usecase.IndividualUC{Individuals: individualRepo}
	app.AddressUC = &usecase.AddressUC{Completer: completer, APIKey: openAIKey}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.AccountUC, a.IndividualUC, a.AddressUC)
}

func (a *App) Migrate() error {
	return postgres.Migrate(a.DB)
}
