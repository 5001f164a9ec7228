package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/width"

	"github.com/phenrril/sokuryo-crm/internal/domain"
)

const (
	postalUnknown         = "UNKNOWN"
	postalEstimateTokens  = 20
	postalEstimatePrompt  = "次の住所の郵便番号を7桁の数字のみで回答してください。ハイフンや説明は不要です。分からない場合は「%s」とだけ回答してください。\n住所: %s"
	postalEstimateCompany = "\n会社名: %s"
)

var (
	postalSevenRe = regexp.MustCompile(`(?:^|\D)(\d{7})(?:\D|$)`)
	postalSplitRe = regexp.MustCompile(`(?:^|\D)(\d{3})[-\s](\d{4})(?:\D|$)`)
)

type EstimateRequest struct {
	Prefecture  string `json:"prefecture"`
	City        string `json:"city"`
	Street      string `json:"street"`
	CompanyName string `json:"company_name"`
}

// AddressUC suggests postal codes from partial addresses. APIKey is read on
// every call so late configuration is picked up.
type AddressUC struct {
	Completer domain.Completer
	APIKey    func() string
}

// EstimatePostalCode never fails: every problem is reported as a low
// confidence result with an error message.
func (uc *AddressUC) EstimatePostalCode(ctx context.Context, req EstimateRequest) domain.PostalEstimate {
	pref := strings.TrimSpace(req.Prefecture)
	city := strings.TrimSpace(req.City)
	if pref == "" || city == "" {
		return lowEstimate(domain.EstimateErrValidation, "都道府県と市区町村は必須です")
	}
	if uc.APIKey == nil || strings.TrimSpace(uc.APIKey()) == "" || uc.Completer == nil {
		return lowEstimate(domain.EstimateErrConfiguration, "郵便番号推定サービスが設定されていません")
	}

	address := pref + city + strings.TrimSpace(req.Street)
	prompt := fmt.Sprintf(postalEstimatePrompt, postalUnknown, address)
	if company := strings.TrimSpace(req.CompanyName); company != "" {
		prompt += fmt.Sprintf(postalEstimateCompany, company)
	}

	reply, err := uc.Completer.Complete(ctx, prompt, postalEstimateTokens)
	if err != nil {
		log.Warn().Err(err).Str("address", address).Msg("postal estimate call failed")
		return lowEstimate(domain.EstimateErrEstimation, "郵便番号の推定に失敗しました")
	}
	log.Debug().Str("address", address).Str("reply", reply).Msg("postal estimate reply")

	code, ok := ExtractPostalCode(reply)
	if !ok {
		return lowEstimate(domain.EstimateErrEstimation, "郵便番号を特定できませんでした")
	}
	return domain.PostalEstimate{PostalCode: &code, Confidence: domain.ConfidenceMedium}
}

// ExtractPostalCode finds a postal code in free text: first a run of exactly
// seven digits, then three and four digits split by a hyphen or space.
func ExtractPostalCode(reply string) (string, bool) {
	s := width.Fold.String(reply)
	if m := postalSevenRe.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if m := postalSplitRe.FindStringSubmatch(s); m != nil {
		return m[1] + m[2], true
	}
	return "", false
}

func lowEstimate(kind domain.EstimateErrorKind, msg string) domain.PostalEstimate {
	return domain.PostalEstimate{Confidence: domain.ConfidenceLow, Error: msg, ErrorKind: kind}
}
