package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/sokuryo-crm/internal/domain"
)

const accountsSheet = "取引先"

var accountsHeader = []any{
	"会社名", "フリガナ", "検索キー", "法人番号", "郵便番号", "都道府県", "市区町村", "番地", "建物",
	"代表電話", "FAX", "業種", "主担当者", "主担当者電話", "支店数", "担当者数",
}

func (s *Server) apiAccountsExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	var all []domain.Account
	page := 1
	for {
		list, total, err := s.accounts.List(r.Context(), domain.AccountFilter{Query: r.URL.Query().Get("q"), Page: page, PageSize: 200})
		if err != nil {
			writeError(w, r, err)
			return
		}
		all = append(all, list...)
		if len(list) == 0 || page*200 >= int(total) {
			break
		}
		page++
	}

	f, err := accountsWorkbook(all)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer f.Close()

	name := fmt.Sprintf("accounts_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+name)
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("xlsx write")
	}
}

// accountsWorkbook lays out one row per account.
func accountsWorkbook(accounts []domain.Account) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", accountsSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(accountsSheet, "A1", &accountsHeader); err != nil {
		return nil, err
	}
	for i, a := range accounts {
		primaryName, primaryPhone := "", ""
		if c, ok := a.PrimaryContact(); ok {
			primaryName = c.LastName + " " + c.FirstName
			primaryPhone = c.Phone
		}
		postal := ""
		if a.PostalCode != nil {
			postal = *a.PostalCode
		}
		row := []any{
			a.CompanyName, a.CompanyNameKana, a.CompanyNameKanaCore, a.CorporateNumber, postal,
			a.Prefecture, a.City, a.Street, a.Building, a.MainPhone, a.Fax, a.Industry,
			primaryName, primaryPhone, len(a.Branches), len(a.Contacts),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(accountsSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}
