// Package kana normalizes phonetic (kana) company names.
package kana

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// corporateTitles is scanned in declaration order and the first entry that
// matches at either edge wins. Entries that contain a shorter entry must come
// before it, and spacing variants stay separate entries.
var corporateTitles = []string{
	"カブシキガイシャ",
	"カブシキカイシャ",
	"カブシキ ガイシャ",
	"カブシキ　ガイシャ",
	"ユウゲンガイシャ",
	"ユウゲンカイシャ",
	"ユウゲン ガイシャ",
	"ゴウドウガイシャ",
	"ゴウドウカイシャ",
	"ゴウシガイシャ",
	"ゴウシカイシャ",
	"ゴウメイガイシャ",
	"ゴウメイカイシャ",
	"イッパンシャダンホウジン",
	"イッパンザイダンホウジン",
	"コウエキシャダンホウジン",
	"コウエキザイダンホウジン",
	"シャダンホウジン",
	"ザイダンホウジン",
	"トクテイヒエイリカツドウホウジン",
	"エヌピーオーホウジン",
	"ガッコウホウジン",
	"イリョウホウジン",
	"シャカイフクシホウジン",
	"ノウギョウキョウドウクミアイ",
	"ジギョウキョウドウクミアイ",
	"キョウドウクミアイ",
	"（カ）",
	"(カ)",
	"（ユ）",
	"(ユ)",
	"（ド）",
	"(ド)",
	"（シ）",
	"(シ)",
	"（メ）",
	"(メ)",
	"（シャ）",
	"(シャ)",
	"（ザイ）",
	"(ザイ)",
	"（トクヒ）",
	"(トクヒ)",
	"（ガク）",
	"(ガク)",
	"（イ）",
	"(イ)",
	"（フク）",
	"(フク)",
	"ｶﾌﾞｼｷｶﾞｲｼｬ",
	"ﾕｳｹﾞﾝｶﾞｲｼｬ",
	"ｺﾞｳﾄﾞｳｶﾞｲｼｬ",
	"(ｶ)",
	"(ﾕ)",
	"(ﾄﾞ)",
}

// StripCorporateTitle removes known corporate-title readings from both edges
// of a kana company name, repeatedly, until none is left at either edge.
func StripCorporateTitle(value string) string {
	s := strings.TrimSpace(value)
	for {
		next, ok := stripOnce(s)
		if !ok {
			return s
		}
		s = next
	}
}

func stripOnce(s string) (string, bool) {
	for _, t := range corporateTitles {
		if strings.HasPrefix(s, t) {
			return strings.TrimSpace(s[len(t):]), true
		}
		if strings.HasSuffix(s, t) {
			return strings.TrimSpace(s[:len(s)-len(t)]), true
		}
	}
	return s, false
}

// SortKey folds character width (half-width katakana to full-width, full-width
// ASCII to ASCII), recomposes voiced marks and strips corporate titles, giving
// a key for search and ordering.
func SortKey(value string) string {
	s := soundMarks.Replace(width.Fold.String(value))
	return StripCorporateTitle(norm.NFC.String(s))
}

// spacing voiced marks do not compose under NFC; the combining forms do.
var soundMarks = strings.NewReplacer("\u309B", "\u3099", "\u309C", "\u309A")
