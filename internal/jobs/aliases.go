package jobs

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// cityAliases maps ASCII spellings, lowercased, to the canonical Turkish name.
var cityAliases = map[string]string{
	"istanbul":   "İstanbul",
	"izmir":      "İzmir",
	"izmit":      "İzmit",
	"isparta":    "Isparta",
	"canakkale":  "Çanakkale",
	"cankiri":    "Çankırı",
	"corum":      "Çorum",
	"diyarbakir": "Diyarbakır",
	"elazig":     "Elazığ",
	"eskisehir":  "Eskişehir",
	"gumushane":  "Gümüşhane",
	"kirklareli": "Kırklareli",
	"kirsehir":   "Kırşehir",
	"kutahya":    "Kütahya",
	"mugla":      "Muğla",
	"mus":        "Muş",
	"nevsehir":   "Nevşehir",
	"nigde":      "Niğde",
	"sanliurfa":  "Şanlıurfa",
	"sirnak":     "Şırnak",
	"tekirdag":   "Tekirdağ",
	"usak":       "Uşak",
	"atasehir":   "Ataşehir",
	"besiktas":   "Beşiktaş",
	"sisli":      "Şişli",
	"uskudar":    "Üsküdar",
	"kadikoy":    "Kadıköy",
}

// CanonicalLocation replaces every word of value that has an alias with its
// canonical spelling and keeps everything else, separators included.
func CanonicalLocation(value string) string {
	var (
		out  strings.Builder
		word strings.Builder
	)

	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		if canonical, ok := cityAliases[strings.ToLower(w)]; ok {
			w = canonical
		}
		out.WriteString(w)
		word.Reset()
	}

	for _, r := range value {
		if unicode.IsLetter(r) {
			word.WriteRune(r)
			continue
		}
		flush()
		out.WriteRune(r)
	}
	flush()

	return out.String()
}

// locationFolder compares locations case-insensitively under Turkish casing
// rules. A folder must not be shared between goroutines.
type locationFolder struct {
	lower cases.Caser
}

func newLocationFolder() *locationFolder {
	return &locationFolder{lower: cases.Lower(language.Turkish)}
}

func (f *locationFolder) fold(value string) string {
	return f.lower.String(norm.NFC.String(strings.TrimSpace(value)))
}
