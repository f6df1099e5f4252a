package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/host"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

const nameSeparators = " -_."

// ExtractDescription strips the code prefix and a trailing company token
// from name and trims separator characters.
//
//	ExtractDescription("C.01.02desc-RNG", "C.01.02", "RNG") // "desc"
func ExtractDescription(name string, code ir.AssemblyCode, company string) string {
	rest := strings.TrimSpace(name)
	if code.Valid() {
		rest = strings.TrimPrefix(rest, string(code))
	}
	rest = strings.Trim(rest, nameSeparators)

	return strings.Trim(trimCompany(rest, company), nameSeparators)
}

// trimCompany drops a trailing company token from s when it stands as its
// own word. Runes are compared case-insensitively.
func trimCompany(s, company string) string {
	if company == "" {
		return s
	}
	cut := len(s)
	for n := utf8.RuneCountInString(company); n > 0; n-- {
		if cut == 0 {
			return s
		}
		_, size := utf8.DecodeLastRuneInString(s[:cut])
		cut -= size
	}
	if !strings.EqualFold(s[cut:], company) {
		return s
	}
	if cut > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:cut]); !strings.ContainsRune(nameSeparators, r) {
			return s
		}
	}
	return s[:cut]
}

// CanonicalName returns "<code> - <description> - <company>". The
// description comes from name, or from fallback when name has none. ok is
// false when the code is invalid or no description is available.
func CanonicalName(name string, code ir.AssemblyCode, company, fallback string) (string, bool) {
	if !code.Valid() {
		return "", false
	}
	desc := ExtractDescription(name, code, company)
	if desc == "" {
		desc = strings.TrimSpace(fallback)
	}
	if desc == "" {
		return "", false
	}
	return fmt.Sprintf("%s - %s - %s", code, desc, company), true
}

// AuditName checks the "<code> - <description> - <company>" form.
func (a *Auditors) AuditName(v host.ScheduleView, code ir.AssemblyCode) ir.AuditItem {
	if !code.Valid() {
		return ir.Warn(ir.KindViewName, v.Name, "", "view name has no valid assembly code")
	}
	expected, ok := CanonicalName(v.Name, code, a.profile.Company.Value, a.rules.Description(code))
	if !ok {
		return ir.Warn(ir.KindViewName, v.Name, "", "view name has no description and the matrix has none for "+string(code))
	}
	if v.Name == expected {
		return ir.Correct(ir.KindViewName, v.Name, "name follows the code - description - company form")
	}
	return ir.Fix(ir.RenameView{Name: expected}, v.Name, expected, "name does not follow the code - description - company form")
}
