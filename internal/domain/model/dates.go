package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// pendingSentinel marks a fixture whose result is not yet known.
const pendingSentinel = "por definir"

// ResultPending reports whether an official result string should be
// skipped by scoring: empty, a dash placeholder, or the pending sentinel.
func ResultPending(result string) bool {
	r := strings.ToLower(strings.TrimSpace(result))
	return r == "" || r == "-" || r == pendingSentinel
}

var spanishMonths = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var (
	numericDateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	parenRe       = regexp.MustCompile(`\(.*?\)`)
	dayRe         = regexp.MustCompile(`\b(\d{1,2})\b`)
	yearRe        = regexp.MustCompile(`\b(\d{4})\b`)
)

// ParseDate parses the flexible date strings the round importer produces:
// "24/08/2025", "24-08-2025", "24 de agosto de 2025", "24 agosto 2025".
// Returns ok=false for anything it cannot understand, including the
// "por definir" placeholder; no error is ever raised.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, pendingSentinel) {
		return time.Time{}, false
	}

	if m := numericDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}

	// Text format: strip parentheticals and connective "de" before scanning.
	clean := strings.ToLower(parenRe.ReplaceAllString(s, ""))
	clean = strings.ReplaceAll(clean, ",", "")
	clean = " " + strings.Join(strings.Fields(clean), " ") + " "
	clean = strings.ReplaceAll(clean, " de ", " ")

	monthIdx := -1
	for i, name := range spanishMonths {
		if strings.Contains(clean, name) {
			monthIdx = i
			break
		}
	}
	if monthIdx == -1 {
		return time.Time{}, false
	}

	dayMatch := dayRe.FindStringSubmatch(clean)
	if dayMatch == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(dayMatch[1])
	if day < 1 || day > 31 {
		return time.Time{}, false
	}

	year := time.Now().Year()
	if ym := yearRe.FindStringSubmatch(clean); ym != nil {
		year, _ = strconv.Atoi(ym[1])
	}

	return time.Date(year, time.Month(monthIdx+1), day, 0, 0, 0, 0, time.UTC), true
}
