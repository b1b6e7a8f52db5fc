//
//  internal/theme/helper.go
//
//  Template functions shared by section and page templates.  These keep
//  number formatting out of the markup so authors never repeat it.
//

package theme

import (
	"html/template"
	"strconv"
	"strings"
)

// FuncMap returns the global template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"money":   Money,
		"number":  Number,
		"decimal": Decimal,
		"dict":    dict,
		"add":     func(a, b int) int { return a + b },
		"upper":   strings.ToUpper,
	}
}

// Money formats cents as whole dollars with thousands separators:
// 45000000 → "$450,000".  Cents are rounded half up.
func Money(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := "$" + group(strconv.FormatInt((cents+50)/100, 10))
	if neg {
		return "-" + s
	}
	return s
}

// Number formats n with thousands separators.
func Number(n int) string {
	if n < 0 {
		return "-" + group(strconv.Itoa(-n))
	}
	return group(strconv.Itoa(n))
}

// Decimal trims a float to at most one decimal place: 2.5 → "2.5",
// 3.0 → "3".
func Decimal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var sb strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
