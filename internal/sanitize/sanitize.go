// Package sanitize cleans loosely-typed payload values into canonical field
// values. Every function is total: malformed input yields the zero value,
// never an error.
package sanitize

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextPolicy = newRichTextPolicy()
	plainPolicy    = bluemonday.StrictPolicy()
)

func newRichTextPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "b", "strong", "i", "em", "u", "s",
		"ul", "ol", "li", "blockquote",
		"h2", "h3", "h4", "h5", "h6",
	)
	return p
}

// String coerces v into a trimmed plain string. HTML entities are normalized,
// markup is stripped entirely (script and style contents included), and
// control characters are removed. Non-scalar input yields "".
func String(v any) string {
	s, ok := scalar(v)
	if !ok {
		return ""
	}
	s = stripControl(html.UnescapeString(s))
	// the strict policy re-escapes the text it keeps, so unescape once more
	// to get back plain text
	s = html.UnescapeString(plainPolicy.Sanitize(s))
	return strings.TrimSpace(s)
}

// StringSlice coerces v into a slice of cleaned strings. Elements that are
// empty after cleaning are dropped. Non-array input yields nil.
func StringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := String(item); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// URL returns v as an absolute http(s) URL, or "" when it is anything else.
func URL(v any) string {
	s := String(v)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return u.String()
}

// RichText sanitizes v through an allow-list HTML policy that keeps block and
// inline formatting tags and drops everything else, scripts and event-handler
// attributes included.
func RichText(v any) string {
	s, ok := scalar(v)
	if !ok {
		return ""
	}
	return strings.TrimSpace(richTextPolicy.Sanitize(s))
}

func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
