package notification

import "strings"

// renderTemplate substitutes {field.path} tokens with values looked up in the
// entity data. Tokens whose path does not resolve are left verbatim, which
// makes a broken template visible in the delivered message instead of
// silently blanking it. Substituted values are not re-scanned.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	var b strings.Builder
	b.Grow(len(tmpl))
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		close := strings.IndexByte(tmpl[open:], '}')
		if close < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		close += open
		b.WriteString(tmpl[:open])
		token := tmpl[open+1 : close]
		if val, ok := lookupField(data, token); ok {
			b.WriteString(stringify(val))
		} else {
			b.WriteString(tmpl[open : close+1])
		}
		tmpl = tmpl[close+1:]
	}
}
