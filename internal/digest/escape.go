package digest

import "strings"

// entities are the sequences Escape produces; an ampersand that already starts
// one of them is kept so escaping twice changes nothing.
var entities = []string{"&amp;", "&quot;", "&lt;", "&gt;"}

// Escape replaces &, ", < and > with their entities in a single pass.
func Escape(text string) string {
	if !strings.ContainsAny(text, `&"<>`) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 16)
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '&':
			if startsWithEntity(text[i:]) {
				b.WriteByte(c)
			} else {
				b.WriteString("&amp;")
			}
		case '"':
			b.WriteString("&quot;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func startsWithEntity(s string) bool {
	for _, entity := range entities {
		if strings.HasPrefix(s, entity) {
			return true
		}
	}
	return false
}
