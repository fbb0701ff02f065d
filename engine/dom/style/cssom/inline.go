package cssom

import (
	"strings"

	dparser "github.com/aymerick/douceur/parser"
	"github.com/npillmayer/webcore/engine/dom/style"
)

// ParseInlineStyle parses the declarations of a `style` attribute. Each
// declaration is parsed on its own, so a malformed one is dropped without
// affecting the others. Diagnostics for dropped declarations are returned
// along with the valid ones.
func ParseInlineStyle(attr string) ([]Declaration, []ParseError) {
	var decls []Declaration
	var errs []ParseError
	offset := 0
	for _, part := range splitDeclarations(attr) {
		src := strings.TrimSpace(part)
		pos := offset
		offset += len(part) + 1
		if src == "" {
			continue
		}
		dd, err := dparser.NewParser(src + ";").ParseDeclarations()
		if err != nil || len(dd) != 1 || !isPropertyName(dd[0].Property) || dd[0].Value == "" {
			errs = append(errs, ParseError{Offset: pos, Msg: "inline declaration dropped: " + src})
			continue
		}
		d := Declaration{
			Property:  strings.ToLower(dd[0].Property),
			Important: dd[0].Important,
			Offset:    pos,
		}
		toks := trimSpace(tokenize(dd[0].Value))
		d.Value = style.Normalize(text(toks))
		d.Components = components(toks)
		decls = append(decls, d)
	}
	return decls, errs
}

// splitDeclarations splits declarations at semicolons which are not part of
// strings or parenthesized values.
func splitDeclarations(s string) []string {
	var parts []string
	depth, start := 0, 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case c == ';' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func isPropertyName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '-' || c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
