package xmldoc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var namedEntities = map[string]rune{
	"amp":  '&',
	"lt":   '<',
	"gt":   '>',
	"quot": '"',
	"apos": '\'',
}

var entityPattern = regexp.MustCompile(`&(#[xX][0-9a-fA-F]+|#[0-9]+|amp|lt|gt|quot|apos);`)

// Encode escapes markup characters and every non-ASCII rune as a hex
// numeric character reference ("é" -> "&#xE9;").
func Encode(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '&' || r == '<' || r == '>' || r == '"' || r == '\'':
			fmt.Fprintf(&b, "&#x%X;", r)
		case r > 0x7E:
			fmt.Fprintf(&b, "&#x%X;", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// verbatim are the markup sections whose content is not character data.
var verbatim = []struct{ open, close string }{
	{"<![CDATA[", "]]>"},
	{"<!--", "-->"},
	{"<?", "?>"},
}

// EncodeNonASCII escapes runes above the ASCII range in serialized XML,
// where markup characters are already escaped by the writer. Only text
// and attribute values are touched: CDATA sections and comments keep
// their content as is, since references are not expanded there.
func EncodeNonASCII(s string) string {
	if isASCII(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for s != "" {
		i := strings.IndexByte(s, '<')
		if i < 0 {
			encodeRunes(&b, s)
			break
		}
		encodeRunes(&b, s[:i])
		s = s[i+writeMarkup(&b, s[i:]):]
	}
	return b.String()
}

// writeMarkup copies the markup starting at s[0] == '<' and returns its
// length.
func writeMarkup(b *strings.Builder, s string) int {
	for _, v := range verbatim {
		if !strings.HasPrefix(s, v.open) {
			continue
		}
		n := len(s)
		if end := strings.Index(s[len(v.open):], v.close); end >= 0 {
			n = len(v.open) + end + len(v.close)
		}
		b.WriteString(s[:n])
		return n
	}

	if strings.HasPrefix(s, "<!") {
		// DOCTYPE, possibly with an internal subset.
		depth := 0
		for i := 2; i < len(s); i++ {
			switch s[i] {
			case '[':
				depth++
			case ']':
				depth--
			case '>':
				if depth <= 0 {
					b.WriteString(s[:i+1])
					return i + 1
				}
			}
		}
		b.WriteString(s)
		return len(s)
	}

	// Element tag: only quoted attribute values are encoded.
	start, quote := 0, byte(0)
	for i := 1; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				encodeRunes(b, s[start:i])
				start, quote = i, 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			b.WriteString(s[start : i+1])
			start, quote = i+1, c
		case '>':
			b.WriteString(s[start : i+1])
			return i + 1
		}
	}
	if quote != 0 {
		encodeRunes(b, s[start:])
	} else {
		b.WriteString(s[start:])
	}
	return len(s)
}

func encodeRunes(b *strings.Builder, s string) {
	for _, r := range s {
		if r > 0x7E {
			fmt.Fprintf(b, "&#x%X;", r)
			continue
		}
		b.WriteRune(r)
	}
}

// Decode reverses Encode. It also accepts decimal references and the five
// predefined named entities. Unknown or malformed references are kept.
func Decode(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityPattern.ReplaceAllStringFunc(s, func(m string) string {
		body := m[1 : len(m)-1]
		if r, ok := namedEntities[body]; ok {
			return string(r)
		}
		var (
			n   uint64
			err error
		)
		if strings.HasPrefix(body, "#x") || strings.HasPrefix(body, "#X") {
			n, err = strconv.ParseUint(body[2:], 16, 32)
		} else {
			n, err = strconv.ParseUint(body[1:], 10, 32)
		}
		if err != nil || n > 0x10FFFF {
			return m
		}
		return string(rune(n))
	})
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7E {
			return false
		}
	}
	return true
}
