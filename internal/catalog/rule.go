package catalog

import (
	"regexp"
	"strings"
	"unicode"
)

// Rule is one find/replace applied to a file's content.
type Rule interface {
	// Apply returns the rewritten content and the number of matches.
	Apply(content string) (string, int)
	String() string
}

type regexRule struct {
	re   *regexp.Regexp
	repl string
}

// Regex builds a rule from a pattern and an expansion template ($1, ${name}).
func Regex(pattern, repl string) Rule {
	return regexRule{re: regexp.MustCompile(pattern), repl: repl}
}

func (r regexRule) Apply(content string) (string, int) {
	n := len(r.re.FindAllStringIndex(content, -1))
	if n == 0 {
		return content, 0
	}
	return r.re.ReplaceAllString(content, r.repl), n
}

func (r regexRule) String() string { return r.re.String() }

type tokenRule struct {
	current, next string
}

// Token replaces the name token current with next wherever it stands on its
// own: not preceded by a letter or digit, and not followed by a lowercase
// letter or digit. "MyApp", "MyAppTests" and "MyApp-tvOS" all match for
// "MyApp"; "MyApplication" does not.
func Token(current, next string) Rule {
	return tokenRule{current: current, next: next}
}

func (r tokenRule) Apply(content string) (string, int) {
	if r.current == "" {
		return content, 0
	}
	var b strings.Builder
	n, last := 0, 0
	for i := 0; ; {
		j := strings.Index(content[i:], r.current)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(r.current)
		if tokenBoundary(content, start, end) {
			b.WriteString(content[last:start])
			b.WriteString(r.next)
			last = end
			n++
			i = end
			continue
		}
		i = start + 1
	}
	if n == 0 {
		return content, 0
	}
	b.WriteString(content[last:])
	return b.String(), n
}

func (r tokenRule) String() string { return "token " + r.current }

func tokenBoundary(s string, start, end int) bool {
	if start > 0 {
		prev := rune(s[start-1])
		if prev < 0x80 && (unicode.IsLetter(prev) || unicode.IsDigit(prev)) {
			return false
		}
	}
	if end < len(s) {
		next := rune(s[end])
		if next < 0x80 && (unicode.IsLower(next) || unicode.IsDigit(next)) {
			return false
		}
	}
	return true
}

// quote escapes s for use as a literal inside a pattern.
func quote(s string) string { return regexp.QuoteMeta(s) }

// literal escapes s for use inside a replacement template.
func literal(s string) string { return strings.ReplaceAll(s, "$", "$$") }

// ApplyAll runs rules in order and returns the final content and the total
// match count.
func ApplyAll(content string, rules []Rule) (string, int) {
	total := 0
	for _, r := range rules {
		var n int
		content, n = r.Apply(content)
		total += n
	}
	return content, total
}
