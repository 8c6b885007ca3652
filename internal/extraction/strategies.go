package extraction

import (
	"regexp"
	"strconv"
	"strings"
)

// Strategy kinds, in the order chains are expected to list them.
const (
	KindStructured = "structured"
	KindRelaxed    = "relaxed"
	KindAnchor     = "anchor"
	KindPattern    = "pattern"
	KindSalvage    = "salvage"
)

// anchorWindow bounds how far past a label a number may sit, in runes.
const anchorWindow = 24

// Selector reads the first element matched by each selector in turn.
func Selector[T any](name string, norm Normalizer[T], selectors ...string) Strategy[T] {
	return Strategy[T]{
		Name: name,
		Run: func(p Page) (T, bool) {
			var zero T
			for _, sel := range selectors {
				elements := p.Query(sel)
				if len(elements) == 0 {
					continue
				}
				if v, ok := norm(elements[0].Text); ok {
					return v, true
				}
			}
			return zero, false
		},
	}
}

// Anchor finds elements whose own text contains one of the labels and reads
// the number following the label, first inside the element and then inside
// its parent.
func Anchor[T any](name string, norm Normalizer[T], labels ...string) Strategy[T] {
	return Strategy[T]{
		Name: name,
		Run: func(p Page) (T, bool) {
			var zero T
			for _, label := range labels {
				for _, el := range p.Query(`:containsOwn(` + strconv.Quote(label) + `)`) {
					if v, ok := norm(after(el.Text, label)); ok {
						return v, true
					}
					if v, ok := norm(after(el.ParentText, label)); ok {
						return v, true
					}
				}
			}
			return zero, false
		},
	}
}

// Pattern tries each expression against the visible text. The first
// non-empty capture group of the first matching expression is normalized.
func Pattern[T any](name string, norm Normalizer[T], patterns ...*regexp.Regexp) Strategy[T] {
	return Strategy[T]{
		Name: name,
		Run: func(p Page) (T, bool) {
			var zero T
			text := p.Text()
			for _, re := range patterns {
				m := re.FindStringSubmatch(text)
				if m == nil {
					continue
				}
				for _, group := range m[1:] {
					if group == "" {
						continue
					}
					if v, ok := norm(group); ok {
						return v, true
					}
					break
				}
			}
			return zero, false
		},
	}
}

var parenthesized = regexp.MustCompile(`\((\d[\d,]*)\)`)

// MaxParenthesized picks the largest parenthesised integer on the page.
// It cannot tell a review count from any other bracketed number, so it only
// belongs at the end of a chain.
func MaxParenthesized(name string) Strategy[int] {
	return Strategy[int]{
		Name: name,
		Run: func(p Page) (int, bool) {
			best, found := 0, false
			for _, m := range parenthesized.FindAllStringSubmatch(p.Text(), -1) {
				if v, ok := NormalizeInt(m[1]); ok && (!found || v > best) {
					best, found = v, true
				}
			}
			return best, found
		},
	}
}

func after(text, label string) string {
	i := strings.Index(text, label)
	if i < 0 {
		return ""
	}
	rest := []rune(text[i+len(label):])
	if len(rest) > anchorWindow {
		rest = rest[:anchorWindow]
	}
	return string(rest)
}
