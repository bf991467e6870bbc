package browser

import (
	"fmt"
	"strings"
)

// By selects the query language of a Locator.
type By int

const (
	ByXPath By = iota
	ByCSS
)

func (b By) String() string {
	if b == ByCSS {
		return "css"
	}
	return "xpath"
}

// Locator names a landmark on a page together with the query that finds it.
type Locator struct {
	Name  string
	Query string
	By    By
}

func XPath(name, query string) Locator { return Locator{Name: name, Query: query, By: ByXPath} }

func CSS(name, query string) Locator { return Locator{Name: name, Query: query, By: ByCSS} }

func (l Locator) String() string {
	return fmt.Sprintf("%s (%s %s)", l.Name, l.By, l.Query)
}

// Nth scopes an XPath suffix to the i-th (1-based) match of l, producing
// "(query)[i]suffix".
func (l Locator) Nth(i int, suffix string) Locator {
	return Locator{
		Name:  fmt.Sprintf("%s[%d]", l.Name, i),
		Query: fmt.Sprintf("(%s)[%d]%s", l.Query, i, suffix),
		By:    ByXPath,
	}
}

// With fills the %s verbs of a templated query with XPath string literals.
func (l Locator) With(values ...string) Locator {
	args := make([]any, len(values))
	for i, v := range values {
		if l.By == ByXPath {
			args[i] = XPathLiteral(v)
		} else {
			args[i] = v
		}
	}
	l.Query = fmt.Sprintf(l.Query, args...)
	return l
}

// XPathLiteral quotes s for use inside an XPath expression. XPath 1.0 has no
// escape sequences, so strings holding both quote kinds are built with concat().
func XPathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if p != "" {
			quoted = append(quoted, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
