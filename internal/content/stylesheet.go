package content

import (
	"fmt"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// Stylesheet is a parsed CSS stylesheet.
type Stylesheet struct {
	sheet *css.Stylesheet
}

// ParseStylesheet parses body as CSS.
func ParseStylesheet(body []byte) (*Stylesheet, error) {
	sheet, err := parser.Parse(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse stylesheet: %w", err)
	}
	return &Stylesheet{sheet: sheet}, nil
}

// Rules returns the parsed top-level rules.
func (s *Stylesheet) Rules() []*css.Rule {
	return s.sheet.Rules
}
