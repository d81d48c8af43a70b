// Package css reads the small CSS subset the UI understands: .class and #id selectors (comma
// lists allowed) with "key: value" declarations. Other selectors and @rules are skipped.
package css

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	tcss "github.com/tdewolff/parse/v2/css"
)

// Rule is a single CSS rule: one selector and a set of property values (raw strings).
type Rule struct {
	Selector string            // e.g. ".panel" or "#menu"
	Props    map[string]string // e.g. "background" -> "#333"
}

// Stylesheet is a list of rules (order matters: later overrides earlier).
type Stylesheet struct {
	Rules []Rule
}

// Parse tokenizes content and returns its rules in source order. A rule with a comma list of
// selectors becomes one Rule per selector.
func Parse(content string) (*Stylesheet, error) {
	p := tcss.NewParser(parse.NewInputString(content), false)
	sheet := &Stylesheet{}
	var selectors []string
	var props map[string]string
	atDepth := 0
	for {
		gt, _, data := p.Next()
		switch gt {
		case tcss.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("css: %w", err)
			}
			return sheet, nil
		case tcss.BeginAtRuleGrammar:
			atDepth++
		case tcss.EndAtRuleGrammar:
			atDepth--
		case tcss.QualifiedRuleGrammar:
			selectors = append(selectors, splitSelectors(p.Values())...)
		case tcss.BeginRulesetGrammar:
			selectors = append(selectors, splitSelectors(p.Values())...)
			props = make(map[string]string)
		case tcss.DeclarationGrammar, tcss.CustomPropertyGrammar:
			if props != nil {
				props[strings.ToLower(string(data))] = join(p.Values())
			}
		case tcss.EndRulesetGrammar:
			if atDepth == 0 {
				for _, sel := range selectors {
					if supported(sel) {
						sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: props})
					}
				}
			}
			selectors = nil
			props = nil
		}
	}
}

// splitSelectors turns the prelude of a rule into one selector per comma-separated part.
func splitSelectors(tokens []tcss.Token) []string {
	var out []string
	start := 0
	for i, t := range tokens {
		if t.TokenType == tcss.CommaToken {
			if sel := join(tokens[start:i]); sel != "" {
				out = append(out, sel)
			}
			start = i + 1
		}
	}
	if sel := join(tokens[start:]); sel != "" {
		out = append(out, sel)
	}
	return out
}

func join(tokens []tcss.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.TokenType == tcss.WhitespaceToken {
			b.WriteByte(' ')
			continue
		}
		b.Write(t.Data)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func supported(sel string) bool {
	if len(sel) < 2 || (sel[0] != '.' && sel[0] != '#') {
		return false
	}
	return !strings.ContainsAny(sel[1:], " .#:>[+~")
}

// RGBA is a colour with 8-bit channels.
type RGBA struct {
	R, G, B, A uint8
}

// ParseColor parses #RGB, #RRGGBB, #RRGGBBAA, rgb(r, g, b) and rgba(r, g, b, a) with a in [0, 1].
func ParseColor(s string) (RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[len("rgba("):len(s)-1], 4)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[len("rgb("):len(s)-1], 3)
	}
	return RGBA{}, false
}

func parseHex(hex string) (RGBA, bool) {
	for _, c := range hex {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return RGBA{}, false
		}
	}
	nib := func(i int) uint8 {
		v, _ := strconv.ParseUint(hex[i:i+1], 16, 8)
		return uint8(v)
	}
	switch len(hex) {
	case 3:
		return RGBA{nib(0) * 17, nib(1) * 17, nib(2) * 17, 255}, true
	case 6, 8:
		c := RGBA{A: 255}
		ch := []*uint8{&c.R, &c.G, &c.B, &c.A}
		for i := 0; i < len(hex)/2; i++ {
			*ch[i] = nib(2*i)<<4 | nib(2*i+1)
		}
		return c, true
	}
	return RGBA{}, false
}

func parseFunc(args string, n int) (RGBA, bool) {
	parts := strings.Split(args, ",")
	if len(parts) != n {
		return RGBA{}, false
	}
	c := RGBA{A: 255}
	ch := []*uint8{&c.R, &c.G, &c.B}
	for i, p := range parts[:3] {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return RGBA{}, false
		}
		*ch[i] = uint8(v)
	}
	if n == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return RGBA{}, false
		}
		c.A = uint8(a*255 + 0.5)
	}
	return c, true
}

// ParsePx parses a number, with optional "px" suffix, to int32. Unitless is treated as pixels.
func ParsePx(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParsePct parses "N%" to int32 (0–100). Used for percentage positioning.
func ParsePct(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[len(s)-1] != '%' {
		return 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return int32(n), true
}
