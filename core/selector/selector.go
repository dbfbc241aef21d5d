// Package selector implements a small query language over document
// trees.
//
// A selector is one or more alternatives separated by commas; each
// alternative names a node tag with optional attribute conditions and
// an optional text match:
//
//	Header
//	Header[level<=2]
//	Str~"needle"
//	Link[url~"https://"]
//	CodeBlock[class="go"], Code
//
// Conditions compare node fields (level, id, class, url, title, format,
// text) with =, !=, <, <=, >, >=, or ~ (substring).
package selector

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/baig/gopandoc/core/ast"
	"github.com/baig/gopandoc/core/errors"
)

// selectorGrammar is the participle grammar for selectors.
//
//nolint:govet // participle grammar tags are not standard struct tags
type selectorGrammar struct {
	Terms []*term `@@ ( "," @@ )*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type term struct {
	Tag   string  `@Ident`
	Conds []*cond `( "[" @@ ( "," @@ )* "]" )?`
	Text  *string `( "~" @String )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type cond struct {
	Field string  `@Ident`
	Op    string  `@Op`
	Str   *string `( @String`
	Int   *int    `| @Int )`
}

var selectorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Op", Pattern: `<=|>=|!=|[<>=~]`},
	{Name: "Punct", Pattern: `[\[\],]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var selectorParser = participle.MustBuild[selectorGrammar](
	participle.Lexer(selectorLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// Selector is a compiled selector.
type Selector struct {
	terms []*term
	src   string
}

// Parse compiles a selector string.
func Parse(s string) (*Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.NewParse("selector", "empty selector", nil)
	}
	parsed, err := selectorParser.ParseString("", s)
	if err != nil {
		return nil, errors.NewParse("selector", err.Error(), err)
	}
	return &Selector{terms: parsed.Terms, src: s}, nil
}

// String returns the source text the selector was compiled from.
func (s *Selector) String() string {
	return s.src
}

// Matches reports whether node (a Block or Inline) matches any of the
// selector's alternatives.
func (s *Selector) Matches(node any) bool {
	tag := ast.Tag(node)
	for _, t := range s.terms {
		if t.matches(tag, node) {
			return true
		}
	}
	return false
}

func (t *term) matches(tag string, node any) bool {
	if t.Tag != tag {
		return false
	}
	for _, c := range t.Conds {
		if !c.eval(node) {
			return false
		}
	}
	if t.Text != nil && !strings.Contains(nodeText(node), *t.Text) {
		return false
	}
	return true
}

func (c *cond) eval(node any) bool {
	switch c.Field {
	case "level":
		h, ok := node.(ast.Header)
		if !ok || c.Int == nil {
			return false
		}
		return cmpInt(h.Level, c.Op, *c.Int)
	case "id":
		attr, ok := nodeAttr(node)
		if !ok || c.Str == nil {
			return false
		}
		return cmpStr(attr.ID, c.Op, *c.Str)
	case "class":
		attr, ok := nodeAttr(node)
		if !ok || c.Str == nil {
			return false
		}
		for _, class := range attr.Classes {
			if cmpStr(class, c.Op, *c.Str) {
				return true
			}
		}
		// != must hold against every class.
		return c.Op == "!=" && len(attr.Classes) == 0
	case "url":
		target, ok := nodeTarget(node)
		if !ok || c.Str == nil {
			return false
		}
		return cmpStr(target.URL, c.Op, *c.Str)
	case "title":
		target, ok := nodeTarget(node)
		if !ok || c.Str == nil {
			return false
		}
		return cmpStr(target.Title, c.Op, *c.Str)
	case "format":
		format, ok := nodeFormat(node)
		if !ok || c.Str == nil {
			return false
		}
		return cmpStr(format, c.Op, *c.Str)
	case "text":
		if c.Str == nil {
			return false
		}
		return cmpStr(nodeText(node), c.Op, *c.Str)
	}
	return false
}

func cmpInt(got int, op string, want int) bool {
	switch op {
	case "=":
		return got == want
	case "!=":
		return got != want
	case "<":
		return got < want
	case "<=":
		return got <= want
	case ">":
		return got > want
	case ">=":
		return got >= want
	}
	return false
}

func cmpStr(got, op, want string) bool {
	switch op {
	case "=":
		return got == want
	case "!=":
		return got != want
	case "~":
		return strings.Contains(got, want)
	}
	return false
}

// nodeAttr extracts the attribute triple from nodes that carry one.
func nodeAttr(node any) (ast.Attr, bool) {
	switch n := node.(type) {
	case ast.CodeBlock:
		return n.Attr, true
	case ast.Header:
		return n.Attr, true
	case ast.Div:
		return n.Attr, true
	case ast.Code:
		return n.Attr, true
	case ast.Link:
		return n.Attr, true
	case ast.Image:
		return n.Attr, true
	case ast.Span:
		return n.Attr, true
	}
	return ast.Attr{}, false
}

func nodeTarget(node any) (ast.Target, bool) {
	switch n := node.(type) {
	case ast.Link:
		return n.Target, true
	case ast.Image:
		return n.Target, true
	}
	return ast.Target{}, false
}

func nodeFormat(node any) (string, bool) {
	switch n := node.(type) {
	case ast.RawBlock:
		return n.Format, true
	case ast.RawInline:
		return n.Format, true
	}
	return "", false
}

// nodeText returns the literal text of leaf nodes. Container nodes
// have no text of their own.
func nodeText(node any) string {
	switch n := node.(type) {
	case ast.Str:
		return string(n)
	case ast.Code:
		return n.Text
	case ast.CodeBlock:
		return n.Text
	case ast.Math:
		return n.Text
	case ast.RawBlock:
		return n.Text
	case ast.RawInline:
		return n.Text
	}
	return ""
}

// Match is one selected node and its location in the document.
type Match struct {
	Path string `json:"path"`
	Node any    `json:"node"`
}

// Select returns every node in doc matching sel, in document order.
func Select(doc *ast.Pandoc, sel *Selector) []Match {
	var out []Match
	visitBlocks(doc.Blocks, "blocks", sel, &out)
	return out
}

// SelectBlocks returns every node under blocks matching sel.
func SelectBlocks(blocks []ast.Block, sel *Selector) []Match {
	var out []Match
	visitBlocks(blocks, "blocks", sel, &out)
	return out
}

func visitBlocks(blocks []ast.Block, base string, sel *Selector, out *[]Match) {
	for i, b := range blocks {
		visitBlock(b, fmt.Sprintf("%s[%d]", base, i), sel, out)
	}
}

func visitBlock(b ast.Block, path string, sel *Selector, out *[]Match) {
	if sel.Matches(b) {
		*out = append(*out, Match{Path: path, Node: b})
	}
	tagged := path + "." + ast.Tag(b)
	switch n := b.(type) {
	case ast.Plain:
		visitInlines(n, tagged, sel, out)
	case ast.Para:
		visitInlines(n, tagged, sel, out)
	case ast.BlockQuote:
		visitBlocks(n, tagged, sel, out)
	case ast.Div:
		visitBlocks(n.Blocks, tagged, sel, out)
	case ast.OrderedList:
		visitBlockItems(n.Items, tagged, sel, out)
	case ast.BulletList:
		visitBlockItems(n, tagged, sel, out)
	case ast.DefinitionList:
		for i, def := range n {
			item := fmt.Sprintf("%s[%d]", tagged, i)
			visitInlines(def.Term, item, sel, out)
			visitBlockItems(def.Definitions, item, sel, out)
		}
	case ast.Header:
		visitInlines(n.Inlines, tagged, sel, out)
	case ast.Table:
		visitInlines(n.Caption, tagged, sel, out)
		for i, cell := range n.Header {
			visitBlocks(cell, fmt.Sprintf("%s.header[%d]", tagged, i), sel, out)
		}
		for i, row := range n.Rows {
			for j, cell := range row {
				visitBlocks(cell, fmt.Sprintf("%s[%d][%d]", tagged, i, j), sel, out)
			}
		}
	}
}

func visitBlockItems(items [][]ast.Block, base string, sel *Selector, out *[]Match) {
	for i, item := range items {
		visitBlocks(item, fmt.Sprintf("%s[%d]", base, i), sel, out)
	}
}

func visitInlines(inlines []ast.Inline, base string, sel *Selector, out *[]Match) {
	for i, in := range inlines {
		visitInline(in, fmt.Sprintf("%s[%d]", base, i), sel, out)
	}
}

func visitInline(in ast.Inline, path string, sel *Selector, out *[]Match) {
	if sel.Matches(in) {
		*out = append(*out, Match{Path: path, Node: in})
	}
	tagged := path + "." + ast.Tag(in)
	switch n := in.(type) {
	case ast.Emph:
		visitInlines(n, tagged, sel, out)
	case ast.Strong:
		visitInlines(n, tagged, sel, out)
	case ast.Strikeout:
		visitInlines(n, tagged, sel, out)
	case ast.Superscript:
		visitInlines(n, tagged, sel, out)
	case ast.Subscript:
		visitInlines(n, tagged, sel, out)
	case ast.SmallCaps:
		visitInlines(n, tagged, sel, out)
	case ast.Quoted:
		visitInlines(n.Inlines, tagged, sel, out)
	case ast.Cite:
		for i, c := range n.Citations {
			item := fmt.Sprintf("%s.citations[%d]", tagged, i)
			visitInlines(c.Prefix, item, sel, out)
			visitInlines(c.Suffix, item, sel, out)
		}
		visitInlines(n.Inlines, tagged, sel, out)
	case ast.Link:
		visitInlines(n.Inlines, tagged, sel, out)
	case ast.Image:
		visitInlines(n.Inlines, tagged, sel, out)
	case ast.Span:
		visitInlines(n.Inlines, tagged, sel, out)
	}
}
