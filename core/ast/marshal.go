package ast

// marshal.go - the library's canonical JSON form, encode direction.
//
// Every union variant encodes by one of three rules:
//   - payload-less unit variants encode as a bare string of the variant name;
//   - single-field variants encode as {"Name": field};
//   - multi-field variants encode as {"Name": [fields in declared order]}.
// The enumerations (Alignment, QuoteType, MathType, ListNumberStyle,
// ListNumberDelim) are zero-arity tuples on the wire and therefore use
// {"Name": []}, never the bare-string form. CitationMode is the one
// enumeration that encodes as a bare string.
//
// Space, SoftBreak, and LineBreak also encode as bare strings here, even
// though some emitters write them as zero-arity tuples ({"Space":[]}).
// The decoder accepts both shapes, so either encoding round-trips.
//
// Field order inside multi-field payloads is part of the wire contract;
// nothing here may reorder it. Nil slices and maps encode as [] and {}.

import "encoding/json"

// tagged encodes a single-key object {"name": payload}.
func tagged(name string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(name)+len(b)+4)
	out = append(out, '{', '"')
	out = append(out, name...)
	out = append(out, '"', ':')
	out = append(out, b...)
	out = append(out, '}')
	return out, nil
}

// unit encodes a payload-less variant as a bare string.
func unit(name string) ([]byte, error) {
	return json.Marshal(name)
}

// zeroTuple encodes a zero-arity enum variant as {"name":[]}.
func zeroTuple(name string) ([]byte, error) {
	return tagged(name, []any{})
}

func orEmpty[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}

// blockItems normalizes a list-item matrix so no level encodes as null.
func blockItems(items [][]Block) [][]Block {
	out := make([][]Block, len(items))
	for i, item := range items {
		out[i] = orEmpty(item)
	}
	return out
}

func cellRows(rows [][]TableCell) [][]TableCell {
	out := make([][]TableCell, len(rows))
	for i, row := range rows {
		out[i] = blockItems(row)
	}
	return out
}

// MarshalJSON encodes the document as the two-element array
// [{"unMeta": meta}, blocks].
func (p Pandoc) MarshalJSON() ([]byte, error) {
	meta := p.Meta
	if meta == nil {
		meta = Meta{}
	}
	return json.Marshal([]any{
		map[string]Meta{"unMeta": meta},
		orEmpty(p.Blocks),
	})
}

func (m MetaMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		m = MetaMap{}
	}
	return tagged("MetaMap", map[string]MetaValue(m))
}

func (m MetaList) MarshalJSON() ([]byte, error) {
	return tagged("MetaList", orEmpty([]MetaValue(m)))
}

func (m MetaBool) MarshalJSON() ([]byte, error) {
	return tagged("MetaBool", bool(m))
}

func (m MetaString) MarshalJSON() ([]byte, error) {
	return tagged("MetaString", string(m))
}

func (m MetaInlines) MarshalJSON() ([]byte, error) {
	return tagged("MetaInlines", orEmpty([]Inline(m)))
}

func (m MetaBlocks) MarshalJSON() ([]byte, error) {
	return tagged("MetaBlocks", orEmpty([]Block(m)))
}

// MarshalJSON encodes the triple as the fixed-length array
// [id, classes, pairs].
func (a Attr) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{a.ID, orEmpty(a.Classes), orEmpty(a.Pairs)})
}

// MarshalJSON encodes the target as the pair [url, title].
func (t Target) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.URL, t.Title})
}

// MarshalJSON encodes list attributes as the triple [start, style, delim].
func (l ListAttributes) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.Start, l.Style, l.Delim})
}

// MarshalJSON encodes a definition entry as the pair [term, definitions].
func (d Definition) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{orEmpty(d.Term), blockItems(d.Definitions)})
}

func (s ListNumberStyle) MarshalJSON() ([]byte, error) { return zeroTuple(string(s)) }
func (d ListNumberDelim) MarshalJSON() ([]byte, error) { return zeroTuple(string(d)) }
func (a Alignment) MarshalJSON() ([]byte, error)       { return zeroTuple(string(a)) }
func (q QuoteType) MarshalJSON() ([]byte, error)       { return zeroTuple(string(q)) }
func (m MathType) MarshalJSON() ([]byte, error)        { return zeroTuple(string(m)) }

// MarshalJSON encodes the citation as a keyed object; the prefix and
// suffix always encode as arrays, never null.
func (c Citation) MarshalJSON() ([]byte, error) {
	type citation struct {
		ID      string       `json:"citationId"`
		Prefix  []Inline     `json:"citationPrefix"`
		Suffix  []Inline     `json:"citationSuffix"`
		Mode    CitationMode `json:"citationmode"`
		NoteNum int          `json:"citationNoteNum"`
		Hash    int          `json:"citationHash"`
	}
	return json.Marshal(citation{
		ID:      c.ID,
		Prefix:  orEmpty(c.Prefix),
		Suffix:  orEmpty(c.Suffix),
		Mode:    c.Mode,
		NoteNum: c.NoteNum,
		Hash:    c.Hash,
	})
}

func (b Plain) MarshalJSON() ([]byte, error) {
	return tagged("Plain", orEmpty([]Inline(b)))
}

func (b Para) MarshalJSON() ([]byte, error) {
	return tagged("Para", orEmpty([]Inline(b)))
}

func (b CodeBlock) MarshalJSON() ([]byte, error) {
	return tagged("CodeBlock", []any{b.Attr, b.Text})
}

func (b RawBlock) MarshalJSON() ([]byte, error) {
	return tagged("RawBlock", []any{b.Format, b.Text})
}

func (b BlockQuote) MarshalJSON() ([]byte, error) {
	return tagged("BlockQuote", orEmpty([]Block(b)))
}

func (b OrderedList) MarshalJSON() ([]byte, error) {
	return tagged("OrderedList", []any{b.Attrs, blockItems(b.Items)})
}

func (b BulletList) MarshalJSON() ([]byte, error) {
	return tagged("BulletList", blockItems(b))
}

func (b DefinitionList) MarshalJSON() ([]byte, error) {
	return tagged("DefinitionList", orEmpty([]Definition(b)))
}

func (b Header) MarshalJSON() ([]byte, error) {
	return tagged("Header", []any{b.Level, b.Attr, orEmpty(b.Inlines)})
}

func (HorizontalRule) MarshalJSON() ([]byte, error) {
	return unit("HorizontalRule")
}

func (b Table) MarshalJSON() ([]byte, error) {
	return tagged("Table", []any{
		orEmpty(b.Caption),
		orEmpty(b.Alignments),
		orEmpty(b.Widths),
		blockItems(b.Header),
		cellRows(b.Rows),
	})
}

func (b Div) MarshalJSON() ([]byte, error) {
	return tagged("Div", []any{b.Attr, orEmpty(b.Blocks)})
}

func (Null) MarshalJSON() ([]byte, error) {
	return unit("Null")
}

func (i Str) MarshalJSON() ([]byte, error) {
	return tagged("Str", string(i))
}

func (i Emph) MarshalJSON() ([]byte, error) {
	return tagged("Emph", orEmpty([]Inline(i)))
}

func (i Strong) MarshalJSON() ([]byte, error) {
	return tagged("Strong", orEmpty([]Inline(i)))
}

func (i Strikeout) MarshalJSON() ([]byte, error) {
	return tagged("Strikeout", orEmpty([]Inline(i)))
}

func (i Superscript) MarshalJSON() ([]byte, error) {
	return tagged("Superscript", orEmpty([]Inline(i)))
}

func (i Subscript) MarshalJSON() ([]byte, error) {
	return tagged("Subscript", orEmpty([]Inline(i)))
}

func (i SmallCaps) MarshalJSON() ([]byte, error) {
	return tagged("SmallCaps", orEmpty([]Inline(i)))
}

func (i Quoted) MarshalJSON() ([]byte, error) {
	return tagged("Quoted", []any{i.Type, orEmpty(i.Inlines)})
}

func (i Cite) MarshalJSON() ([]byte, error) {
	return tagged("Cite", []any{orEmpty(i.Citations), orEmpty(i.Inlines)})
}

func (i Code) MarshalJSON() ([]byte, error) {
	return tagged("Code", []any{i.Attr, i.Text})
}

func (Space) MarshalJSON() ([]byte, error) {
	return unit("Space")
}

func (SoftBreak) MarshalJSON() ([]byte, error) {
	return unit("SoftBreak")
}

func (LineBreak) MarshalJSON() ([]byte, error) {
	return unit("LineBreak")
}

func (i Math) MarshalJSON() ([]byte, error) {
	return tagged("Math", []any{i.Type, i.Text})
}

func (i RawInline) MarshalJSON() ([]byte, error) {
	return tagged("RawInline", []any{i.Format, i.Text})
}

func (i Link) MarshalJSON() ([]byte, error) {
	return tagged("Link", []any{i.Attr, orEmpty(i.Inlines), i.Target})
}

func (i Image) MarshalJSON() ([]byte, error) {
	return tagged("Image", []any{i.Attr, orEmpty(i.Inlines), i.Target})
}

func (i Span) MarshalJSON() ([]byte, error) {
	return tagged("Span", []any{i.Attr, orEmpty(i.Inlines)})
}
