package ast

// walk.go - pure bottom-up rewriting of every Inline in a document tree.
//
// The transform function is applied to each reachable Inline after that
// inline's own children have been rebuilt; container Blocks are rebuilt
// around the transformed inlines but are never themselves passed to the
// function. Siblings are visited left to right in declared field order.
// Inputs are never mutated: every ancestor along a changed path is a new
// value.

// WalkInline rewrites an inline and everything reachable from it.
func WalkInline(in Inline, f func(Inline) Inline) Inline {
	switch n := in.(type) {
	case Emph:
		return f(Emph(WalkInlines(n, f)))
	case Strong:
		return f(Strong(WalkInlines(n, f)))
	case Strikeout:
		return f(Strikeout(WalkInlines(n, f)))
	case Superscript:
		return f(Superscript(WalkInlines(n, f)))
	case Subscript:
		return f(Subscript(WalkInlines(n, f)))
	case SmallCaps:
		return f(SmallCaps(WalkInlines(n, f)))
	case Quoted:
		return f(Quoted{Type: n.Type, Inlines: WalkInlines(n.Inlines, f)})
	case Cite:
		citations := n.Citations
		if len(citations) > 0 {
			citations = make([]Citation, len(n.Citations))
			for i, c := range n.Citations {
				c.Prefix = WalkInlines(c.Prefix, f)
				c.Suffix = WalkInlines(c.Suffix, f)
				citations[i] = c
			}
		}
		return f(Cite{Citations: citations, Inlines: WalkInlines(n.Inlines, f)})
	case Link:
		return f(Link{Attr: n.Attr, Inlines: WalkInlines(n.Inlines, f), Target: n.Target})
	case Image:
		return f(Image{Attr: n.Attr, Inlines: WalkInlines(n.Inlines, f), Target: n.Target})
	case Span:
		return f(Span{Attr: n.Attr, Inlines: WalkInlines(n.Inlines, f)})
	default:
		// Leaves: Str, Code, Math, RawInline, Space, SoftBreak, LineBreak.
		return f(in)
	}
}

// WalkInlines rewrites an inline sequence element-wise.
func WalkInlines(ins []Inline, f func(Inline) Inline) []Inline {
	if ins == nil {
		return nil
	}
	out := make([]Inline, len(ins))
	for i, in := range ins {
		out[i] = WalkInline(in, f)
	}
	return out
}

// WalkBlock rebuilds a block around its transformed inlines. CodeBlock,
// RawBlock, HorizontalRule, and Null contain no inlines and are returned
// unchanged.
func WalkBlock(b Block, f func(Inline) Inline) Block {
	switch n := b.(type) {
	case Plain:
		return Plain(WalkInlines(n, f))
	case Para:
		return Para(WalkInlines(n, f))
	case BlockQuote:
		return BlockQuote(WalkBlocks(n, f))
	case OrderedList:
		return OrderedList{Attrs: n.Attrs, Items: walkBlockItems(n.Items, f)}
	case BulletList:
		return BulletList(walkBlockItems(n, f))
	case DefinitionList:
		if n == nil {
			return n
		}
		out := make(DefinitionList, len(n))
		for i, d := range n {
			out[i] = Definition{
				Term:        WalkInlines(d.Term, f),
				Definitions: walkBlockItems(d.Definitions, f),
			}
		}
		return out
	case Header:
		return Header{Level: n.Level, Attr: n.Attr, Inlines: WalkInlines(n.Inlines, f)}
	case Table:
		return Table{
			Caption:    WalkInlines(n.Caption, f),
			Alignments: n.Alignments,
			Widths:     n.Widths,
			Header:     walkBlockItems(n.Header, f),
			Rows:       walkCellRows(n.Rows, f),
		}
	case Div:
		return Div{Attr: n.Attr, Blocks: WalkBlocks(n.Blocks, f)}
	default:
		// CodeBlock, RawBlock, HorizontalRule, Null.
		return b
	}
}

// WalkBlocks rewrites a block sequence element-wise.
func WalkBlocks(bs []Block, f func(Inline) Inline) []Block {
	if bs == nil {
		return nil
	}
	out := make([]Block, len(bs))
	for i, b := range bs {
		out[i] = WalkBlock(b, f)
	}
	return out
}

func walkBlockItems(items [][]Block, f func(Inline) Inline) [][]Block {
	if items == nil {
		return nil
	}
	out := make([][]Block, len(items))
	for i, item := range items {
		out[i] = WalkBlocks(item, f)
	}
	return out
}

func walkCellRows(rows [][]TableCell, f func(Inline) Inline) [][]TableCell {
	if rows == nil {
		return nil
	}
	out := make([][]TableCell, len(rows))
	for i, row := range rows {
		out[i] = walkBlockItems(row, f)
	}
	return out
}

// WalkMetaValue rewrites the inlines reachable from a metadata value.
func WalkMetaValue(mv MetaValue, f func(Inline) Inline) MetaValue {
	switch n := mv.(type) {
	case MetaMap:
		if n == nil {
			return n
		}
		out := make(MetaMap, len(n))
		for k, v := range n {
			out[k] = WalkMetaValue(v, f)
		}
		return out
	case MetaList:
		if n == nil {
			return n
		}
		out := make(MetaList, len(n))
		for i, v := range n {
			out[i] = WalkMetaValue(v, f)
		}
		return out
	case MetaInlines:
		return MetaInlines(WalkInlines(n, f))
	case MetaBlocks:
		return MetaBlocks(WalkBlocks(n, f))
	default:
		// MetaBool, MetaString.
		return mv
	}
}

// WalkMeta rewrites the inlines reachable from document metadata.
func WalkMeta(m Meta, f func(Inline) Inline) Meta {
	if m == nil {
		return nil
	}
	out := make(Meta, len(m))
	for k, v := range m {
		out[k] = WalkMetaValue(v, f)
	}
	return out
}

// WalkPandoc rewrites every inline in the document, metadata included.
func WalkPandoc(p Pandoc, f func(Inline) Inline) Pandoc {
	return Pandoc{
		Meta:   WalkMeta(p.Meta, f),
		Blocks: WalkBlocks(p.Blocks, f),
	}
}
