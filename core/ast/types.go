// Package ast defines the typed in-memory representation of a pandoc
// document: metadata, block elements, inline elements, and the auxiliary
// value types they carry. All values are plain data with no identity beyond
// structural equality; parents own their children outright and trees are
// treated as immutable once built.
//
// The package also implements the library's canonical JSON form, a compact
// per-variant convention (see marshal.go and unmarshal.go). Decoding
// pandoc's own tagged wire output is handled by the wire package, which
// normalizes the external convention into this one before structural
// decoding.
package ast

// Pandoc is the document root: metadata plus an ordered block sequence.
// On the wire it is always a two-element array [meta, blocks].
type Pandoc struct {
	Meta   Meta
	Blocks []Block
}

// Meta is the document metadata, keyed by name. Keys are unique; output
// order is deterministic because keys are sorted when encoding.
type Meta map[string]MetaValue

// MetaValue is one value in the document metadata. It is a closed union:
// exactly the types in this package with a metaValue method implement it.
type MetaValue interface {
	metaValue()
}

// MetaMap is a nested metadata mapping.
type MetaMap map[string]MetaValue

// MetaList is an ordered sequence of metadata values.
type MetaList []MetaValue

// MetaBool is a boolean metadata value.
type MetaBool bool

// MetaString is a string metadata value.
type MetaString string

// MetaInlines is a metadata value holding inline content.
type MetaInlines []Inline

// MetaBlocks is a metadata value holding block content.
type MetaBlocks []Block

func (MetaMap) metaValue()     {}
func (MetaList) metaValue()    {}
func (MetaBool) metaValue()    {}
func (MetaString) metaValue()  {}
func (MetaInlines) metaValue() {}
func (MetaBlocks) metaValue()  {}

// Block is a structural document element. It is a closed union over the
// thirteen variants below; traversal sites switch exhaustively over them.
type Block interface {
	block()
}

// Plain is a plain block of inline content, not wrapped in a paragraph.
type Plain []Inline

// Para is a paragraph.
type Para []Inline

// CodeBlock is a block of literal code with attributes.
type CodeBlock struct {
	Attr Attr
	Text string
}

// RawBlock is a raw block in some target format.
type RawBlock struct {
	Format Format
	Text   string
}

// BlockQuote is a quoted sequence of blocks.
type BlockQuote []Block

// OrderedList is a numbered list. Each item is itself a block sequence.
type OrderedList struct {
	Attrs ListAttributes
	Items [][]Block
}

// BulletList is an unnumbered list. Each item is itself a block sequence.
type BulletList [][]Block

// DefinitionList is a list of term/definitions pairs.
type DefinitionList []Definition

// Definition is one entry of a DefinitionList: a term with one or more
// definitions, each a block sequence.
type Definition struct {
	Term        []Inline
	Definitions [][]Block
}

// Header is a section heading with level, attributes, and inline content.
type Header struct {
	Level   int
	Attr    Attr
	Inlines []Inline
}

// HorizontalRule is a horizontal rule. It carries no payload.
type HorizontalRule struct{}

// Null is an empty block. It carries no payload.
type Null struct{}

// TableCell is one table cell, a sequence of blocks.
type TableCell = []Block

// Table is a table with a caption, per-column alignment and relative width,
// one header row, and body rows. Alignments and Widths are parallel arrays;
// their order is wire-significant.
type Table struct {
	Caption    []Inline
	Alignments []Alignment
	Widths     []float64
	Header     []TableCell
	Rows       [][]TableCell
}

// Div is a generic block container with attributes.
type Div struct {
	Attr   Attr
	Blocks []Block
}

func (Plain) block()          {}
func (Para) block()           {}
func (CodeBlock) block()      {}
func (RawBlock) block()       {}
func (BlockQuote) block()     {}
func (OrderedList) block()    {}
func (BulletList) block()     {}
func (DefinitionList) block() {}
func (Header) block()         {}
func (HorizontalRule) block() {}
func (Table) block()          {}
func (Div) block()            {}
func (Null) block()           {}

// Inline is a span-level document element. It is a closed union over the
// eighteen variants below.
type Inline interface {
	inline()
}

// Str is a text run.
type Str string

// Emph is emphasized content.
type Emph []Inline

// Strong is strongly emphasized content.
type Strong []Inline

// Strikeout is struck-out content.
type Strikeout []Inline

// Superscript is superscripted content.
type Superscript []Inline

// Subscript is subscripted content.
type Subscript []Inline

// SmallCaps is small-caps content.
type SmallCaps []Inline

// Quoted is quoted content with a quote type.
type Quoted struct {
	Type    QuoteType
	Inlines []Inline
}

// Cite is a citation group with a fallback inline rendering.
type Cite struct {
	Citations []Citation
	Inlines   []Inline
}

// Code is inline code with attributes.
type Code struct {
	Attr Attr
	Text string
}

// Space is an inter-word space. It carries no payload.
type Space struct{}

// SoftBreak is a soft line break. It carries no payload.
type SoftBreak struct{}

// LineBreak is a hard line break. It carries no payload.
type LineBreak struct{}

// Math is TeX math, either display or inline.
type Math struct {
	Type MathType
	Text string
}

// RawInline is raw inline content in some target format.
type RawInline struct {
	Format Format
	Text   string
}

// Link is a hyperlink: attributes, caption inlines, and a target.
type Link struct {
	Attr    Attr
	Inlines []Inline
	Target  Target
}

// Image is an image: attributes, caption inlines, and a target.
type Image struct {
	Attr    Attr
	Inlines []Inline
	Target  Target
}

// Span is a generic inline container with attributes.
type Span struct {
	Attr    Attr
	Inlines []Inline
}

func (Str) inline()         {}
func (Emph) inline()        {}
func (Strong) inline()      {}
func (Strikeout) inline()   {}
func (Superscript) inline() {}
func (Subscript) inline()   {}
func (SmallCaps) inline()   {}
func (Quoted) inline()      {}
func (Cite) inline()        {}
func (Code) inline()        {}
func (Space) inline()       {}
func (SoftBreak) inline()   {}
func (LineBreak) inline()   {}
func (Math) inline()        {}
func (RawInline) inline()   {}
func (Link) inline()        {}
func (Image) inline()       {}
func (Span) inline()        {}

// Format names a raw content format (e.g. "html", "latex").
type Format = string

// Attr is the (identifier, classes, key-value pairs) triple attached to
// several Block and Inline variants. The order of classes and pairs is
// wire-significant and preserved exactly on round-trip.
type Attr struct {
	ID      string
	Classes []string
	Pairs   [][2]string
}

// Target is a link or image destination: URL plus title.
type Target struct {
	URL   string
	Title string
}

// ListAttributes describes the numbering of an ordered list.
type ListAttributes struct {
	Start int
	Style ListNumberStyle
	Delim ListNumberDelim
}

// ListNumberStyle is the numbering style of an ordered list.
type ListNumberStyle string

// List numbering styles.
const (
	DefaultStyle ListNumberStyle = "DefaultStyle"
	Example      ListNumberStyle = "Example"
	Decimal      ListNumberStyle = "Decimal"
	LowerRoman   ListNumberStyle = "LowerRoman"
	UpperRoman   ListNumberStyle = "UpperRoman"
	LowerAlpha   ListNumberStyle = "LowerAlpha"
	UpperAlpha   ListNumberStyle = "UpperAlpha"
)

var validListNumberStyles = map[ListNumberStyle]bool{
	DefaultStyle: true,
	Example:      true,
	Decimal:      true,
	LowerRoman:   true,
	UpperRoman:   true,
	LowerAlpha:   true,
	UpperAlpha:   true,
}

// IsValid returns true if the style is one of the declared constants.
func (s ListNumberStyle) IsValid() bool {
	return validListNumberStyles[s]
}

// ListNumberDelim is the delimiter style of an ordered list.
type ListNumberDelim string

// List number delimiters.
const (
	DefaultDelim ListNumberDelim = "DefaultDelim"
	Period       ListNumberDelim = "Period"
	OneParen     ListNumberDelim = "OneParen"
	TwoParens    ListNumberDelim = "TwoParens"
)

var validListNumberDelims = map[ListNumberDelim]bool{
	DefaultDelim: true,
	Period:       true,
	OneParen:     true,
	TwoParens:    true,
}

// IsValid returns true if the delimiter is one of the declared constants.
func (d ListNumberDelim) IsValid() bool {
	return validListNumberDelims[d]
}

// Alignment is a table column alignment.
type Alignment string

// Column alignments.
const (
	AlignLeft    Alignment = "AlignLeft"
	AlignRight   Alignment = "AlignRight"
	AlignCenter  Alignment = "AlignCenter"
	AlignDefault Alignment = "AlignDefault"
)

var validAlignments = map[Alignment]bool{
	AlignLeft:    true,
	AlignRight:   true,
	AlignCenter:  true,
	AlignDefault: true,
}

// IsValid returns true if the alignment is one of the declared constants.
func (a Alignment) IsValid() bool {
	return validAlignments[a]
}

// QuoteType distinguishes single from double quotes.
type QuoteType string

// Quote types.
const (
	SingleQuote QuoteType = "SingleQuote"
	DoubleQuote QuoteType = "DoubleQuote"
)

var validQuoteTypes = map[QuoteType]bool{
	SingleQuote: true,
	DoubleQuote: true,
}

// IsValid returns true if the quote type is one of the declared constants.
func (q QuoteType) IsValid() bool {
	return validQuoteTypes[q]
}

// MathType distinguishes display from inline math.
type MathType string

// Math types.
const (
	DisplayMath MathType = "DisplayMath"
	InlineMath  MathType = "InlineMath"
)

var validMathTypes = map[MathType]bool{
	DisplayMath: true,
	InlineMath:  true,
}

// IsValid returns true if the math type is one of the declared constants.
func (m MathType) IsValid() bool {
	return validMathTypes[m]
}

// Citation is a single citation within a Cite inline.
//
// The wire key for Mode is "citationmode" (lower m), matching the format
// this library has always produced and consumed.
type Citation struct {
	ID      string       `json:"citationId"`
	Prefix  []Inline     `json:"citationPrefix"`
	Suffix  []Inline     `json:"citationSuffix"`
	Mode    CitationMode `json:"citationmode"`
	NoteNum int          `json:"citationNoteNum"`
	Hash    int          `json:"citationHash"`
}

// CitationMode says how a citation is rendered.
type CitationMode string

// Citation modes. Unlike the other enumerations in this package, these
// encode as bare JSON strings rather than {"Name":[]}.
const (
	AuthorInText   CitationMode = "AuthorInText"
	SuppressAuthor CitationMode = "SuppressAuthor"
	NormalCitation CitationMode = "NormalCitation"
)

var validCitationModes = map[CitationMode]bool{
	AuthorInText:   true,
	SuppressAuthor: true,
	NormalCitation: true,
}

// IsValid returns true if the mode is one of the declared constants.
func (m CitationMode) IsValid() bool {
	return validCitationModes[m]
}

// Tag returns the variant name of a Block, Inline, or MetaValue, i.e. the
// discriminator used in both JSON conventions. It returns "" for values
// outside those unions.
func Tag(node any) string {
	switch node.(type) {
	case Plain:
		return "Plain"
	case Para:
		return "Para"
	case CodeBlock:
		return "CodeBlock"
	case RawBlock:
		return "RawBlock"
	case BlockQuote:
		return "BlockQuote"
	case OrderedList:
		return "OrderedList"
	case BulletList:
		return "BulletList"
	case DefinitionList:
		return "DefinitionList"
	case Header:
		return "Header"
	case HorizontalRule:
		return "HorizontalRule"
	case Table:
		return "Table"
	case Div:
		return "Div"
	case Null:
		return "Null"
	case Str:
		return "Str"
	case Emph:
		return "Emph"
	case Strong:
		return "Strong"
	case Strikeout:
		return "Strikeout"
	case Superscript:
		return "Superscript"
	case Subscript:
		return "Subscript"
	case SmallCaps:
		return "SmallCaps"
	case Quoted:
		return "Quoted"
	case Cite:
		return "Cite"
	case Code:
		return "Code"
	case Space:
		return "Space"
	case SoftBreak:
		return "SoftBreak"
	case LineBreak:
		return "LineBreak"
	case Math:
		return "Math"
	case RawInline:
		return "RawInline"
	case Link:
		return "Link"
	case Image:
		return "Image"
	case Span:
		return "Span"
	case MetaMap:
		return "MetaMap"
	case MetaList:
		return "MetaList"
	case MetaBool:
		return "MetaBool"
	case MetaString:
		return "MetaString"
	case MetaInlines:
		return "MetaInlines"
	case MetaBlocks:
		return "MetaBlocks"
	default:
		return ""
	}
}
