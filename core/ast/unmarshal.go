package ast

// unmarshal.go - the library's canonical JSON form, decode direction.
//
// Decoding operates on generic JSON trees (map[string]any, []any, string,
// bool, json.Number) so the same structural decoder serves both this
// package's UnmarshalJSON methods and the wire package, which hands in
// trees it has already normalized from pandoc's t/c convention. Variants
// are recognized in both shapes a payload-less node can take: the bare
// string form this library emits and the {"Name":[]} form produced by
// wire normalization.
//
// Empty JSON arrays decode to nil slices and empty objects to empty maps,
// so a decoded tree re-encodes to the same bytes. Value round trips hold
// up to that normalization: an empty non-nil slice in a hand-built value
// comes back nil (Emph{} decodes as Emph(nil)), while the encoded bytes
// are identical either way.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/baig/gopandoc/core/errors"
)

// parseTree parses raw JSON into a generic tree, keeping numbers as
// json.Number so integer fields are not forced through float64.
func parseTree(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// UnmarshalJSON decodes the two-element [meta, blocks] document form.
func (p *Pandoc) UnmarshalJSON(b []byte) error {
	v, err := parseTree(b)
	if err != nil {
		return errors.NewParse("JSON", err.Error(), err)
	}
	arr, ok := v.([]any)
	if !ok {
		return errors.NewShape(describe(v), "a 2-element array")
	}
	if len(arr) != 2 {
		return errors.NewShape(fmt.Sprintf("an array of length %d", len(arr)), "a 2-element array")
	}
	meta, err := DecodeMeta(arr[0])
	if err != nil {
		return err
	}
	blocks, err := DecodeBlocks(arr[1])
	if err != nil {
		return err
	}
	p.Meta = meta
	p.Blocks = blocks
	return nil
}

// DecodeMeta decodes a {"unMeta": {...}} tree into document metadata.
func DecodeMeta(v any) (Meta, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.NewDecode("meta", "", "expected a metadata object, got "+describe(v))
	}
	inner, ok := obj["unMeta"]
	if !ok {
		return nil, errors.NewDecode("meta", "", `missing "unMeta" key`)
	}
	entries, ok := inner.(map[string]any)
	if !ok {
		return nil, errors.NewDecode("meta.unMeta", "", "expected an object, got "+describe(inner))
	}
	meta := Meta{}
	for key, val := range entries {
		mv, err := decodeMetaValue(val, "meta."+key)
		if err != nil {
			return nil, err
		}
		meta[key] = mv
	}
	return meta, nil
}

// DecodeBlocks decodes a block array tree into a block sequence.
func DecodeBlocks(v any) ([]Block, error) {
	return decodeBlocks(v, "blocks")
}

// DecodeBlock decodes a single block node tree.
func DecodeBlock(v any) (Block, error) {
	return decodeBlock(v, "block")
}

// DecodeInline decodes a single inline node tree.
func DecodeInline(v any) (Inline, error) {
	return decodeInline(v, "inline")
}

// describe names a JSON tree node kind for error messages.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case json.Number, float64, int:
		return "a number"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// variant splits a node into its tag and payload. Accepts the bare-string
// unit form and the single-key object form.
func variant(v any, path string) (tag string, payload any, err error) {
	switch node := v.(type) {
	case string:
		return node, []any{}, nil
	case map[string]any:
		if len(node) != 1 {
			return "", nil, errors.NewDecode(path, "", fmt.Sprintf("expected a single-key tagged object, got %d keys", len(node)))
		}
		for k, p := range node {
			return k, p, nil
		}
	}
	return "", nil, errors.NewDecode(path, "", "expected a tagged node, got "+describe(v))
}

// tuple checks a multi-field payload has the declared arity.
func tuple(payload any, n int, path, tag string) ([]any, error) {
	arr, ok := payload.([]any)
	if !ok {
		return nil, errors.NewDecode(path, tag, "expected an array payload, got "+describe(payload))
	}
	if len(arr) != n {
		return nil, errors.NewDecode(path, tag, fmt.Sprintf("expected %d fields, got %d", n, len(arr)))
	}
	return arr, nil
}

// noPayload checks that a unit variant carries no fields.
func noPayload(payload any, path, tag string) error {
	arr, ok := payload.([]any)
	if !ok {
		return errors.NewDecode(path, tag, "expected no payload, got "+describe(payload))
	}
	if len(arr) != 0 {
		return errors.NewDecode(path, tag, fmt.Sprintf("expected no payload, got %d fields", len(arr)))
	}
	return nil
}

func decodeString(v any, path string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.NewDecode(path, "", "expected a string, got "+describe(v))
	}
	return s, nil
}

func decodeBool(v any, path string) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, errors.NewDecode(path, "", "expected a boolean, got "+describe(v))
	}
	return b, nil
}

func decodeInt(v any, path string) (int, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, errors.NewDecode(path, "", "expected an integer, got "+n.String())
		}
		return int(i), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, errors.NewDecode(path, "", fmt.Sprintf("expected an integer, got %v", n))
		}
		return int(n), nil
	case int:
		return n, nil
	}
	return 0, errors.NewDecode(path, "", "expected an integer, got "+describe(v))
}

func decodeFloat(v any, path string) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, errors.NewDecode(path, "", "expected a number, got "+n.String())
		}
		return f, nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, errors.NewDecode(path, "", "expected a number, got "+describe(v))
}

func decodeArray(v any, path string) ([]any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, errors.NewDecode(path, "", "expected an array, got "+describe(v))
	}
	return arr, nil
}

func decodeStrings(v any, path string) ([]string, error) {
	arr, err := decodeArray(v, path)
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, nil
	}
	out := make([]string, len(arr))
	for i, el := range arr {
		s, err := decodeString(el, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func decodePairs(v any, path string) ([][2]string, error) {
	arr, err := decodeArray(v, path)
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, nil
	}
	out := make([][2]string, len(arr))
	for i, el := range arr {
		p := fmt.Sprintf("%s[%d]", path, i)
		pair, err := tuple(el, 2, p, "")
		if err != nil {
			return nil, err
		}
		k, err := decodeString(pair[0], p+"[0]")
		if err != nil {
			return nil, err
		}
		val, err := decodeString(pair[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		out[i] = [2]string{k, val}
	}
	return out, nil
}

func decodeAttr(v any, path string) (Attr, error) {
	fields, err := tuple(v, 3, path, "Attr")
	if err != nil {
		return Attr{}, err
	}
	id, err := decodeString(fields[0], path+"[0]")
	if err != nil {
		return Attr{}, err
	}
	classes, err := decodeStrings(fields[1], path+"[1]")
	if err != nil {
		return Attr{}, err
	}
	pairs, err := decodePairs(fields[2], path+"[2]")
	if err != nil {
		return Attr{}, err
	}
	return Attr{ID: id, Classes: classes, Pairs: pairs}, nil
}

func decodeTarget(v any, path string) (Target, error) {
	fields, err := tuple(v, 2, path, "Target")
	if err != nil {
		return Target{}, err
	}
	url, err := decodeString(fields[0], path+"[0]")
	if err != nil {
		return Target{}, err
	}
	title, err := decodeString(fields[1], path+"[1]")
	if err != nil {
		return Target{}, err
	}
	return Target{URL: url, Title: title}, nil
}

func decodeListAttributes(v any, path string) (ListAttributes, error) {
	fields, err := tuple(v, 3, path, "ListAttributes")
	if err != nil {
		return ListAttributes{}, err
	}
	start, err := decodeInt(fields[0], path+"[0]")
	if err != nil {
		return ListAttributes{}, err
	}
	style, err := decodeEnum(fields[1], path+"[1]", "ListNumberStyle", func(tag string) bool {
		return ListNumberStyle(tag).IsValid()
	})
	if err != nil {
		return ListAttributes{}, err
	}
	delim, err := decodeEnum(fields[2], path+"[2]", "ListNumberDelim", func(tag string) bool {
		return ListNumberDelim(tag).IsValid()
	})
	if err != nil {
		return ListAttributes{}, err
	}
	return ListAttributes{Start: start, Style: ListNumberStyle(style), Delim: ListNumberDelim(delim)}, nil
}

// decodeEnum decodes a closed unit enumeration in either shape: the bare
// string form or the zero-arity {"Name":[]} form.
func decodeEnum(v any, path, kind string, valid func(string) bool) (string, error) {
	tag, payload, err := variant(v, path)
	if err != nil {
		return "", err
	}
	if !valid(tag) {
		return "", errors.NewDecode(path, tag, fmt.Sprintf("unknown %s variant %q", kind, tag))
	}
	if err := noPayload(payload, path, tag); err != nil {
		return "", err
	}
	return tag, nil
}

func decodeInlines(v any, path string) ([]Inline, error) {
	arr, err := decodeArray(v, path)
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, nil
	}
	out := make([]Inline, len(arr))
	for i, el := range arr {
		in, err := decodeInline(el, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = in
	}
	return out, nil
}

func decodeBlocks(v any, path string) ([]Block, error) {
	arr, err := decodeArray(v, path)
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, nil
	}
	out := make([]Block, len(arr))
	for i, el := range arr {
		b, err := decodeBlock(el, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// decodeBlockItems decodes a sequence of block sequences (list items,
// definition bodies, table cells).
func decodeBlockItems(v any, path string) ([][]Block, error) {
	arr, err := decodeArray(v, path)
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, nil
	}
	out := make([][]Block, len(arr))
	for i, el := range arr {
		item, err := decodeBlocks(el, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

func decodeCellRows(v any, path string) ([][]TableCell, error) {
	arr, err := decodeArray(v, path)
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, nil
	}
	out := make([][]TableCell, len(arr))
	for i, el := range arr {
		row, err := decodeBlockItems(el, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = row
	}
	return out, nil
}

func decodeMetaValue(v any, path string) (MetaValue, error) {
	tag, payload, err := variant(v, path)
	if err != nil {
		return nil, err
	}
	p := path + "." + tag
	switch tag {
	case "MetaMap":
		obj, ok := payload.(map[string]any)
		if !ok {
			return nil, errors.NewDecode(p, tag, "expected an object payload, got "+describe(payload))
		}
		out := MetaMap{}
		for key, val := range obj {
			mv, err := decodeMetaValue(val, p+"."+key)
			if err != nil {
				return nil, err
			}
			out[key] = mv
		}
		return out, nil
	case "MetaList":
		arr, err := decodeArray(payload, p)
		if err != nil {
			return nil, err
		}
		if len(arr) == 0 {
			return MetaList(nil), nil
		}
		out := make(MetaList, len(arr))
		for i, el := range arr {
			mv, err := decodeMetaValue(el, fmt.Sprintf("%s[%d]", p, i))
			if err != nil {
				return nil, err
			}
			out[i] = mv
		}
		return out, nil
	case "MetaBool":
		b, err := decodeBool(payload, p)
		if err != nil {
			return nil, err
		}
		return MetaBool(b), nil
	case "MetaString":
		s, err := decodeString(payload, p)
		if err != nil {
			return nil, err
		}
		return MetaString(s), nil
	case "MetaInlines":
		ins, err := decodeInlines(payload, p)
		if err != nil {
			return nil, err
		}
		return MetaInlines(ins), nil
	case "MetaBlocks":
		bs, err := decodeBlocks(payload, p)
		if err != nil {
			return nil, err
		}
		return MetaBlocks(bs), nil
	default:
		return nil, errors.NewDecode(path, tag, fmt.Sprintf("unknown MetaValue variant %q", tag))
	}
}

func decodeBlock(v any, path string) (Block, error) {
	tag, payload, err := variant(v, path)
	if err != nil {
		return nil, err
	}
	p := path + "." + tag
	switch tag {
	case "Plain":
		ins, err := decodeInlines(payload, p)
		if err != nil {
			return nil, err
		}
		return Plain(ins), nil
	case "Para":
		ins, err := decodeInlines(payload, p)
		if err != nil {
			return nil, err
		}
		return Para(ins), nil
	case "CodeBlock":
		fields, err := tuple(payload, 2, p, tag)
		if err != nil {
			return nil, err
		}
		attr, err := decodeAttr(fields[0], p+"[0]")
		if err != nil {
			return nil, err
		}
		text, err := decodeString(fields[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		return CodeBlock{Attr: attr, Text: text}, nil
	case "RawBlock":
		fields, err := tuple(payload, 2, p, tag)
		if err != nil {
			return nil, err
		}
		format, err := decodeString(fields[0], p+"[0]")
		if err != nil {
			return nil, err
		}
		text, err := decodeString(fields[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		return RawBlock{Format: format, Text: text}, nil
	case "BlockQuote":
		bs, err := decodeBlocks(payload, p)
		if err != nil {
			return nil, err
		}
		return BlockQuote(bs), nil
	case "OrderedList":
		fields, err := tuple(payload, 2, p, tag)
		if err != nil {
			return nil, err
		}
		attrs, err := decodeListAttributes(fields[0], p+"[0]")
		if err != nil {
			return nil, err
		}
		items, err := decodeBlockItems(fields[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		return OrderedList{Attrs: attrs, Items: items}, nil
	case "BulletList":
		items, err := decodeBlockItems(payload, p)
		if err != nil {
			return nil, err
		}
		return BulletList(items), nil
	case "DefinitionList":
		arr, err := decodeArray(payload, p)
		if err != nil {
			return nil, err
		}
		var defs DefinitionList
		if len(arr) > 0 {
			defs = make(DefinitionList, len(arr))
		}
		for i, el := range arr {
			ep := fmt.Sprintf("%s[%d]", p, i)
			pair, err := tuple(el, 2, ep, tag)
			if err != nil {
				return nil, err
			}
			term, err := decodeInlines(pair[0], ep+"[0]")
			if err != nil {
				return nil, err
			}
			bodies, err := decodeBlockItems(pair[1], ep+"[1]")
			if err != nil {
				return nil, err
			}
			defs[i] = Definition{Term: term, Definitions: bodies}
		}
		return defs, nil
	case "Header":
		fields, err := tuple(payload, 3, p, tag)
		if err != nil {
			return nil, err
		}
		level, err := decodeInt(fields[0], p+"[0]")
		if err != nil {
			return nil, err
		}
		attr, err := decodeAttr(fields[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		ins, err := decodeInlines(fields[2], p+"[2]")
		if err != nil {
			return nil, err
		}
		return Header{Level: level, Attr: attr, Inlines: ins}, nil
	case "HorizontalRule":
		if err := noPayload(payload, path, tag); err != nil {
			return nil, err
		}
		return HorizontalRule{}, nil
	case "Null":
		if err := noPayload(payload, path, tag); err != nil {
			return nil, err
		}
		return Null{}, nil
	case "Table":
		fields, err := tuple(payload, 5, p, tag)
		if err != nil {
			return nil, err
		}
		caption, err := decodeInlines(fields[0], p+"[0]")
		if err != nil {
			return nil, err
		}
		alignArr, err := decodeArray(fields[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		var aligns []Alignment
		if len(alignArr) > 0 {
			aligns = make([]Alignment, len(alignArr))
		}
		for i, el := range alignArr {
			a, err := decodeEnum(el, fmt.Sprintf("%s[1][%d]", p, i), "Alignment", func(tag string) bool {
				return Alignment(tag).IsValid()
			})
			if err != nil {
				return nil, err
			}
			aligns[i] = Alignment(a)
		}
		widthArr, err := decodeArray(fields[2], p+"[2]")
		if err != nil {
			return nil, err
		}
		var widths []float64
		if len(widthArr) > 0 {
			widths = make([]float64, len(widthArr))
		}
		for i, el := range widthArr {
			w, err := decodeFloat(el, fmt.Sprintf("%s[2][%d]", p, i))
			if err != nil {
				return nil, err
			}
			widths[i] = w
		}
		// Alignments and widths are parallel per-column arrays; a length
		// mismatch means the document is malformed.
		if len(aligns) != len(widths) {
			return nil, errors.NewDecode(p, tag, fmt.Sprintf("column arrays disagree: %d alignments, %d widths", len(aligns), len(widths)))
		}
		header, err := decodeBlockItems(fields[3], p+"[3]")
		if err != nil {
			return nil, err
		}
		rows, err := decodeCellRows(fields[4], p+"[4]")
		if err != nil {
			return nil, err
		}
		return Table{Caption: caption, Alignments: aligns, Widths: widths, Header: header, Rows: rows}, nil
	case "Div":
		fields, err := tuple(payload, 2, p, tag)
		if err != nil {
			return nil, err
		}
		attr, err := decodeAttr(fields[0], p+"[0]")
		if err != nil {
			return nil, err
		}
		bs, err := decodeBlocks(fields[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		return Div{Attr: attr, Blocks: bs}, nil
	default:
		return nil, errors.NewDecode(path, tag, fmt.Sprintf("unknown Block variant %q", tag))
	}
}

func decodeInline(v any, path string) (Inline, error) {
	tag, payload, err := variant(v, path)
	if err != nil {
		return nil, err
	}
	p := path + "." + tag
	switch tag {
	case "Str":
		s, err := decodeString(payload, p)
		if err != nil {
			return nil, err
		}
		return Str(s), nil
	case "Emph", "Strong", "Strikeout", "Superscript", "Subscript", "SmallCaps":
		ins, err := decodeInlines(payload, p)
		if err != nil {
			return nil, err
		}
		switch tag {
		case "Emph":
			return Emph(ins), nil
		case "Strong":
			return Strong(ins), nil
		case "Strikeout":
			return Strikeout(ins), nil
		case "Superscript":
			return Superscript(ins), nil
		case "Subscript":
			return Subscript(ins), nil
		default:
			return SmallCaps(ins), nil
		}
	case "Quoted":
		fields, err := tuple(payload, 2, p, tag)
		if err != nil {
			return nil, err
		}
		qt, err := decodeEnum(fields[0], p+"[0]", "QuoteType", func(tag string) bool {
			return QuoteType(tag).IsValid()
		})
		if err != nil {
			return nil, err
		}
		ins, err := decodeInlines(fields[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		return Quoted{Type: QuoteType(qt), Inlines: ins}, nil
	case "Cite":
		fields, err := tuple(payload, 2, p, tag)
		if err != nil {
			return nil, err
		}
		citeArr, err := decodeArray(fields[0], p+"[0]")
		if err != nil {
			return nil, err
		}
		var citations []Citation
		if len(citeArr) > 0 {
			citations = make([]Citation, len(citeArr))
		}
		for i, el := range citeArr {
			c, err := decodeCitation(el, fmt.Sprintf("%s[0][%d]", p, i))
			if err != nil {
				return nil, err
			}
			citations[i] = c
		}
		ins, err := decodeInlines(fields[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		return Cite{Citations: citations, Inlines: ins}, nil
	case "Code":
		fields, err := tuple(payload, 2, p, tag)
		if err != nil {
			return nil, err
		}
		attr, err := decodeAttr(fields[0], p+"[0]")
		if err != nil {
			return nil, err
		}
		text, err := decodeString(fields[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		return Code{Attr: attr, Text: text}, nil
	case "Space":
		if err := noPayload(payload, path, tag); err != nil {
			return nil, err
		}
		return Space{}, nil
	case "SoftBreak":
		if err := noPayload(payload, path, tag); err != nil {
			return nil, err
		}
		return SoftBreak{}, nil
	case "LineBreak":
		if err := noPayload(payload, path, tag); err != nil {
			return nil, err
		}
		return LineBreak{}, nil
	case "Math":
		fields, err := tuple(payload, 2, p, tag)
		if err != nil {
			return nil, err
		}
		mt, err := decodeEnum(fields[0], p+"[0]", "MathType", func(tag string) bool {
			return MathType(tag).IsValid()
		})
		if err != nil {
			return nil, err
		}
		text, err := decodeString(fields[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		return Math{Type: MathType(mt), Text: text}, nil
	case "RawInline":
		fields, err := tuple(payload, 2, p, tag)
		if err != nil {
			return nil, err
		}
		format, err := decodeString(fields[0], p+"[0]")
		if err != nil {
			return nil, err
		}
		text, err := decodeString(fields[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		return RawInline{Format: format, Text: text}, nil
	case "Link", "Image":
		fields, err := tuple(payload, 3, p, tag)
		if err != nil {
			return nil, err
		}
		attr, err := decodeAttr(fields[0], p+"[0]")
		if err != nil {
			return nil, err
		}
		ins, err := decodeInlines(fields[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		target, err := decodeTarget(fields[2], p+"[2]")
		if err != nil {
			return nil, err
		}
		if tag == "Link" {
			return Link{Attr: attr, Inlines: ins, Target: target}, nil
		}
		return Image{Attr: attr, Inlines: ins, Target: target}, nil
	case "Span":
		fields, err := tuple(payload, 2, p, tag)
		if err != nil {
			return nil, err
		}
		attr, err := decodeAttr(fields[0], p+"[0]")
		if err != nil {
			return nil, err
		}
		ins, err := decodeInlines(fields[1], p+"[1]")
		if err != nil {
			return nil, err
		}
		return Span{Attr: attr, Inlines: ins}, nil
	default:
		return nil, errors.NewDecode(path, tag, fmt.Sprintf("unknown Inline variant %q", tag))
	}
}

func decodeCitation(v any, path string) (Citation, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Citation{}, errors.NewDecode(path, "Citation", "expected an object, got "+describe(v))
	}
	var c Citation
	var err error
	idv, ok := obj["citationId"]
	if !ok {
		return Citation{}, errors.NewDecode(path, "Citation", `missing "citationId"`)
	}
	if c.ID, err = decodeString(idv, path+".citationId"); err != nil {
		return Citation{}, err
	}
	if pv, ok := obj["citationPrefix"]; ok {
		if c.Prefix, err = decodeInlines(pv, path+".citationPrefix"); err != nil {
			return Citation{}, err
		}
	}
	if sv, ok := obj["citationSuffix"]; ok {
		if c.Suffix, err = decodeInlines(sv, path+".citationSuffix"); err != nil {
			return Citation{}, err
		}
	}
	// The canonical key is all-lowercase "citationmode"; pandoc's own wire
	// spells it "citationMode", so both are accepted.
	mv, ok := obj["citationmode"]
	if !ok {
		mv, ok = obj["citationMode"]
	}
	if !ok {
		return Citation{}, errors.NewDecode(path, "Citation", `missing "citationmode"`)
	}
	mode, err := decodeEnum(mv, path+".citationmode", "CitationMode", func(tag string) bool {
		return CitationMode(tag).IsValid()
	})
	if err != nil {
		return Citation{}, err
	}
	c.Mode = CitationMode(mode)
	if nv, ok := obj["citationNoteNum"]; ok {
		if c.NoteNum, err = decodeInt(nv, path+".citationNoteNum"); err != nil {
			return Citation{}, err
		}
	}
	if hv, ok := obj["citationHash"]; ok {
		if c.Hash, err = decodeInt(hv, path+".citationHash"); err != nil {
			return Citation{}, err
		}
	}
	return c, nil
}
