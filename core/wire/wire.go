// Package wire consumes pandoc's tagged JSON output. Pandoc encodes every
// AST node as {"t": "<Variant>", "c": <payload>}; this package normalizes
// that convention into the compact single-key form the ast package decodes,
// then runs the structural decoder over the result.
//
// The two conventions serve different purposes: t/c is what the external
// converter emits, the compact per-variant form is the library's own
// canonical representation. Keeping the bridge as an explicit pre-transform
// over the whole JSON tree makes it auditable independently of the
// structural schema.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/baig/gopandoc/core/ast"
	"github.com/baig/gopandoc/core/errors"
)

// Normalize rewrites a decoded JSON tree from the t/c convention into the
// compact single-key convention:
//
//   - an object with a "t" key becomes {tag: normalized c}; when "c" is
//     absent the payload is an empty array, so unit variants and
//     no-payload variants normalize uniformly;
//   - arrays are normalized element-wise, preserving order;
//   - every other value passes through, with object values normalized
//     recursively so nested nodes are reached.
//
// Normalize is the identity on trees containing no t/c objects.
func Normalize(v any) (any, error) {
	switch node := v.(type) {
	case map[string]any:
		if t, ok := node["t"]; ok {
			tag, ok := t.(string)
			if !ok {
				return nil, errors.NewDecode("", "", `"t" is not a string`)
			}
			payload := any([]any{})
			if c, ok := node["c"]; ok {
				normalized, err := Normalize(c)
				if err != nil {
					return nil, err
				}
				payload = normalized
			}
			return map[string]any{tag: payload}, nil
		}
		out := make(map[string]any, len(node))
		for k, val := range node {
			normalized, err := Normalize(val)
			if err != nil {
				return nil, err
			}
			out[k] = normalized
		}
		return out, nil
	case []any:
		out := make([]any, len(node))
		for i, el := range node {
			normalized, err := Normalize(el)
			if err != nil {
				return nil, err
			}
			out[i] = normalized
		}
		return out, nil
	default:
		return v, nil
	}
}

// DecodeDocument decodes pandoc wire JSON into a document. The top level
// must be a two-element array of the metadata object and the block array;
// anything else is a ShapeError. Node-level failures are DecodeErrors
// carrying the offending node's path.
func DecodeDocument(data []byte) (*ast.Pandoc, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.NewParse("JSON", err.Error(), err)
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, errors.NewShape(describeTop(v), "a 2-element array")
	}
	if len(arr) != 2 {
		return nil, errors.NewShape(fmt.Sprintf("an array of length %d", len(arr)), "a 2-element array")
	}
	metaTree, err := Normalize(arr[0])
	if err != nil {
		return nil, err
	}
	blocksTree, err := Normalize(arr[1])
	if err != nil {
		return nil, err
	}
	meta, err := ast.DecodeMeta(metaTree)
	if err != nil {
		return nil, err
	}
	blocks, err := ast.DecodeBlocks(blocksTree)
	if err != nil {
		return nil, err
	}
	return &ast.Pandoc{Meta: meta, Blocks: blocks}, nil
}

// EncodeDocument encodes a document in the library's compact canonical
// form. This is not the t/c wire convention; it is the form DecodeDocument
// and the ast package round-trip.
func EncodeDocument(doc *ast.Pandoc) ([]byte, error) {
	return json.Marshal(doc)
}

func describeTop(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case json.Number, float64:
		return "a number"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
