package wire

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/baig/gopandoc/core/ast"
	"github.com/baig/gopandoc/core/errors"
)

func parse(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return v
}

func TestNormalizeTagContent(t *testing.T) {
	got, err := Normalize(parse(t, `{"t":"Str","c":"Test"}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := map[string]any{"Str": "Test"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestNormalizeAbsentContent(t *testing.T) {
	got, err := Normalize(parse(t, `{"t":"HorizontalRule"}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := map[string]any{"HorizontalRule": []any{}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestNormalizeNested(t *testing.T) {
	raw := `{"t":"Para","c":[{"t":"Str","c":"a"},{"t":"Space"}]}`
	got, err := Normalize(parse(t, raw))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := map[string]any{"Para": []any{
		map[string]any{"Str": "a"},
		map[string]any{"Space": []any{}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestNormalizeIdentityOnPlainTrees(t *testing.T) {
	tests := []string{
		`"text"`,
		`42`,
		`true`,
		`null`,
		`[1,"two",false]`,
		`{"a":1,"b":[2,3],"nested":{"c":"d"}}`,
	}
	for _, raw := range tests {
		v := parse(t, raw)
		got, err := Normalize(v)
		if err != nil {
			t.Fatalf("normalize %s: %v", raw, err)
		}
		if !reflect.DeepEqual(got, v) {
			t.Errorf("normalize %s: got %#v, want unchanged", raw, got)
		}
	}
}

func TestNormalizeRecursesIntoPlainObjects(t *testing.T) {
	// Objects without a tag are kept but their values are still visited,
	// since metadata objects wrap tagged nodes.
	raw := `{"unMeta":{"title":{"t":"MetaString","c":"x"}}}`
	got, err := Normalize(parse(t, raw))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := map[string]any{"unMeta": map[string]any{
		"title": map[string]any{"MetaString": "x"},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestNormalizeRejectsNonStringTag(t *testing.T) {
	if _, err := Normalize(parse(t, `{"t":7,"c":[]}`)); err == nil {
		t.Fatal("expected an error for a numeric tag")
	}
}

func TestDecodeDocumentHeader(t *testing.T) {
	raw := `[{"unMeta":{}},[{"t":"Header","c":[1,["test",[],[]],[{"t":"Str","c":"Test"}]]}]]`
	doc, err := DecodeDocument([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := &ast.Pandoc{
		Meta: ast.Meta{},
		Blocks: []ast.Block{
			ast.Header{
				Level:   1,
				Attr:    ast.Attr{ID: "test"},
				Inlines: []ast.Inline{ast.Str("Test")},
			},
		},
	}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("got %#v, want %#v", doc, want)
	}
}

func TestDecodeDocumentMalformedJSON(t *testing.T) {
	_, err := DecodeDocument([]byte(`[{"unMeta":{}`))
	if err == nil {
		t.Fatal("expected an error")
	}
	var parseErr *errors.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected ParseError, got %T: %v", err, err)
	}
}

func TestDecodeDocumentShape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"object", `{"unMeta":{}}`},
		{"short array", `[{"unMeta":{}}]`},
		{"long array", `[{"unMeta":{}},[],[]]`},
		{"string", `"doc"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument([]byte(tt.raw))
			if err == nil {
				t.Fatal("expected an error")
			}
			var shapeErr *errors.ShapeError
			if !errors.As(err, &shapeErr) {
				t.Errorf("expected ShapeError, got %T: %v", err, err)
			}
		})
	}
}

func TestDecodeDocumentBadNode(t *testing.T) {
	raw := `[{"unMeta":{}},[{"t":"Mystery","c":[]}]]`
	_, err := DecodeDocument([]byte(raw))
	if err == nil {
		t.Fatal("expected an error")
	}
	var decErr *errors.DecodeError
	if !errors.As(err, &decErr) {
		t.Errorf("expected DecodeError, got %T: %v", err, err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := &ast.Pandoc{
		Meta: ast.Meta{"title": ast.MetaInlines{ast.Str("T")}},
		Blocks: []ast.Block{
			ast.Para{ast.Str("a"), ast.Space{}, ast.Emph{ast.Str("b")}},
			ast.HorizontalRule{},
		},
	}
	data, err := EncodeDocument(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip changed the document: %#v", got)
	}
}

func TestDecodeDocumentFullWire(t *testing.T) {
	// A larger wire sample in pandoc's own convention, with metadata,
	// lists, and enumeration payloads.
	raw := `[
	  {"unMeta":{"author":{"t":"MetaInlines","c":[{"t":"Str","c":"Ada"}]}}},
	  [
	    {"t":"Para","c":[{"t":"Str","c":"hi"},{"t":"Space"},{"t":"Emph","c":[{"t":"Str","c":"there"}]}]},
	    {"t":"OrderedList","c":[[1,{"t":"Decimal"},{"t":"Period"}],[[{"t":"Plain","c":[{"t":"Str","c":"one"}]}]]]},
	    {"t":"HorizontalRule"}
	  ]
	]`
	doc, err := DecodeDocument([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := &ast.Pandoc{
		Meta: ast.Meta{"author": ast.MetaInlines{ast.Str("Ada")}},
		Blocks: []ast.Block{
			ast.Para{ast.Str("hi"), ast.Space{}, ast.Emph{ast.Str("there")}},
			ast.OrderedList{
				Attrs: ast.ListAttributes{Start: 1, Style: ast.Decimal, Delim: ast.Period},
				Items: [][]ast.Block{{ast.Plain{ast.Str("one")}}},
			},
			ast.HorizontalRule{},
		},
	}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("got %#v, want %#v", doc, want)
	}
}
