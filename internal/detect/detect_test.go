package detect

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSourceByExtension(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		format string
	}{
		{"markdown", "notes.md", "markdown"},
		{"markdown long", "notes.markdown", "markdown"},
		{"latex", "paper.tex", "latex"},
		{"rst", "index.rst", "rst"},
		{"html", "page.html", "html"},
		{"org", "todo.org", "org"},
		{"docbook", "book.dbk", "docbook"},
		{"docx", "report.docx", "docx"},
		{"typst", "doc.typ", "typst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Source(tt.file, nil)
			if got.Format != tt.format {
				t.Errorf("Source(%q) = %q (%s), want %q", tt.file, got.Format, got.Reason, tt.format)
			}
		})
	}
}

func TestSourceXMLDialects(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
	}{
		{
			"docbook by namespace",
			`<?xml version="1.0"?><book xmlns="http://docbook.org/ns/docbook"><title>T</title></book>`,
			"docbook",
		},
		{
			"tei by namespace",
			`<?xml version="1.0"?><TEI xmlns="http://www.tei-c.org/ns/1.0"><teiHeader/></TEI>`,
			"tei",
		},
		{
			"tei by root element",
			`<?xml version="1.0"?><TEI><teiHeader/></TEI>`,
			"tei",
		},
		{
			"xhtml by namespace",
			`<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml"><body/></html>`,
			"html",
		},
		{
			"jats article structure",
			`<?xml version="1.0"?><article><front><article-meta><title-group/></article-meta></front><body/></article>`,
			"jats",
		},
		{
			"docbook plain article",
			`<?xml version="1.0"?><article><title>T</title><para>text</para></article>`,
			"docbook",
		},
		{
			"docbook chapter root",
			`<?xml version="1.0"?><chapter><title>T</title></chapter>`,
			"docbook",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Source("input.xml", []byte(tt.data))
			if got.Format != tt.format {
				t.Errorf("Source = %q (%s), want %q", got.Format, got.Reason, tt.format)
			}
		})
	}
}

func TestSourceContentMarkers(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
	}{
		{"latex preamble", `\documentclass{article}\n\begin{document}hi\end{document}`, "latex"},
		{"rst directive", "Title\n=====\n\n.. note:: careful\n", "rst"},
		{"plain text defaults to markdown", "just some words\n", "markdown"},
		{"markdown heading defaults", "# Heading\n\nbody\n", "markdown"},
		{"html fragment", "<p>hello</p>", "html"},
		{"pandoc json", `[{"unMeta":{}},[{"t":"Para","c":[]}]]`, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Source("", []byte(tt.data))
			if got.Format != tt.format {
				t.Errorf("Source = %q (%s), want %q", got.Format, got.Reason, tt.format)
			}
		})
	}
}

func TestSourceMalformedXMLFallsThrough(t *testing.T) {
	// Unclosed tag still parses leniently, but garbage after "<" that is
	// not XML at all falls back to html for angle-bracket content.
	got := Source("", []byte("< not actually xml"))
	if got.Format != "html" {
		t.Errorf("Source = %q (%s), want html fallback", got.Format, got.Reason)
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.tex")
	if err := os.WriteFile(path, []byte(`\documentclass{article}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if got.Format != "latex" {
		t.Errorf("File = %q (%s), want latex", got.Format, got.Reason)
	}
}

func TestFileErrors(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := File(t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
}
