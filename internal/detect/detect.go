// Package detect chooses a pandoc input format for unlabeled sources.
//
// Detection is extension-first with content-marker fallbacks. XML
// sources are parsed and classified by their root element and
// namespace (DocBook, JATS, TEI, HTML).
package detect

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/baig/gopandoc/core/errors"
)

// Result reports the chosen format and why it was chosen.
type Result struct {
	Format string `json:"format"`
	Reason string `json:"reason"`
}

// extension → pandoc input format, for unambiguous extensions.
var byExtension = map[string]string{
	".md":        "markdown",
	".markdown":  "markdown",
	".mdown":     "markdown",
	".tex":       "latex",
	".latex":     "latex",
	".rst":       "rst",
	".html":      "html",
	".htm":       "html",
	".org":       "org",
	".textile":   "textile",
	".wiki":      "mediawiki",
	".dbk":       "docbook",
	".opml":      "opml",
	".epub":      "epub",
	".docx":      "docx",
	".odt":       "odt",
	".typ":       "typst",
	".ipynb":     "ipynb",
	".texinfo":   "texinfo",
	".man":       "man",
	".mediawiki": "mediawiki",
}

// markerProbe is a content signature checked when the extension does
// not decide the format.
type markerProbe struct {
	format  string
	reason  string
	markers []string
}

// Probes run in order; the first whose markers are all present wins.
var probes = []markerProbe{
	{"latex", "LaTeX preamble detected", []string{`\documentclass`}},
	{"latex", "LaTeX document body detected", []string{`\begin{document}`}},
	{"rst", "reStructuredText directive detected", []string{"\n.. "}},
	{"mediawiki", "MediaWiki heading detected", []string{"\n== ", " ==\n"}},
	{"org", "Org mode heading detected", []string{"\n* ", "#+TITLE"}},
}

// jatsProbe matches the JATS article structure below a plain <article>
// root, where the namespace alone cannot decide.
var jatsProbe = xpath.MustCompile("//article/front/article-meta")

// Namespaces that identify an XML dialect regardless of root element.
var byNamespace = map[string]string{
	"http://docbook.org/ns/docbook": "docbook",
	"http://www.tei-c.org/ns/1.0":   "tei",
	"http://www.w3.org/1999/xhtml":  "html",
}

// File reads the file at path and detects its format.
func File(path string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, errors.Wrapf(err, "cannot stat %s", path)
	}
	if info.IsDir() {
		return Result{}, errors.Wrapf(errors.ErrInvalidInput, "%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errors.Wrapf(err, "cannot read %s", path)
	}
	return Source(filepath.Base(path), data), nil
}

// Source detects the format of data. name is the original file name
// and may be empty for anonymous sources (stdin).
func Source(name string, data []byte) Result {
	ext := strings.ToLower(filepath.Ext(name))
	if format, ok := byExtension[ext]; ok {
		return Result{Format: format, Reason: ext + " file extension"}
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")

	if ext == ".xml" || bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<!DOCTYPE")) {
		if r, ok := detectXML(data); ok {
			return r
		}
	}

	if ext == ".json" || bytes.HasPrefix(trimmed, []byte("[")) || bytes.HasPrefix(trimmed, []byte("{")) {
		if r, ok := detectJSON(trimmed); ok {
			return r
		}
	}

	if bytes.HasPrefix(trimmed, []byte("<")) {
		if r, ok := detectXML(data); ok {
			return r
		}
		return Result{Format: "html", Reason: "angle-bracket content"}
	}

	content := string(data)
	for _, p := range probes {
		found := true
		for _, m := range p.markers {
			if !strings.Contains(content, m) {
				found = false
				break
			}
		}
		if found {
			return Result{Format: p.format, Reason: p.reason}
		}
	}

	return Result{Format: "markdown", Reason: "default"}
}

// detectXML classifies well-formed XML by namespace and root element.
func detectXML(data []byte) (Result, bool) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return Result{}, false
	}
	root := firstElement(doc)
	if root == nil {
		return Result{}, false
	}

	if ns := namespace(root); ns != "" {
		if format, ok := byNamespace[ns]; ok {
			return Result{Format: format, Reason: "XML namespace " + ns}, true
		}
	}

	switch strings.ToLower(root.Data) {
	case "html":
		return Result{Format: "html", Reason: "html root element"}, true
	case "tei", "tei.2":
		return Result{Format: "tei", Reason: "TEI root element"}, true
	case "article":
		if n := xmlquery.QuerySelector(doc, jatsProbe); n != nil {
			return Result{Format: "jats", Reason: "JATS article structure"}, true
		}
		return Result{Format: "docbook", Reason: "DocBook article root"}, true
	case "book", "chapter", "section", "refentry":
		return Result{Format: "docbook", Reason: "DocBook root element " + root.Data}, true
	case "opml":
		return Result{Format: "opml", Reason: "OPML root element"}, true
	}
	return Result{}, false
}

// detectJSON recognizes the pandoc tagged-JSON wire form.
func detectJSON(data []byte) (Result, bool) {
	if !json.Valid(data) {
		return Result{}, false
	}
	if bytes.Contains(data, []byte(`"unMeta"`)) || bytes.Contains(data, []byte(`"pandoc-api-version"`)) {
		return Result{Format: "json", Reason: "pandoc JSON document"}, true
	}
	return Result{}, false
}

func firstElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

func namespace(n *xmlquery.Node) string {
	if n.NamespaceURI != "" {
		return n.NamespaceURI
	}
	for _, attr := range n.Attr {
		if attr.Name.Local == "xmlns" {
			return attr.Value
		}
	}
	return ""
}
