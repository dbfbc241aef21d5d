// Command gopandoc converts documents through the pandoc JSON AST:
// convert sources to the compact document form, filter documents the
// way a pandoc filter does, query them with selectors, and serve the
// conversion API.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/baig/gopandoc/core/ast"
	"github.com/baig/gopandoc/core/pandoc"
	"github.com/baig/gopandoc/core/selector"
	"github.com/baig/gopandoc/core/wire"
	"github.com/baig/gopandoc/internal/api"
	"github.com/baig/gopandoc/internal/cache"
	"github.com/baig/gopandoc/internal/detect"
	"github.com/baig/gopandoc/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for gopandoc.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" help:"Log level" enum:"debug,info,warn,error" default:"info"`
	LogFormat string `name:"log-format" help:"Log output format" enum:"json,text" default:"text"`
	CacheDB   string `name:"cache-db" help:"Conversion cache database path (empty for default, 'off' to disable)"`

	Convert ConvertCmd `cmd:"" help:"Convert a document to the compact AST JSON"`
	Filter  FilterCmd  `cmd:"" help:"Transform a JSON document read from stdin"`
	Query   QueryCmd   `cmd:"" help:"Select nodes from a JSON document"`
	Detect  DetectCmd  `cmd:"" help:"Detect the input format of a file"`
	Cache   CacheGroup `cmd:"" help:"Conversion cache operations"`
	Serve   ServeCmd   `cmd:"" help:"Start the conversion API server"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// CacheGroup contains cache maintenance operations.
type CacheGroup struct {
	Stats CacheStatsCmd `cmd:"" help:"Show cache statistics"`
	Clear CacheClearCmd `cmd:"" help:"Remove all cache entries"`
	Prune CachePruneCmd `cmd:"" help:"Remove cache entries older than a duration"`
}

// defaultCachePath places the cache under the user cache directory.
func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "gopandoc-cache.db"
	}
	return filepath.Join(dir, "gopandoc", "cache.db")
}

// resolveCachePath applies the --cache-db convention: empty means the
// default location, "off" disables caching.
func resolveCachePath(flag string) string {
	switch flag {
	case "":
		return defaultCachePath()
	case "off":
		return ""
	default:
		return flag
	}
}

// openCache opens the configured cache, creating parent directories.
// A disabled cache returns nil.
func openCache(flag string) (*cache.Cache, error) {
	path := resolveCachePath(flag)
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return cache.Open(path)
}

// readSource reads the named file, or stdin for "-".
func readSource(path string) (string, []byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return "", data, err
	}
	data, err := os.ReadFile(path)
	return filepath.Base(path), data, err
}

// ConvertCmd converts a source document to compact AST JSON.
type ConvertCmd struct {
	Path    string        `arg:"" help:"Source file ('-' for stdin)"`
	From    string        `short:"f" help:"Input format (detected when empty)"`
	Math    string        `help:"Math rendering mode" enum:",mathjax,mathml,katex,webtex" default:""`
	Pandoc  string        `help:"Pandoc executable" default:"pandoc"`
	Timeout time.Duration `help:"Conversion timeout" default:"60s"`
	Pretty  bool          `help:"Indent the output"`
}

func (c *ConvertCmd) Run() error {
	name, data, err := readSource(c.Path)
	if err != nil {
		return err
	}

	format := c.From
	if format == "" {
		d := detect.Source(name, data)
		format = d.Format
		logging.Debug("format detected", "format", d.Format, "reason", d.Reason)
	}

	store, err := openCache(CLI.CacheDB)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	ctx := context.Background()
	key := cache.Key(format, c.Math, string(data))
	if store != nil {
		if doc, ok, err := store.Get(ctx, key); err == nil && ok {
			return writeDoc(os.Stdout, doc, c.Pretty)
		}
	}

	conv := pandoc.New(pandoc.Options{
		Path:    c.Pandoc,
		From:    format,
		Math:    pandoc.MathMode(c.Math),
		Timeout: c.Timeout,
	})
	start := time.Now()
	doc, err := conv.Convert(ctx, string(data))
	if err != nil {
		return err
	}
	encoded, err := wire.EncodeDocument(doc)
	if err != nil {
		return err
	}
	logging.Conversion(format, len(data), len(doc.Blocks), time.Since(start))

	if store != nil {
		if err := store.Put(ctx, key, format, encoded); err != nil {
			logging.Warn("cache store failed", "error", err)
		}
	}
	return writeDoc(os.Stdout, encoded, c.Pretty)
}

func writeDoc(w io.Writer, doc []byte, pretty bool) error {
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, doc, "", "  "); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err := w.Write(buf.Bytes())
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n", doc)
	return err
}

// FilterCmd reads a JSON document on stdin, applies a transform to its
// inlines, and writes the document back out.
type FilterCmd struct {
	Uppercase bool   `help:"Uppercase all string inlines"`
	Emph      bool   `help:"Wrap all string inlines in emphasis"`
	Selector  string `help:"Restrict the transform to nodes matching a selector"`
}

func (c *FilterCmd) Run() error {
	return c.run(os.Stdin, os.Stdout)
}

func (c *FilterCmd) run(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	doc, err := wire.DecodeDocument(data)
	if err != nil {
		return err
	}

	f, err := c.transform()
	if err != nil {
		return err
	}
	result := ast.WalkPandoc(*doc, f)

	encoded, err := wire.EncodeDocument(&result)
	if err != nil {
		return err
	}
	return writeDoc(out, encoded, false)
}

// transform builds the inline transform from the command flags.
func (c *FilterCmd) transform() (func(ast.Inline) ast.Inline, error) {
	var sel *selector.Selector
	if c.Selector != "" {
		var err error
		sel, err = selector.Parse(c.Selector)
		if err != nil {
			return nil, err
		}
	}

	apply := func(in ast.Inline) ast.Inline {
		if s, ok := in.(ast.Str); ok {
			if c.Uppercase {
				in = ast.Str(strings.ToUpper(string(s)))
			}
			if c.Emph {
				in = ast.Emph{in}
			}
		}
		return in
	}

	if sel == nil {
		return apply, nil
	}
	return func(in ast.Inline) ast.Inline {
		if !sel.Matches(in) {
			return in
		}
		return apply(in)
	}, nil
}

// QueryCmd selects nodes from a JSON document.
type QueryCmd struct {
	Selector string `arg:"" help:"Selector expression"`
	Path     string `arg:"" optional:"" help:"JSON document file (default stdin)" type:"existingfile"`
}

func (c *QueryCmd) Run() error {
	return c.run(os.Stdin, os.Stdout)
}

func (c *QueryCmd) run(in io.Reader, out io.Writer) error {
	sel, err := selector.Parse(c.Selector)
	if err != nil {
		return err
	}

	var data []byte
	if c.Path != "" {
		data, err = os.ReadFile(c.Path)
	} else {
		data, err = io.ReadAll(in)
	}
	if err != nil {
		return err
	}

	doc, err := wire.DecodeDocument(data)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	for _, m := range selector.Select(doc, sel) {
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return nil
}

// DetectCmd prints the detected input format of a file.
type DetectCmd struct {
	Path string `arg:"" help:"File to inspect" type:"existingfile"`
}

func (c *DetectCmd) Run() error {
	result, err := detect.File(c.Path)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(result)
}

// CacheStatsCmd shows cache statistics.
type CacheStatsCmd struct{}

func (c *CacheStatsCmd) Run() error {
	store, err := openCache(CLI.CacheDB)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("cache is disabled")
	}
	defer store.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(stats)
}

// CacheClearCmd removes all cache entries.
type CacheClearCmd struct{}

func (c *CacheClearCmd) Run() error {
	store, err := openCache(CLI.CacheDB)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("cache is disabled")
	}
	defer store.Close()

	if err := store.Clear(context.Background()); err != nil {
		return err
	}
	fmt.Println("cache cleared")
	return nil
}

// CachePruneCmd removes cache entries older than a duration.
type CachePruneCmd struct {
	MaxAge time.Duration `help:"Entry age cutoff" default:"720h"`
}

func (c *CachePruneCmd) Run() error {
	store, err := openCache(CLI.CacheDB)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("cache is disabled")
	}
	defer store.Close()

	removed, err := store.Prune(context.Background(), c.MaxAge)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d entries\n", removed)
	return nil
}

// ServeCmd starts the conversion API server.
type ServeCmd struct {
	Port   int    `help:"HTTP server port" default:"8081"`
	Pandoc string `help:"Pandoc executable" default:"pandoc"`
	APIKey string `name:"api-key" help:"Require this API key on requests"`
}

func (c *ServeCmd) Run() error {
	srv, err := api.NewServer(api.Config{
		Port:       c.Port,
		PandocPath: c.Pandoc,
		CachePath:  resolveCachePath(CLI.CacheDB),
		APIKey:     c.APIKey,
	})
	if err != nil {
		return err
	}
	defer srv.Close()
	return srv.Start()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("gopandoc version %s (sqlite driver: %s)\n", version, cache.DriverType())
	return nil
}

func logLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("gopandoc"),
		kong.Description("pandoc JSON AST toolkit"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	format := logging.FormatText
	if CLI.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(logLevel(CLI.LogLevel), format)

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
