// Command minify builds the production asset tree served when ENV=production:
// every template and static file is copied into the output directory, with
// HTML, CSS and JavaScript minified on the way.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

var mediaTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
}

func newMinifier() *minify.M {
	m := minify.New()
	// Templates carry {{ }} actions that must survive minification.
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
		TemplateDelims:   [2]string{"{{", "}}"},
	})
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	return m
}

// minifyTree mirrors src under dst, minifying files with a known media type
// and copying the rest. It returns the number of files minified.
func minifyTree(m *minify.M, src, dst string) (int, error) {
	count := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(out, 0755)
		}

		input, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		mediaType, ok := mediaTypes[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return os.WriteFile(out, input, 0644)
		}
		minified, err := m.Bytes(mediaType, input)
		if err != nil {
			return fmt.Errorf("minify %s: %w", path, err)
		}
		count++
		return os.WriteFile(out, minified, 0644)
	})
	return count, err
}

func main() {
	var (
		templatesDir = flag.String("templates", "templates", "Template source directory")
		staticDir    = flag.String("static", "static", "Static asset source directory")
		outputDir    = flag.String("output", "dist", "Output directory")
	)
	flag.Parse()

	m := newMinifier()
	total := 0
	for src, name := range map[string]string{*templatesDir: "templates", *staticDir: "static"} {
		n, err := minifyTree(m, src, filepath.Join(*outputDir, name))
		if err != nil {
			log.Fatalf("Failed to build %s: %v", name, err)
		}
		total += n
	}

	fmt.Printf("Successfully minified %d files into %s\n", total, *outputDir)
}
