package transform

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Sprite)(nil)

// Sprite combines SVG files into a single symbol sprite.
type Sprite struct {
	base
}

// Name implements ports.Transformer.
func (s *Sprite) Name() string { return "SVG Sprite" }

// Class implements ports.Transformer.
func (s *Sprite) Class() domain.AssetClass { return domain.ClassSVG }

type svgDocument struct {
	XMLName xml.Name `xml:"svg"`
	ViewBox string   `xml:"viewBox,attr"`
	Width   string   `xml:"width,attr"`
	Height  string   `xml:"height,attr"`
	Inner   string   `xml:",innerxml"`
}

type symbol struct {
	ID      string
	ViewBox string
	Inner   string
}

// Transform writes cfg.Sprite.Filename to the svg destination, one symbol per input.
// Symbol ids are the configured prefix applied to the file path below the glob base,
// with directory separators replaced by "--".
func (s *Sprite) Transform(ctx context.Context, cfg *domain.BuildConfig) error {
	inputs, err := s.inputs(cfg, cfg.SVG, false)
	if err != nil || len(inputs) == 0 {
		return err
	}

	symbols := make([]symbol, 0, len(inputs))
	for _, src := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		sym, err := s.symbol(cfg, src)
		if err != nil {
			return err
		}
		symbols = append(symbols, sym)
	}

	sprite, err := s.minifier.Bytes(mimeSVG, renderSprite(symbols))
	if err != nil {
		return s.fail(err, cfg.Sprite.Filename)
	}

	var written []string
	spritePath := filepath.Join(cfg.SVG.Dest, cfg.Sprite.Filename)
	changed, err := s.writer.WriteIfChanged(spritePath, sprite)
	if err != nil {
		return err
	}
	if changed {
		written = append(written, spritePath)
	}

	if cfg.Sprite.Example {
		page, err := renderExample(cfg.Sprite.Filename, sprite, symbols)
		if err != nil {
			return s.fail(err, cfg.Sprite.Filename)
		}
		if page, err = s.minifier.Bytes(mimeHTML, page); err != nil {
			return s.fail(err, cfg.Sprite.Filename)
		}

		examplePath := filepath.Join(cfg.SVG.Dest, exampleName(cfg.Sprite.Filename))
		changed, err := s.writer.WriteIfChanged(examplePath, page)
		if err != nil {
			return err
		}
		if changed {
			written = append(written, examplePath)
		}
	}

	s.stream(written)
	return nil
}

func (s *Sprite) symbol(cfg *domain.BuildConfig, src string) (symbol, error) {
	data, err := os.ReadFile(src) //nolint:gosec // Path comes from the configured globs
	if err != nil {
		return symbol{}, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", src)
	}

	var doc svgDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return symbol{}, s.fail(err, src)
	}

	viewBox := doc.ViewBox
	if viewBox == "" && doc.Width != "" && doc.Height != "" {
		viewBox = fmt.Sprintf("0 0 %s %s", strings.TrimSuffix(doc.Width, "px"), strings.TrimSuffix(doc.Height, "px"))
	}

	return symbol{
		ID:      symbolID(cfg.Sprite.Prefix, relToBase(cfg.Root, cfg.SVG.Src, src)),
		ViewBox: viewBox,
		Inner:   strings.TrimSpace(doc.Inner),
	}, nil
}

func (s *Sprite) fail(err error, path string) error {
	return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "transform", s.Name()), "path", path)
}

func symbolID(prefix, rel string) string {
	name := strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
	name = strings.ReplaceAll(name, "/", "--")
	name = strings.ReplaceAll(name, " ", "_")
	if prefix == "" || !strings.Contains(prefix, "%s") {
		return prefix + name
	}
	return fmt.Sprintf(prefix, name)
}

func renderSprite(symbols []symbol) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">`)
	for _, sym := range symbols {
		buf.WriteString(`<symbol id="`)
		_ = xml.EscapeText(&buf, []byte(sym.ID))
		buf.WriteString(`"`)
		if sym.ViewBox != "" {
			buf.WriteString(` viewBox="`)
			_ = xml.EscapeText(&buf, []byte(sym.ViewBox))
			buf.WriteString(`"`)
		}
		buf.WriteString(`>`)
		buf.WriteString(sym.Inner)
		buf.WriteString(`</symbol>`)
	}
	buf.WriteString(`</svg>`)
	return buf.Bytes()
}

var exampleTemplate = template.Must(template.New("example").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:sans-serif;margin:2em}
ul{list-style:none;padding:0;display:flex;flex-wrap:wrap;gap:1em}
li{width:8em;text-align:center}
svg.icon{width:3em;height:3em}
code{font-size:.75em;word-break:break-all}
</style>
</head>
<body>
<div style="display:none">{{.Sprite}}</div>
<h1>{{.Title}}</h1>
<ul>
{{range .Symbols}}<li><svg class="icon"><use xlink:href="#{{.ID}}"></use></svg><br><code>{{.ID}}</code></li>
{{end}}</ul>
</body>
</html>
`))

func renderExample(filename string, sprite []byte, symbols []symbol) ([]byte, error) {
	var buf bytes.Buffer
	err := exampleTemplate.Execute(&buf, struct {
		Title   string
		Sprite  template.HTML
		Symbols []symbol
	}{
		Title:   filename,
		Sprite:  template.HTML(sprite), //nolint:gosec // Sprite is built from local project files
		Symbols: symbols,
	})
	return buf.Bytes(), err
}

// exampleName maps sprite.symbol.svg to sprite.symbol.html.
func exampleName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".html"
}
