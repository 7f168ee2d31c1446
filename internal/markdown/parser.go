package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

// Parser renders the markdown users type into descriptions, bios and notes,
// and splits seed files into front matter and body.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

// Render converts markdown to HTML. Raw HTML in the source is dropped.
func (p *Parser) Render(source string) (string, error) {
	var buf bytes.Buffer
	err := p.md.Convert([]byte(source), &buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderOptional renders s when set and returns nil otherwise.
func (p *Parser) RenderOptional(s *string) (*string, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	html, err := p.Render(*s)
	if err != nil {
		return nil, err
	}
	return &html, nil
}

// Split decodes the YAML front matter of source into meta and returns the
// markdown body that follows it.
func (p *Parser) Split(source []byte, meta any) (body string, err error) {
	ctx := parser.NewContext()
	p.md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	data := frontmatter.Get(ctx)
	if data != nil {
		err = data.Decode(meta)
		if err != nil {
			return "", err
		}
	}

	return string(stripFrontmatter(source)), nil
}

func stripFrontmatter(source []byte) []byte {
	for _, delim := range []string{"---", "+++"} {
		open := []byte(delim + "\n")
		if !bytes.HasPrefix(source, open) {
			continue
		}
		rest := source[len(open):]
		closing := []byte("\n" + delim)
		idx := bytes.Index(rest, closing)
		if idx < 0 {
			return source
		}
		body := rest[idx+len(closing):]
		return bytes.TrimLeft(body, "\r\n")
	}
	return source
}
