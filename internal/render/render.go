// Package render turns post markdown into HTML for the admin preview.
package render

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/folio/internal/cache"
	"github.com/debemdeboas/folio/internal/util"
)

var renderLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// cssVariant names the formatter options below; stylesheets are cached per
// variant and theme.
const cssVariant = "classes+lines"

func formatter() *chromahtml.Formatter {
	return chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.TabWidth(4),
		chromahtml.WithLineNumbers(true),
		chromahtml.WrapLongLines(true),
	)
}

func style(name string) *chroma.Style {
	if s := styles.Get(name); s != nil {
		return s
	}
	return styles.Fallback
}

func HighlightCode(code, language, syntaxTheme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return html.EscapeString(code)
	}

	var buf strings.Builder
	if err := formatter().Format(&buf, style(syntaxTheme), iterator); err != nil {
		return html.EscapeString(code)
	}
	return buf.String()
}

// Markdown renders md with fenced code blocks highlighted in syntaxTheme.
func Markdown(md []byte, syntaxTheme string) []byte {
	opts := md_html.RendererOptions{
		Flags: md_html.CommonFlags | md_html.HrefTargetBlank | md_html.FootnoteReturnLinks,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if code, ok := node.(*ast.CodeBlock); ok && entering {
				var lang string
				if info := code.Info; info != nil {
					lang = string(info)
				}
				highlighted := HighlightCode(string(code.Literal), lang, syntaxTheme)
				fmt.Fprintf(w, "<div class=\"highlight\">%s</div>", highlighted)
				return ast.GoToNext, true
			}
			return ast.GoToNext, false
		},
	}

	doc := parser.NewWithExtensions(
		parser.Tables | parser.FencedCode | parser.Autolink | parser.Strikethrough | parser.SpaceHeadings |
			parser.HeadingIDs | parser.BackslashLineBreak | parser.SuperSubscript | parser.DefinitionLists |
			parser.AutoHeadingIDs | parser.Footnotes | parser.OrderedListStart | parser.NoIntraEmphasis,
	).Parse(markdown.NormalizeNewlines(md))

	return markdown.Render(doc, md_html.NewRenderer(opts))
}

// Mutex to protect the check-render-set operation in MarkdownCached
var renderCacheMutex sync.Mutex

// MarkdownCached renders md once per content hash and theme.
func MarkdownCached(md []byte, syntaxTheme string) []byte {
	contentHash := util.ContentHash(md)

	if cached, found := cache.GetRenderedMarkdown(contentHash, syntaxTheme); found {
		renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", syntaxTheme).Msg("Cache hit for rendered markdown")
		return cached.HTML
	}

	renderCacheMutex.Lock()
	defer renderCacheMutex.Unlock()

	if cached, found := cache.GetRenderedMarkdown(contentHash, syntaxTheme); found {
		return cached.HTML
	}

	renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", syntaxTheme).Msg("Cache miss for rendered markdown")
	rendered := Markdown(md, syntaxTheme)
	cache.SetRenderedMarkdown(contentHash, syntaxTheme, rendered)
	return rendered
}

// SyntaxCSS is the stylesheet for the classes HighlightCode emits.
func SyntaxCSS(syntaxTheme string) template.CSS {
	if css, ok := cache.GetSyntaxCSS(cssVariant, syntaxTheme); ok {
		return css
	}

	var buf strings.Builder
	s := style(syntaxTheme)

	bg := s.Get(chroma.Background)
	if !bg.Colour.IsSet() {
		// Pick a readable text colour when the style only sets a background
		luminance := (0.299*float64(bg.Background.Red()) +
			0.587*float64(bg.Background.Green()) +
			0.114*float64(bg.Background.Blue())) / 255
		if luminance > 0.5 {
			buf.WriteString(".chroma { color: #181818; }\n")
		}
	}

	if err := formatter().WriteCSS(&buf, s); err != nil {
		renderLogger.Error().Err(err).Str("syntaxTheme", syntaxTheme).Msg("Error writing syntax CSS")
	}
	css := template.CSS(buf.String())
	cache.SetSyntaxCSS(cssVariant, syntaxTheme, css)
	return css
}

// SyntaxThemes lists the chroma style names, sorted.
func SyntaxThemes() []string {
	names := styles.Names()
	slices.Sort(names)
	return names
}

// IsSyntaxTheme reports whether name is one of SyntaxThemes.
func IsSyntaxTheme(name string) bool {
	_, found := slices.BinarySearch(SyntaxThemes(), name)
	return found
}
