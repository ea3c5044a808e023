package browser

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/alnah/go-office2pdf/internal/extract"
)

// htmlTemplate wraps the sanitized fragment in a complete HTML5 document.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s
</style>
</head>
<body class="%s">
%s
</body>
</html>`

const baseCSS = `@page { size: {{size}}; margin: 12mm; }
body { font-family: Helvetica, Arial, sans-serif; font-size: 11pt; color: #111; margin: 0; }
hr { break-after: page; border: 0; height: 0; margin: 0; }
h1, h2, h3 { break-after: avoid; }
em { color: #777; }
body.presentation h2 { text-align: center; font-size: 26pt; margin: 18% 0 8mm; }
body.presentation ul { font-size: 16pt; line-height: 1.4; }
body.presentation > p > em { display: block; text-align: center; margin-top: 30%; font-size: 18pt; }
body.spreadsheet h2 { text-align: center; font-size: 13pt; }
table { border-collapse: collapse; width: 100%; table-layout: fixed; font-size: 8pt; }
th, td { border: 1px solid #666; padding: 2px 4px; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; text-align: left; }
th { background: #eee; }`

// cssPageSizes maps page size names to CSS @page size keywords.
var cssPageSizes = map[string]string{
	"A4":     "A4",
	"Letter": "letter",
	"Legal":  "legal",
}

// htmlBuilder turns extracted content into a printable document.
type htmlBuilder struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newHTMLBuilder() *htmlBuilder {
	return &htmlBuilder{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough),
			goldmark.WithRendererOptions(gmhtml.WithXHTML()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Build renders c as a standalone HTML document for the given page size.
func (h *htmlBuilder) Build(c *extract.Content, pageSize string) (string, error) {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(Markdown(c)), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	body := h.policy.SanitizeBytes(buf.Bytes())

	size, ok := cssPageSizes[pageSize]
	if !ok {
		size = cssPageSizes["A4"]
	}
	if c.Category.Landscape() {
		size += " landscape"
	}

	css := strings.Replace(baseCSS, "{{size}}", size, 1)
	title := html.EscapeString(c.Category.Label())
	return fmt.Sprintf(htmlTemplate, title, css, c.Category.String(), strings.TrimSpace(string(body))), nil
}
