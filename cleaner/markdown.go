package cleaner

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// newMarkdownConverter creates a reusable, goroutine-safe Converter.
//
//   - base: drops script, style, iframe, noscript, head, meta, link and
//     comments that survived the first-instance DOM cleanup.
//   - commonmark: headings, lists, links, code blocks, emphasis.
//   - table: keeps tables, with minimal cell padding.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// toMarkdown converts cleaned HTML to Markdown. Relative links and image
// sources are resolved against pageURL.
func toMarkdown(conv *converter.Converter, htmlContent, pageURL string) (string, error) {
	return conv.ConvertString(htmlContent, converter.WithDomain(pageURL))
}
