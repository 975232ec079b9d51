package render

import "strings"

var (
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&#34;",
		"'", "&#39;",
	)

	// attrEscaper also escapes whitespace that would otherwise be
	// normalised by the attribute parser.
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&#34;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

// escapeHTML escapes text content. It produces the same entities as
// html.EscapeString.
func escapeHTML(s string) string { return htmlEscaper.Replace(s) }

// escapeAttr escapes an attribute value.
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
