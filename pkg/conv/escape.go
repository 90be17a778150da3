package conv

import "strings"

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"~", `\~`,
	"#", `\#`,
	"<", "&lt;",
	">", "&gt;",
)

// EscapeMarkdown makes dataset text safe to splice into markdown before it
// goes through MarkdownToTelegramHTML.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
