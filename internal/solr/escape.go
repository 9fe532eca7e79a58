package solr

import "strings"

// valueEscaper escapes every character reserved by the engine's query
// parser, including whitespace, for use inside a term position.
var valueEscaper = strings.NewReplacer(
	`\`, `\\`,
	`+`, `\+`,
	`-`, `\-`,
	`&`, `\&`,
	`|`, `\|`,
	`!`, `\!`,
	`(`, `\(`,
	`)`, `\)`,
	`{`, `\{`,
	`}`, `\}`,
	`[`, `\[`,
	`]`, `\]`,
	`^`, `\^`,
	`"`, `\"`,
	`~`, `\~`,
	`*`, `\*`,
	`?`, `\?`,
	`:`, `\:`,
	`/`, `\/`,
	` `, `\ `,
)

// EscapeValue escapes a literal term value for the query parser.
func EscapeValue(s string) string {
	return valueEscaper.Replace(s)
}

// textEscaper escapes reserved characters in free text while leaving
// double quotes alone so phrase spans survive.
var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`+`, `\+`,
	`-`, `\-`,
	`&`, `\&`,
	`|`, `\|`,
	`!`, `\!`,
	`(`, `\(`,
	`)`, `\)`,
	`{`, `\{`,
	`}`, `\}`,
	`[`, `\[`,
	`]`, `\]`,
	`^`, `\^`,
	`~`, `\~`,
	`*`, `\*`,
	`?`, `\?`,
	`:`, `\:`,
	`/`, `\/`,
)

// EscapeText escapes free query text. Double quotes are preserved when
// balanced so quoted phrases keep their meaning; an unbalanced quote
// is escaped like any other reserved character.
func EscapeText(s string) string {
	escaped := textEscaper.Replace(s)
	if strings.Count(escaped, `"`)%2 == 0 {
		return escaped
	}
	return strings.ReplaceAll(escaped, `"`, `\"`)
}
