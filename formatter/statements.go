package formatter

import (
	"fmt"
	"strings"

	"github.com/gnolang/tdup/internal/token"
	tt "github.com/gnolang/tdup/internal/types"
)

// FormatStatements lists the statements of a report, one per line,
// prefixed with the line span they cover.
//
//	main.go (go: 14 tokens, 2 statements)
//	  3 | var a = INTEGER
//	4-6 | func f ( )
func FormatStatements(report tt.FileReport) string {
	var b strings.Builder

	b.WriteString(fileStyle.Sprint(report.Filename))
	summary := fmt.Sprintf(" (%s: %d tokens, %d statements", report.Language, report.Tokens, len(report.Statements))
	if n := len(report.Unmatched); n > 0 {
		summary += fmt.Sprintf(", %d unmatched", n)
	}
	b.WriteString(noStyle.Sprint(summary + ")"))
	b.WriteString("\n")

	spans := make([]string, len(report.Statements))
	width := 0
	for i, st := range report.Statements {
		spans[i] = lineSpan(st.StartLine, st.EndLine)
		width = max(width, len(spans[i]))
	}
	for i, st := range report.Statements {
		b.WriteString(lineStyle.Sprintf("%*s | ", width, spans[i]))
		b.WriteString(st.Value)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatTokens lists tokens as line:column followed by the value.
func FormatTokens(filename string, tokens []token.Token) string {
	var b strings.Builder
	b.WriteString(fileStyle.Sprintf("%s (%d tokens)\n", filename, len(tokens)))

	positions := make([]string, len(tokens))
	width := 0
	for i, t := range tokens {
		positions[i] = fmt.Sprintf("%s:%d", lineSpan(t.Line, t.EndLine), t.Column)
		width = max(width, len(positions[i]))
	}
	for i, t := range tokens {
		b.WriteString(lineStyle.Sprintf("%-*s ", width, positions[i]))
		b.WriteString(t.Value)
		b.WriteString("\n")
	}
	return b.String()
}

func lineSpan(start, end int) string {
	if end <= start {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}
