package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ANSI palette. Styling is skipped entirely when stdout is not a terminal or
// NO_COLOR is set, so piped output stays clean.
const (
	codeReset  = "\x1b[0m"
	codeBold   = "\x1b[1m"
	codeDim    = "\x1b[2m"
	codeRed    = "\x1b[31m"
	codeGreen  = "\x1b[32m"
	codeYellow = "\x1b[33m"
	codeBlue   = "\x1b[34m"
	codeHeader = "\x1b[1;35m"
)

var colorEnabled = func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}()

func styled(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + codeReset
}

func Bold(text string) string   { return styled(codeBold, text) }
func Dim(text string) string    { return styled(codeDim, text) }
func Red(text string) string    { return styled(codeRed, text) }
func Green(text string) string  { return styled(codeGreen, text) }
func Yellow(text string) string { return styled(codeYellow, text) }
func Blue(text string) string   { return styled(codeBlue, text) }

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", styled(codeHeader, upper), Dim(line))
}

// ActionColor styles an audit action: green for CREATE, yellow for UPDATE,
// red for DELETE.
func ActionColor(action string) string {
	switch action {
	case "CREATE":
		return Green(action)
	case "UPDATE":
		return Yellow(action)
	case "DELETE":
		return Red(action)
	default:
		return Dim(action)
	}
}
