package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
)

// SyntaxRenderer highlights a whole document based on its file name
type SyntaxRenderer struct {
	filename    string
	lexerName   string
	syntaxTheme string
}

// NewSyntaxRenderer creates a syntax highlighting renderer for the given filename
func NewSyntaxRenderer(filename string) *SyntaxRenderer {
	lexer := lexers.Match(filename)
	lexerName := "plaintext"
	if lexer != nil {
		lexerName = lexer.Config().Name
	}

	return &SyntaxRenderer{
		filename:    filename,
		lexerName:   lexerName,
		syntaxTheme: "monokai",
	}
}

// Lexer returns the chroma lexer name in use
func (r *SyntaxRenderer) Lexer() string {
	return r.lexerName
}

// Lines highlights content and splits it into display lines.
// On a highlighting failure the plain lines are returned.
func (r *SyntaxRenderer) Lines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, string(content), r.lexerName, "terminal256", r.syntaxTheme); err != nil {
		return splitLines(string(content))
	}
	return splitLines(buf.String())
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
