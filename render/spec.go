package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/aallbrig/compspec/models"
	"github.com/aallbrig/compspec/spec"
)

// HighlightStyle is the chroma style used for terminal output.
const HighlightStyle = "monokai"

// WriteSpec writes the carapace spec of cmd to w, highlighted when asked.
func WriteSpec(w io.Writer, cmd *models.Command, highlight bool) error {
	if !highlight {
		return spec.Generator{}.Generate(cmd, w)
	}
	data, err := spec.Marshal(cmd)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, Highlight(string(data))); err != nil {
		return fmt.Errorf("write spec: %w", err)
	}
	return nil
}

// Highlight colors YAML for a 256-color terminal. It returns the input
// unchanged if tokenizing fails.
func Highlight(doc string) string {
	lexer := lexers.Get("yaml")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := chromaStyles.Get(HighlightStyle)
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	it, err := lexer.Tokenise(nil, doc)
	if err != nil {
		return doc
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, it); err != nil {
		return doc
	}
	return buf.String()
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// WriteFile writes the spec of cmd to dir/<name>.yaml on fs and returns the
// path written.
func WriteFile(fs afero.Fs, dir string, cmd *models.Command) (string, error) {
	data, err := spec.Marshal(cmd)
	if err != nil {
		return "", err
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, spec.Generator{}.FileName(cmd.Name))
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
