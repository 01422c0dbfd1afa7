package loader

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// extractTXT passes plain text through with line-ending normalization.
func extractTXT(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	text := string(content)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, nil
}
