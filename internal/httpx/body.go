package httpx

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// detailMaxLength bounds StatusError.Detail.
const detailMaxLength = 300

// CloseWithLog closes c and logs, rather than returns, any error.
func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}

// TruncateString shortens s to maxLen bytes and records the original length.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:maxLen], len(s))
}

// summarizeBody turns an error body into a short diagnostic string. HTML error
// pages (wttr.in serves them for unknown locations and outages) are converted
// to Markdown so the text is readable in a log line.
func summarizeBody(contentType string, body []byte) string {
	text := string(body)
	if strings.Contains(strings.ToLower(contentType), "html") || looksLikeHTML(text) {
		if markdown, err := htmltomarkdown.ConvertString(text); err == nil {
			text = markdown
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	return TruncateString(text, detailMaxLength)
}

func looksLikeHTML(s string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(trimmed, "<!doctype html") || strings.HasPrefix(trimmed, "<html")
}
