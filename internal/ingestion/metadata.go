package ingestion

import (
	"net/url"
	"path"
	"strings"
)

// InferSourceID derives a citation label from a document URL. Explicit IDs
// passed on the command line take precedence; this is the best-effort
// fallback when the user doesn't provide one.
//
// Recognized URL patterns:
//
//	arxiv.org/abs/{id}        -> "arxiv:{id}"
//	arxiv.org/pdf/{id}        -> "arxiv:{id}"
//	export.arxiv.org/abs/{id} -> "arxiv:{id}"
//
// Anything else falls back to the last path segment, or the hostname when
// the path is empty.
func InferSourceID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	host := strings.ToLower(parsed.Hostname())
	segments := trimSegments(parsed.Path)

	if host == "arxiv.org" || host == "export.arxiv.org" || host == "www.arxiv.org" {
		if id := arxivID(segments); id != "" {
			return "arxiv:" + id
		}
	}

	if len(segments) > 0 {
		last := segments[len(segments)-1]
		if ext := path.Ext(last); ext != "" {
			last = strings.TrimSuffix(last, ext)
		}
		if last != "" {
			return last
		}
	}
	if host != "" {
		return host
	}
	return rawURL
}

// arxivID extracts the paper identifier from arxiv.org path segments like
// ["abs", "2405.10467"] or ["pdf", "2405.10467v2"].
func arxivID(segments []string) string {
	if len(segments) < 2 {
		return ""
	}
	switch segments[0] {
	case "abs", "pdf":
		id := segments[1]
		id = strings.TrimSuffix(id, ".pdf")
		// Strip a version suffix: 2405.10467v2 -> 2405.10467.
		if i := strings.LastIndex(id, "v"); i > 0 {
			if isDigits(id[i+1:]) && i+1 < len(id) {
				id = id[:i]
			}
		}
		return id
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// trimSegments splits a URL path into non-empty segments.
func trimSegments(p string) []string {
	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
