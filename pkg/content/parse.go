// Package content classifies raw model output into renderable forms.
//
// The backend is prompted to return either raw JSON, a single fenced code
// block, or prose, but model output formatting is not contractually
// guaranteed. Every function here is permissive and degrades to prose
// instead of erroring.
package content

import (
	"encoding/json"
	"strings"
)

// HashtagBuckets is the decoded hashtag-tool payload, grouped by competition.
type HashtagBuckets struct {
	High   []string `json:"high"`
	Medium []string `json:"medium"`
	Niche  []string `json:"niche"`
}

// Total returns the number of hashtags across all buckets.
func (b *HashtagBuckets) Total() int {
	if b == nil {
		return 0
	}
	return len(b.High) + len(b.Medium) + len(b.Niche)
}

// All returns every hashtag in bucket order, for copy-all actions.
func (b *HashtagBuckets) All() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, b.Total())
	out = append(out, b.High...)
	out = append(out, b.Medium...)
	out = append(out, b.Niche...)
	return out
}

// CodeBlock is the extracted body of a code-producing tool response.
type CodeBlock struct {
	Language string
	Code     string
}

// PreviewCapable reports whether the block can be rendered as a live
// preview rather than only as source.
func (c CodeBlock) PreviewCapable() bool {
	switch c.Language {
	case "html", "xml", "svg":
		return true
	default:
		return false
	}
}

// ParseHashtagBuckets strips any fenced-code markers and attempts a strict
// JSON decode of the hashtag bucket shape. The second return is false on any
// decode failure; callers fall back to rendering the raw text as markdown.
func ParseHashtagBuckets(text string) (*HashtagBuckets, bool) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || !strings.HasPrefix(cleaned, "{") {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	var buckets HashtagBuckets
	if err := dec.Decode(&buckets); err != nil {
		return nil, false
	}
	// Trailing non-whitespace after the object means this was prose that
	// merely started with a brace.
	var extra json.RawMessage
	if err := dec.Decode(&extra); err == nil {
		return nil, false
	}
	return &buckets, true
}

// ParseCodeBlock extracts the first triple-backtick fenced block from text.
// The language tag immediately after the opening fence is lower-cased and
// defaults to "text". Input with no fence that starts with an HTML document
// marker is treated as a whole-document html block; anything else comes back
// verbatim as language "text". Never fails.
func ParseCodeBlock(text string) CodeBlock {
	if open := strings.Index(text, "```"); open >= 0 {
		rest := text[open+3:]
		lang := "text"
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			tag := strings.ToLower(strings.TrimSpace(rest[:nl]))
			if tag != "" && !strings.ContainsAny(tag, " \t`") {
				lang = tag
			}
			rest = rest[nl+1:]
		}
		body := rest
		if end := strings.Index(rest, "```"); end >= 0 {
			body = rest[:end]
		}
		return CodeBlock{Language: lang, Code: strings.TrimSpace(body)}
	}

	trimmed := strings.TrimSpace(text)
	lowered := strings.ToLower(trimmed)
	if strings.HasPrefix(lowered, "<html") || strings.HasPrefix(lowered, "<!doctype") {
		return CodeBlock{Language: "html", Code: trimmed}
	}
	return CodeBlock{Language: "text", Code: text}
}
