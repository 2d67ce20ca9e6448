// Package pdfmeta extracts document metadata from a PDF prefix. The
// validator only downloads the first part of a file, so everything here is
// best effort over a possibly truncated document: absent fields stay empty
// and the caller falls back to its URL-derived title.
package pdfmeta

import (
	"bytes"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotPDF is returned when the data does not start with a PDF header.
var ErrNotPDF = errors.New("data is not a PDF document")

// Info is the metadata recoverable from a document prefix. Zero values mean
// the field was not present or not parseable.
type Info struct {
	Title  string
	Author string
	Year   string
	Pages  int
}

var (
	titlePattern    = regexp.MustCompile(`/Title\s*(?:\(((?:\\.|[^\\()])*)\)|<([0-9a-fA-F]+)>)`)
	authorPattern   = regexp.MustCompile(`/Author\s*(?:\(((?:\\.|[^\\()])*)\)|<([0-9a-fA-F]+)>)`)
	creationPattern = regexp.MustCompile(`/CreationDate\s*\(D:(\d{4})`)
	countPattern    = regexp.MustCompile(`/Type\s*/Pages[^>]*?/Count\s+(\d+)`)
	countAltPattern = regexp.MustCompile(`/Count\s+(\d+)[^>]*?/Type\s*/Pages`)
	pageObjPattern  = regexp.MustCompile(`/Type\s*/Page[^s]`)
	literalText     = regexp.MustCompile(`\(((?:\\.|[^\\()])+)\)\s*T[jJ]`)
)

// Extract parses Info-dictionary fields out of a PDF prefix.
func Extract(data []byte) (Info, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return Info{}, ErrNotPDF
	}
	content := string(data)

	info := Info{
		Title:  matchString(titlePattern, content),
		Author: matchString(authorPattern, content),
		Pages:  pageCount(content),
	}
	if m := creationPattern.FindStringSubmatch(content); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil && y >= 1000 && y <= 2999 {
			info.Year = m[1]
		}
	}
	return info, nil
}

// PlausibleTitle scans text drawn on the earliest pages of the prefix for a
// line whose length sits in [minLen, maxLen]. It is the fallback when the
// Info dictionary carries no usable title.
func PlausibleTitle(data []byte, minLen, maxLen int) string {
	for _, m := range literalText.FindAllSubmatch(data, 64) {
		line := strings.TrimSpace(decodeLiteral(string(m[1])))
		if n := len(line); n >= minLen && n <= maxLen {
			return line
		}
	}
	return ""
}

func matchString(p *regexp.Regexp, content string) string {
	m := p.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return decodeLiteral(m[1])
	}
	return decodeHex(m[2])
}

func pageCount(content string) int {
	if m := countPattern.FindStringSubmatch(content); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if m := countAltPattern.FindStringSubmatch(content); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	// Truncated page tree: count individual page objects seen so far.
	return len(pageObjPattern.FindAllString(content, -1))
}

// decodeLiteral resolves PDF literal-string escapes.
func decodeLiteral(s string) string {
	replacer := strings.NewReplacer(
		`\n`, "\n",
		`\r`, "\r",
		`\t`, "\t",
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
	)
	return strings.TrimSpace(replacer.Replace(s))
}

// decodeHex resolves hex strings, handling the UTF-16BE BOM form commonly
// produced by office tooling.
func decodeHex(s string) string {
	if len(s)%2 != 0 {
		s = s[:len(s)-1]
	}
	raw := make([]byte, 0, len(s)/2)
	for i := 0; i+1 < len(s); i += 2 {
		b, err := strconv.ParseUint(s[i:i+2], 16, 8)
		if err != nil {
			return ""
		}
		raw = append(raw, byte(b))
	}
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		// UTF-16BE: keep the low byte of each pair; good enough for the
		// Latin titles this pipeline catalogs.
		var sb strings.Builder
		for i := 2; i+1 < len(raw); i += 2 {
			if raw[i] == 0 && raw[i+1] != 0 {
				sb.WriteByte(raw[i+1])
			}
		}
		return strings.TrimSpace(sb.String())
	}
	return strings.TrimSpace(string(raw))
}
