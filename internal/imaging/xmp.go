package imaging

import (
	"bytes"
	"regexp"
	"strings"
)

var (
	xmpStart = []byte("<x:xmpmeta")
	xmpEnd   = []byte("</x:xmpmeta>")

	creatorToolAttr    = regexp.MustCompile(`xmp:CreatorTool\s*=\s*"([^"]*)"`)
	creatorToolElement = regexp.MustCompile(`<xmp:CreatorTool>([^<]*)</xmp:CreatorTool>`)
)

// findXMP locates an XMP packet anywhere in the file. Every supported
// container stores the packet as plain text, so a byte search is enough.
func findXMP(data []byte) []byte {
	start := bytes.Index(data, xmpStart)
	if start < 0 {
		return nil
	}
	end := bytes.Index(data[start:], xmpEnd)
	if end < 0 {
		return nil
	}
	return data[start : start+end+len(xmpEnd)]
}

// CreatorTool returns the xmp:CreatorTool value, written either as an
// attribute or as an element.
func (img *Image) CreatorTool() string {
	if img == nil || len(img.XMP) == 0 {
		return ""
	}
	for _, re := range []*regexp.Regexp{creatorToolAttr, creatorToolElement} {
		if match := re.FindSubmatch(img.XMP); match != nil {
			if value := strings.TrimSpace(string(match[1])); value != "" {
				return value
			}
		}
	}
	return ""
}
