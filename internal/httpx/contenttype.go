package httpx

import (
	"path"
	"strings"
)

const ContentTypeBinary = "application/octet-stream"

var contentTypes = map[string]string{
	"html": ContentTypeHTML,
	"htm":  ContentTypeHTML,
	"css":  "text/css; charset=utf-8",
	"js":   "application/javascript; charset=utf-8",
	"json": "application/json; charset=utf-8",
	"svg":  "image/svg+xml",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"wasm": "application/wasm",
	"txt":  ContentTypeText,
}

// ContentTypeFor maps a file name to a content type by extension. The table is
// fixed; unknown or missing extensions are served as opaque bytes.
func ContentTypeFor(name string) string {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return ContentTypeBinary
}
