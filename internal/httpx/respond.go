package httpx

import (
	"net/http"
	"strings"
)

const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
)

// HTML writes body with the HTML content type and the given status.
func HTML(w http.ResponseWriter, status int, body string) {
	write(w, status, ContentTypeHTML, []byte(body))
}

// Text writes a short plain-text message. Messages are flattened to one line so
// operator detail never spills into multi-line bodies.
func Text(w http.ResponseWriter, status int, msg string) {
	write(w, status, ContentTypeText, []byte(sanitize(msg, 512)))
}

// Bytes writes a raw body with an explicit content type.
func Bytes(w http.ResponseWriter, status int, contentType string, body []byte) {
	write(w, status, contentType, body)
}

// PermanentRedirect issues a method-preserving 308 to location.
func PermanentRedirect(w http.ResponseWriter, location string) {
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusPermanentRedirect)
}

func write(w http.ResponseWriter, status int, contentType string, body []byte) {
	if status == 0 {
		status = http.StatusOK
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func sanitize(value string, limit int) string {
	if limit <= 0 {
		limit = 256
	}
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.TrimSpace(value)
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}
