// Package components serves named HTML fragments. A request under the
// components mount is either routed to a registered Handler, which receives the
// resolved template and the request arguments, or served as a static file from
// the component root.
package components

import (
	"context"
	"net/http"

	"github.com/SummonTheCat/smn-site-ciri/internal/httpx"
)

// Handler produces a component response. Implementations are shared across
// requests and must not mutate their own state in Parse.
type Handler interface {
	// Name is the routing key, the first path segment after the mount prefix.
	Name() string
	// Parse renders the component. tmpl is nil when no template file exists.
	Parse(ctx context.Context, tmpl *Template, args []string) Response
}

// Template is a component template read from disk for one request.
type Template struct {
	Path string
	Body string
}

// Response is a complete component reply.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// HTMLResponse returns a 200 with the HTML content type.
func HTMLResponse(body []byte) Response {
	return Response{Status: http.StatusOK, ContentType: httpx.ContentTypeHTML, Body: body}
}

// TextResponse returns a plain-text reply with the given status.
func TextResponse(status int, msg string) Response {
	return Response{Status: status, ContentType: httpx.ContentTypeText, Body: []byte(msg)}
}

// Respond writes the response to w.
func (r Response) Respond(w http.ResponseWriter) {
	httpx.Bytes(w, r.Status, r.ContentType, r.Body)
}
