package showcase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/SummonTheCat/smn-site-ciri/internal/observability"
	"github.com/SummonTheCat/smn-site-ciri/internal/page"
	"github.com/SummonTheCat/smn-site-ciri/internal/projecttree"
)

func nestedForest() *projecttree.Forest {
	return projecttree.NewForest([]projecttree.Node{
		{Name: "A", Path: "/projects/a", Children: []projecttree.Node{
			{Name: "B", Path: "/projects/a/b"},
		}},
		{Name: "Ab", Path: "/projects/ab"},
	})
}

func TestResolveListPage(t *testing.T) {
	t.Parallel()

	for _, rel := range []string{"", "/", "//"} {
		d := Resolve(nestedForest(), "/projects"+rel, rel)
		require.Equal(t, OutcomeList, d.Outcome, rel)
		require.Nil(t, d.Node)
	}
}

func TestResolveLongestPrefix(t *testing.T) {
	t.Parallel()

	d := Resolve(nestedForest(), "/projects/a/b/", "a/b")
	require.Equal(t, OutcomeRender, d.Outcome)
	require.Equal(t, "/projects/a/b", d.Node.Path)

	d = Resolve(nestedForest(), "/projects/a/", "a")
	require.Equal(t, OutcomeRender, d.Outcome)
	require.Equal(t, "/projects/a", d.Node.Path)
}

func TestResolveRedirectsWithoutTrailingSlash(t *testing.T) {
	t.Parallel()

	d := Resolve(nestedForest(), "/projects/a/b", "a/b")
	require.Equal(t, OutcomeRedirect, d.Outcome)
	require.Equal(t, "/projects/a/b/", d.Location)
}

func TestResolveRemainderIsNotFound(t *testing.T) {
	t.Parallel()

	d := Resolve(nestedForest(), "/projects/a/b/cover.png", "a/b/cover.png")
	require.Equal(t, OutcomeNotFound, d.Outcome)
	require.Equal(t, "/projects/a/b", d.Node.Path)
	require.Equal(t, "cover.png", d.Remainder)
}

func TestResolveUsesSegmentBoundary(t *testing.T) {
	t.Parallel()

	// "/projects/a" is a substring of "/projects/abc" but not a path prefix.
	d := Resolve(nestedForest(), "/projects/abc/", "abc")
	require.Equal(t, OutcomeNotFound, d.Outcome)
	require.Nil(t, d.Node)

	d = Resolve(nestedForest(), "/projects/ab/", "ab")
	require.Equal(t, OutcomeRender, d.Outcome)
	require.Equal(t, "/projects/ab", d.Node.Path)
}

func TestLongestMatchFirstSeenWinsTie(t *testing.T) {
	t.Parallel()

	forest := projecttree.NewForest([]projecttree.Node{
		{Name: "first", Path: "/projects/x"},
		{Name: "second", Path: "/projects/x"},
	})
	require.Equal(t, "first", LongestMatch(forest, "/projects/x/").Name)
}

type fixture struct {
	treeFile string
	dataDir  string
	tmplPath string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		treeFile: filepath.Join(root, "displayProjectList.json"),
		dataDir:  filepath.Join(root, "projectData"),
		tmplPath: filepath.Join(root, "projectpage.html"),
	}
	write(t, f.treeFile, `{"project_tree": [
		{"name": "Game Design", "path": "/projects/game_design", "children": [
			{"name": "Convoy", "path": "/projects/game_design/convoy"},
			{"name": "Ghost", "path": "/projects/game_design/ghost"},
			{"name": "Broken", "path": "/projects/game_design/broken"},
			{"name": "No Body", "path": "/projects/game_design/nobody"}
		]}
	]}`)
	write(t, f.tmplPath, `<title>{{TITLE}}</title><aside>{{SIDEBAR}}</aside><main>{{CONTENT}}</main>`)
	write(t, filepath.Join(f.dataDir, "game_design", "convoy", "projectData.json"),
		`{"project_name": "Convoy", "project_description": "Caravans.", "project_content": "body.md"}`)
	write(t, filepath.Join(f.dataDir, "game_design", "convoy", "body.md"), "## Story\n\nOn the road.")
	write(t, filepath.Join(f.dataDir, "game_design", "broken", "projectData.json"), `{"project_name": `)
	write(t, filepath.Join(f.dataDir, "game_design", "nobody", "project.json"),
		`{"project_name": "No Body", "project_content": "missing.md"}`)
	return f
}

func write(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func (f fixture) handler() *Handler {
	cfg := HandlerConfig{Prefix: "/projects", TreeFile: f.treeFile, DataDir: f.dataDir}
	return NewHandler(cfg, page.NewComposer(page.WithTemplatePath(f.tmplPath), page.WithPrefix(cfg.Prefix)))
}

func serve(ctx context.Context, h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerListPage(t *testing.T) {
	t.Parallel()

	rec := serve(context.Background(), newFixture(t).handler(), http.MethodGet, "/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	require.Equal(t, "Projects", doc.Find("title").Text())
	require.Equal(t, 5, doc.Find("a.project-link").Length())
}

func TestHandlerProjectPage(t *testing.T) {
	t.Parallel()

	rec := serve(context.Background(), newFixture(t).handler(), http.MethodGet, "/projects/game_design/convoy/")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	require.Equal(t, "Convoy", doc.Find("title").Text())
	require.Equal(t, "Caravans.", doc.Find("p.project-description").Text())
	require.Equal(t, "Story", doc.Find("section.project-content h2.md-h2").Text())
	require.Equal(t, "Convoy", doc.Find("a.project-link.selected").Text())
}

func TestHandlerRedirect(t *testing.T) {
	t.Parallel()

	rec := serve(context.Background(), newFixture(t).handler(), http.MethodPost, "/projects/game_design/convoy")
	require.Equal(t, http.StatusPermanentRedirect, rec.Code)
	require.Equal(t, "/projects/game_design/convoy/", rec.Header().Get("Location"))
}

func TestHandlerNotFound(t *testing.T) {
	t.Parallel()

	h := newFixture(t).handler()

	rec := serve(context.Background(), h, http.MethodGet, "/projects/unknown/")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Project Not Found", rec.Body.String())

	rec = serve(context.Background(), h, http.MethodGet, "/projects/game_design/convoy/cover.png")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Not Found", rec.Body.String())
}

func TestHandlerMissingMetadataIs404(t *testing.T) {
	t.Parallel()

	rec := serve(context.Background(), newFixture(t).handler(), http.MethodGet, "/projects/game_design/ghost/")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Project Not Found", rec.Body.String())
	require.NotContains(t, rec.Header().Get("Content-Type"), "html")
}

func TestHandlerMalformedMetadataIs500(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := observability.WithLogger(context.Background(), zap.New(core))

	rec := serve(ctx, newFixture(t).handler(), http.MethodGet, "/projects/game_design/broken/")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Internal Server Error", rec.Body.String())
	require.Len(t, logs.FilterLevelExact(zapcore.ErrorLevel).All(), 1)
}

func TestHandlerMissingMarkdownStillRenders(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := observability.WithLogger(context.Background(), zap.New(core))

	rec := serve(ctx, newFixture(t).handler(), http.MethodGet, "/projects/game_design/nobody/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "project-content")
	require.Contains(t, rec.Body.String(), `<h1 class="project-title">No Body</h1>`)

	warnings := logs.FilterMessage("markdown load error").All()
	require.Len(t, warnings, 1)
	require.Equal(t, "showcase", warnings[0].LoggerName)
}

func TestHandlerTreeLoadFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.treeFile = filepath.Join(t.TempDir(), "absent.json")

	rec := serve(context.Background(), f.handler(), http.MethodGet, "/projects/")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Internal Server Error", rec.Body.String())
	require.False(t, strings.Contains(rec.Body.String(), "absent.json"))
}

func TestHandlerRereadsTreeEachRequest(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	h := f.handler()

	rec := serve(context.Background(), h, http.MethodGet, "/projects/late/")
	require.Equal(t, http.StatusNotFound, rec.Code)

	write(t, f.treeFile, `{"project_tree": [{"name": "Late", "path": "/projects/late"}]}`)
	write(t, filepath.Join(f.dataDir, "late", "projectData.json"), `{"project_name": "Late"}`)

	rec = serve(context.Background(), h, http.MethodGet, "/projects/late/")
	require.Equal(t, http.StatusOK, rec.Code)
}
