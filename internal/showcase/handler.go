package showcase

import (
	"errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/SummonTheCat/smn-site-ciri/internal/httpx"
	"github.com/SummonTheCat/smn-site-ciri/internal/observability"
	"github.com/SummonTheCat/smn-site-ciri/internal/page"
	"github.com/SummonTheCat/smn-site-ciri/internal/projectinfo"
	"github.com/SummonTheCat/smn-site-ciri/internal/projecttree"
)

const (
	bodyInternalError   = "Internal Server Error"
	bodyProjectNotFound = "Project Not Found"
	bodyNotFound        = "Not Found"
)

// HandlerConfig locates the showcase data on disk.
type HandlerConfig struct {
	// Prefix is the mount prefix, e.g. "/projects".
	Prefix   string
	TreeFile string
	DataDir  string
}

// Handler serves the project list and project pages. The tree and metadata
// are read from disk on every request.
type Handler struct {
	cfg      HandlerConfig
	composer *page.Composer
}

// NewHandler constructs a Handler. A nil composer gets the defaults.
func NewHandler(cfg HandlerConfig, composer *page.Composer) *Handler {
	cfg.Prefix = strings.TrimRight(strings.TrimSpace(cfg.Prefix), "/")
	if cfg.Prefix == "" {
		cfg.Prefix = page.DefaultPrefix
	}
	if composer == nil {
		composer = page.NewComposer(page.WithPrefix(cfg.Prefix))
	}
	return &Handler{cfg: cfg, composer: composer}
}

// ServeHTTP expects the full request path; it strips the prefix itself.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := observability.Tracer().Start(r.Context(), "showcase.serve")
	defer span.End()
	logger := observability.FromContext(ctx).Named("showcase")

	reqPath := r.URL.Path
	relPath := strings.Trim(strings.TrimPrefix(reqPath, h.cfg.Prefix), "/")

	forest, err := projecttree.Load(h.cfg.TreeFile)
	if err != nil {
		logger.Error("failed to load project structure", zap.String("tree_file", h.cfg.TreeFile), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "tree load failed")
		httpx.Text(w, http.StatusInternalServerError, bodyInternalError)
		return
	}

	decision := Resolve(forest, reqPath, relPath)
	span.SetAttributes(attribute.String("showcase.outcome", decision.Outcome.String()))
	if decision.Node != nil {
		span.SetAttributes(attribute.String("showcase.project", decision.Node.Path))
	}

	switch decision.Outcome {
	case OutcomeList:
		httpx.HTML(w, http.StatusOK, h.composer.BuildListPage(ctx, forest, reqPath, relPath))
	case OutcomeNotFound:
		if decision.Node == nil {
			httpx.Text(w, http.StatusNotFound, bodyProjectNotFound)
			return
		}
		httpx.Text(w, http.StatusNotFound, bodyNotFound)
	case OutcomeRedirect:
		httpx.PermanentRedirect(w, decision.Location)
	case OutcomeRender:
		h.renderProject(w, r.WithContext(ctx), forest, decision.Node, relPath, logger)
	}
}

func (h *Handler) renderProject(w http.ResponseWriter, r *http.Request, forest *projecttree.Forest, node *projecttree.Node, relPath string, logger *zap.Logger) {
	ctx := r.Context()
	projectRel := strings.TrimLeft(strings.TrimPrefix(node.Path, h.cfg.Prefix), "/")

	info, err := projectinfo.LoadInfo(h.cfg.DataDir, projectRel)
	if err != nil {
		if errors.Is(err, projectinfo.ErrNotFound) {
			logger.Warn("project info not found", zap.String("project", projectRel), zap.Error(err))
			httpx.Text(w, http.StatusNotFound, bodyProjectNotFound)
			return
		}
		logger.Error("failed to load project info", zap.String("project", projectRel), zap.Error(err))
		httpx.Text(w, http.StatusInternalServerError, bodyInternalError)
		return
	}

	body, err := projectinfo.LoadMarkdown(h.cfg.DataDir, projectRel, info.ContentPath)
	if err != nil {
		logger.Warn("markdown load error",
			zap.String("project", projectRel),
			zap.String("content_path", info.ContentPath),
			zap.Error(err),
		)
		body = ""
	}

	httpx.HTML(w, http.StatusOK, h.composer.BuildProjectPage(ctx, forest, r.URL.Path, relPath, info, body))
}
