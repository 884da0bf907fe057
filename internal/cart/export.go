package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"proyectos/internal/models"
)

const (
	DefaultPath    = "carrito.json"
	defaultMessage = "Guardar carrito"
)

// Outcome tells whether the export created the file or replaced it.
type Outcome string

const (
	Created Outcome = "created"
	Updated Outcome = "updated"
)

// ExporterConfig describes where the cart is written.
type ExporterConfig struct {
	Token string
	// Repo is "owner/name".
	Repo string
	Path string
	// BaseURL overrides the GitHub API endpoint, e.g. for GitHub Enterprise.
	BaseURL string
	Logger  *slog.Logger
}

// Exporter writes a cart to a repository file through the contents API.
type Exporter struct {
	client *github.Client
	owner  string
	repo   string
	path   string
	logger *slog.Logger
}

// NewExporter builds an exporter. A missing token is allowed but logged,
// since GitHub will reject the write.
func NewExporter(ctx context.Context, cfg ExporterConfig) (*Exporter, error) {
	owner, repo, ok := strings.Cut(cfg.Repo, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, fmt.Errorf("cart: repo %q must be owner/name", cfg.Repo)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}

	var httpClient *http.Client
	if cfg.Token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
	} else {
		logger.Warn("no GitHub token configured; cart export will be unauthenticated")
	}
	client := github.NewClient(httpClient)

	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("cart: base url: %w", err)
		}
		client.BaseURL = base
	}

	return &Exporter{client: client, owner: owner, repo: repo, path: path, logger: logger}, nil
}

// Export writes items as indented JSON. The file is updated when it exists
// and created when GitHub reports it missing.
func (e *Exporter) Export(ctx context.Context, items []models.CartItem) (Outcome, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	content, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("cart: encode: %w", err)
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(defaultMessage),
		Content: content,
	}

	existing, _, resp, err := e.client.Repositories.GetContents(ctx, e.owner, e.repo, e.path, nil)
	switch {
	case err == nil && existing != nil:
		opts.SHA = existing.SHA
		if _, _, err := e.client.Repositories.UpdateFile(ctx, e.owner, e.repo, e.path, opts); err != nil {
			e.logger.Error("cart update failed", slog.String("error", err.Error()))
			return "", fmt.Errorf("cart: update %s: %w", e.path, err)
		}
		e.logger.Info("cart saved", slog.String("repo", e.owner+"/"+e.repo), slog.Int("items", len(items)))
		return Updated, nil
	case resp != nil && resp.StatusCode == http.StatusNotFound:
		if _, _, err := e.client.Repositories.CreateFile(ctx, e.owner, e.repo, e.path, opts); err != nil {
			e.logger.Error("cart create failed", slog.String("error", err.Error()))
			return "", fmt.Errorf("cart: create %s: %w", e.path, err)
		}
		e.logger.Info("cart created", slog.String("repo", e.owner+"/"+e.repo), slog.Int("items", len(items)))
		return Created, nil
	case err != nil:
		e.logger.Error("cart lookup failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("cart: get %s: %w", e.path, err)
	default:
		return "", fmt.Errorf("cart: %s is a directory", e.path)
	}
}
