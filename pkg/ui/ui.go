package ui

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/toggler/pkg/client"
	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server"
	"github.com/doodlesbykumbi/toggler/pkg/server/middleware"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// API is the subset of the client facade the pages use.
type API interface {
	ListFeatures(ctx context.Context) ([]model.Feature, error)
	CreateFeature(ctx context.Context, in client.FeatureInput) (*model.Feature, error)
	UpdateFeature(ctx context.Context, id string, in client.FeatureInput) (*model.Feature, error)
	DeleteFeature(ctx context.Context, id string) error

	ListProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, in client.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, in client.ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListEnvironments(ctx context.Context) ([]model.Environment, error)
	CreateEnvironment(ctx context.Context, in client.EnvironmentInput) (*model.Environment, error)
	UpdateEnvironment(ctx context.Context, id string, in client.EnvironmentInput) (*model.Environment, error)
	DeleteEnvironment(ctx context.Context, id string) error

	ListGroups(ctx context.Context) ([]model.Group, error)
	CreateGroup(ctx context.Context, in client.GroupInput) (*model.Group, error)
	UpdateGroup(ctx context.Context, id string, in client.GroupInput) (*model.Group, error)
	DeleteGroup(ctx context.Context, id string) error

	ListToggles(ctx context.Context, filter client.ToggleFilter) ([]model.Toggle, error)
	CreateToggle(ctx context.Context, key model.ToggleKey) (*model.Toggle, error)
	ReplaceToggle(ctx context.Context, oldKey, newKey model.ToggleKey) (*model.Toggle, error)
	DeleteToggle(ctx context.Context, key model.ToggleKey) error
}

var _ API = (*client.Client)(nil)

// UI serves the administration pages.
type UI struct {
	api       API
	log       *slog.Logger
	markdown  *Markdown
	templates map[string]*template.Template
	entities  []*entity
}

func New(api API, log *slog.Logger) *UI {
	if log == nil {
		log = slog.Default()
	}
	u := &UI{
		api:      api,
		log:      log,
		markdown: NewMarkdown(),
	}
	u.templates = parseTemplates(template.FuncMap{
		"markdown":   u.markdown.Description,
		"status":     statusLabel,
		"replaceURL": replaceURL,
		"inc":        func(n int) int { return n + 1 },
	})
	u.entities = u.entityPages()
	return u
}

// Register mounts the pages on the server's root router. The client talks
// to the API the server itself exposes.
func Register(srv *server.Server, api API) {
	New(api, srv.Logger).Routes(srv.Router)
}

// Routes registers every page on r.
func (u *UI) Routes(r *mux.Router) {
	home := func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/features", http.StatusFound)
	}
	r.HandleFunc("/", home).Methods("GET")
	r.HandleFunc("/ui", home).Methods("GET")
	r.HandleFunc("/ui/", home).Methods("GET")

	staticFS, _ := fs.Sub(staticFiles, "static")
	r.PathPrefix("/ui/static/").Handler(
		http.StripPrefix("/ui/static/", http.FileServer(http.FS(staticFS))),
	)

	r.HandleFunc("/ui/features/{id}", u.handleFeatureDetail).Methods("GET")
	r.HandleFunc("/ui/features/{id}/toggles", u.handleFeatureToggleCreate).Methods("POST")
	r.HandleFunc("/ui/features/{id}/toggles/delete", u.handleFeatureToggleDelete).Methods("POST")

	r.HandleFunc("/ui/toggles", u.handleToggles).Methods("GET")
	r.HandleFunc("/ui/toggles", u.handleToggleCreate).Methods("POST")
	r.HandleFunc("/ui/toggles/delete", u.handleToggleDelete).Methods("POST")
	r.HandleFunc("/ui/toggles/replace", u.handleToggleReplace).Methods("POST")

	for _, e := range u.entities {
		base := "/ui/" + e.kind.Plural()
		r.HandleFunc(base, u.handleEntityList(e)).Methods("GET")
		r.HandleFunc(base, u.handleEntitySave(e)).Methods("POST")
		r.HandleFunc(base+"/{id}/delete", u.handleEntityDelete(e)).Methods("POST")
	}
}

func parseTemplates(funcs template.FuncMap) map[string]*template.Template {
	pages := []string{"entities.html", "feature.html", "toggles.html", "notfound.html"}
	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		templates[name] = template.Must(
			template.New(name).Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/"+name),
		)
	}
	return templates
}

type navItem struct {
	Title string
	URL   string
}

var navItems = []navItem{
	{Title: "Features", URL: "/ui/features"},
	{Title: "Products", URL: "/ui/products"},
	{Title: "Environments", URL: "/ui/environments"},
	{Title: "Groups", URL: "/ui/groups"},
	{Title: "Toggles", URL: "/ui/toggles"},
}

// page carries what the layout needs on every screen.
type page struct {
	Title  string
	Active string
	Nav    []navItem
	Notice string
	Error  string
}

func newPage(r *http.Request, title, active string) page {
	q := r.URL.Query()
	return page{
		Title:  title,
		Active: active,
		Nav:    navItems,
		Notice: q.Get("notice"),
		Error:  q.Get("error"),
	}
}

func (u *UI) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := u.templates[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		middleware.Logger(r.Context(), u.log).Error("failed to render page", "page", name, "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (u *UI) renderNotFound(w http.ResponseWriter, r *http.Request, message string) {
	p := newPage(r, "Not found", "")
	p.Error = message
	u.render(w, r, http.StatusNotFound, "notfound.html", p)
}

// failure logs err and returns the text shown to the user.
func (u *UI) failure(r *http.Request, action string, err error) string {
	middleware.Logger(r.Context(), u.log).Error(action, "error", err)
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return action
}

// redirect sends the browser back to target with a flash message.
func redirect(w http.ResponseWriter, r *http.Request, target, notice, errMsg string) {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: "/ui/features"}
	}
	q := u.Query()
	q.Del("notice")
	q.Del("error")
	if notice != "" {
		q.Set("notice", notice)
	}
	if errMsg != "" {
		q.Set("error", errMsg)
	}
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// returnPath accepts only local page paths from the form's "return" field.
func returnPath(r *http.Request, fallback string) string {
	p := r.PostFormValue("return")
	if !strings.HasPrefix(p, "/ui/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return fallback
	}
	if u, err := url.Parse(p); err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return p
}

// replaceURL opens the toggles page with the replace form set to t.
func replaceURL(t model.Toggle) template.URL {
	return template.URL("/ui/toggles?" + keyValues(t.Key(), "old").Encode())
}

func statusLabel(enabled bool) string {
	if enabled {
		return "Enabled"
	}
	return "Disabled"
}

// keyValues encodes key as form values, with names optionally prefixed
// ("old" gives oldFeatureId, ...).
func keyValues(key model.ToggleKey, prefix string) url.Values {
	v := url.Values{}
	v.Set(keyField(prefix, "featureId"), key.FeatureID)
	v.Set(keyField(prefix, "groupId"), key.GroupID)
	v.Set(keyField(prefix, "productId"), key.ProductID)
	v.Set(keyField(prefix, "environmentId"), key.EnvironmentID)
	return v
}

func keyFromValues(v url.Values, prefix string) model.ToggleKey {
	return model.ToggleKey{
		FeatureID:     strings.TrimSpace(v.Get(keyField(prefix, "featureId"))),
		GroupID:       strings.TrimSpace(v.Get(keyField(prefix, "groupId"))),
		ProductID:     strings.TrimSpace(v.Get(keyField(prefix, "productId"))),
		EnvironmentID: strings.TrimSpace(v.Get(keyField(prefix, "environmentId"))),
	}
}

func keyField(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + strings.ToUpper(name[:1]) + name[1:]
}
