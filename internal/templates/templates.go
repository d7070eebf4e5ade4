package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// ProjectName is the name of the project.
	ProjectName string

	// Title is the site title. Defaults to ProjectName.
	Title string

	// Addr is the listen address. Defaults to config.DefaultAddr.
	Addr string
}

// Template represents a starter template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of relative paths to file contents.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"docs":    docsTemplate(),
	"json":    jsonTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("R033").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: " + strings.Join(List(), ", "))
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Create writes the template's files into dir. It refuses to run when dir
// already has a config file.
func (t *Template) Create(dir string, cfg Config) error {
	if config.Exists(dir) {
		return errors.New("R034").
			WithDetail("A config file already exists in " + dir).
			WithSuggestion("Edit the existing file or choose another directory")
	}
	if cfg.Title == "" {
		cfg.Title = cfg.ProjectName
	}
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultAddr
	}

	for relPath, content := range t.Files {
		tmpl, err := template.New(relPath).Parse(content)
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
			return err
		}
	}

	return nil
}

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "A home page and a not-found fallback",
		Files: map[string]string{
			"vroute.yaml": `name: {{.ProjectName}}

server:
  addr: "{{.Addr}}"

log:
  level: info

site:
  title: {{.Title}}
  routes:
    - path: /
      exact: true
      body: <h1>{{.Title}}</h1>
    - status: 404
      title: Not Found
      body: <h1>Not Found</h1><p>Nothing lives at {{"{{"}}.Location.Pathname{{"}}"}}.</p>
`,
		},
	}
}

func docsTemplate() *Template {
	return &Template{
		Name:        "docs",
		Description: "A documentation site with nested routes and an export list",
		Files: map[string]string{
			"vroute.yaml": `name: {{.ProjectName}}

server:
  addr: "{{.Addr}}"

dev:
  enabled: true
  watch:
    - .

metrics:
  enabled: true

rateLimit:
  rps: 50
  burst: 100

export:
  dir: dist
  paths:
    - /guides/getting-started

static:
  dir: public
  prefix: /assets
  cache: production

site:
  title: {{.Title}}
  routes:
    - path: /
      exact: true
      title: {{.Title}}
      body: <link rel="stylesheet" href="{{"{{"}}asset "site.css"{{"}}"}}"><h1>{{.Title}}</h1><p><a href="/guides/getting-started">Get started</a></p>
    - path: /guides/:slug
      title: Guide
      body: <h1>{{"{{"}}.Params.slug{{"}}"}}</h1>
      routes:
        - path: /guides/:slug/edit
          body: <p>Editing {{"{{"}}.URL{{"}}"}}</p>
    - path: /docs/:slug
      redirect: /guides/:slug
    - status: 404
      title: Not Found
      body: <h1>Not Found</h1>
`,
			"public/site.css": `body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; }
`,
		},
	}
}

func jsonTemplate() *Template {
	return &Template{
		Name:        "json",
		Description: "The minimal site as vroute.json",
		Files: map[string]string{
			"vroute.json": `{
  "name": "{{.ProjectName}}",
  "server": {"addr": "{{.Addr}}"},
  "site": {
    "title": "{{.Title}}",
    "routes": [
      {"path": "/", "exact": true, "body": "<h1>{{.Title}}</h1>"},
      {"status": 404, "title": "Not Found", "body": "<h1>Not Found</h1>"}
    ]
  }
}
`,
		},
	}
}
