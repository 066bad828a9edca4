// Package templates provides a plain-text template manager for outgoing messages.
package templates

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"text/template"
)

// Manager handles template loading and caching
type Manager struct {
	fsys    fs.FS
	cache   map[string]*template.Template
	mu      sync.RWMutex
	funcMap template.FuncMap
}

// NewManager parses every *.tmpl file under fsys. Template names are the slash
// separated paths without the extension, e.g. "jobcard/completion".
// Extra funcs are merged over the built-in helpers.
func NewManager(fsys fs.FS, funcs template.FuncMap) (*Manager, error) {
	m := &Manager{
		fsys:  fsys,
		cache: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"inc":   inc,
			"upper": strings.ToUpper,
		},
	}
	for name, fn := range funcs {
		m.funcMap[name] = fn
	}

	if err := m.loadTemplates(); err != nil {
		return nil, err
	}
	return m, nil
}

// loadTemplates walks the filesystem and parses each template
func (m *Manager) loadTemplates() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fs.WalkDir(m.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".tmpl" {
			return nil
		}

		content, err := fs.ReadFile(m.fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", p, err)
		}

		name := strings.TrimSuffix(p, ".tmpl")
		// editors leave a final newline; messages must not end with one
		body := strings.TrimSuffix(string(content), "\n")

		tmpl, err := template.New(name).Funcs(m.funcMap).Option("missingkey=zero").Parse(body)
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}

		m.cache[name] = tmpl
		return nil
	})
}

// Render renders a template with the given data
func (m *Manager) Render(w io.Writer, name string, data interface{}) error {
	m.mu.RLock()
	tmpl, ok := m.cache[name]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}

	return tmpl.Execute(w, data)
}

// RenderString renders a template into a string
func (m *Manager) RenderString(name string, data interface{}) (string, error) {
	var b strings.Builder
	if err := m.Render(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Has reports whether a template with the given name was loaded
func (m *Manager) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cache[name]
	return ok
}

// Template helper functions

// inc turns a zero-based range index into a list number
func inc(i int) int {
	return i + 1
}
