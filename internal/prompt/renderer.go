// Package prompt renders generation prompts from embedded templates.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.md.tmpl
var templatesFS embed.FS

// SystemPrompt is sent alongside every generation request.
const SystemPrompt = `You are an expert test engineer. You write end-to-end test files.
Respond with test code only: no prose, no explanations, no markdown fences.
Preserve the exact block structure conventions described in the prompt.`

// Renderer renders prompts from templates.
type Renderer struct {
	templates map[string]*template.Template
	mu        sync.RWMutex
}

// NewRenderer creates a renderer with all embedded templates parsed.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
	}

	if err := r.loadTemplates(); err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	return r, nil
}

func (r *Renderer) loadTemplates() error {
	return fs.WalkDir(templatesFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".md.tmpl") {
			return nil
		}

		content, err := templatesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		name := strings.TrimPrefix(path, "templates/")
		name = strings.TrimSuffix(name, ".md.tmpl")

		tmpl, err := template.New(name).Funcs(templateFuncs()).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}

		r.templates[name] = tmpl
		return nil
	})
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"join":      strings.Join,
		"trimSpace": strings.TrimSpace,
	}
}

func (r *Renderer) render(name string, params any) (string, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// GenerateParams parameterizes the whole-file generation template.
type GenerateParams struct {
	SourcePath    string
	SourceContent string
	TestPath      string
	ProjectTree   string
	GroupToken    string
	ManualZone    string
	Keywords      []string
}

// RenderGenerate renders the prompt for generating a complete test file.
func (r *Renderer) RenderGenerate(params GenerateParams) (string, error) {
	return r.render("generate", params)
}

// UpdateBlockParams parameterizes the single-block update template.
type UpdateBlockParams struct {
	SourcePath    string
	SourceContent string
	TestPath      string
	BlockContent  string
	Feature       string
	TestName      string
	GroupToken    string
}

// RenderUpdateBlock renders the prompt for regenerating one test block.
func (r *Renderer) RenderUpdateBlock(params UpdateBlockParams) (string, error) {
	return r.render("update_block", params)
}
