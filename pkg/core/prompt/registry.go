package prompt

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"
)

// Registry holds all loaded prompt templates.
type Registry struct {
	prompts map[string]*Template
	mu      sync.RWMutex
}

var (
	globalRegistry *Registry
	once           sync.Once
)

// Get returns the global registry singleton.
func Get() *Registry {
	once.Do(func() {
		globalRegistry = &Registry{prompts: make(map[string]*Template)}
	})
	return globalRegistry
}

// Register adds or replaces a template.
func (r *Registry) Register(t *Template) error {
	if t.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prompts[t.ID] = t
	return nil
}

// GetPrompt retrieves a template by ID.
func (r *Registry) GetPrompt(id string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.prompts[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("prompt not found: %s", id)
}

// Count reports the number of registered templates.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prompts)
}

// Render executes a template's user prompt with the given context.
func (r *Registry) Render(id string, ctx *Context) (string, error) {
	t, err := r.GetPrompt(id)
	if err != nil {
		return "", err
	}
	if t.UserPromptTmpl == "" {
		return "", nil
	}

	tmpl, err := template.New(t.ID).Parse(t.UserPromptTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", id, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx.Variables); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", id, err)
	}
	return buf.String(), nil
}

// SystemPrompt returns just the system prompt of a template.
func (r *Registry) SystemPrompt(id string) (string, error) {
	t, err := r.GetPrompt(id)
	if err != nil {
		return "", err
	}
	return t.SystemPrompt, nil
}
