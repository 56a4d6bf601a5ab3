// Package prompt is the library of AI analysis prompts. Templates live in
// JSON files under resources/prompts and are loaded at runtime, so the
// wording of a study prompt can change without a rebuild; built-in fallbacks
// keep the server functional when the resources directory is absent.
package prompt

// Template is one reusable prompt: a fixed system prompt plus a Go
// text/template for the user prompt, filled from study statistics.
type Template struct {
	ID             string `json:"id"`                   // e.g. "analysis.timing"
	Name           string `json:"name"`                 // human-readable name
	Category       string `json:"category"`             // analysis, assistant, ...
	Description    string `json:"description"`          // what the prompt is for
	SystemPrompt   string `json:"system_prompt"`        // role and constraints
	UserPromptTmpl string `json:"user_prompt_template"` // Go template over study stats
	Version        string `json:"version"`
}

// Context holds the runtime values substituted into a template.
type Context struct {
	Variables map[string]interface{}
}

// NewContext creates an empty execution context.
func NewContext() *Context {
	return &Context{Variables: make(map[string]interface{})}
}

// Set adds a variable and returns the context for chaining.
func (c *Context) Set(key string, value interface{}) *Context {
	c.Variables[key] = value
	return c
}
