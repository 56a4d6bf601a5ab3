// Package agent routes named analysis tasks to configured LLM providers.
package agent

import (
	"context"
	"fmt"

	"stockrevenuelab/pkg/core/llm"
)

// Config is the shape of config/models.yaml.
type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

// AgentConfig allows a per-task provider override, e.g. routing the
// structured-verdict task to a JSON-mode-capable model.
type AgentConfig struct {
	Provider    string `yaml:"provider"`
	Description string `yaml:"description"`
}

// Manager resolves task names ("assistant", "insight") to providers.
type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

// NewManager builds a manager over the known providers.
func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"gemini":   &llm.GeminiProvider{},
			"deepseek": &llm.DeepSeekProvider{},
		},
	}
}

// GetProvider resolves a task to a provider: per-agent override first, then
// the global active provider, then gemini.
func (m *Manager) GetProvider(agentType string) llm.Provider {
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
	}

	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}

	return m.providers["gemini"]
}

// ExecutePrompt adapts the instructions for the resolved provider and runs
// the generation.
func (m *Manager) ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(agentType)
	adaptedSystemPrompt := provider.AdaptInstructions(rawSystemPrompt)
	return provider.GenerateResponse(ctx, rawPrompt, adaptedSystemPrompt, options)
}

// SetGlobalProvider switches the default provider at runtime.
func (m *Manager) SetGlobalProvider(newProvider string) error {
	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	fmt.Printf("[AGENT] Global provider set to: %s\n", newProvider)
	return nil
}

// GetActiveProvider returns the current default provider name.
func (m *Manager) GetActiveProvider() string {
	return m.config.ActiveProvider
}

// Available lists the provider names the manager can route to.
func (m *Manager) Available() []string {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	return names
}
