package tools

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"scaffolder/pkg/sandbox"
)

// ToolContext carries the per-run dependencies tools are constructed with.
type ToolContext struct {
	Sandbox *sandbox.Sandbox
}

// ToolFactory creates a tool instance configured for a specific context.
type ToolFactory func(ctx ToolContext) (Tool, error)

// ToolMeta contains metadata about a tool for documentation and discovery.
type ToolMeta struct {
	Name        string
	Description string
	InputSchema InputSchema
}

type toolDescriptor struct {
	meta    ToolMeta
	factory ToolFactory
}

// immutableRegistry is the global, read-only tool registry.
type immutableRegistry struct {
	mu     sync.RWMutex
	sealed bool
	tools  map[string]toolDescriptor
}

//nolint:gochecknoglobals // Factory pattern requires a global registry.
var globalRegistry = &immutableRegistry{
	tools: make(map[string]toolDescriptor),
}

// Register adds a tool factory to the global registry.
// Panics if called after the registry is sealed.
func Register(name string, factory ToolFactory, meta *ToolMeta) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	if globalRegistry.sealed {
		panic(fmt.Sprintf("tool registry sealed - cannot register tool '%s'", name))
	}
	globalRegistry.tools[name] = toolDescriptor{
		meta:    *meta,
		factory: factory,
	}
}

// Seal prevents further tool registrations. Called automatically when the
// first Provider is created.
func Seal() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.sealed = true
}

// Provider creates and caches tool instances for one run context, restricted
// to an allow-list.
type Provider struct {
	ctx      ToolContext
	tools    map[string]Tool
	allowSet map[string]struct{}
	mu       sync.Mutex
}

// NewProvider creates a Provider for the given context and allowed tools.
// Seals the global registry on first use.
func NewProvider(ctx ToolContext, allowedTools []string) *Provider {
	Seal()

	allowSet := make(map[string]struct{}, len(allowedTools))
	for _, name := range allowedTools {
		allowSet[name] = struct{}{}
	}
	return &Provider{
		ctx:      ctx,
		tools:    make(map[string]Tool),
		allowSet: allowSet,
	}
}

// Get retrieves a tool instance, creating it lazily if needed.
func (p *Provider) Get(name string) (Tool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.allowSet[name]; !ok {
		return nil, fmt.Errorf("tool '%s' not allowed in this context", name)
	}
	if tool, ok := p.tools[name]; ok {
		return tool, nil
	}

	globalRegistry.mu.RLock()
	desc, exists := globalRegistry.tools[name]
	globalRegistry.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("tool '%s' not registered", name)
	}

	tool, err := desc.factory(p.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool '%s': %w", name, err)
	}
	p.tools[name] = tool
	return tool, nil
}

// List returns metadata for all allowed tools, sorted by name for a stable
// tool order in LLM requests.
func (p *Provider) List() []ToolMeta {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	result := make([]ToolMeta, 0, len(p.allowSet))
	for name := range p.allowSet {
		if desc, ok := globalRegistry.tools[name]; ok {
			meta := desc.meta
			meta.Name = name // alias registrations keep their own name
			result = append(result, meta)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// GenerateToolDocumentation creates markdown documentation for the allowed tools.
func (p *Provider) GenerateToolDocumentation() string {
	metas := p.List()
	if len(metas) == 0 {
		return "No tools available"
	}
	var doc strings.Builder
	doc.WriteString("## Available Tools\n\n")
	for i := range metas {
		doc.WriteString(fmt.Sprintf("- **%s** - %s\n", metas[i].Name, metas[i].Description))
	}
	return doc.String()
}
