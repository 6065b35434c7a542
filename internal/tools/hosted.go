package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// HostedKind identifies a hosted tool.
type HostedKind string

const (
	FileSearch         HostedKind = "file_search"
	WebSearchPreview   HostedKind = "web_search_preview"
	CodeInterpreter    HostedKind = "code_interpreter"
	ComputerUsePreview HostedKind = "computer_use_preview"
	HostedMCP          HostedKind = "hosted_mcp"
	ImageGeneration    HostedKind = "image_generation"
	LocalShell         HostedKind = "local_shell"
)

type hostedSpec struct {
	alias       string
	description string
	required    []string
	optional    []string
	check       func(params map[string]any) error
	run         func(t *HostedTool, input string, args map[string]any) Result
}

var hosted = map[HostedKind]hostedSpec{
	FileSearch: {
		alias:       "FileSearchTool",
		description: "Search uploaded files in one or more vector stores.",
		required:    []string{"vector_store_ids"},
		optional:    []string{"max_num_results", "include_search_results", "ranking_options", "filters"},
		check:       checkVectorStoreIDs,
		run: func(t *HostedTool, input string, _ map[string]any) Result {
			return Result{
				"query":            input,
				"vector_store_ids": t.Params["vector_store_ids"],
				"output":           "Mock search results for " + input,
			}
		},
	},
	WebSearchPreview: {
		alias:       "WebSearchTool",
		description: "Search the web for up-to-date information.",
		optional:    []string{"user_location", "search_context_size"},
		run: func(t *HostedTool, input string, _ map[string]any) Result {
			out := "Mock web search results for " + input
			if loc, ok := t.Params["user_location"]; ok && loc != nil {
				out += fmt.Sprintf(" in %v", loc)
			}
			size := "medium"
			if s, ok := t.Params["search_context_size"].(string); ok && s != "" {
				size = s
			}
			return Result{"query": input, "search_context_size": size, "output": out}
		},
	},
	CodeInterpreter: {
		alias:       "CodeInterpreterTool",
		description: "Execute code in a sandboxed interpreter.",
		optional:    []string{"tool_config"},
		run: func(_ *HostedTool, input string, args map[string]any) Result {
			lang := "python"
			if l, ok := args["language"].(string); ok && l != "" {
				lang = l
			}
			code := input
			if len(code) > 50 {
				code = code[:50]
			}
			return Result{"language": lang, "output": fmt.Sprintf("Mock execution of %s code: %s...", lang, code)}
		},
	},
	ComputerUsePreview: {
		alias:       "ComputerTool",
		description: "Drive a virtual computer with mouse and keyboard actions.",
		required:    []string{"computer"},
		run: func(_ *HostedTool, input string, args map[string]any) Result {
			return Result{
				"action": input,
				"output": fmt.Sprintf("Mock %s performed with params: %s", input, encodeParams(args)),
			}
		},
	},
	HostedMCP: {
		alias:       "HostedMCPTool",
		description: "Run a command on a remote MCP server.",
		required:    []string{"tool_config"},
		optional:    []string{"on_approval_request"},
		run: func(t *HostedTool, input string, args map[string]any) Result {
			server := "unknown"
			if cfg, ok := t.Params["tool_config"].(map[string]any); ok {
				if u, ok := cfg["server_url"].(string); ok && u != "" {
					server = u
				}
			}
			return Result{
				"command": input,
				"output":  fmt.Sprintf("Mock MCP command '%s' executed on %s with params: %s", input, server, encodeParams(args)),
			}
		},
	},
	ImageGeneration: {
		alias:       "ImageGenerationTool",
		description: "Generate an image from a text prompt.",
		optional:    []string{"tool_config"},
		run: func(_ *HostedTool, input string, args map[string]any) Result {
			resolution, style := "1024x1024", "default"
			if r, ok := args["resolution"].(string); ok && r != "" {
				resolution = r
			}
			if s, ok := args["style"].(string); ok && s != "" {
				style = s
			}
			return Result{
				"prompt": input,
				"output": fmt.Sprintf("Mock image generated for prompt: '%s' with resolution %s and style %s", input, resolution, style),
			}
		},
	},
	LocalShell: {
		alias:       "LocalShellTool",
		description: "Run a shell command on the local machine.",
		optional:    []string{"executor"},
		run: func(_ *HostedTool, input string, args map[string]any) Result {
			return Result{
				"command": input,
				"output":  fmt.Sprintf("Mock shell command executed: '%s' with params: %s", input, encodeParams(args)),
			}
		},
	},
}

var hostedAliases = func() map[string]HostedKind {
	m := make(map[string]HostedKind, len(hosted))
	for kind, spec := range hosted {
		m[spec.alias] = kind
	}
	return m
}()

func checkVectorStoreIDs(params map[string]any) error {
	ids, ok := params["vector_store_ids"].([]any)
	if !ok || len(ids) == 0 {
		return fmt.Errorf("'vector_store_ids' must be a non-empty list")
	}
	for _, id := range ids {
		if s, ok := id.(string); !ok || s == "" {
			return fmt.Errorf("'vector_store_ids' must contain only non-empty strings")
		}
	}
	return nil
}

func encodeParams(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(b)
}

// ParseHostedKind resolves a hosted tool identifier or its class-style alias.
func ParseHostedKind(name string) (HostedKind, error) {
	if _, ok := hosted[HostedKind(name)]; ok {
		return HostedKind(name), nil
	}
	if kind, ok := hostedAliases[name]; ok {
		return kind, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnknownHostedTool, name)
}

// HostedInfo describes a hosted tool and its configuration schema.
type HostedInfo struct {
	Kind        HostedKind
	Alias       string
	Description string
	Required    []string
	Optional    []string
}

// Catalog lists all hosted tools sorted by identifier.
func Catalog() []HostedInfo {
	infos := make([]HostedInfo, 0, len(hosted))
	for kind, spec := range hosted {
		infos = append(infos, HostedInfo{
			Kind:        kind,
			Alias:       spec.alias,
			Description: spec.description,
			Required:    append([]string{}, spec.required...),
			Optional:    append([]string{}, spec.optional...),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Kind < infos[j].Kind })
	return infos
}

// HostedTool is a configured hosted tool instance.
type HostedTool struct {
	Kind   HostedKind
	Params map[string]any
}

// Configure validates params against the schema of the named hosted tool.
// name may be the identifier or the alias; errors quote the name as given.
func Configure(name string, params map[string]any) (*HostedTool, error) {
	kind, err := ParseHostedKind(name)
	if err != nil {
		return nil, err
	}
	spec := hosted[kind]

	if params == nil {
		params = map[string]any{}
	}

	allowed := make(map[string]bool, len(spec.required)+len(spec.optional))
	for _, k := range spec.required {
		allowed[k] = true
	}
	for _, k := range spec.optional {
		allowed[k] = true
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !allowed[k] {
			return nil, fmt.Errorf("%w: Invalid field '%s' for %s", domain.ErrInvalidToolConfig, k, name)
		}
	}
	for _, k := range spec.required {
		if _, ok := params[k]; !ok {
			return nil, fmt.Errorf("%w: Missing required field '%s' for %s", domain.ErrInvalidToolConfig, k, name)
		}
	}
	if spec.check != nil {
		if err := spec.check(params); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidToolConfig, name, err)
		}
	}

	return &HostedTool{Kind: kind, Params: params}, nil
}

// Name returns the canonical identifier of the tool.
func (t *HostedTool) Name() string {
	return string(t.Kind)
}

// Execute runs the hosted tool. Results always carry the tool identifier;
// an empty input yields an error entry instead of output.
func (t *HostedTool) Execute(_ context.Context, input string, args map[string]any) Result {
	if input == "" {
		return Result{"tool": string(t.Kind), "output": nil, "error": "input is required"}
	}
	res := hosted[t.Kind].run(t, input, args)
	res["tool"] = string(t.Kind)
	res["error"] = nil
	return res
}
