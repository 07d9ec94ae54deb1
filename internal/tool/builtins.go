package tool

import (
	"github.com/cliff-rosen/jam-bot-sub001/internal/schema"
)

// Builtins returns the static tool catalog shipped with the engine.
// These specs are data: the engine reads their schemas to derive status
// and to type-check mappings, and nothing more.
func Builtins() []Spec {
	return []Spec{
		{
			ID:          "web_search",
			Name:        "Web Search",
			Description: "Searches the web and returns ranked result snippets.",
			Version:     "1.0.0",
			Tags:        []string{"research"},
			Inputs: []Parameter{
				{
					Name:        "query",
					Description: "Search query text",
					Schema:      schema.NewStringSchema("search query"),
					Required:    true,
				},
				{
					Name:        "max_results",
					Description: "Maximum number of results to return",
					Schema:      schema.NewNumberSchema("result cap"),
				},
			},
			Outputs: []Output{
				{
					Name: "results",
					Schema: schema.NewObjectSchema(map[string]*schema.Schema{
						"title":   {Type: schema.TypeString},
						"url":     {Type: schema.TypeString, Format: "uri"},
						"snippet": {Type: schema.TypeString},
					}).AsArray(),
				},
			},
		},
		{
			ID:          "summarize",
			Name:        "Summarize",
			Description: "Condenses one or more documents into a summary.",
			Version:     "1.0.0",
			Tags:        []string{"writing"},
			Inputs: []Parameter{
				{
					Name:     "text",
					Schema:   schema.NewStringSchema("text to summarize"),
					Required: true,
				},
				{
					Name:   "style",
					Schema: schema.NewStringSchema("summary style hint"),
				},
			},
			Outputs: []Output{
				{Name: "summary", Schema: schema.NewStringSchema("condensed text")},
			},
		},
		{
			ID:          "extract_entities",
			Name:        "Extract Entities",
			Description: "Pulls named entities out of free text.",
			Version:     "1.0.0",
			Tags:        []string{"research", "analysis"},
			Inputs: []Parameter{
				{
					Name:     "text",
					Schema:   schema.NewStringSchema("text to analyze"),
					Required: true,
				},
			},
			Outputs: []Output{
				{
					Name: "entities",
					Schema: schema.NewObjectSchema(map[string]*schema.Schema{
						"name": {Type: schema.TypeString},
						"kind": {Type: schema.TypeString},
					}).AsArray(),
				},
			},
		},
		{
			ID:          "read_file",
			Name:        "Read File",
			Description: "Reads an uploaded file into text.",
			Version:     "1.0.0",
			Tags:        []string{"io"},
			Inputs: []Parameter{
				{
					Name:     "file",
					Schema:   schema.NewFileSchema("text/plain", "text/csv", "application/pdf"),
					Required: true,
				},
			},
			Outputs: []Output{
				{Name: "content", Schema: schema.NewStringSchema("file content as text")},
			},
		},
	}
}

// NewBuiltinRegistry creates a registry preloaded with the builtin catalog.
func NewBuiltinRegistry() (*DefaultRegistry, error) {
	registry := NewRegistry()
	for _, spec := range Builtins() {
		if err := registry.Register(spec); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
