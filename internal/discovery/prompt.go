package discovery

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/sohamroyc/Api-directory/internal/domain"
)

func discoverPrompt(category string, count int) string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}

	return fmt.Sprintf(`Discover %d legitimate, active public APIs for the category: %q.
Focus on well-documented and useful APIs for developers.
For each API, provide:
- name: The official name
- website: The direct URL to their documentation or homepage
- description: A short, 1-sentence explanation of what it does
- category: Choose the best fit from: [%s]
- auth_required: boolean (true if an API key/OAuth is needed, false if public/open)
- source: "Google Search"

Ensure the response is a strict JSON object with an "apis" array.`, count, category, strings.Join(names, ", "))
}

func summarizePrompt(name, description string) string {
	return fmt.Sprintf(`Provide a concise, 2-sentence developer-focused summary of the following API.
Name: %s
Description: %s
Focus on the unique value proposition and primary use case.`, name, description)
}

// responseSchema mirrors schema.json for the provider's structured output.
func responseSchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString}
	return &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"apis"},
		Properties: map[string]*genai.Schema{
			"apis": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":          str,
						"website":       str,
						"description":   str,
						"category":      str,
						"auth_required": {Type: genai.TypeBoolean},
						"source":        str,
					},
					Required: []string{"name", "website", "description", "category", "auth_required", "source"},
				},
			},
		},
	}
}
