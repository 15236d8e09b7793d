package gemini

import (
	"strings"

	"google.golang.org/genai"

	"github.com/phrazzld/inbox-ai/internal/ai"
)

var repliesSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"replies": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"replies"},
}

var intentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"intent_type":  {Type: genai.TypeString},
		"title":        {Type: genai.TypeString},
		"datetime":     {Type: genai.TypeString},
		"duration":     {Type: genai.TypeString},
		"participants": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"location":     {Type: genai.TypeString},
		"description":  {Type: genai.TypeString},
		"confidence":   {Type: genai.TypeNumber},
	},
	Required: []string{"intent_type", "confidence"},
}

func categorySchema() *genai.Schema {
	names := make([]string, len(ai.Categories))
	for i, c := range ai.Categories {
		names[i] = string(c)
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category": {Type: genai.TypeString, Enum: names},
		},
		Required: []string{"category"},
	}
}

func categoryList() string {
	names := make([]string, len(ai.Categories))
	for i, c := range ai.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
