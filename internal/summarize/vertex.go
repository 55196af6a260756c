// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// VertexBackend calls Gemini on Vertex AI with JSON output forced through
// the response MIME type.
type VertexBackend struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewVertexBackend connects to Vertex AI in the given project and region.
// Credentials come from the environment (Application Default Credentials).
func NewVertexBackend(ctx context.Context, project, region, model string, temperature float32) (*VertexBackend, error) {
	if project == "" || region == "" {
		return nil, fmt.Errorf("vertex backend: project and region cannot be empty")
	}
	client, err := genai.NewClient(ctx, project, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	return &VertexBackend{client: client, model: model, temperature: temperature}, nil
}

// Close releases the underlying client.
func (v *VertexBackend) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}

// Complete generates one response and concatenates its text parts.
func (v *VertexBackend) Complete(ctx context.Context, system, user string) (string, error) {
	model := v.client.GenerativeModel(v.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](v.temperature),
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("vertex response has no content")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("vertex response has no text parts")
	}
	return b.String(), nil
}
