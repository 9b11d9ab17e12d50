// narrative/mistral.go
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Robino0aashu/SagaForge/game"
)

const mistralEndpoint = "https://api.mistral.ai/v1/chat/completions"

// MistralGenerator talks to the Mistral chat-completions API.
type MistralGenerator struct {
	apiKey  string
	model   string
	client  *http.Client
	baseURL string
}

// NewMistralGenerator 创建 Mistral 文本生成客户端
func NewMistralGenerator(apiKey, model string, timeout time.Duration) *MistralGenerator {
	return &MistralGenerator{
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		baseURL: mistralEndpoint,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *MistralGenerator) complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("mistral returned %d: %s", resp.StatusCode, payload)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("mistral returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func (g *MistralGenerator) StoryPart(ctx context.Context, story []game.StoryEntry, chosenAction string) (string, error) {
	system := "You are a creative storyteller for a collaborative interactive fiction game. " +
		"Generate engaging, immersive story continuations that follow logically from player choices. " +
		"Keep responses concise (2-3 sentences max) but vivid and engaging."
	user := fmt.Sprintf("Story so far: %s\n\nPlayers chose: %s\n\nContinue this story with what happens next:",
		recentContent(story, 5), chosenAction)
	return g.complete(ctx, system, user, 0.8, 150)
}

func (g *MistralGenerator) Choices(ctx context.Context, story []game.StoryEntry) ([]string, error) {
	system := "You are a storyteller creating meaningful choices for an interactive fiction game. " +
		"Generate exactly 3 distinct, compelling options that advance the story. " +
		"Format as a simple numbered list: 1. [choice], 2. [choice], 3. [choice]"
	user := fmt.Sprintf("Current story: %s\n\nGenerate 3 meaningful choices for what the characters should do next:",
		recentContent(story, 3))

	raw, err := g.complete(ctx, system, user, 0.7, 100)
	if err != nil {
		return nil, err
	}
	choices, err := ParseChoices(raw)
	if err != nil {
		return nil, err
	}
	return choices, nil
}

func (g *MistralGenerator) Conclusion(ctx context.Context, story []game.StoryEntry) (string, error) {
	system := "You are a storyteller concluding a collaborative interactive fiction game. " +
		"Write a satisfying ending that resolves the story in 2-4 sentences."
	user := fmt.Sprintf("Story so far: %s\n\nWrite the conclusion of this story:",
		recentContent(story, 8))
	return g.complete(ctx, system, user, 0.8, 200)
}

func (g *MistralGenerator) Consolidate(ctx context.Context, story []game.StoryEntry) (string, error) {
	system := "You are an editor. Rewrite the following interactive fiction transcript " +
		"as one cohesive short story, keeping every plot point and the ending intact."
	user := fullContent(story)
	return g.complete(ctx, system, user, 0.5, 1000)
}
