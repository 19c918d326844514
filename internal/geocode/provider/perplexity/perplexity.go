// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/marclajoie/JoyLoc/internal/geocode"
	"github.com/marclajoie/JoyLoc/internal/http"
)

const (
	APIEndpoint  = "https://api.perplexity.ai/chat/completions"
	APITimeout   = time.Second * 10
	DefaultModel = "sonar"
	name         = "perplexity"
)

// Perplexity resolves coordinates to town names through the Perplexity
// chat-completions API.
type Perplexity struct {
	apikey   string
	endpoint string
	model    string
	http     *http.Client
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type Response struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *APIError `json:"error,omitempty"`
}

type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

func New(client *http.Client, apikey, model, endpoint string) (*Perplexity, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if apikey == "" {
		return nil, fmt.Errorf("Perplexity API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if endpoint == "" {
		endpoint = APIEndpoint
	}
	return &Perplexity{
		apikey:   apikey,
		endpoint: endpoint,
		model:    model,
		http:     client,
	}, nil
}

func (p *Perplexity) Name() string {
	return name
}

// ResolveTown sends a single chat-completion request for the given coordinate
// pair and returns the sanitized town name from the response.
func (p *Perplexity) ResolveTown(ctx context.Context, lat, lon float64) (string, error) {
	request := Request{
		Model: p.model,
		Messages: []Message{
			{Role: "system", Content: geocode.SystemPrompt},
			{Role: "user", Content: geocode.UserPrompt(lat, lon)},
		},
		Temperature: 0,
		MaxTokens:   32,
	}
	body := bytes.NewBuffer(nil)
	if err := json.NewEncoder(body).Encode(request); err != nil {
		return "", fmt.Errorf("failed to encode chat completion request: %w", err)
	}

	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + p.apikey,
	}
	response := new(Response)
	code, err := p.http.PostWithTimeout(ctx, p.endpoint, response, body, headers, APITimeout)
	if err != nil {
		return "", fmt.Errorf("failed to query Perplexity API: %w", err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("Perplexity API returned an error (status %d): %s", code,
			response.Error.Message)
	}
	if code != stdhttp.StatusOK {
		return "", fmt.Errorf("Perplexity API returned unexpected status: %d", code)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("Perplexity API returned no choices: %w", geocode.ErrEmptyResult)
	}

	town := geocode.SanitizeTownName(response.Choices[0].Message.Content)
	if town == "" {
		return "", fmt.Errorf("failed to parse town name from Perplexity response: %w",
			geocode.ErrEmptyResult)
	}
	return town, nil
}
