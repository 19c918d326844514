// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package openai

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
	APIEndpoint  = "https://api.openai.com/v1/chat/completions"
	APITimeout   = time.Second * 10
	DefaultModel = "gpt-4o-mini"
	name         = "openai"
)

// OpenAI resolves coordinates to town names through the OpenAI
// chat-completions API.
type OpenAI struct {
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
}

func New(client *http.Client, apikey, model, endpoint string) (*OpenAI, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if apikey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if endpoint == "" {
		endpoint = APIEndpoint
	}
	return &OpenAI{
		apikey:   apikey,
		endpoint: endpoint,
		model:    model,
		http:     client,
	}, nil
}

func (o *OpenAI) Name() string {
	return name
}

// ResolveTown sends a single chat-completion request for the given coordinate
// pair and returns the sanitized town name from the response.
func (o *OpenAI) ResolveTown(ctx context.Context, lat, lon float64) (string, error) {
	request := Request{
		Model: o.model,
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
		"Authorization": "Bearer " + o.apikey,
	}
	response := new(Response)
	code, err := o.http.PostWithTimeout(ctx, o.endpoint, response, body, headers, APITimeout)
	if err != nil {
		return "", fmt.Errorf("failed to query OpenAI API: %w", err)
	}
	if code != stdhttp.StatusOK {
		if response.Error != nil {
			return "", fmt.Errorf("OpenAI API returned an error (status %d): %s", code,
				response.Error.Message)
		}
		return "", fmt.Errorf("OpenAI API returned unexpected status: %d", code)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices: %w", geocode.ErrEmptyResult)
	}

	town := geocode.SanitizeTownName(response.Choices[0].Message.Content)
	if town == "" {
		return "", fmt.Errorf("failed to parse town name from OpenAI response: %w",
			geocode.ErrEmptyResult)
	}
	return town, nil
}
