// Package llm implements the waypoint-selection and narrative ports
// against the Anthropic Messages API.
package llm

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultModel = "claude-sonnet-4-20250514"

// Client bundles the Anthropic API client and model choice shared by the
// selector and narrator.
type Client struct {
	api   anthropic.Client
	model string
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		api:   anthropic.NewClient(option.WithAPIKey(apiKey)),
		model: model,
	}
}
