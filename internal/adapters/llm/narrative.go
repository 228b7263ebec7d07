package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"moto-route-service/internal/domain"
	"moto-route-service/internal/platform/obs"
)

// Narrator implements ports.NarrativeGenerator with a Claude model.
type Narrator struct {
	client *Client
}

func NewNarrator(client *Client) *Narrator {
	return &Narrator{client: client}
}

func (n *Narrator) Narrative(ctx context.Context, route *domain.ResolvedRoute, prefs domain.RoutePreferences) (_ string, err error) {
	defer obs.Time(ctx, "llm.Narrative")(&err)

	resp, err := n.client.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(n.client.model),
		MaxTokens: 300,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(narrativePrompt(route, prefs))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("narrative request: %w", err)
	}

	return responseText(resp), nil
}

func narrativePrompt(route *domain.ResolvedRoute, prefs domain.RoutePreferences) string {
	routeType := "one-way"
	if prefs.Shape == domain.ShapeLoop {
		routeType = "loop"
	}

	start := route.StartAddress
	if start == "" {
		start = prefs.Start.String()
	}

	var sb strings.Builder
	sb.WriteString("You are writing a route description for a motorcycle enthusiast app.\n\n")
	fmt.Fprintf(&sb, "Route details:\n")
	fmt.Fprintf(&sb, "- Distance: %.1f km, estimated duration %.0f minutes\n",
		route.TotalDistanceMeters/1000, route.TotalDurationSeconds/60)
	fmt.Fprintf(&sb, "- Rider preferences: %s scenery, curviness %.1f/1, %s\n",
		prefs.Scenery, prefs.Curviness, routeType)
	fmt.Fprintf(&sb, "- Starts at %s\n\n", start)
	sb.WriteString("Write 3-4 sentences describing this route. Be specific to the geography and terrain where possible. ")
	sb.WriteString("Mention what makes this route worth riding: the character of the roads, the scenery, notable features. ")
	sb.WriteString("Tone: direct, enthusiastic, written for a rider who knows what a good road feels like. ")
	sb.WriteString("No generic filler. No \"you will love this route\" language.\n")
	return sb.String()
}
