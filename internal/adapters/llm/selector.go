package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"moto-route-service/internal/platform/obs"
	"moto-route-service/internal/ports"
)

// System prompt forcing JSON-only responses.
const jsonSystemPrompt = "You are a geographic route planning API. You respond with ONLY valid JSON " +
	"- no markdown, no explanation, no thinking, no commentary. Your entire " +
	"response must be a single JSON array."

// Selector implements ports.WaypointSelector with a Claude model. The
// model receives the scored candidate set and ride preferences and
// returns an ordered list of candidate indices; all structural checking
// happens in the pipeline, not here.
type Selector struct {
	client *Client
}

func NewSelector(client *Client) *Selector {
	return &Selector{client: client}
}

func (s *Selector) Select(ctx context.Context, req ports.SelectionRequest) (_ []int, err error) {
	defer obs.Time(ctx, "llm.Select")(&err)

	resp, err := s.client.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.client.model),
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: jsonSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(selectionPrompt(req))),
			// Prefill steers the model straight into the array.
			anthropic.NewAssistantMessage(anthropic.NewTextBlock("[")),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("selection request: %w", err)
	}

	raw := "[" + responseText(resp)

	var indices []int
	if !extractJSONArray(raw, &indices) {
		return nil, &ports.SelectionError{
			Reason: fmt.Sprintf("model did not return a JSON index array: %.120s", raw),
		}
	}

	return indices, nil
}

func responseText(resp *anthropic.Message) string {
	for _, block := range resp.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text)
		}
	}
	return ""
}

func selectionPrompt(req ports.SelectionRequest) string {
	var sb strings.Builder

	routeType := "one-way"
	if req.Loop {
		routeType = "loop (returns to start)"
	}

	fmt.Fprintf(&sb, "You are planning a motorcycle route near %s (start: %s).\n\n", req.Region, req.Start)
	fmt.Fprintf(&sb, "Route type: %s. Scenery preference: %s. Curviness preference: %.1f (0=relaxed straight roads, 1=maximum twisties).\n\n",
		routeType, req.Scenery, req.Curviness)

	sb.WriteString("Candidate waypoints (index: lat,lng elevation scenery_score):\n")
	for i, c := range req.Candidates {
		elev := "unknown"
		if c.ElevationM != nil {
			elev = fmt.Sprintf("%.0fm", *c.ElevationM)
		}
		fmt.Fprintf(&sb, "  %d: %s elevation=%s scenery=%.2f\n", i, c.Position, elev, c.SceneryScore)
	}

	fmt.Fprintf(&sb, "\nChoose exactly %d candidates, ordered as a riding path.\n", req.SelectCount)
	sb.WriteString("Rules:\n")
	sb.WriteString("- Low curviness favors high scenery scores; high curviness favors elevation variance.\n")
	sb.WriteString("- The chosen waypoints must form a geographically coherent path without doubling back.\n")
	if req.Loop {
		sb.WriteString("- This is a loop: the final waypoint should arc back toward the start.\n")
	} else {
		sb.WriteString("- This is one-way: waypoints should progress steadily away from the start.\n")
	}
	sb.WriteString("- Use your knowledge of the region's actual roads, water bodies, and cities; avoid city centers and large water crossings.\n")

	if fb := req.Feedback; fb != nil {
		sb.WriteString("\nA PREVIOUS ATTEMPT at this route failed validation:\n")
		for _, issue := range fb.Issues {
			fmt.Fprintf(&sb, "  - %s\n", issue)
		}
		if fb.RouteSummary != "" {
			fmt.Fprintf(&sb, "\nThe failed route went through these roads/areas:\n%s\n", fb.RouteSummary)
		}
		if fb.Regenerate {
			fmt.Fprintf(&sb, "\nThe previous selection was %v. Choose a COMPLETELY DIFFERENT set of candidates that avoids the problems above.\n", fb.PreviousIndices)
		} else {
			fmt.Fprintf(&sb, "\nThe previous selection was %v. Adjust it to fix the issues while keeping what worked.\n", fb.PreviousIndices)
		}
	}

	fmt.Fprintf(&sb, "\nReturn ONLY a JSON array of %d candidate indices in riding order.\n", req.SelectCount)
	return sb.String()
}
