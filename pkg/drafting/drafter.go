package drafting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
)

// ErrNoDraft is returned when the model answers without a usable draft.
var ErrNoDraft = errors.New("drafting: model returned no room draft")

const proposeRoomTool = "propose_room"

const systemPrompt = `You are an AV systems designer. Read the room brief and call propose_room with
the room's type, design tier (Bronze, Silver or Gold), required features and every
input/output point. Use these feature names where they apply: Video Conferencing,
BYOM, KVM Control, Multiview. Distances are one-way cable runs in meters.
Do not choose equipment.`

var proposeRoomSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"roomType":   map[string]any{"type": "string"},
		"designTier": map[string]any{"type": "string", "enum": []string{"Bronze", "Silver", "Gold"}},
		"features": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":     map[string]any{"type": "string"},
					"priority": map[string]any{"type": "string", "enum": []string{"must-have", "nice-to-have"}},
				},
				"required": []string{"name"},
			},
		},
		"ioRequirements": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":             map[string]any{"type": "string"},
					"type":             map[string]any{"type": "string", "enum": []string{"input", "output"}},
					"connectionType":   map[string]any{"type": "string"},
					"distributionType": map[string]any{"type": "string"},
					"distance":         map[string]any{"type": "number"},
					"terminationPoint": map[string]any{"type": "string"},
				},
				"required": []string{"name", "connectionType"},
			},
		},
	},
	"required": []string{"features", "ioRequirements"},
}

// Drafter produces room drafts through a chat model.
type Drafter struct {
	client  Client
	options *SamplingOptions
	logger  *slog.Logger
}

// NewDrafter returns a drafter over client. Sampling is pinned to
// temperature 0 with a fixed seed so repeated briefs draft alike.
func NewDrafter(client Client) *Drafter {
	return &Drafter{
		client:  client,
		options: &SamplingOptions{Temperature: 0, Seed: 7},
		logger:  slog.Default().With("component", "drafting"),
	}
}

// DraftRoom asks the model for a draft of the room described by brief.
func (d *Drafter) DraftRoom(ctx context.Context, brief string) (design.RoomDraft, error) {
	if strings.TrimSpace(brief) == "" {
		return design.RoomDraft{}, fmt.Errorf("drafting: empty brief")
	}

	msgs := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: brief},
	}
	tools := []ToolDefinition{{
		Name:        proposeRoomTool,
		Description: "Propose the structured requirements of one AV room.",
		Parameters:  proposeRoomSchema,
	}}

	resp, err := d.client.Chat(ctx, msgs, tools, d.options)
	if err != nil {
		return design.RoomDraft{}, fmt.Errorf("drafting: %w", err)
	}

	draft, err := ParseDraft(resp)
	if err != nil {
		d.logger.WarnContext(ctx, "unusable draft", "error", err)
		return design.RoomDraft{}, err
	}
	d.logger.DebugContext(ctx, "room drafted", "features", len(draft.Features), "io_points", len(draft.IORequirements))
	return draft, nil
}

// ParseDraft extracts a draft from a model response: the propose_room tool
// call when present, otherwise a JSON object in the message content,
// optionally wrapped in a Markdown code fence.
func ParseDraft(resp *Response) (design.RoomDraft, error) {
	var raw []byte
	for _, tc := range resp.ToolCalls {
		if tc.Name != proposeRoomTool {
			continue
		}
		b, err := json.Marshal(tc.Arguments)
		if err != nil {
			return design.RoomDraft{}, fmt.Errorf("drafting: tool arguments: %w", err)
		}
		raw = b
		break
	}
	if raw == nil {
		content := extractJSON(resp.Content)
		if content == "" {
			return design.RoomDraft{}, ErrNoDraft
		}
		raw = []byte(content)
	}

	var draft design.RoomDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return design.RoomDraft{}, fmt.Errorf("drafting: decode draft: %w", err)
	}
	for i := range draft.IORequirements {
		if draft.IORequirements[i].DistanceUnit == "" {
			draft.IORequirements[i].DistanceUnit = design.UnitMeters
		}
	}
	if err := design.ValidateDraft(draft); err != nil {
		return design.RoomDraft{}, fmt.Errorf("drafting: %w", err)
	}
	return draft, nil
}

func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
