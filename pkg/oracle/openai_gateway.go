package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIGateway generates candidate schedules via the OpenAI chat
// completions API. The model's output is treated as untrusted: the caller
// re-validates every candidate before holding it as a draft.
type OpenAIGateway struct {
	apiURL    string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
}

// OpenAIConfig holds configuration for the OpenAI gateway
type OpenAIConfig struct {
	APIURL    string
	APIKey    string
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

// NewOpenAIGateway creates a new OpenAIGateway
func NewOpenAIGateway(config OpenAIConfig) *OpenAIGateway {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 90 * time.Second
	}
	return &OpenAIGateway{
		apiURL:    strings.TrimRight(config.APIURL, "/"),
		apiKey:    config.APIKey,
		model:     config.Model,
		maxTokens: config.MaxTokens,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetName returns the gateway name
func (g *OpenAIGateway) GetName() string {
	return "openai"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// GenerateCandidates asks the model for a candidate week and parses the
// returned JSON array. The context bounds the call; cancellation aborts
// the request without side effects.
func (g *OpenAIGateway) GenerateCandidates(ctx context.Context, req Request) ([]Candidate, error) {
	payload := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are a medical office scheduling expert. You generate optimal schedules that meet all staffing requirements and constraints.",
			},
			{
				Role:    "user",
				Content: buildPrompt(req),
			},
		},
		Temperature: 0.2,
		MaxTokens:   g.maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("completion request returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode completion response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("completion API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("completion response contained no choices")
	}

	content := stripCodeFences(parsed.Choices[0].Message.Content)

	var candidates []Candidate
	if err := json.Unmarshal([]byte(content), &candidates); err != nil {
		return nil, fmt.Errorf("model returned malformed candidate JSON: %w", err)
	}

	return candidates, nil
}

// stripCodeFences removes a surrounding markdown code block if present
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if idx := strings.Index(content, "\n"); idx >= 0 {
		// drop a language tag such as "json"
		first := strings.TrimSpace(content[:idx])
		if len(first) <= 8 {
			content = content[idx+1:]
		}
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// buildPrompt renders the generation request into the scheduling prompt
func buildPrompt(req Request) string {
	staffJSON, _ := json.MarshalIndent(req.Staff, "", "  ")
	areaJSON, _ := json.MarshalIndent(req.Areas, "", "  ")
	timeOffJSON, _ := json.MarshalIndent(req.TimeOff, "", "  ")

	var b strings.Builder

	if req.Mode == ModeFillEmpty {
		existingJSON, _ := json.MarshalIndent(req.Existing, "", "  ")
		fmt.Fprintf(&b, `You are a medical office scheduling assistant. Generate shift assignments to FILL GAPS in an existing schedule.

EXISTING SHIFTS:
%s

DO NOT create shifts for staff/areas/dates that already have shifts above.
ONLY suggest new shifts to fill understaffed areas.

`, existingJSON)
	} else {
		b.WriteString("You are a medical office scheduling assistant. Generate a COMPLETE weekly schedule from scratch for a medical office.\n\n")
	}

	fmt.Fprintf(&b, `WEEK TO SCHEDULE: starting %s
Days: Monday, Tuesday, Wednesday, Thursday, Friday (5 days total)

STAFF AVAILABLE:
%s

AREAS THAT EXIST (USE THESE EXACT IDs):
%s

APPROVED TIME-OFF (DO NOT schedule these staff on these dates):
%s

RULES:
1. Each area must meet its required role counts every day.
2. REQUIRED DAYS OFF: never schedule a staff member on a weekday in their required_days_off.
3. FLEXIBLE DAYS OFF: staff must be off AT LEAST ONE of their flexible_days_off each week.
4. AREA RESTRICTIONS: staff with allowed_areas can ONLY work in those areas.
5. TIME-OFF: do not schedule staff during approved time-off periods.
6. NO DOUBLE BOOKING: each staff member can only have 1 shift per day.
7. Staff working 10-hour shifts can have AT MOST 4 shifts in the week.
8. End time = start time plus the staff member's shift_length hours.

Return ONLY a valid JSON array. Each shift object:
{"staff_id": "<id>", "area_id": "<id>", "date": "YYYY-MM-DD", "start_time": "HH:MM", "end_time": "HH:MM"}

DO NOT include any explanation, markdown, or extra text - ONLY the JSON array.
`, req.WeekStart, staffJSON, areaJSON, timeOffJSON)

	return b.String()
}
