package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ArgusIntel/internal/domain"
	"ArgusIntel/internal/ports"
)

// Client talks to an external NER inference service exposing spaCy-style
// entity labels over HTTP.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.EntityRecognizer = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type wireEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Recognize posts the article text and maps the service labels onto the
// generic candidate labels the extractor understands.
func (c *Client) Recognize(ctx context.Context, text string) ([]domain.EntityCandidate, error) {
	payload := map[string]any{"text": text}

	var resp struct {
		Entities []wireEntity `json:"entities"`
	}

	if err := c.post(ctx, "/entities", payload, &resp); err != nil {
		return nil, err
	}

	candidates := make([]domain.EntityCandidate, 0, len(resp.Entities))
	for _, ent := range resp.Entities {
		candidates = append(candidates, domain.EntityCandidate{
			Text:  ent.Text,
			Label: mapLabel(ent.Label),
			Start: ent.Start,
			End:   ent.End,
		})
	}

	return candidates, nil
}

func mapLabel(label string) domain.CandidateLabel {
	switch label {
	case "PERSON":
		return domain.LabelPerson
	case "ORG", "CORP":
		return domain.LabelOrg
	case "GPE", "LOC", "FAC":
		return domain.LabelGPE
	default:
		return domain.LabelOther
	}
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
