package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

// Recognizer tags general-purpose named entities in normalized query text.
// Implementations may fail freely: the extractor treats a recognizer error
// as "no extra entities".
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]apptype.Entity, error)
}

// NopRecognizer tags nothing. Used when no tagging service is configured.
type NopRecognizer struct{}

func (NopRecognizer) Recognize(context.Context, string) ([]apptype.Entity, error) {
	return nil, nil
}

// HTTPRecognizer calls an external NER tagging endpoint. The endpoint takes
// {"text": ...} and returns {"entities": [{"text","label","start","end"}]}.
type HTTPRecognizer struct {
	endpoint string
	client   *http.Client
}

func NewHTTPRecognizer(endpoint string, timeout time.Duration) *HTTPRecognizer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRecognizer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type nerRequest struct {
	Text string `json:"text"`
}

type nerSpan struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type nerResponse struct {
	Entities []nerSpan `json:"entities"`
}

func (r *HTTPRecognizer) Recognize(ctx context.Context, text string) ([]apptype.Entity, error) {
	body, err := json.Marshal(nerRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ner request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create ner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ner endpoint returned status %d", resp.StatusCode)
	}

	var parsed nerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode ner response: %w", err)
	}

	entities := make([]apptype.Entity, 0, len(parsed.Entities))
	for _, s := range parsed.Entities {
		entities = append(entities, apptype.Entity{
			Text:       s.Text,
			Label:      apptype.EntityType(s.Label),
			Start:      s.Start,
			End:        s.End,
			Confidence: 1.0,
		})
	}
	return entities, nil
}
