// Package genai клиент генеративного API для анализа тональности комментариев.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/creatorlens/creator-analytics/internal/config"
)

// Client клиент генеративного API. Ключ хранится на сервере и в ответы
// не попадает.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient создаёт новый клиент генеративного API.
func NewClient(cfg config.GenAI) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateText отправляет промпт и возвращает текст первого кандидата.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	const op = "genai.GenerateText"

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%s: unexpected status %s: %s", op, resp.Status, body)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%s: empty response", op)
	}
	return genResp.Candidates[0].Content.Parts[0].Text, nil
}

// CommentSentiment сводка тональности комментариев.
type CommentSentiment struct {
	Positive int      `json:"positive"`
	Negative int      `json:"negative"`
	Neutral  int      `json:"neutral"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords,omitempty"`
}

const sentimentPrompt = `Classify the sentiment of the following YouTube comments.
Respond with JSON only, no prose: {"positive": <count>, "negative": <count>,
"neutral": <count>, "summary": "<one sentence>", "keywords": ["<topic>", ...]}.

Comments:
%s`

// AnalyzeComments классифицирует тональность списка комментариев.
// Модель иногда оборачивает JSON в markdown или прозу, ответ разбирается
// с многоступенчатым запасным разбором.
func (c *Client) AnalyzeComments(ctx context.Context, comments []string) (*CommentSentiment, error) {
	const op = "genai.AnalyzeComments"

	joined, err := json.Marshal(comments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	text, err := c.GenerateText(ctx, fmt.Sprintf(sentimentPrompt, joined))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var sentiment CommentSentiment
	if err := ParseModelJSON(text, &sentiment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sentiment, nil
}
