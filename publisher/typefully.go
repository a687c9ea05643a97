package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cryptovibes/cryptovibes/pkg/errlvl"
)

// TypefullyPublisher creates scheduled drafts through the Typefully v2 API.
// The account's first social set receives the draft on its X platform.
type TypefullyPublisher struct {
	APIKey string
	URL    string

	client *http.Client
}

// NewTypefullyPublisher creates a new Typefully client.
func NewTypefullyPublisher(apiKey string) *TypefullyPublisher {
	return &TypefullyPublisher{
		APIKey: apiKey,
		URL:    "https://api.typefully.com/v2",
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type typefullySocialSetsResponse struct {
	Results []struct {
		ID int `json:"id"`
	} `json:"results"`
}

type typefullyDraftRequest struct {
	Platforms typefullyPlatforms `json:"platforms"`
	PublishAt string             `json:"publish_at"`
}

type typefullyPlatforms struct {
	X typefullyXPost `json:"x"`
}

type typefullyXPost struct {
	Enabled bool           `json:"enabled"`
	Posts   []typefullyTxt `json:"posts"`
}

type typefullyTxt struct {
	Text string `json:"text"`
}

type typefullyDraftResponse struct {
	ID int `json:"id"`
}

// Publish creates a draft scheduled for immediate publication and returns
// the draft id.
func (t *TypefullyPublisher) Publish(ctx context.Context, text string) (pubID string, err error) {
	if t.APIKey == "" {
		return "", newError(errlvl.WARN, errTypefullyNoKey)
	}

	socialSetID, err := t.firstSocialSet(ctx)
	if err != nil {
		return "", err
	}

	body := typefullyDraftRequest{
		Platforms: typefullyPlatforms{
			X: typefullyXPost{
				Enabled: true,
				Posts:   []typefullyTxt{{Text: text}},
			},
		},
		PublishAt: time.Now().UTC().Format(time.RFC3339),
	}

	var draft typefullyDraftResponse
	err = t.request(ctx, http.MethodPost, fmt.Sprintf("%s/social-sets/%d/drafts", t.URL, socialSetID), body, &draft)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d", draft.ID), nil
}

// firstSocialSet resolves the account's first social set id.
func (t *TypefullyPublisher) firstSocialSet(ctx context.Context) (int, error) {
	var sets typefullySocialSetsResponse
	if err := t.request(ctx, http.MethodGet, t.URL+"/social-sets", nil, &sets); err != nil {
		return 0, err
	}
	if len(sets.Results) == 0 {
		return 0, newError(errlvl.ERROR, errTypefullyNoSocialID)
	}

	return sets.Results[0].ID, nil
}

func (t *TypefullyPublisher) request(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			return newError(errlvl.ERROR, errTypefullyRequest, err)
		}
		reader = bytes.NewBuffer(bodyJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return newError(errlvl.ERROR, errTypefullyRequest, err)
	}

	req.Header.Set("Authorization", "Bearer "+t.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return newError(errlvl.ERROR, errTypefullyRequest, err)
	}

	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(errlvl.ERROR, errTypefullyStatus, fmt.Errorf("status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newError(errlvl.ERROR, errTypefullyRequest, err)
	}

	return nil
}
