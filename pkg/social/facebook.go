package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const DefaultGraphURL = "https://graph.facebook.com"

// Stats are the engagement counts a social graph reports for one URL.
type Stats struct {
	ShareCount   int `json:"share_count"`
	LikeCount    int `json:"like_count"`
	CommentCount int `json:"comment_count"`
	ClickCount   int `json:"click_count"`
}

// LikesClient looks up engagement for a normalized website URL.
type LikesClient interface {
	URLLikes(ctx context.Context, website string) (Stats, error)
}

type graphResponse struct {
	ID         string `json:"id"`
	Engagement struct {
		ReactionCount      int `json:"reaction_count"`
		CommentCount       int `json:"comment_count"`
		ShareCount         int `json:"share_count"`
		CommentPluginCount int `json:"comment_plugin_count"`
	} `json:"engagement"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// FacebookClient reads URL engagement from the Facebook Graph API.
type FacebookClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

func NewFacebookClient(accessToken string) *FacebookClient {
	return &FacebookClient{
		baseURL:     DefaultGraphURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *FacebookClient) URLLikes(ctx context.Context, website string) (Stats, error) {
	params := url.Values{}
	params.Set("id", website)
	params.Set("fields", "engagement")
	if c.accessToken != "" {
		params.Set("access_token", c.accessToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return Stats{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Stats{}, fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	var body graphResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Stats{}, fmt.Errorf("decoding graph response: %w", err)
	}
	if body.Error != nil {
		return Stats{}, fmt.Errorf("graph error %d: %s", body.Error.Code, body.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return Stats{}, fmt.Errorf("graph returned status %d", resp.StatusCode)
	}

	return Stats{
		ShareCount:   body.Engagement.ShareCount,
		LikeCount:    body.Engagement.ReactionCount,
		CommentCount: body.Engagement.CommentCount + body.Engagement.CommentPluginCount,
	}, nil
}
