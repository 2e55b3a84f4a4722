package sourcehost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"reqtrace/contexts/traceability/requirement-service/domain/entities"
)

// Client fetches commit records from the source-control host.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

func NewClient(baseURL string, authToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		authToken:  authToken,
		httpClient: httpClient,
	}
}

type commitRecord struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"commit"`
	HTMLURL string `json:"html_url"`
}

func (c *Client) FetchArtifact(ctx context.Context, _ entities.ArtifactKind, externalID string) (entities.RawArtifact, error) {
	endpoint := fmt.Sprintf("%s/commits/%s", c.baseURL, url.PathEscape(externalID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entities.RawArtifact{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entities.RawArtifact{}, fmt.Errorf("source host fetch %s: %w", externalID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entities.RawArtifact{}, fmt.Errorf("source host fetch %s: status %d", externalID, resp.StatusCode)
	}

	var record commitRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return entities.RawArtifact{}, fmt.Errorf("source host decode %s: %w", externalID, err)
	}

	return entities.RawArtifact{
		ExternalID: externalID,
		Title:      record.Commit.Message,
		Author:     record.Commit.Author.Name,
		Status:     "committed",
		URL:        record.HTMLURL,
	}, nil
}
