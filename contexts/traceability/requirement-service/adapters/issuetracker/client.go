package issuetracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"reqtrace/contexts/traceability/requirement-service/domain/entities"
)

// Client fetches user stories and tasks from the issue tracker. It covers
// the story and task artifact kinds; both resolve to issue records.
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

// issueRecord mirrors the subset of the upstream issue payload the
// normalizer maps; everything else is dropped.
type issueRecord struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  struct {
			Name string `json:"name"`
		} `json:"status"`
		Assignee struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
	} `json:"fields"`
	Self string `json:"self"`
}

func (c *Client) FetchArtifact(ctx context.Context, kind entities.ArtifactKind, externalID string) (entities.RawArtifact, error) {
	endpoint := fmt.Sprintf("%s/rest/api/2/issue/%s", c.baseURL, url.PathEscape(externalID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entities.RawArtifact{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entities.RawArtifact{}, fmt.Errorf("issue tracker fetch %s: %w", externalID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entities.RawArtifact{}, fmt.Errorf("issue tracker fetch %s: status %d", externalID, resp.StatusCode)
	}

	var record issueRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return entities.RawArtifact{}, fmt.Errorf("issue tracker decode %s: %w", externalID, err)
	}

	return entities.RawArtifact{
		ExternalID: externalID,
		DisplayKey: record.Key,
		Title:      record.Fields.Summary,
		Status:     record.Fields.Status.Name,
		Owner:      record.Fields.Assignee.DisplayName,
		URL:        record.Self,
	}, nil
}
