package buildsystem

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"reqtrace/contexts/traceability/requirement-service/domain/entities"
)

// Client fetches test runs and deployments from the build/deployment system.
// One upstream serves both kinds behind different resource paths.
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

type runRecord struct {
	Name    string `json:"name"`
	Outcome string `json:"outcome"`
	Status  string `json:"status"`
	Owner   string `json:"owner"`
	WebURL  string `json:"web_url"`
}

func (c *Client) FetchArtifact(ctx context.Context, kind entities.ArtifactKind, externalID string) (entities.RawArtifact, error) {
	resource := "runs"
	if kind == entities.KindDeployment {
		resource = "deployments"
	}

	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, resource, url.PathEscape(externalID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entities.RawArtifact{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entities.RawArtifact{}, fmt.Errorf("build system fetch %s/%s: %w", resource, externalID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entities.RawArtifact{}, fmt.Errorf("build system fetch %s/%s: status %d", resource, externalID, resp.StatusCode)
	}

	var record runRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return entities.RawArtifact{}, fmt.Errorf("build system decode %s/%s: %w", resource, externalID, err)
	}

	return entities.RawArtifact{
		ExternalID: externalID,
		Title:      record.Name,
		Status:     record.Status,
		Outcome:    record.Outcome,
		Owner:      record.Owner,
		URL:        record.WebURL,
	}, nil
}
