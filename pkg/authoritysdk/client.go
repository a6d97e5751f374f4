package authoritysdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a thin HTTP client for the external-authentication authority
// service, grounded on the teacher's SDKClient shape but reduced to plain
// unauthenticated/shared-secret calls — this domain has no bearer-token
// session to manage.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// FocusSecret, if set, is sent as X-Focus-Secret on focus-control calls.
	FocusSecret string
}

// NewClient returns a Client pointed at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("authoritysdk: build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authoritysdk: send request: %w", err)
	}
	return resp, nil
}

func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("authoritysdk: read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("authoritysdk: decode response: %w", err)
	}
	return nil
}

// IssueURL requests a fresh authentication URL for participantAddress in
// roomName (spec §4.1, §6).
func (c *Client) IssueURL(ctx context.Context, participantAddress, roomName string) (string, error) {
	payload, err := json.Marshal(IssueURLRequest{ParticipantAddress: participantAddress, RoomName: roomName})
	if err != nil {
		return "", fmt.Errorf("authoritysdk: encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/issue-url", strings.NewReader(string(payload)),
		map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return "", err
	}

	var out IssueURLResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.URL, nil
}

// Authenticate plays the role of the Redirect Handler from the outside:
// it submits (token, identity) to the callback endpoint and reports
// whether the binding succeeded (spec §4.2, §6 "Redirect Handler contract").
func (c *Client) Authenticate(ctx context.Context, token, externalIdentity string) (bool, error) {
	q := url.Values{"token": {token}, "identity": {externalIdentity}}
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/callback?"+q.Encode(), nil, nil)
	if err != nil {
		return false, err
	}

	var out AuthenticateResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.Authenticated, nil
}

// IsAllowedToCreateRoom calls the is-allowed-to-create-room policy query
// (spec §4.3).
func (c *Client) IsAllowedToCreateRoom(ctx context.Context, participantAddress, roomName string) (bool, error) {
	return c.policyQuery(ctx, "/v1/policy/can-create-room", participantAddress, roomName)
}

// IsUserAuthenticated calls the is-user-authenticated policy query (spec §4.3).
func (c *Client) IsUserAuthenticated(ctx context.Context, participantAddress, roomName string) (bool, error) {
	return c.policyQuery(ctx, "/v1/policy/is-authenticated", participantAddress, roomName)
}

func (c *Client) policyQuery(ctx context.Context, path, participantAddress, roomName string) (bool, error) {
	q := url.Values{"participant_address": {participantAddress}, "room_name": {roomName}}
	resp, err := c.doRequest(ctx, http.MethodGet, path+"?"+q.Encode(), nil, nil)
	if err != nil {
		return false, err
	}

	var out PolicyResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.Allowed, nil
}

// GetLiveness checks /livez.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil, nil)
	if err != nil {
		return nil, err
	}
	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks /readyz.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return nil, err
	}
	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// CreateConference tells the demo Focus Manager control endpoint that
// roomName now exists. Requires FocusSecret to be set.
func (c *Client) CreateConference(ctx context.Context, roomName string) error {
	resp, err := c.doRequest(ctx, http.MethodPut, "/v1/focus/rooms/"+url.PathEscape(roomName), nil,
		map[string]string{"X-Focus-Secret": c.FocusSecret})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// DestroyConference tells the demo Focus Manager control endpoint that
// roomName no longer exists, triggering on-focus-destroyed (spec §4.4).
// Requires FocusSecret to be set.
func (c *Client) DestroyConference(ctx context.Context, roomName string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/v1/focus/rooms/"+url.PathEscape(roomName), nil,
		map[string]string{"X-Focus-Secret": c.FocusSecret})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func checkStatusNoContent(resp *http.Response) error {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, body)
	}
	return nil
}
