package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yeremiapane/facilities-app/models"
)

// ErrNetwork wraps every failure to reach the server, so callers can tell
// connectivity problems apart from application errors with errors.Is.
var ErrNetwork = errors.New("could not reach server")

// APIError carries the message the server returned for a rejected request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// Client talks to the facilities API. Token, when set, is sent as a Bearer
// credential on every request.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do issues a JSON request and decodes the response envelope's data into out.
// fallback is reported when the server rejects the request without a message.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, fallback string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out, fallback)
}

func (c *Client) send(req *http.Request, out interface{}, fallback string) error {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var env envelope
	enveloped := json.Unmarshal(data, &env) == nil && env.Message != ""

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = fallback
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if enveloped {
		// An envelope without data leaves out at its zero value.
		if len(env.Data) > 0 {
			return json.Unmarshal(env.Data, out)
		}
		return nil
	}
	// Bare responses (the health endpoint) decode directly.
	return json.Unmarshal(data, out)
}

// LoginResult is the payload returned by Login and GoogleLogin.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &result, "Login failed"); err != nil {
		return nil, err
	}
	c.Token = result.Token
	return &result, nil
}

func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*LoginResult, error) {
	var result LoginResult
	body := map[string]string{"credential": idToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/google", body, &result, "Google sign-in failed"); err != nil {
		return nil, err
	}
	c.Token = result.Token
	return &result, nil
}

// RegisterRequest mirrors the registration payload. WorkerType is required
// only when Role is WORKER.
type RegisterRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Role       string  `json:"role,omitempty"`
	WorkerType *string `json:"workerType,omitempty"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/api/register", req, &user, "Registration failed"); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil, "Logout failed")
	if err == nil {
		c.Token = ""
	}
	return err
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &user, "Failed to load profile"); err != nil {
		return nil, err
	}
	return &user, nil
}

// HealthStatus is the readiness report from the health endpoint.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var health HealthStatus
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &health, "Service unavailable"); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, http.MethodGet, "/api/users", nil, &users, "Failed to load users")
	return users, err
}

func (c *Client) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	path := fmt.Sprintf("/api/users/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &user, "Failed to load user"); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uint, fields map[string]interface{}) (*models.User, error) {
	var user models.User
	path := fmt.Sprintf("/api/users/%d", id)
	if err := c.do(ctx, http.MethodPut, path, fields, &user, "Failed to update user"); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	path := fmt.Sprintf("/api/users/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, "Failed to delete user")
}

func (c *Client) SearchUsers(ctx context.Context, keyword string) ([]models.User, error) {
	var users []models.User
	path := "/api/users/search?keyword=" + url.QueryEscape(keyword)
	err := c.do(ctx, http.MethodGet, path, nil, &users, "Search failed")
	return users, err
}

func (c *Client) ListWorkers(ctx context.Context) ([]models.User, error) {
	var workers []models.User
	err := c.do(ctx, http.MethodGet, "/api/users/workers", nil, &workers, "Failed to load workers")
	return workers, err
}

func (c *Client) ListVenues(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	err := c.do(ctx, http.MethodGet, "/api/venues", nil, &venues, "Failed to load venues")
	return venues, err
}

func (c *Client) GetVenue(ctx context.Context, id uint) (*models.Venue, error) {
	var venue models.Venue
	path := fmt.Sprintf("/api/venues/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &venue, "Failed to load venue"); err != nil {
		return nil, err
	}
	return &venue, nil
}

func (c *Client) CreateVenue(ctx context.Context, venue models.Venue) (*models.Venue, error) {
	var created models.Venue
	if err := c.do(ctx, http.MethodPost, "/api/venues", venue, &created, "Failed to create venue"); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateVenue(ctx context.Context, id uint, venue models.Venue) (*models.Venue, error) {
	var updated models.Venue
	path := fmt.Sprintf("/api/venues/%d", id)
	if err := c.do(ctx, http.MethodPut, path, venue, &updated, "Failed to update venue"); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteVenue(ctx context.Context, id uint) error {
	path := fmt.Sprintf("/api/venues/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, "Failed to delete venue")
}

// QueryRequest is the payload for raising a query.
type QueryRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	Priority       string `json:"priority,omitempty"`
	VenueID        *uint  `json:"venueId,omitempty"`
	RaisedByUserID *uint  `json:"raisedByUserId,omitempty"`
}

func (c *Client) ListQueries(ctx context.Context) ([]models.Query, error) {
	var queries []models.Query
	err := c.do(ctx, http.MethodGet, "/api/queries", nil, &queries, "Failed to load queries")
	return queries, err
}

func (c *Client) GetQuery(ctx context.Context, id uint) (*models.Query, error) {
	var query models.Query
	path := fmt.Sprintf("/api/queries/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &query, "Failed to load query"); err != nil {
		return nil, err
	}
	return &query, nil
}

func (c *Client) CreateQuery(ctx context.Context, req QueryRequest) (*models.Query, error) {
	var query models.Query
	if err := c.do(ctx, http.MethodPost, "/api/queries", req, &query, "Failed to create query"); err != nil {
		return nil, err
	}
	return &query, nil
}

// CreateAnonymousQuery raises a query without authentication, optionally
// attaching an image. image may be nil.
func (c *Client) CreateAnonymousQuery(ctx context.Context, req QueryRequest, imageName string, image io.Reader) (*models.Query, error) {
	fields := map[string]string{
		"title":       req.Title,
		"description": req.Description,
		"category":    req.Category,
	}
	if req.Priority != "" {
		fields["priority"] = req.Priority
	}
	if req.VenueID != nil {
		fields["venueId"] = fmt.Sprintf("%d", *req.VenueID)
	}

	var query models.Query
	err := c.doMultipart(ctx, "/api/queries/anonymous", fields, "image", imageName, image, &query, "Failed to create query")
	if err != nil {
		return nil, err
	}
	return &query, nil
}

func (c *Client) AssignWorker(ctx context.Context, queryID, workerID uint) (*models.Query, error) {
	var query models.Query
	path := fmt.Sprintf("/api/queries/%d/assign/%d", queryID, workerID)
	if err := c.do(ctx, http.MethodPut, path, nil, &query, "Failed to assign worker"); err != nil {
		return nil, err
	}
	return &query, nil
}

func (c *Client) UpdateQueryStatus(ctx context.Context, queryID uint, status, comment string) (*models.Query, error) {
	var query models.Query
	path := fmt.Sprintf("/api/queries/%d/status", queryID)
	body := map[string]string{"status": status, "comment": comment}
	if err := c.do(ctx, http.MethodPut, path, body, &query, "Failed to update status"); err != nil {
		return nil, err
	}
	return &query, nil
}

// CompleteQuery resolves a query with completion notes and an optional
// evidence image. image may be nil.
func (c *Client) CompleteQuery(ctx context.Context, queryID uint, notes, imageName string, image io.Reader) (*models.Query, error) {
	fields := map[string]string{"completionNotes": notes}
	path := fmt.Sprintf("/api/queries/%d/complete", queryID)

	var query models.Query
	err := c.doMultipartMethod(ctx, http.MethodPut, path, fields, "completionImage", imageName, image, &query, "Failed to complete query")
	if err != nil {
		return nil, err
	}
	return &query, nil
}

func (c *Client) DeleteQuery(ctx context.Context, id uint) error {
	path := fmt.Sprintf("/api/queries/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, "Failed to delete query")
}

// SearchFilter holds the server-side query facets. Zero-value fields are not
// sent.
type SearchFilter struct {
	Status   string
	Category string
	Priority string
	VenueID  uint
	Keyword  string
}

func (c *Client) SearchQueries(ctx context.Context, filter SearchFilter) ([]models.Query, error) {
	params := url.Values{}
	if filter.Status != "" {
		params.Set("status", filter.Status)
	}
	if filter.Category != "" {
		params.Set("category", filter.Category)
	}
	if filter.Priority != "" {
		params.Set("priority", filter.Priority)
	}
	if filter.VenueID != 0 {
		params.Set("venueId", fmt.Sprintf("%d", filter.VenueID))
	}
	if filter.Keyword != "" {
		params.Set("keyword", filter.Keyword)
	}

	var queries []models.Query
	path := "/api/queries/search"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	err := c.do(ctx, http.MethodGet, path, nil, &queries, "Search failed")
	return queries, err
}

func (c *Client) QueriesByWorker(ctx context.Context, workerID uint) ([]models.Query, error) {
	var queries []models.Query
	path := fmt.Sprintf("/api/queries/worker/%d", workerID)
	err := c.do(ctx, http.MethodGet, path, nil, &queries, "Failed to load queries")
	return queries, err
}

// QueryStats are counts over the whole collection.
type QueryStats struct {
	Total      int64 `json:"totalQueries"`
	Pending    int64 `json:"pendingQueries"`
	Assigned   int64 `json:"assignedQueries"`
	InProgress int64 `json:"inProgressQueries"`
	Resolved   int64 `json:"resolvedQueries"`
	Closed     int64 `json:"closedQueries"`
}

func (c *Client) GetQueryStats(ctx context.Context) (*QueryStats, error) {
	var stats QueryStats
	if err := c.do(ctx, http.MethodGet, "/api/queries/stats", nil, &stats, "Failed to load stats"); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) QueryHistory(ctx context.Context, queryID uint) ([]models.QueryStatusHistory, error) {
	var history []models.QueryStatusHistory
	path := fmt.Sprintf("/api/queries/%d/history", queryID)
	err := c.do(ctx, http.MethodGet, path, nil, &history, "Failed to load history")
	return history, err
}

// EligibleWorkersResult pairs the required worker type with the candidates.
type EligibleWorkersResult struct {
	RequiredWorkerType string        `json:"requiredWorkerType"`
	Workers            []models.User `json:"workers"`
}

func (c *Client) EligibleWorkers(ctx context.Context, queryID uint) (*EligibleWorkersResult, error) {
	var result EligibleWorkersResult
	path := fmt.Sprintf("/api/queries/%d/eligible-workers", queryID)
	if err := c.do(ctx, http.MethodGet, path, nil, &result, "Failed to load eligible workers"); err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadResult describes a stored file.
type UploadResult struct {
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	OriginalName string `json:"originalName"`
}

func (c *Client) UploadFile(ctx context.Context, name string, file io.Reader) (*UploadResult, error) {
	var result UploadResult
	err := c.doMultipart(ctx, "/api/files/upload", nil, "file", name, file, &result, "Upload failed")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) doMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader, out interface{}, fallback string) error {
	return c.doMultipartMethod(ctx, http.MethodPost, path, fields, fileField, fileName, file, out, fallback)
}

func (c *Client) doMultipartMethod(ctx context.Context, method, path string, fields map[string]string, fileField, fileName string, file io.Reader, out interface{}, fallback string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return err
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(req, out, fallback)
}
