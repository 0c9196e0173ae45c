// Package client is the HTTP client for the controlbench API. The terminal
// wizard and the admin CLI subcommands talk to a running server through it.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bioedlabs/controlbench/internal/models"
	"github.com/bioedlabs/controlbench/internal/service"
)

const requestTimeout = 15 * time.Second

type Client struct {
	base string
	http *http.Client
}

// New returns a client for the API at base, e.g. "http://localhost:8085".
func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: requestTimeout},
	}
}

// Questions fetches the static question catalog.
func (c *Client) Questions() ([]models.Question, error) {
	var resp struct {
		Data []models.Question `json:"data"`
	}
	if err := c.do(http.MethodGet, "/api/v1/questions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Question fetches one question by id.
func (c *Client) Question(id int) (models.Question, error) {
	var resp struct {
		Data models.Question `json:"data"`
	}
	err := c.do(http.MethodGet, "/api/v1/questions/"+strconv.Itoa(id), nil, &resp)
	return resp.Data, err
}

// Submit stores one authored control column and returns the stored
// document, including its server-assigned id.
func (c *Client) Submit(questionID int, column []models.ControlSelection, name, sessionID string) (models.Submission, error) {
	req := service.CreateRequest{
		QuestionID:           questionID,
		NewControlSelections: column,
		ControlName:          name,
		SessionID:            sessionID,
	}
	var resp struct {
		Data models.Submission `json:"data"`
	}
	err := c.do(http.MethodPost, "/api/v1/submissions", req, &resp)
	return resp.Data, err
}

// List fetches a newest-first page of submissions for a question and
// session, returning the page and the total match count.
func (c *Client) List(questionID int, sessionID string, page, limit int) ([]models.Submission, int, error) {
	q := url.Values{}
	q.Set("questionId", strconv.Itoa(questionID))
	if sessionID != "" {
		q.Set("sessionId", sessionID)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var resp struct {
		Data       []models.Submission `json:"data"`
		Pagination service.Pagination  `json:"pagination"`
	}
	if err := c.do(http.MethodGet, "/api/v1/submissions?"+q.Encode(), nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Data, resp.Pagination.TotalCount, nil
}

// Delete bulk-deletes submissions by id and returns how many were removed.
func (c *Client) Delete(ids []string) (int, error) {
	req := map[string]any{"submissionIds": ids}
	var resp struct {
		DeletedCount int `json:"deletedCount"`
	}
	if err := c.do(http.MethodDelete, "/api/v1/submissions", req, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

// Diagnostics fetches the read-only store introspection.
func (c *Client) Diagnostics() (*service.Diagnostics, error) {
	var resp struct {
		Stats *service.Diagnostics `json:"stats"`
	}
	if err := c.do(http.MethodGet, "/api/v1/admin/diagnostics", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Stats, nil
}

// Analyze fetches a cleanup preview without changing data.
func (c *Client) Analyze() (*service.Analysis, error) {
	var resp struct {
		Analysis *service.Analysis `json:"analysis"`
	}
	if err := c.do(http.MethodGet, "/api/v1/admin/cleanup", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Analysis, nil
}

// Cleanup runs one cleanup action. delete-all needs the confirmation code.
func (c *Client) Cleanup(action, confirmationCode string) (*service.CleanupResult, error) {
	req := map[string]any{"action": action}
	if confirmationCode != "" {
		req["confirmationCode"] = confirmationCode
	}
	var resp struct {
		Result *service.CleanupResult `json:"result"`
	}
	if err := c.do(http.MethodPost, "/api/v1/admin/cleanup", req, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
