// Package notes provides a typed HTTP client for the notes service API.
package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"notesapp/internal/models"
)

// APIError carries the status code and the {error} body of a failed request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s (status %d)", e.Message, e.StatusCode)
}

type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type CreateNoteRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	UserID   string `json:"userId,omitempty"`
	UserName string `json:"userName,omitempty"`
}

type UpdateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (c *Client) ListNotes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := c.do(ctx, http.MethodGet, "/notes", nil, &notes); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (c *Client) GetNote(ctx context.Context, id string) (*models.Note, error) {
	var note models.Note
	if err := c.do(ctx, http.MethodGet, "/notes/"+id, nil, &note); err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &note, nil
}

func (c *Client) CreateNote(ctx context.Context, req CreateNoteRequest) (*models.Note, error) {
	var note models.Note
	if err := c.do(ctx, http.MethodPost, "/notes", req, &note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return &note, nil
}

func (c *Client) UpdateNote(ctx context.Context, id string, req UpdateNoteRequest) (*models.Note, error) {
	var note models.Note
	if err := c.do(ctx, http.MethodPut, "/notes/"+id, req, &note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return &note, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/notes/"+id, nil, nil); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/users", body, &user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
