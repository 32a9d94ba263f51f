// Package postlist is the demo list/create view driven against a public
// placeholder posts API. It predates the note list view and shares its
// fetch, create and invalidate-and-refetch shape; it is not wired to the
// notes service.
package postlist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"notesapp/pkg/logger/sl"
)

const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// maxVisible caps how many posts the view shows.
const maxVisible = 10

type Post struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type View struct {
	baseURL string
	httpc   *http.Client
	log     *slog.Logger

	loading bool
	posts   []Post
}

func New(baseURL string, log *slog.Logger) *View {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &View{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		log:     log,
		loading: true,
	}
}

func (v *View) Loading() bool { return v.loading }

// Load fetches the post list.
func (v *View) Load(ctx context.Context) error {
	if err := v.refetch(ctx); err != nil {
		return err
	}
	v.loading = false
	return nil
}

// Posts returns the first posts of the cached list, capped for display.
func (v *View) Posts() []Post {
	if len(v.posts) > maxVisible {
		return v.posts[:maxVisible]
	}
	return v.posts
}

// AddPost creates a post and re-fetches the list.
func (v *View) AddPost(ctx context.Context, title, body string) error {
	buf, err := json.Marshal(Post{Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("encode post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/posts", bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpc.Do(req)
	if err != nil {
		v.log.Error("failed to create post", sl.Err(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("create post: unexpected status %d", resp.StatusCode)
	}

	return v.refetch(ctx)
}

func (v *View) refetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/posts", nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := v.httpc.Do(req)
	if err != nil {
		v.log.Error("failed to fetch posts", sl.Err(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch posts: unexpected status %d", resp.StatusCode)
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return fmt.Errorf("decode posts: %w", err)
	}
	v.posts = posts
	return nil
}
