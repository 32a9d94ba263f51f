package postlist_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"notesapp/internal/views/postlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePostsAPI mimics the placeholder API: list and create over a mutable
// in-process slice.
type fakePostsAPI struct {
	posts []postlist.Post
}

func (f *fakePostsAPI) handler() http.Handler {
	mux := http.NewServeMux()
	// Method patterns ("GET /posts") need Go 1.22's ServeMux; switch on the
	// method instead so the fake works on Go 1.21.
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(f.posts)
		case http.MethodPost:
			var p postlist.Post
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			p.ID = len(f.posts) + 1
			f.posts = append(f.posts, p)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(p)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func newTestView(t *testing.T, seed int) (*postlist.View, *fakePostsAPI) {
	t.Helper()

	api := &fakePostsAPI{}
	for i := 1; i <= seed; i++ {
		api.posts = append(api.posts, postlist.Post{ID: i, Title: fmt.Sprintf("post %d", i)})
	}

	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return postlist.New(srv.URL, log), api
}

func TestLoad(t *testing.T) {
	v, _ := newTestView(t, 3)

	require.True(t, v.Loading())
	require.NoError(t, v.Load(context.Background()))
	assert.False(t, v.Loading())
	assert.Len(t, v.Posts(), 3)
}

func TestPosts_CappedAtTen(t *testing.T) {
	v, _ := newTestView(t, 12)

	require.NoError(t, v.Load(context.Background()))
	assert.Len(t, v.Posts(), 10)
}

func TestAddPost_RefetchesList(t *testing.T) {
	v, api := newTestView(t, 1)
	ctx := context.Background()

	require.NoError(t, v.Load(ctx))
	require.NoError(t, v.AddPost(ctx, "New Post", "Hello World!"))

	assert.Len(t, api.posts, 2)
	require.Len(t, v.Posts(), 2)
	assert.Equal(t, "New Post", v.Posts()[1].Title)
	assert.Equal(t, "Hello World!", v.Posts()[1].Body)
}
