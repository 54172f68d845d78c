package tmdb

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const popularBody = `{"page":1,"results":[
	{"id":1,"title":"A","poster_path":"/a.jpg","vote_average":7.5,"release_date":"2024-05-01"},
	{"id":2,"title":"B","poster_path":null,"overview":""}
]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
		Logger:  discard,
	})
}

func TestPopular(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/popular" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q, want test-key", got)
		}
		io.WriteString(w, popularBody)
	})

	movies, err := c.Popular(context.Background())
	if err != nil {
		t.Fatalf("Popular failed: %v", err)
	}
	if len(movies) != 2 || movies[0].ID != 1 || movies[1].ID != 2 {
		t.Fatalf("unexpected movies: %+v", movies)
	}
	if movies[1].PosterPath != nil {
		t.Errorf("Expected nil poster path for null, got %q", *movies[1].PosterPath)
	}
	if movies[1].VoteAverage != nil {
		t.Error("Expected absent vote average")
	}
	if movies[0].RatingLabel() != "7.5" {
		t.Errorf("RatingLabel() = %q", movies[0].RatingLabel())
	}
}

func TestSearchEncodesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "fast & furious?" {
			t.Errorf("query = %q", got)
		}
		if !strings.Contains(r.URL.RawQuery, "query=fast+%26+furious%3F") {
			t.Errorf("query not encoded: %s", r.URL.RawQuery)
		}
		io.WriteString(w, `{"results":[{"id":9,"title":"Fast"}]}`)
	})

	movies, err := c.Search(context.Background(), "  fast & furious?  ")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(movies) != 1 || movies[0].ID != 9 {
		t.Errorf("unexpected movies: %+v", movies)
	}
}

func TestBlankSearchIsPopular(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		io.WriteString(w, popularBody)
	})

	for _, q := range []string{"", "   ", "\t\n"} {
		movies, err := c.Search(context.Background(), q)
		if err != nil {
			t.Fatalf("Search(%q) failed: %v", q, err)
		}
		if len(movies) != 2 {
			t.Errorf("Search(%q) returned %d movies, want 2", q, len(movies))
		}
	}
	for _, p := range paths {
		if p != "/movie/popular" {
			t.Errorf("blank search hit %s, want /movie/popular", p)
		}
	}
}

func TestDiscover(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" || r.URL.Query().Get("with_genres") != "878" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		io.WriteString(w, `{"results":[{"id":3,"title":"Sci"}]}`)
	})

	movies, err := c.Discover(context.Background(), 878)
	if err != nil || len(movies) != 1 {
		t.Fatalf("Discover() = %+v, %v", movies, err)
	}
}

func TestMissingResultsIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"page":1}`)
	})

	movies, err := c.Popular(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if movies == nil || len(movies) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", movies)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
		message string
	}{
		{
			name: "bad credentials",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, `{"success":false,"status_code":7,"status_message":"Invalid API key: You must be granted a valid key."}`)
			},
			want:    ErrProvider,
			message: "Invalid API key",
		},
		{
			name: "success false with 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"success":false,"status_code":34,"status_message":"The resource you requested could not be found."}`)
			},
			want:    ErrProvider,
			message: "could not be found",
		},
		{
			name: "html gateway page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusBadGateway)
				io.WriteString(w, `<html><head><title>502 Bad Gateway</title></head><body><h1>oops</h1></body></html>`)
			},
			want:    ErrProvider,
			message: "502 Bad Gateway",
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `this is not json`)
			},
			want: ErrMalformed,
		},
		{
			name: "wrong shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"results":"nope"}`)
			},
			want: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			movies, err := c.Popular(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if movies != nil {
				t.Errorf("Expected nil movies on error, got %+v", movies)
			}
			if tt.message != "" && !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not mention %q", err, tt.message)
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k", Logger: discard})
	if _, err := c.Popular(context.Background()); !errors.Is(err, ErrNetwork) {
		t.Fatalf("Expected ErrNetwork, got %v", err)
	}
}

func TestTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k", Timeout: 50 * time.Millisecond, Logger: discard})
	if _, err := c.Popular(context.Background()); !errors.Is(err, ErrNetwork) {
		t.Fatalf("Expected ErrNetwork on timeout, got %v", err)
	}
}

func TestAccessTokenUsesBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Query().Has("api_key") {
			t.Error("api_key must not be sent with a bearer token")
		}
		io.WriteString(w, `{"results":[]}`)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k", AccessToken: "tok", Logger: discard})
	if _, err := c.Popular(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestTrailerKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/1/videos":
			io.WriteString(w, `{"id":1,"results":[
				{"key":"vim1","site":"Vimeo","type":"Trailer"},
				{"key":"yt-teaser","site":"YouTube","type":"Teaser"},
				{"key":"yt-trailer","site":"YouTube","type":"Trailer"},
				{"key":"yt-trailer-2","site":"YouTube","type":"Trailer"}
			]}`)
		case "/movie/2/videos":
			io.WriteString(w, `{"id":2,"results":[{"key":"x","site":"YouTube","type":"Clip"}]}`)
		case "/movie/3/videos":
			io.WriteString(w, `{"id":3}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	if key, ok := c.TrailerKey(ctx, 1); !ok || key != "yt-trailer" {
		t.Errorf("TrailerKey(1) = %q, %v; want yt-trailer, true", key, ok)
	}
	if _, ok := c.TrailerKey(ctx, 2); ok {
		t.Error("Expected no trailer for movie 2")
	}
	if _, ok := c.TrailerKey(ctx, 3); ok {
		t.Error("Expected no trailer when results are missing")
	}
	if _, ok := c.TrailerKey(ctx, 4); ok {
		t.Error("Expected no trailer when lookup fails")
	}
}

func TestYouTubeURL(t *testing.T) {
	if got := YouTubeURL("abc_123"); got != "https://www.youtube.com/watch?v=abc_123" {
		t.Errorf("YouTubeURL() = %q", got)
	}
}
