package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edgard/morningbot/internal/resilience"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Endpoints{
		CatURL:        srv.URL + "/cat",
		DictionaryURL: srv.URL + "/dict",
		FactsURL:      srv.URL + "/facts",
		WeatherURL:    srv.URL + "/weather",
	}, 2*time.Second, nil, opts...)
	return c, srv
}

func TestCatImageURL(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cat" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[{"id":"abc","url":"https://cdn2.thecatapi.com/images/abc.jpg","width":500}]`)
	})

	got, err := c.CatImageURL(context.Background())
	if err != nil {
		t.Fatalf("CatImageURL() error = %v", err)
	}
	if want := "https://cdn2.thecatapi.com/images/abc.jpg"; got != want {
		t.Errorf("CatImageURL() = %q, want %q", got, want)
	}
}

func TestCatImageURLErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: ErrUnexpectedStatus},
		{name: "empty list", status: http.StatusOK, body: `[]`, wantErr: ErrEmptyResponse},
		{name: "missing url", status: http.StatusOK, body: `[{"id":"x"}]`, wantErr: ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := c.CatImageURL(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CatImageURL() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatImageURLInvalidJSON(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{not json`)
	})

	if _, err := c.CatImageURL(context.Background()); err == nil {
		t.Fatal("CatImageURL() error = nil, want decode error")
	}
}

func TestDefine(t *testing.T) {
	t.Parallel()

	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `[{"word":"run","meanings":[
			{"partOfSpeech":"noun","definitions":[{"definition":"An act of running."},{"definition":"ignored"}]},
			{"partOfSpeech":"verb","definitions":[]},
			{"partOfSpeech":"verb","definitions":[{"definition":"To move swiftly."}]}
		]}]`)
	})

	got, err := c.Define(context.Background(), " run ")
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}
	if gotPath != "/dict/run" {
		t.Errorf("request path = %q, want /dict/run", gotPath)
	}
	want := []string{"An act of running.", "To move swiftly."}
	if !slices.Equal(got, want) {
		t.Errorf("Define() = %v, want %v", got, want)
	}
}

func TestDefineNotFound(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"title":"No Definitions Found"}`)
	})

	_, err := c.Define(context.Background(), "qwxz")
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("Define() error = %v, want ErrUnexpectedStatus", err)
	}
}

func TestDefineEmptyWord(t *testing.T) {
	t.Parallel()

	called := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	if _, err := c.Define(context.Background(), "   "); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Define() error = %v, want ErrEmptyResponse", err)
	}
	if called {
		t.Error("Define() called the API for an empty word")
	}
}

func TestUselessFact(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"1","text":"Bananas are berries.","source":"x"}`)
	})

	got, err := c.UselessFact(context.Background())
	if err != nil {
		t.Fatalf("UselessFact() error = %v", err)
	}
	if got != "Bananas are berries." {
		t.Errorf("UselessFact() = %q", got)
	}
}

func TestWeather(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Hyderabad: ☀️ +31°C 0.0mm 🌖\n")
	})

	got, err := c.Weather(context.Background())
	if err != nil {
		t.Fatalf("Weather() error = %v", err)
	}
	if want := "Hyderabad: ☀️ +31°C 0.0mm 🌖"; got != want {
		t.Errorf("Weather() = %q, want %q", got, want)
	}
}

func TestWeatherUnavailable(t *testing.T) {
	t.Parallel()

	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	if _, err := c.Weather(context.Background()); err == nil {
		t.Fatal("Weather() error = nil, want error for closed server")
	}
}

func TestRawURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "blob url",
			input: "https://github.com/user/repo/blob/main/src/main.rs",
			want:  "https://raw.githubusercontent.com/user/repo/main/src/main.rs",
		},
		{
			name:  "surrounding whitespace",
			input: "  https://github.com/user/repo/blob/v1.0/README.md ",
			want:  "https://raw.githubusercontent.com/user/repo/v1.0/README.md",
		},
		{
			name:  "not a github url",
			input: "https://example.com/file.txt",
			want:  "https://example.com/file.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RawURL(tt.input); got != tt.want {
				t.Errorf("RawURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"server error", &StatusError{Code: http.StatusBadGateway}, true},
		{"throttled", &StatusError{Code: http.StatusTooManyRequests}, true},
		{"not found", &StatusError{Code: http.StatusNotFound}, false},
		{"transport", fmt.Errorf("request failed: %w", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("refused")}), true},
		{"empty", ErrEmptyResponse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func testGuard() *resilience.Guard {
	return resilience.NewGuard(resilience.Policy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		MaxFailures:     10,
		Retryable:       Retryable,
	}, nil)
}

func TestGuardedClientRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "Hyderabad: +30°C")
	}, WithGuard(testGuard()))

	got, err := c.Weather(context.Background())
	if err != nil {
		t.Fatalf("Weather() error = %v", err)
	}
	if got != "Hyderabad: +30°C" || calls.Load() != 3 {
		t.Errorf("Weather() = %q after %d calls, want success on third call", got, calls.Load())
	}
}

func TestGuardedClientDoesNotRetryNotFound(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}, WithGuard(testGuard()))

	if _, err := c.Define(context.Background(), "qwertyuiop"); !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("Define() error = %v, want ErrUnexpectedStatus", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}
