package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestClient_Get_direct(t *testing.T) {
	var gotQuery url.Values
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotHeader = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	c := New(5 * time.Second)
	res, ok := c.Get(context.Background(), srv.URL,
		url.Values{"q": {"BTC"}},
		map[string]string{"User-Agent": "Mozilla/5.0"},
	)
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if string(res.Body) != "payload" {
		t.Errorf("Get() body = %q", res.Body)
	}
	if gotQuery.Get("q") != "BTC" {
		t.Errorf("query q = %q, want BTC", gotQuery.Get("q"))
	}
	if gotHeader != "Mozilla/5.0" {
		t.Errorf("User-Agent = %q", gotHeader)
	}
}

func TestClient_Get_non200WithoutProxies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(5 * time.Second)
	if _, ok := c.Get(context.Background(), srv.URL, nil, nil); ok {
		t.Error("Get() ok = true for 500 response without proxies")
	}
}

func TestClient_Get_proxyFallback(t *testing.T) {
	// The "proxy" answers 200 to any request it receives. The direct target
	// is a dead port, so a successful fetch proves the proxy path was used.
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("via-proxy"))
	}))
	defer proxy.Close()

	c := New(2 * time.Second).WithProxies([]string{proxy.URL})
	res, ok := c.Get(context.Background(), "http://127.0.0.1:1/unreachable", nil, nil)
	if !ok {
		t.Fatal("Get() ok = false, want proxy fallback to succeed")
	}
	if string(res.Body) != "via-proxy" {
		t.Errorf("Get() body = %q, want via-proxy", res.Body)
	}
}

func TestClient_Get_allAttemptsFail(t *testing.T) {
	c := New(500 * time.Millisecond).WithProxies([]string{"http://127.0.0.1:1"})
	if _, ok := c.Get(context.Background(), "http://127.0.0.1:1/nope", nil, nil); ok {
		t.Error("Get() ok = true when direct and all proxies are dead")
	}
}

func TestClient_Do_returnsStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	c := New(5 * time.Second)
	res, err := c.Do(context.Background(), srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if res.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Do() status = %d, want 429", res.StatusCode)
	}
}

func Test_parseProxyList(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "normal list",
			body: "1.2.3.4:8080\r\n5.6.7.8:3128\n",
			want: 2,
		},
		{
			name: "empty body",
			body: "",
			want: 0,
		},
		{
			name: "capped at pool size",
			body: func() string {
				var s string
				for i := 0; i < 50; i++ {
					s += "1.2.3.4:8080\n"
				}
				return s
			}(),
			want: proxyPoolCap,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseProxyList(tt.body)
			if len(got) != tt.want {
				t.Errorf("parseProxyList() len = %d, want %d", len(got), tt.want)
			}
			for _, p := range got {
				if p[:7] != "http://" {
					t.Errorf("proxy %q missing scheme prefix", p)
				}
			}
		})
	}
}
