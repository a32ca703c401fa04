package security

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewSafeClient_Timeout(t *testing.T) {
	guard := NewSSRFGuard()
	timeout := 5 * time.Second
	client := guard.NewSafeClient(timeout, 5*1024*1024)
	if client.Timeout != timeout {
		t.Errorf("expected timeout %v, got %v", timeout, client.Timeout)
	}
}

// safeurlはDialerのControlフックでIPを検証するため、標準Transportであってはならない。
func TestNewSafeClient_HasCustomTransport(t *testing.T) {
	client := NewSSRFGuard().NewSafeClient(5*time.Second, 1024)

	if client.Transport == nil || client.Transport == http.DefaultTransport {
		t.Fatal("expected custom Transport")
	}
	if _, ok := client.Transport.(*limitedTransport); !ok {
		t.Errorf("Transport = %T, want *limitedTransport", client.Transport)
	}
}

// httptestサーバーは127.0.0.1で起動されるため、safeurlがブロックする。
func TestNewSafeClient_BlocksLoopback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewSSRFGuard().NewSafeClient(5*time.Second, 1024)
	if _, err := client.Get(ts.URL); err == nil {
		t.Fatal("expected error for loopback address request, got nil")
	}
}

func TestLimitedTransport_TruncatesBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer ts.Close()

	client := &http.Client{Transport: &limitedTransport{base: http.DefaultTransport, limit: 10}}
	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if len(body) != 10 {
		t.Errorf("len(body) = %d, want 10", len(body))
	}
}

func TestValidateURL(t *testing.T) {
	guard := NewSSRFGuard()

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://www.themealdb.com/api/json/v1/1", false},
		{"http://catalog.example.org/api", false},
		{"https://93.184.216.34/api", false},
		{"", true},
		{"not-a-url", true},
		{"ftp://www.themealdb.com/api", true},
		{"file:///etc/passwd", true},
		{"http://10.0.0.1/api", true},
		{"http://172.16.0.1/api", true},
		{"http://192.168.1.100/api", true},
		{"http://127.0.0.1/api", true},
		{"http://localhost/api", true},
		{"http://LOCALHOST:8080/api", true},
		{"http://169.254.169.254/latest/meta-data/", true},
		{"http://[::1]/api", true},
		{"http://0.0.0.0/api", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := guard.ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
