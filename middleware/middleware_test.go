// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-elect/models"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestWithLoggingRecordsStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"ballot accepted", http.StatusCreated, "INFO"},
		{"duplicate ballot", http.StatusConflict, "INFO"},
		{"store failure", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			h := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				CodedErrorResponse(w, tt.status, "", "x")
			})

			req := httptest.NewRequest("POST", "/votes/cast", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.7")
			w := httptest.NewRecorder()
			h(w, req)

			if w.Code != tt.status {
				t.Errorf("Expected response status %d, got %d", tt.status, w.Code)
			}

			var line struct {
				Level  string `json:"level"`
				Path   string `json:"path"`
				Status int    `json:"status"`
				Client string `json:"client"`
			}
			if err := json.Unmarshal(logs.Bytes(), &line); err != nil {
				t.Fatalf("Expected one JSON log line, got %q: %v", logs.String(), err)
			}
			if line.Status != tt.status || line.Level != tt.wantLevel {
				t.Errorf("Logged status %d at %s, want %d at %s", line.Status, line.Level, tt.status, tt.wantLevel)
			}
			if line.Path != "/votes/cast" || line.Client != "203.0.113.7" {
				t.Errorf("Unexpected log line %+v", line)
			}
		})
	}
}

func TestWithLoggingImplicitOK(t *testing.T) {
	logs := captureLogs(t)
	h := WithLogging(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("GET", "/elections", nil))

	if w.Body.String() != "[]" {
		t.Errorf("Expected body to pass through, got %q", w.Body.String())
	}
	if !strings.Contains(logs.String(), `"status":200`) {
		t.Errorf("Expected status 200 in log, got %s", logs.String())
	}
}

func TestCodedErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	CodedErrorResponse(w, http.StatusConflict, "ALREADY_VOTED", "You have already voted in this election")

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	want := models.ErrorResponse{Error: "Conflict", Code: "ALREADY_VOTED", Message: "You have already voted in this election"}
	if body != want {
		t.Errorf("Expected %+v, got %+v", want, body)
	}

	// Uncoded errors omit the code field entirely
	w = httptest.NewRecorder()
	ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
	if strings.Contains(w.Body.String(), `"code"`) {
		t.Errorf("Expected no code field, got %s", w.Body.String())
	}
}

func TestParseJSONBody(t *testing.T) {
	newReq := func(body string) *http.Request {
		return httptest.NewRequest("POST", "/votes/cast", strings.NewReader(body))
	}

	t.Run("ballot", func(t *testing.T) {
		var req models.CastVoteRequest
		err := ParseJSONBody(httptest.NewRecorder(), newReq(`{"election_id":"e1","candidate_id":"c1"}`), &req)
		if err != nil {
			t.Fatalf("ParseJSONBody() error = %v", err)
		}
		if req.ElectionID != "e1" || req.CandidateID != "c1" {
			t.Errorf("Unexpected ballot %+v", req)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		var req models.CastVoteRequest
		err := ParseJSONBody(httptest.NewRecorder(), newReq(`{"election_id":`), &req)
		if err == nil || errors.Is(err, ErrBodyTooLarge) {
			t.Errorf("Expected a syntax error, got %v", err)
		}
	})

	t.Run("oversized", func(t *testing.T) {
		pad := strings.Repeat("x", MaxBodyBytes)
		var req models.CastVoteRequest
		err := ParseJSONBody(httptest.NewRecorder(), newReq(`{"election_id":"`+pad+`"}`), &req)
		if !errors.Is(err, ErrBodyTooLarge) {
			t.Errorf("Expected ErrBodyTooLarge, got %v", err)
		}
	})
}

func TestBodyErrorResponse(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"too large", ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
		{"syntax", errors.New("unexpected EOF"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			BodyErrorResponse(w, tt.err)
			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	reached := false
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("preflight", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest("OPTIONS", "/votes/cast", nil)
		req.Header.Set("Origin", "https://vote.example.org")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", w.Code)
		}
		if reached {
			t.Error("Preflight should not reach the route")
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
			t.Error("Expected Authorization to be an allowed header")
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "PATCH") {
			t.Error("Expected PATCH for vote verification")
		}
	})

	t.Run("no credentialed wildcard", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/elections", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if !reached {
			t.Error("Expected the route to run")
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Expected wildcard origin, got %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
			t.Errorf("Expected no credentials header, got %q", got)
		}
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"ipv4 remote", "192.0.2.10:51234", nil, "192.0.2.10"},
		{"ipv6 remote", "[::1]:1234", nil, "::1"},
		{"ipv6 remote full", "[2001:db8::5]:443", nil, "2001:db8::5"},
		{"remote without port", "192.0.2.10", nil, "192.0.2.10"},
		{"proxy chain", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2, 10.0.0.1"}, "203.0.113.7"},
		{"proxy chain padded", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "  203.0.113.7  ,10.0.0.2"}, "203.0.113.7"},
		{"forwarded ipv6", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "2001:db8::9"}, "2001:db8::9"},
		{"empty first hop", "10.0.0.1:80", map[string]string{"X-Forwarded-For": " , 10.0.0.2", "X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"real ip", "10.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"forwarded wins over real ip", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "198.51.100.4"}, "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/votes/cast", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
