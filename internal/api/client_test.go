package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chemviz/chemviz-tui/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	st, err := session.Open(filepath.Join(t.TempDir(), "chemviz.db"))
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return New(server.URL, time.Second, st, nil), st
}

func TestLoginStoresToken(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode login body: %v", err)
		}
		if err := json.NewEncoder(w).Encode(map[string]string{"token": "abc"}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	})
	client, st := newTestClient(t, handler)

	ctx := context.Background()
	token, err := client.Login(ctx, "ops@plant.io", "Steam1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "abc" {
		t.Fatalf("expected token abc, got %q", token)
	}
	if gotPath != "/api/auth/token/" {
		t.Fatalf("expected POST to /api/auth/token/, got %s", gotPath)
	}
	if gotBody["username"] != "ops@plant.io" || gotBody["password"] != "Steam1234" {
		t.Fatalf("unexpected login payload: %v", gotBody)
	}

	stored, err := st.Token(ctx)
	if err != nil {
		t.Fatalf("read stored token: %v", err)
	}
	if stored != "abc" {
		t.Fatalf("expected stored token abc, got %q", stored)
	}
}

func TestAuthorizationHeaderInjected(t *testing.T) {
	var gotAuth, gotRequestID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		if err := json.NewEncoder(w).Encode(map[string]any{"id": 1, "username": "ops"}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	})
	client, st := newTestClient(t, handler)

	ctx := context.Background()
	if err := st.SetToken(ctx, "abc"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if _, err := client.Profile(ctx); err != nil {
		t.Fatalf("profile: %v", err)
	}
	if gotAuth != "Token abc" {
		t.Fatalf("expected Authorization %q, got %q", "Token abc", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatalf("expected an X-Request-ID header")
	}
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	sawHeader := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		w.WriteHeader(http.StatusUnauthorized)
	})
	client, _ := newTestClient(t, handler)

	_, err := client.Profile(context.Background())
	if err == nil {
		t.Fatalf("expected error from 401")
	}
	if sawHeader {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
}

func TestLogoutClearsTokenWhenServerFails(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client, st := newTestClient(t, handler)

	ctx := context.Background()
	if err := st.SetToken(ctx, "abc"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := client.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	token, err := st.Token(ctx)
	if err != nil {
		t.Fatalf("read token: %v", err)
	}
	if token != "" {
		t.Fatalf("expected token cleared, got %q", token)
	}
}

func TestStructuredFieldErrors(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		if err := json.NewEncoder(w).Encode(map[string]any{
			"username": []string{"Username already exists."},
			"email":    "Enter a valid email address.",
		}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	})
	client, _ := newTestClient(t, handler)

	_, err := client.Register(context.Background(), RegisterRequest{
		Username: "ops",
		Email:    "ops@plant.io",
		Password: "Steam1234",
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Fields["username"] != "Username already exists." {
		t.Fatalf("unexpected username error: %q", apiErr.Fields["username"])
	}
	if apiErr.Fields["email"] != "Enter a valid email address." {
		t.Fatalf("unexpected email error: %q", apiErr.Fields["email"])
	}
}

func TestUnstructuredErrorMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		if err := json.NewEncoder(w).Encode(map[string]string{"error": "CSV file is empty."}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	})
	client, _ := newTestClient(t, handler)

	_, err := client.Summaries(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "CSV file is empty." {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
	if len(apiErr.Fields) != 0 {
		t.Fatalf("unexpected field errors: %v", apiErr.Fields)
	}
}

func TestUploadMultipart(t *testing.T) {
	var gotName, gotFile string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotName = r.FormValue("name")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			_ = file.Close()
			gotFile = header.Filename
		}
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(map[string]any{
			"id":          7,
			"name":        "Plant A",
			"uploaded_at": time.Now().UTC().Format(time.RFC3339),
			"validation_summary": map[string]any{
				"total_rows":    10,
				"accepted_rows": 8,
				"rejected_rows": 2,
			},
		}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	})
	client, _ := newTestClient(t, handler)

	path := filepath.Join(t.TempDir(), "plant.csv")
	if err := os.WriteFile(path, []byte("Equipment Name,Type\nPump-1,Pump\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	record, err := client.Upload(context.Background(), path, "Plant A")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if gotFile != "plant.csv" || gotName != "Plant A" {
		t.Fatalf("unexpected form data: file=%q name=%q", gotFile, gotName)
	}
	if record.ID != 7 {
		t.Fatalf("expected id 7, got %d", record.ID)
	}
	if record.ValidationSummary == nil || record.ValidationSummary.RejectedRows != 2 {
		t.Fatalf("expected validation summary with 2 rejected rows, got %+v", record.ValidationSummary)
	}
}

func TestReportReturnsBytes(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/datasets/report/7/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		if _, err := w.Write(pdf); err != nil {
			t.Errorf("write pdf: %v", err)
		}
	})
	client, _ := newTestClient(t, handler)

	data, err := client.Report(context.Background(), 7)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if string(data) != string(pdf) {
		t.Fatalf("unexpected report bytes: %q", data)
	}
}

func TestSummariesKeepServerOrder(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"id": 3, "name": "newest", "uploaded_at": "2026-02-05T14:32:00Z"},
				{"id": 2, "name": "older", "uploaded_at": "2026-02-04T09:15:00Z"},
			},
		}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	})
	client, _ := newTestClient(t, handler)

	records, err := client.Summaries(context.Background())
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(records) != 2 || records[0].ID != 3 || records[1].ID != 2 {
		t.Fatalf("unexpected order: %+v", records)
	}
}
