package ingestion_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/bootstrap"
	"portal-backend/internal/shared/config"
)

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "guest-test-1")
}

func buildRouter(t *testing.T, edgeURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		Env:             "dev",
		EdgeParseURL:    edgeURL,
		EdgeTimeout:     5 * time.Second,
		ParserTimeout:   5 * time.Second,
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func multipartFile(t *testing.T, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestImportAndReadBackProfile(t *testing.T) {
	edge := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"personalInfo":{"fullName":"Jane Doe","email":"jane@example.com"},"summary":"Engineer.","skills":[{"id":"s1","name":"Go"}]}`))
	}))
	defer edge.Close()

	router := buildRouter(t, edge.URL)

	body, contentType := multipartFile(t, "resume.txt", []byte("plain text resume"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles/import", body)
	req.Header.Set("Content-Type", contentType)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		ID     string `json:"id"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode import response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected profile id, got empty")
	}
	if created.UserID != "guest:guest-test-1" {
		t.Fatalf("expected guest-scoped user id, got %q", created.UserID)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/current", nil)
	addGuestHeader(reqGet)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}

	var current struct {
		Profile struct {
			ID string `json:"id"`
		} `json:"profile"`
		Data struct {
			PersonalInfo struct {
				FullName string `json:"fullName"`
			} `json:"personalInfo"`
			Metadata struct {
				Path string `json:"path"`
			} `json:"metadata"`
		} `json:"data"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&current); err != nil {
		t.Fatalf("decode current response: %v", err)
	}
	if current.Profile.ID != created.ID {
		t.Fatalf("expected profile %s, got %s", created.ID, current.Profile.ID)
	}
	if current.Data.PersonalInfo.FullName != "Jane Doe" {
		t.Fatalf("expected stored name, got %q", current.Data.PersonalInfo.FullName)
	}
	if current.Data.Metadata.Path != "edge-function" {
		t.Fatalf("expected edge-function path, got %q", current.Data.Metadata.Path)
	}
}

func TestImportEmptyProfileReturns422(t *testing.T) {
	edge := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"personalInfo":{}}`))
	}))
	defer edge.Close()

	router := buildRouter(t, edge.URL)

	body, contentType := multipartFile(t, "blank.txt", []byte("nothing useful"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles/import", body)
	req.Header.Set("Content-Type", contentType)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", resp.Code, resp.Body.String())
	}

	var errResp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %q", errResp.Error.Code)
	}
}

func TestImportProviderFailureReturns502(t *testing.T) {
	edge := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer edge.Close()

	router := buildRouter(t, edge.URL)

	body, contentType := multipartFile(t, "resume.txt", []byte("text"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles/import", body)
	req.Header.Set("Content-Type", contentType)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", resp.Code)
	}
}

func TestImportWithoutFileReturns400(t *testing.T) {
	router := buildRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles/import", bytes.NewReader(nil))
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestImportWithoutIdentityReturns401(t *testing.T) {
	router := buildRouter(t, "")

	body, contentType := multipartFile(t, "resume.txt", []byte("text"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles/import", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}
