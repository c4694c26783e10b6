package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/linkupapp/linkup-backend/internal/cache"
	"github.com/linkupapp/linkup-backend/internal/config"
	"github.com/linkupapp/linkup-backend/internal/database"
	"github.com/linkupapp/linkup-backend/internal/handlers"
	"github.com/linkupapp/linkup-backend/internal/services"
	"github.com/linkupapp/linkup-backend/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: 168 * time.Hour,
		CORSOrigins:      "*",
	}

	blobs := storage.NewMemoryStore()
	accessCache := cache.NewAccessCache(nil, 0)

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db, blobs)
	creatorService := services.NewCreatorService(db, blobs, accessCache)
	subscriptionService := services.NewSubscriptionService(db, accessCache)
	postService := services.NewPostService(db, blobs, subscriptionService)

	app := fiber.New()
	Setup(app, cfg, db,
		handlers.NewAuthHandler(authService),
		handlers.NewHealthHandler(),
		handlers.NewUserHandler(userService),
		handlers.NewCreatorHandler(creatorService),
		handlers.NewPostHandler(postService),
		handlers.NewSubRequestHandler(subscriptionService),
		handlers.NewSubscriberHandler(subscriptionService),
	)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}

	var parsed map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("%s %s: invalid JSON response %q: %v", method, path, raw, err)
		}
	}
	return resp, parsed
}

func registerAndLogin(t *testing.T, app *fiber.App, name, email string) (string, string) {
	t.Helper()

	resp, _ := doJSON(t, app, http.MethodPost, "/api/users/create", "", map[string]string{
		"name": name, "email": email, "password": "correct-horse",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", email, resp.StatusCode)
	}

	resp, body := doJSON(t, app, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": email, "password": "correct-horse",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", email, resp.StatusCode)
	}
	data := body["data"].(map[string]interface{})
	token := data["access_token"].(string)
	userID := data["user"].(map[string]interface{})["id"].(string)
	return token, userID
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["status"] != "ok" || body["db"] != "ok" {
		t.Errorf("unexpected health response: %v", body)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/users", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/api/users", "not-a-jwt", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 with a garbage token, got %d", resp.StatusCode)
	}
}

func TestSelfScopedRoutesRejectOtherUsers(t *testing.T) {
	app := newTestApp(t)

	aliceToken, aliceID := registerAndLogin(t, app, "Alice", "alice@example.com")
	_, bobID := registerAndLogin(t, app, "Bob", "bob@example.com")

	// Alice acting under Bob's path id is forbidden.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/users/"+bobID+"/creators/", aliceToken, map[string]bool{"is_public": true})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for mismatched userId, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/api/users/"+aliceID+"/creators/", aliceToken, map[string]bool{"is_public": true})
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201 for own userId, got %d", resp.StatusCode)
	}
}

func TestSubscriptionFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)

	aliceToken, aliceID := registerAndLogin(t, app, "Alice", "alice@example.com")
	bobToken, bobID := registerAndLogin(t, app, "Bob", "bob@example.com")

	// Alice opens a private creator profile.
	resp, body := doJSON(t, app, http.MethodPost, "/api/users/"+aliceID+"/creators/", aliceToken, map[string]bool{"is_public": false})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create creator: expected 201, got %d", resp.StatusCode)
	}
	creatorID := body["data"].(map[string]interface{})["creator_id"].(string)

	// Alice publishes a text post.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/users/"+aliceID+"/creators/"+creatorID+"/posts/create", aliceToken,
		map[string]string{"type": "text", "content": "members only"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d", resp.StatusCode)
	}

	// Bob cannot read yet.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/users/"+bobID+"/creators/"+creatorID+"/posts/readAll", bobToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 before subscription, got %d", resp.StatusCode)
	}

	// Bob requests access; the request stays pending.
	resp, body = doJSON(t, app, http.MethodPost, "/api/users/"+bobID+"/creators/"+creatorID+"/subRequests/create", bobToken, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("sub request: expected 201, got %d", resp.StatusCode)
	}
	data := body["data"].(map[string]interface{})
	if granted := data["granted"].(bool); granted {
		t.Fatal("private creator must not auto-accept")
	}
	subRequestID := data["sub_request_id"].(string)

	// Alice accepts it.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/users/"+aliceID+"/creators/"+creatorID+"/subRequests/"+subRequestID+"/delete", aliceToken,
		map[string]bool{"has_accepted": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resolve: expected 200, got %d", resp.StatusCode)
	}

	// Bob can read now.
	resp, body = doJSON(t, app, http.MethodGet, "/api/users/"+bobID+"/creators/"+creatorID+"/posts/readAll", bobToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after accept, got %d", resp.StatusCode)
	}
	posts := body["data"].([]interface{})
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].(map[string]interface{})["content"] != "members only" {
		t.Errorf("unexpected post payload: %v", posts[0])
	}

	// Resolving without a verdict is rejected.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/users/"+aliceID+"/creators/"+creatorID+"/subRequests/"+subRequestID+"/delete", aliceToken,
		map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 without has_accepted, got %d", resp.StatusCode)
	}
}

func TestMediaPostUploadOverHTTP(t *testing.T) {
	app := newTestApp(t)

	aliceToken, aliceID := registerAndLogin(t, app, "Alice", "alice@example.com")

	resp, body := doJSON(t, app, http.MethodPost, "/api/users/"+aliceID+"/creators/", aliceToken, map[string]bool{"is_public": true})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create creator: expected 201, got %d", resp.StatusCode)
	}
	creatorID := body["data"].(map[string]interface{})["creator_id"].(string)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("type", "image"); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	part, err := writer.CreateFormFile("media", "selfie.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("failed to write file part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/users/"+aliceID+"/creators/"+creatorID+"/posts/create", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+aliceToken)

	httpResp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("upload request failed: %v", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(httpResp.Body)
		t.Fatalf("expected 201, got %d: %s", httpResp.StatusCode, raw)
	}

	var parsed map[string]interface{}
	if err := json.NewDecoder(httpResp.Body).Decode(&parsed); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	post := parsed["data"].(map[string]interface{})
	if post["blob_url"] == nil || post["blob_url"] == "" {
		t.Errorf("media post missing blob_url: %v", post)
	}
	if _, hasContent := post["content"]; hasContent {
		t.Errorf("media post must omit content: %v", post)
	}
}
