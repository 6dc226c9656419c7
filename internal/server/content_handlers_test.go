package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parish/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeStore is an in-memory storage.ObjectStore for handler tests.
type fakeStore struct {
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	f.objects[key] = data
	return nil
}

func (f *fakeStore) Remove(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "http://storage.test/content-image/" + key
}

func (f *fakeStore) Healthy(_ context.Context) error { return nil }

func setupContentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Content{},
		&models.Category{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// setupContentServer builds a Server over in-memory sqlite with a fake object
// store and returns a fiber app whose routes inject the given user into locals.
func setupContentServer(t *testing.T) (*Server, *gorm.DB, *fiber.App) {
	t.Helper()
	db := setupContentTestDB(t)
	s := NewServerWithDeps(testConfig(), db, nil, newFakeStore())
	app := fiber.New()
	return s, db, app
}

func asUser(userID uint, handler fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return handler(c)
	}
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Test " + role,
		Email:    fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreateContent(t *testing.T) {
	t.Parallel()
	s, db, app := setupContentServer(t)
	author := createTestUser(t, db, models.RoleMember)
	require.NoError(t, db.Create(&models.Category{Name: "News"}).Error)

	app.Post("/contents", asUser(author.ID, s.CreateContent))

	t.Run("success", func(t *testing.T) {
		resp := postJSON(t, app, "/contents", map[string]any{
			"title":    "Easter Service",
			"content":  "Join us on Sunday.",
			"category": "News",
			"status":   "published",
		})
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created models.Content
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		assert.Equal(t, "Easter Service", created.Title)
		assert.Equal(t, author.ID, created.AuthorID)
		require.NotNil(t, created.Author)
		assert.Equal(t, author.Name, created.Author.Name)
	})

	t.Run("missing title", func(t *testing.T) {
		resp := postJSON(t, app, "/contents", map[string]any{"content": "body only"})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown category", func(t *testing.T) {
		resp := postJSON(t, app, "/contents", map[string]any{
			"title": "t", "content": "b", "category": "Nope",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("scheduled without date", func(t *testing.T) {
		resp := postJSON(t, app, "/contents", map[string]any{
			"title": "t", "content": "b", "status": "scheduled",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListContents_Filters(t *testing.T) {
	t.Parallel()
	s, db, app := setupContentServer(t)
	author := createTestUser(t, db, models.RoleMember)

	seedRow := func(title, status string) {
		require.NoError(t, db.Create(&models.Content{
			Title: title, Body: "b", Status: status, AuthorID: author.ID,
		}).Error)
	}
	seedRow("Easter Service", models.StatusPublished)
	seedRow("Choir Practice", models.StatusDraft)
	seedRow("Easter Egg Hunt", models.StatusDraft)

	app.Get("/contents", asUser(author.ID, s.ListContents))

	fetch := func(t *testing.T, query string) []models.Content {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/contents"+query, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var payload struct {
			Contents []models.Content `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		return payload.Contents
	}

	t.Run("all", func(t *testing.T) {
		assert.Len(t, fetch(t, ""), 3)
	})

	t.Run("status filter", func(t *testing.T) {
		rows := fetch(t, "?status=draft")
		assert.Len(t, rows, 2)
	})

	t.Run("title search is case-insensitive", func(t *testing.T) {
		rows := fetch(t, "?q=easter")
		assert.Len(t, rows, 2)
	})

	t.Run("pagination", func(t *testing.T) {
		rows := fetch(t, "?limit=2")
		assert.Len(t, rows, 2)
		rows = fetch(t, "?limit=2&offset=2")
		assert.Len(t, rows, 1)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/contents?status=bogus", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateContent_Ownership(t *testing.T) {
	t.Parallel()
	s, db, app := setupContentServer(t)
	author := createTestUser(t, db, models.RoleMember)
	other := createTestUser(t, db, models.RoleMember)
	admin := createTestUser(t, db, models.RoleAdmin)

	content := &models.Content{Title: "Original", Body: "b", Status: models.StatusDraft, AuthorID: author.ID}
	require.NoError(t, db.Create(content).Error)

	app.Put("/author/contents/:id", asUser(author.ID, s.UpdateContent))
	app.Put("/other/contents/:id", asUser(other.ID, s.UpdateContent))
	app.Put("/admin/contents/:id", asUser(admin.ID, s.UpdateContent))

	putJSON := func(t *testing.T, path string, payload any) *http.Response {
		t.Helper()
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("author can update", func(t *testing.T) {
		resp := putJSON(t, fmt.Sprintf("/author/contents/%d", content.ID), map[string]any{"title": "Renamed"})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("other member cannot update", func(t *testing.T) {
		resp := putJSON(t, fmt.Sprintf("/other/contents/%d", content.ID), map[string]any{"title": "Hijacked"})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("admin can update", func(t *testing.T) {
		resp := putJSON(t, fmt.Sprintf("/admin/contents/%d", content.ID), map[string]any{"title": "Admin edit"})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing record", func(t *testing.T) {
		resp := putJSON(t, "/author/contents/9999", map[string]any{"title": "x"})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteContent(t *testing.T) {
	t.Parallel()
	s, db, app := setupContentServer(t)
	author := createTestUser(t, db, models.RoleMember)

	content := &models.Content{Title: "Doomed", Body: "b", AuthorID: author.ID}
	require.NoError(t, db.Create(content).Error)

	app.Delete("/contents/:id", asUser(author.ID, s.DeleteContent))

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/contents/%d", content.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var count int64
		db.Model(&models.Content{}).Where("id = ?", content.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("second delete is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/contents/%d", content.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetNewsEvents_PublicVisibility(t *testing.T) {
	t.Parallel()
	s, db, app := setupContentServer(t)
	author := createTestUser(t, db, models.RoleMember)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	rows := []models.Content{
		{Title: "Published", Body: "b", Status: models.StatusPublished, AuthorID: author.ID},
		{Title: "Draft", Body: "b", Status: models.StatusDraft, AuthorID: author.ID},
		{Title: "Scheduled Past", Body: "b", Status: models.StatusScheduled, PublishedAt: &past, AuthorID: author.ID},
		{Title: "Scheduled Future", Body: "b", Status: models.StatusScheduled, PublishedAt: &future, AuthorID: author.ID},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	app.Get("/news-events", s.GetNewsEvents)

	req := httptest.NewRequest(http.MethodGet, "/news-events", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Posts []models.Content `json:"posts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))

	titles := make([]string, 0, len(payload.Posts))
	for _, p := range payload.Posts {
		titles = append(titles, p.Title)
	}
	assert.ElementsMatch(t, []string{"Published", "Scheduled Past"}, titles)
}
