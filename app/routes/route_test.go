package routes_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/go-shop/app/configs"
	"github.com/Rakhulsr/go-shop/app/helpers"
	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/models/migrations"
	"github.com/Rakhulsr/go-shop/app/routes"
	"github.com/Rakhulsr/go-shop/app/services"
	"github.com/Rakhulsr/go-shop/app/utils/sessions"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/securecookie"
	jsoniter "github.com/json-iterator/go"
	"github.com/unrolled/render"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type testServer struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(configs.SQLiteDSN(filepath.Join(dir, "shop.db"))), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrations.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	media := filepath.Join(dir, "media")
	handler := routes.NewRouter(routes.Deps{
		DB:        db,
		Render:    render.New(),
		Storage:   services.NewLocalStorage(media, "/media/"),
		Sessions:  sessions.NewCookieSessionStore(false, securecookie.GenerateRandomKey(32)),
		Notifier:  services.LogNotifier{},
		JWTSecret: "route-test-secret",
		JWTTTL:    time.Hour,
		MediaRoot: media,
		MediaURL:  "/media/",
	})
	return &testServer{t: t, db: db, handler: handler}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.do(req)
}

// user stores an active account and returns a bearer token for it.
func (s *testServer) user(username string, staff bool) (*models.User, string) {
	s.t.Helper()
	hash, err := helpers.HashPassword("pass-" + username)
	if err != nil {
		s.t.Fatal(err)
	}
	user := &models.User{Username: username, Password: hash, IsStaff: staff, IsActive: true}
	if err := s.db.Create(user).Error; err != nil {
		s.t.Fatal(err)
	}

	rec := s.request(http.MethodPost, "/auth/token/", "", map[string]string{"username": username, "password": "pass-" + username})
	if rec.Code != http.StatusOK {
		s.t.Fatalf("token for %s: %d %s", username, rec.Code, rec.Body)
	}
	var out struct {
		Token string `json:"token"`
	}
	decode(s.t, rec, &out)
	return user, out.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expect(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("want status %d, got %d: %s", status, rec.Code, rec.Body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := s.request(http.MethodPatch, "/products/", "", nil)
	expect(t, rec, http.StatusMethodNotAllowed)
	if allow := rec.Header().Get("Allow"); allow != "GET, POST, HEAD, OPTIONS" {
		t.Fatalf("unexpected Allow %q", allow)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["detail"] != `Method "PATCH" not allowed.` {
		t.Fatalf("unexpected body %v", body)
	}

	rec = s.request(http.MethodPost, "/products/1/delete_images/", "", nil)
	expect(t, rec, http.StatusMethodNotAllowed)
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD, OPTIONS" {
		t.Fatalf("unexpected Allow %q", allow)
	}

	rec = s.request(http.MethodOptions, "/products/1/", "", nil)
	expect(t, rec, http.StatusOK)
	if allow := rec.Header().Get("Allow"); allow != "GET, PUT, DELETE, HEAD, OPTIONS" {
		t.Fatalf("unexpected Allow %q", allow)
	}
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/nowhere/", "/products/99/", "/categories/99/"} {
		rec := s.request(http.MethodGet, path, "", nil)
		expect(t, rec, http.StatusNotFound)
		var body map[string]string
		decode(t, rec, &body)
		if body["detail"] != "Not found." {
			t.Fatalf("%s: unexpected body %v", path, body)
		}
	}
}

func TestInvalidBearerToken(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodGet, "/products/", "garbage", nil)
	expect(t, rec, http.StatusForbidden)
}

func TestCategoryWrites(t *testing.T) {
	s := newTestServer(t)
	_, customer := s.user("carol", false)
	_, staff := s.user("admin", true)

	expect(t, s.request(http.MethodPost, "/categories/", "", map[string]string{"name": "Shirts"}), http.StatusForbidden)
	expect(t, s.request(http.MethodPost, "/categories/", customer, map[string]string{"name": "Shirts"}), http.StatusForbidden)

	rec := s.request(http.MethodPost, "/categories/", staff, map[string]string{})
	expect(t, rec, http.StatusBadRequest)
	var fields map[string][]string
	decode(t, rec, &fields)
	if len(fields["name"]) != 1 || fields["name"][0] != "This field is required." {
		t.Fatalf("unexpected field errors %v", fields)
	}

	rec = s.request(http.MethodPost, "/categories/", staff, map[string]string{"name": "Shirts"})
	expect(t, rec, http.StatusCreated)
	if rec.Body.Len() != 0 {
		t.Fatalf("create returned a body: %s", rec.Body)
	}
	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/categories/") {
		t.Fatalf("unexpected Location %q", location)
	}

	expect(t, s.request(http.MethodPut, location, staff, map[string]string{"name": "Tops"}), http.StatusOK)
	rec = s.request(http.MethodGet, location, "", nil)
	expect(t, rec, http.StatusOK)
	var category struct {
		Name string `json:"name"`
	}
	decode(t, rec, &category)
	if category.Name != "Tops" {
		t.Fatalf("category not renamed: %q", category.Name)
	}

	expect(t, s.request(http.MethodDelete, location, staff, nil), http.StatusNoContent)
	expect(t, s.request(http.MethodGet, location, "", nil), http.StatusNotFound)
}

func TestProductUploadAndVisibility(t *testing.T) {
	s := newTestServer(t)
	_, staff := s.user("admin", true)

	rec := s.request(http.MethodPost, "/categories/", staff, map[string]string{"name": "Shirts"})
	expect(t, rec, http.StatusCreated)
	categoryID := strings.TrimSuffix(strings.TrimPrefix(rec.Header().Get("Location"), "/categories/"), "/")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, value := range map[string]string{
		"category":     categoryID,
		"name":         "Linen shirt",
		"price":        "149000.50",
		"description":  "Breathable",
		"size":         "L",
		"weight":       "0.3",
		"stock":        "5",
		"is_available": "false",
	} {
		_ = mw.WriteField(key, value)
	}
	_ = mw.WriteField("materials", "linen")
	_ = mw.WriteField("materials", "cotton")
	part, err := mw.CreateFormFile("images", "Front View.png")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("not really a png"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/products/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+staff)
	rec = s.do(req)
	expect(t, rec, http.StatusCreated)
	location := rec.Header().Get("Location")

	rec = s.request(http.MethodGet, location, staff, nil)
	expect(t, rec, http.StatusOK)
	var product struct {
		Price     string   `json:"price"`
		Materials []string `json:"materials"`
		Images    []struct {
			Image string `json:"image"`
		} `json:"images"`
	}
	decode(t, rec, &product)
	if len(product.Materials) != 2 || len(product.Images) != 1 {
		t.Fatalf("unexpected product %+v", product)
	}
	if !strings.HasPrefix(product.Images[0].Image, "/media/product_images/") {
		t.Fatalf("unexpected image url %q", product.Images[0].Image)
	}

	rec = s.request(http.MethodGet, product.Images[0].Image, "", nil)
	expect(t, rec, http.StatusOK)
	if rec.Body.String() != "not really a png" {
		t.Fatalf("media file not served: %q", rec.Body)
	}

	// Unavailable products are staff only.
	expect(t, s.request(http.MethodGet, location, "", nil), http.StatusNotFound)
	rec = s.request(http.MethodGet, "/category/"+categoryID+"/", "", nil)
	expect(t, rec, http.StatusOK)
	var listed []interface{}
	decode(t, rec, &listed)
	if len(listed) != 0 {
		t.Fatalf("anonymous caller sees %d hidden products", len(listed))
	}

	expect(t, s.request(http.MethodDelete, location, staff, nil), http.StatusNoContent)
	expect(t, s.request(http.MethodGet, product.Images[0].Image, "", nil), http.StatusNotFound)
}

func TestSessionLogin(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodPost, "/users/", "", map[string]interface{}{
		"username": "dana",
		"password": "pw-dana-1",
		"is_staff": true,
	})
	expect(t, rec, http.StatusCreated)
	location := rec.Header().Get("Location")

	rec = s.request(http.MethodPost, "/auth/login/", "", map[string]string{"username": "dana", "password": "wrong"})
	expect(t, rec, http.StatusBadRequest)

	rec = s.request(http.MethodPost, "/auth/login/", "", map[string]string{"username": "dana", "password": "pw-dana-1"})
	expect(t, rec, http.StatusOK)
	var me struct {
		IsStaff bool `json:"is_staff"`
	}
	decode(t, rec, &me)
	if me.IsStaff {
		t.Fatal("self registration granted staff")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login set no session cookie")
	}

	withSession := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		return s.do(req)
	}
	expect(t, withSession(http.MethodGet, location), http.StatusOK)
	expect(t, withSession(http.MethodGet, location+"orders/"), http.StatusOK)
	expect(t, s.request(http.MethodGet, location, "", nil), http.StatusForbidden)
	expect(t, withSession(http.MethodPost, "/auth/logout/"), http.StatusNoContent)
}

func TestMethodOverride(t *testing.T) {
	s := newTestServer(t)
	_, staff := s.user("admin", true)

	rec := s.request(http.MethodPost, "/product-materials/", staff, map[string]string{"name": "wool"})
	expect(t, rec, http.StatusCreated)
	location := rec.Header().Get("Location")

	req := httptest.NewRequest(http.MethodPost, location, strings.NewReader("_method=DELETE"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+staff)
	expect(t, s.do(req), http.StatusNoContent)
}
