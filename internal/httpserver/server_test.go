package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/pc_store/internal/mykafka"
	"github.com/Skotchmaster/pc_store/internal/repo"
	"github.com/Skotchmaster/pc_store/internal/service"
	middleware "github.com/Skotchmaster/pc_store/pkg/middleware/auth"
)

var testSecret = []byte("http-test-secret")

type testServer struct {
	e     *echo.Echo
	store *repo.Store
	dir   string
}

func newTestServer(t *testing.T, enforceAuth bool) *testServer {
	t.Helper()
	dir := t.TempDir()
	store := repo.NewStore(repo.NewFileBackend(filepath.Join(dir, "db.json")), nil)
	pub := mykafka.NewProducer(nil, nil)

	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler

	auth := middleware.NewAuth(testSecret, enforceAuth)
	Register(e, &Deps{
		Store:          store,
		ProductHandler: &ProductHTTP{Svc: &service.CatalogService{Store: store}, Producer: pub},
		Categories:     &LabelHTTP{Svc: service.NewLabelService(store, service.Categories), Producer: pub, Plural: "categories"},
		Brands:         &LabelHTTP{Svc: service.NewLabelService(store, service.Brands), Producer: pub, Plural: "brands"},
		UserHandler: &UserHTTP{
			Svc:      &service.UserService{Store: store, JWTSecret: testSecret, TokenTTL: time.Hour},
			Producer: pub,
			Auth:     auth,
		},
		OrderHandler:  &OrderHTTP{Svc: &service.OrderService{Store: store}, Producer: pub},
		CartHandler:   &CartHTTP{Svc: &service.CartService{Store: store}},
		UploadHandler: &UploadHTTP{Dir: filepath.Join(dir, "uploads"), PublicURL: "http://shop.test", MaxBytes: 1 << 10},
		Auth:          auth,
	})
	return &testServer{e: e, store: store, dir: dir}
}

func (s *testServer) do(t *testing.T, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type errResp struct {
	Error string `json:"error"`
}

func (s *testServer) seedCatalog(t *testing.T) {
	t.Helper()
	for _, c := range []string{"Gaming PC", "Laptop"} {
		rec := s.do(t, http.MethodPost, "/api/categories", map[string]any{"name": c})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	for _, b := range []string{"Acme", "Zen"} {
		rec := s.do(t, http.MethodPost, "/api/brands", map[string]any{"name": b})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
}
