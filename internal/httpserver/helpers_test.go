package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backend/internal/hash"
	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/mail"
	authmw "github.com/Skotchmaster/shop_backend/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/shop_backend/internal/middleware/logging"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/service"
	"github.com/Skotchmaster/shop_backend/internal/testutil"
	"github.com/Skotchmaster/shop_backend/internal/tokens"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) (mail.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return mail.Receipt{}, nil
}

type testEnv struct {
	E      *echo.Echo
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Tokens *tokens.Manager
	Mailer *captureMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.InitTestDB(t)
	r := repo.New(db)
	tm := tokens.NewManager([]byte("test-jwt-secret"))
	mailer := &captureMailer{}

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(true)
	e.Use(loggingmw.RequestLogger(logging.NewWithWriter(io.Discard, "error")))

	Register(e, &Deps{
		AuthHandler: &AuthHTTP{
			Svc: &service.AuthService{Repo: r, Tokens: tm, Mailer: mailer, PublicURL: "http://shop.test"},
		},
		UserHandler: &UserHTTP{Svc: &service.UserService{Repo: r}},
		CartHandler: &CartHTTP{
			Carts:  &service.CartService{Repo: r},
			Orders: &service.OrderService{Repo: r},
		},
		ProductHandler: &ProductHTTP{Svc: &service.ProductService{Repo: r}},
		BlogHandler:    &BlogHTTP{Svc: &service.BlogService{Repo: r}},
		CouponHandler:  &CouponHTTP{Svc: &service.CouponService{Repo: r}},
		Brands:         &TaxonomyHTTP{Svc: &service.TaxonomyService{Repo: r, Kind: models.TaxonomyBrand}},
		Categories:     &TaxonomyHTTP{Svc: &service.TaxonomyService{Repo: r, Kind: models.TaxonomyProductCategory}},
		BlogCategories: &TaxonomyHTTP{Svc: &service.TaxonomyService{Repo: r, Kind: models.TaxonomyBlogCategory}},
		Auth:           authmw.NewAuthenticator(tm, r),
		Ready:          r.Ping,
	})

	return &testEnv{E: e, DB: db, Repo: r, Tokens: tm, Mailer: mailer}
}

// doJSONRequest runs a request through the whole router. token, when set,
// is sent as a bearer token.
func (env *testEnv) doJSONRequest(method, path string, body any, token string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

// seedUser stores a verified user and returns it with a valid access token.
func (env *testEnv) seedUser(t *testing.T, email string, admin bool) (*models.User, string) {
	t.Helper()
	pwHash, err := hash.HashPassword("pw")
	require.NoError(t, err)

	u := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		Mobile:       email,
		PasswordHash: pwHash,
		IsAdmin:      admin,
		IsVerified:   true,
	}
	require.NoError(t, env.Repo.CreateUser(context.Background(), u))

	token, err := env.Tokens.IssueAccess(u.ID)
	require.NoError(t, err)
	return u, token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
