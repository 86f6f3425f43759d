package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nexbuy/backend/internal/config"
	"github.com/nexbuy/backend/internal/order"
	"github.com/nexbuy/backend/internal/review"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB

	Auth     *AuthHandler
	Products *ProductHandler
	Orders   *OrderHandler
	Reviews  *ReviewHandler
	Wishlist *WishlistHandler
	Admin    *AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	workflow := order.NewWorkflow(db)
	aggregator := review.NewAggregator(db)

	return &testEnv{
		T:  t,
		E:  echo.New(),
		DB: db,

		Auth:     &AuthHandler{DB: db, JWTSecret: []byte("test-secret"), RefreshSecret: []byte("test-refresh")},
		Products: &ProductHandler{DB: db},
		Orders:   &OrderHandler{DB: db, Workflow: workflow},
		Reviews:  &ReviewHandler{DB: db, Aggregator: aggregator},
		Wishlist: &WishlistHandler{DB: db},
		Admin:    &AdminHandler{DB: db, Workflow: workflow},
	}
}

// doJSONRequest builds an echo context for direct handler invocation.
func (env *testEnv) doJSONRequest(method, target string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) asUser(c echo.Context, userID uint) {
	c.Set("userID", userID)
	c.Set("role", "user")
}

func (env *testEnv) asAdmin(c echo.Context, userID uint) {
	c.Set("userID", userID)
	c.Set("role", "admin")
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
}
