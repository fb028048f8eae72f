package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matthieukhl/eashop/internal/catalog"
	"github.com/matthieukhl/eashop/internal/config"
	"github.com/matthieukhl/eashop/internal/shop"
	"github.com/matthieukhl/eashop/internal/storage"
	"github.com/matthieukhl/eashop/internal/telegram"
)

const botToken = "123456:TEST-TOKEN"

type fakeInvoicer struct {
	err error
}

func (f *fakeInvoicer) CreateInvoice(context.Context, telegram.Invoice) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://t.me/your_bot?start=invoice_1", nil
}

func (f *fakeInvoicer) Name() string { return "fake" }

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, tg config.TelegramConfig, inv telegram.Invoicer) *Server {
	t.Helper()
	svc := shop.NewService(catalog.Default(), storage.NewMemoryStore(), inv)
	return NewServer(svc, nil, tg, zap.NewNop())
}

func do(t *testing.T, s *Server, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func session(id string) map[string]string {
	return map[string]string{HeaderSessionID: id}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.TelegramConfig{}, &fakeInvoicer{})

	w := do(t, s, http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, config.TelegramConfig{}, &fakeInvoicer{})

	w := do(t, s, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "telegram-web-app.js")
}

func TestIndex_Controls(t *testing.T) {
	s := newTestServer(t, config.TelegramConfig{}, &fakeInvoicer{})

	w := do(t, s, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	page := w.Body.String()
	for _, want := range []string{
		"navigate('/view/home')",
		"navigate('/view/back')",
		"navigate('/view/cart')",
		"screen.search_term",
		"openInvoice",
	} {
		assert.Contains(t, page, want)
	}
}

func TestView_HomeFromCartAndDetail(t *testing.T) {
	s := newTestServer(t, config.TelegramConfig{}, &fakeInvoicer{})
	h := session("home")

	for _, from := range []string{"/api/view/cart", "/api/view/details/3"} {
		w := do(t, s, http.MethodPost, from, nil, h)
		require.Equal(t, http.StatusOK, w.Code)

		w = do(t, s, http.MethodPost, "/api/view/home", nil, h)
		require.Equal(t, http.StatusOK, w.Code)
		scr := decode[shop.Screen](t, w)
		assert.Equal(t, "list", string(scr.View), from)
		assert.False(t, scr.CanGoBack, from)
		assert.Nil(t, scr.Product, from)
	}
}

func TestProducts(t *testing.T) {
	s := newTestServer(t, config.TelegramConfig{}, &fakeInvoicer{})

	w := do(t, s, http.MethodGet, "/api/products?q=scalp", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Products []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"products"`
	}](t, w)
	require.Len(t, body.Products, 1)
	assert.Equal(t, "Scalper Pro", body.Products[0].Name)

	w = do(t, s, http.MethodGet, "/api/products/3", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "News Trader")

	w = do(t, s, http.MethodGet, "/api/products/9", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/api/products/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionIDIssued(t *testing.T) {
	s := newTestServer(t, config.TelegramConfig{}, &fakeInvoicer{})

	w := do(t, s, http.MethodGet, "/api/cart", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sid := w.Header().Get(HeaderSessionID)
	assert.NotEmpty(t, sid)

	w = do(t, s, http.MethodGet, "/api/me", nil, session(sid))
	assert.Equal(t, sid, w.Header().Get(HeaderSessionID))
	assert.Contains(t, w.Body.String(), "session:"+sid)
}

func TestCartFlow(t *testing.T) {
	s := newTestServer(t, config.TelegramConfig{}, &fakeInvoicer{})
	h := session("abc")

	w := do(t, s, http.MethodPost, "/api/cart/items", map[string]int{"product_id": 1}, h)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, s, http.MethodPost, "/api/cart/items", map[string]int{"product_id": 1}, h)
	require.Equal(t, http.StatusOK, w.Code)

	summary := decode[shop.CartSummary](t, w)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, "399.98", summary.Total.StringFixed(2))

	w = do(t, s, http.MethodDelete, "/api/cart/items/1", nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	summary = decode[shop.CartSummary](t, w)
	assert.Equal(t, 1, summary.Count)

	w = do(t, s, http.MethodPost, "/api/cart/items", map[string]int{"product_id": 0}, h)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/api/cart/items", map[string]int{"product_id": 12}, h)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestViewFlow(t *testing.T) {
	s := newTestServer(t, config.TelegramConfig{}, &fakeInvoicer{})
	h := session("abc")

	w := do(t, s, http.MethodPost, "/api/view/details/2", nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	scr := decode[shop.Screen](t, w)
	assert.Equal(t, "detail", string(scr.View))
	assert.True(t, scr.CanGoBack)

	w = do(t, s, http.MethodPost, "/api/view/cart", nil, h)
	scr = decode[shop.Screen](t, w)
	assert.Equal(t, "cart", string(scr.View))
	require.NotNil(t, scr.Cart)
	assert.True(t, scr.Cart.Empty)

	w = do(t, s, http.MethodPost, "/api/view/back", nil, h)
	scr = decode[shop.Screen](t, w)
	assert.Equal(t, "list", string(scr.View))

	w = do(t, s, http.MethodPost, "/api/view/search", map[string]string{"term": "trend"}, h)
	scr = decode[shop.Screen](t, w)
	require.Len(t, scr.Products, 1)
	assert.Equal(t, "Trend Master EA", scr.Products[0].Name)

	w = do(t, s, http.MethodPost, "/api/view/home", nil, h)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/api/view", nil, h)
	scr = decode[shop.Screen](t, w)
	assert.Equal(t, "trend", scr.SearchTerm)

	w = do(t, s, http.MethodPost, "/api/view/details/77", nil, h)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckout(t *testing.T) {
	s := newTestServer(t, config.TelegramConfig{}, &fakeInvoicer{})
	h := session("abc")

	w := do(t, s, http.MethodPost, "/api/checkout", nil, h)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "EMPTY_CART")

	do(t, s, http.MethodPost, "/api/cart/items", map[string]int{"product_id": 3}, h)

	w = do(t, s, http.MethodPost, "/api/checkout", nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[shop.CheckoutResult](t, w)
	assert.Equal(t, "https://t.me/your_bot?start=invoice_1", res.InvoiceURL)
	assert.Equal(t, "249.99", res.Total.StringFixed(2))
}

func TestCheckout_InvoiceFailureAlerts(t *testing.T) {
	s := newTestServer(t, config.TelegramConfig{}, &fakeInvoicer{err: errors.New("upstream")})
	h := session("abc")

	do(t, s, http.MethodPost, "/api/cart/items", map[string]int{"product_id": 1}, h)

	w := do(t, s, http.MethodPost, "/api/checkout", nil, h)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode[ErrorResponse](t, w)
	assert.Equal(t, shop.AlertMessage, body.Alert)
}

func signedInitData(userID int64, authDate time.Time) string {
	values := url.Values{}
	values.Set("user", `{"id":`+strconv.FormatInt(userID, 10)+`,"first_name":"Ada"}`)
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	values.Set("hash", telegram.Sign(values, botToken))
	return values.Encode()
}

func TestIdentify_TelegramUser(t *testing.T) {
	s := newTestServer(t, config.TelegramConfig{BotToken: botToken, InitDataMaxAge: time.Hour}, &fakeInvoicer{})
	h := map[string]string{HeaderInitData: signedInitData(42, time.Now())}

	w := do(t, s, http.MethodPost, "/api/cart/items", map[string]int{"product_id": 2}, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(HeaderSessionID))

	w = do(t, s, http.MethodGet, "/api/me", nil, h)
	assert.Contains(t, w.Body.String(), `"owner":"tg:42"`)

	// the same user on another device sees the same cart
	h = map[string]string{HeaderInitData: signedInitData(42, time.Now())}
	w = do(t, s, http.MethodGet, "/api/cart", nil, h)
	summary := decode[shop.CartSummary](t, w)
	assert.Equal(t, 1, summary.Count)
}

func TestIdentify_RejectsForgedInitData(t *testing.T) {
	s := newTestServer(t, config.TelegramConfig{BotToken: botToken}, &fakeInvoicer{})

	forged := "user=%7B%22id%22%3A1%7D&auth_date=1700000000&hash=deadbeef"
	w := do(t, s, http.MethodGet, "/api/cart", nil, map[string]string{HeaderInitData: forged})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentify_UnverifiedWithoutToken(t *testing.T) {
	s := newTestServer(t, config.TelegramConfig{}, &fakeInvoicer{})

	raw := "user=%7B%22id%22%3A7%2C%22first_name%22%3A%22Bob%22%7D&auth_date=1700000000&hash=x"
	w := do(t, s, http.MethodGet, "/api/me", nil, map[string]string{HeaderInitData: raw})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"owner":"tg:7"`)
}
