package public

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hbarlink/internal/config"
	"github.com/hbarlink/internal/ledger"
	"github.com/hbarlink/internal/models"
	"github.com/hbarlink/internal/provider"
	"github.com/hbarlink/internal/repository"
	"github.com/hbarlink/internal/service"
	"github.com/hbarlink/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	"github.com/hashgraph/hedera-sdk-go/v2"
	"gorm.io/gorm"
)

type stubCompleter struct {
	configured bool
	content    string
	err        error
}

func (s stubCompleter) Configured() bool { return s.configured }

func (s stubCompleter) CompleteJSON(_ context.Context, _, _ string) (string, error) {
	return s.content, s.err
}

type stubTransferBuilder struct{}

func (stubTransferBuilder) BuildUnsignedTransfer(_ hedera.AccountID, tinybars int64, memo string) ([]byte, error) {
	return []byte(fmt.Sprintf("%d|%s", tinybars, memo)), nil
}

type handlerTestEnv struct {
	router *gin.Engine
	db     *gorm.DB
	c      *provider.Container
}

func setupHandlerTest(t *testing.T, completer service.Completer) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	binding.EnableDecoderUseNumber = true

	dsn := fmt.Sprintf("file:public_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.Migrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	if completer == nil {
		completer = stubCompleter{}
	}
	cfg := &config.Config{}
	cfg.Wallet.ProjectID = "wc-project"
	linkRepo := repository.NewLinkRepository(db)
	attemptRepo := repository.NewPaymentAttemptRepository(db)
	links := service.NewLinkService(linkRepo, 1000, time.Minute)
	payments := service.NewPaymentService(linkRepo, attemptRepo)
	manager := wallet.NewManager(wallet.NewMemoryStore(), wallet.NewTokenIssuer("test-secret"), wallet.Options{
		Network: "testnet",
	})
	c := &provider.Container{
		Config:              cfg,
		LinkRepo:            linkRepo,
		PaymentAttemptRepo:  attemptRepo,
		LinkService:         links,
		PaymentService:      payments,
		PresentationService: service.NewPresentationService(true),
		GeneratorService:    service.NewGeneratorService(completer),
		TransferService:     service.NewTransferService(stubTransferBuilder{}),
		WalletManager:       manager,
	}
	c.WalletPaymentService = service.NewWalletPaymentService(manager, links, payments, (ledger.Gateway)(nil))

	h := New(c)
	r := gin.New()
	api := r.Group("/api")
	api.GET("/config", h.GetConfig)
	api.GET("/links", h.ListLinks)
	api.POST("/links", h.CreateLink)
	api.GET("/links/:id", h.GetLink)
	api.PATCH("/links/:id", h.UpdateLink)
	api.DELETE("/links/:id", h.DeleteLink)
	api.GET("/links/:id/render", h.RenderLink)
	api.GET("/links/:id/payments", h.ListLinkPayments)
	api.POST("/payments", h.CreatePayment)
	api.POST("/generate-link", h.GenerateLink)
	api.POST("/tx/transfer", h.BuildTransfer)
	api.POST("/wallet/sessions", h.StartWalletSession)
	session := api.Group("/wallet/session")
	session.Use(func(ctx *gin.Context) {
		if id := ctx.GetHeader("X-Test-Session"); id != "" {
			ctx.Set(WalletSessionContextKey, id)
		}
		ctx.Next()
	})
	session.GET("", h.GetWalletSession)
	session.POST("/pair", h.PairWalletSession)
	session.POST("/pay", h.PayWithWallet)
	r.GET("/pay/:id", h.PayPage)

	return &handlerTestEnv{router: r, db: db, c: c}
}

func (env *handlerTestEnv) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func TestCreateAndGetLink(t *testing.T) {
	env := setupHandlerTest(t, nil)

	w := env.do(t, http.MethodPost, "/api/links", `{"title":"Coffee Fund","to":"0.0.1234","amount":"5"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	link := decodeBody(t, w)["link"].(map[string]interface{})
	if link["id"] != "coffee-fund" {
		t.Fatalf("id want coffee-fund got %v", link["id"])
	}
	if link["amount"] != float64(5) || link["total_paid"] != float64(0) || link["payments_count"] != float64(0) {
		t.Fatalf("unexpected link amounts: %v", link)
	}

	w = env.do(t, http.MethodGet, "/api/links/coffee-fund", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	got := decodeBody(t, w)["link"].(map[string]interface{})
	if got["title"] != "Coffee Fund" || got["to_account"] != "0.0.1234" {
		t.Fatalf("unexpected link: %v", got)
	}
}

func TestCreateLinkAcceptsNumericAmount(t *testing.T) {
	env := setupHandlerTest(t, nil)

	w := env.do(t, http.MethodPost, "/api/links", `{"title":"Tip","to":"0.0.9","amount":2.5}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	link := decodeBody(t, w)["link"].(map[string]interface{})
	if link["amount"] != 2.5 {
		t.Fatalf("amount want 2.5 got %v", link["amount"])
	}
}

func TestCreateLinkValidationErrors(t *testing.T) {
	env := setupHandlerTest(t, nil)

	cases := []struct {
		name string
		body string
		msg  string
	}{
		{name: "missing title", body: `{"to":"0.0.1","amount":"1"}`, msg: "title, to, and amount are required"},
		{name: "bad account", body: `{"title":"x","to":"abc","amount":"1"}`, msg: "to must match Hedera account format N.N.N (e.g., 0.0.1234)"},
		{name: "negative amount", body: `{"title":"x","to":"0.0.1","amount":"-3"}`, msg: "amount must be a positive number"},
		{name: "not json", body: `not json`, msg: "Invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/links", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status want 400 got %d body=%s", w.Code, w.Body.String())
			}
			if msg := decodeBody(t, w)["error"]; msg != tc.msg {
				t.Fatalf("error want %q got %v", tc.msg, msg)
			}
		})
	}

	var count int64
	env.db.Model(&models.PaymentLink{}).Count(&count)
	if count != 0 {
		t.Fatalf("no link should be stored, got %d", count)
	}
}

func TestGetLinkNotFound(t *testing.T) {
	env := setupHandlerTest(t, nil)

	w := env.do(t, http.MethodGet, "/api/links/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status want 404 got %d", w.Code)
	}
	if msg := decodeBody(t, w)["error"]; msg != "Link not found" {
		t.Fatalf("unexpected error: %v", msg)
	}
}

func TestUpdateLinkPartialAndNullClearsMemo(t *testing.T) {
	env := setupHandlerTest(t, nil)
	env.do(t, http.MethodPost, "/api/links", `{"id":"tip","title":"Tip","to":"0.0.1","amount":"1","memo":"thanks"}`)

	w := env.do(t, http.MethodPatch, "/api/links/tip", `{"amount":3,"memo":null,"unknown":"x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	link := decodeBody(t, w)["link"].(map[string]interface{})
	if link["amount"] != float64(3) || link["title"] != "Tip" {
		t.Fatalf("unexpected patch result: %v", link)
	}
	if link["memo"] != nil {
		t.Fatalf("memo should be cleared, got %v", link["memo"])
	}

	w = env.do(t, http.MethodPatch, "/api/links/tip", `{"to":"bad"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
	w = env.do(t, http.MethodPatch, "/api/links/missing", `{"title":"x"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status want 404 got %d", w.Code)
	}
}

func TestDeleteLinkIsIdempotent(t *testing.T) {
	env := setupHandlerTest(t, nil)
	env.do(t, http.MethodPost, "/api/links", `{"id":"gone","title":"Gone","to":"0.0.1","amount":"1"}`)

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodDelete, "/api/links/gone", "")
		if w.Code != http.StatusOK {
			t.Fatalf("delete %d: status want 200 got %d", i, w.Code)
		}
		if decodeBody(t, w)["ok"] != true {
			t.Fatalf("delete %d: expected ok true", i)
		}
	}
	if w := env.do(t, http.MethodGet, "/api/links/gone", ""); w.Code != http.StatusNotFound {
		t.Fatalf("deleted link should be gone, got %d", w.Code)
	}
}

func TestListLinksWithAndWithoutPagination(t *testing.T) {
	env := setupHandlerTest(t, nil)
	env.do(t, http.MethodPost, "/api/links", `{"id":"a","title":"A","to":"0.0.1","amount":"1"}`)
	env.do(t, http.MethodPost, "/api/links", `{"id":"b","title":"B","to":"0.0.1","amount":"1"}`)

	w := env.do(t, http.MethodGet, "/api/links", "")
	resp := decodeBody(t, w)
	if len(resp["links"].([]interface{})) != 2 {
		t.Fatalf("expected 2 links, got %v", resp["links"])
	}
	if _, ok := resp["pagination"]; ok {
		t.Fatalf("pagination should be absent without page_size")
	}

	w = env.do(t, http.MethodGet, "/api/links?page=1&page_size=1", "")
	resp = decodeBody(t, w)
	if len(resp["links"].([]interface{})) != 1 {
		t.Fatalf("expected 1 link on page, got %v", resp["links"])
	}
	pagination := resp["pagination"].(map[string]interface{})
	if pagination["total"] != float64(2) {
		t.Fatalf("total want 2 got %v", pagination["total"])
	}
}

func TestCreatePaymentUpdatesRollup(t *testing.T) {
	env := setupHandlerTest(t, nil)
	env.do(t, http.MethodPost, "/api/links", `{"id":"fund","title":"Fund","to":"0.0.1","amount":"5"}`)

	for _, body := range []string{
		`{"linkId":"fund","amount":10,"status":"success","txId":"0.0.5@1.1"}`,
		`{"linkId":"fund","amount":"5","status":"success"}`,
		`{"linkId":"fund","amount":"7","status":"failed","error":"INSUFFICIENT_PAYER_BALANCE"}`,
	} {
		w := env.do(t, http.MethodPost, "/api/payments", body)
		if w.Code != http.StatusCreated {
			t.Fatalf("status want 201 got %d body=%s", w.Code, w.Body.String())
		}
	}

	link := decodeBody(t, env.do(t, http.MethodGet, "/api/links/fund", ""))["link"].(map[string]interface{})
	if link["total_paid"] != float64(15) || link["payments_count"] != float64(2) {
		t.Fatalf("rollup want 15/2 got %v/%v", link["total_paid"], link["payments_count"])
	}

	resp := decodeBody(t, env.do(t, http.MethodGet, "/api/links/fund/payments", ""))
	if len(resp["payments"].([]interface{})) != 3 {
		t.Fatalf("all attempts should be listed, got %v", resp["payments"])
	}
	resp = decodeBody(t, env.do(t, http.MethodGet, "/api/links/fund/payments?status=failed", ""))
	if len(resp["payments"].([]interface{})) != 1 {
		t.Fatalf("status filter should return 1 attempt, got %v", resp["payments"])
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	env := setupHandlerTest(t, nil)

	w := env.do(t, http.MethodPost, "/api/payments", `{"amount":"1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
	if msg := decodeBody(t, w)["error"]; msg != "linkId and amount are required" {
		t.Fatalf("unexpected error: %v", msg)
	}
	w = env.do(t, http.MethodPost, "/api/payments", `{"linkId":"x","amount":"1","status":"pending"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
}

func TestRenderLinkFallbackAndSanitized(t *testing.T) {
	env := setupHandlerTest(t, nil)
	env.do(t, http.MethodPost, "/api/links", `{"id":"plain","title":"Plain","to":"0.0.7","amount":"2"}`)
	env.do(t, http.MethodPost, "/api/links", `{"id":"custom","title":"Custom","to":"0.0.7","amount":"2","componentCode":"<div onclick=\"x()\">Hi<script>alert(1)</script></div>"}`)

	html := decodeBody(t, env.do(t, http.MethodGet, "/api/links/plain/render", ""))["html"].(string)
	if !strings.Contains(html, "2 HBAR") || !strings.Contains(html, "0.0.7") {
		t.Fatalf("fallback markup missing link data: %s", html)
	}

	html = decodeBody(t, env.do(t, http.MethodGet, "/api/links/custom/render", ""))["html"].(string)
	if strings.Contains(strings.ToLower(html), "<script") || strings.Contains(html, "onclick") {
		t.Fatalf("component should be sanitized: %s", html)
	}
	if !strings.Contains(html, "Hi") {
		t.Fatalf("component content should survive: %s", html)
	}
}

func TestPayPage(t *testing.T) {
	env := setupHandlerTest(t, nil)
	env.do(t, http.MethodPost, "/api/links", `{"id":"page","title":"Page","to":"0.0.8","amount":"4"}`)

	w := env.do(t, http.MethodGet, "/pay/page", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type: %s", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "link-data") {
		t.Fatalf("pay page should embed link data")
	}

	w = env.do(t, http.MethodGet, "/pay/missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status want 404 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Link not found") {
		t.Fatalf("404 page should carry the not-found title: %s", w.Body.String())
	}
}

func TestGenerateLink(t *testing.T) {
	env := setupHandlerTest(t, stubCompleter{
		configured: true,
		content:    `{"title":"Pizza night","amount":12.5,"memo":"pizza"}`,
	})

	w := env.do(t, http.MethodPost, "/api/generate-link", `{"recipient":"0.0.42","prompt":"pizza for four"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["title"] != "Pizza night" || resp["amount"] != 12.5 || resp["memo"] != "pizza" {
		t.Fatalf("unexpected generated link: %v", resp)
	}

	w = env.do(t, http.MethodPost, "/api/generate-link", `{"recipient":"0.0.42"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
}

func TestGenerateLinkErrors(t *testing.T) {
	cases := []struct {
		name      string
		completer stubCompleter
		code      int
		msg       string
	}{
		{name: "missing key", completer: stubCompleter{}, code: http.StatusInternalServerError, msg: "Missing OPENAI_API_KEY on server"},
		{name: "invalid json", completer: stubCompleter{configured: true, content: "nope"}, code: http.StatusBadGateway, msg: "LLM did not return valid JSON"},
		{name: "invalid amount", completer: stubCompleter{configured: true, content: `{"title":"x","amount":0}`}, code: http.StatusBadGateway, msg: "LLM returned invalid amount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := setupHandlerTest(t, tc.completer)
			w := env.do(t, http.MethodPost, "/api/generate-link", `{"recipient":"0.0.42","prompt":"x"}`)
			if w.Code != tc.code {
				t.Fatalf("status want %d got %d body=%s", tc.code, w.Code, w.Body.String())
			}
			if msg := decodeBody(t, w)["error"]; msg != tc.msg {
				t.Fatalf("error want %q got %v", tc.msg, msg)
			}
		})
	}
}

func TestBuildTransfer(t *testing.T) {
	env := setupHandlerTest(t, nil)

	w := env.do(t, http.MethodPost, "/api/tx/transfer", `{"toAccountId":"0.0.1234","amountHbar":1.5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["type"] != "TRANSFER_HBAR_TEMPLATE" || resp["amountTinybar"] != "150000000" {
		t.Fatalf("unexpected template: %v", resp)
	}
	if resp["memo"] != nil {
		t.Fatalf("memo should be null, got %v", resp["memo"])
	}

	w = env.do(t, http.MethodPost, "/api/tx/transfer", `{"toAccountId":"bad","amountHbar":"1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
	if msg := decodeBody(t, w)["error"]; msg != "Invalid toAccountId" {
		t.Fatalf("unexpected error: %v", msg)
	}
}

func TestWalletSessionFlow(t *testing.T) {
	env := setupHandlerTest(t, nil)

	w := env.do(t, http.MethodPost, "/api/wallet/sessions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status want 201 got %d", w.Code)
	}
	resp := decodeBody(t, w)
	if resp["token"] == "" {
		t.Fatalf("expected token")
	}
	session := resp["session"].(map[string]interface{})
	id := session["id"].(string)
	if session["state"] != "pairing" {
		t.Fatalf("state want pairing got %v", session["state"])
	}

	w = env.do(t, http.MethodGet, "/api/wallet/session", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing session should be 401, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/wallet/session/pair", `{"accountId":"nope"}`, "X-Test-Session", id)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid account should be 400, got %d", w.Code)
	}
	w = env.do(t, http.MethodPost, "/api/wallet/session/pair", `{"accountId":"0.0.55"}`, "X-Test-Session", id)
	if w.Code != http.StatusOK {
		t.Fatalf("pair status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	paired := decodeBody(t, w)["session"].(map[string]interface{})
	if paired["state"] != "paired" || paired["account_id"] != "0.0.55" {
		t.Fatalf("unexpected paired session: %v", paired)
	}

	w = env.do(t, http.MethodPost, "/api/wallet/session/pair", `{"accountId":"0.0.56"}`, "X-Test-Session", id)
	if w.Code != http.StatusConflict {
		t.Fatalf("second pair should conflict, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/wallet/session", "", "X-Test-Session", "unknown")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown session should be 404, got %d", w.Code)
	}
}

func TestPayWithWalletWithoutGateway(t *testing.T) {
	env := setupHandlerTest(t, nil)

	w := env.do(t, http.MethodPost, "/api/wallet/session/pay", `{"linkId":"x","signedTransactionBase64":"AAAA"}`, "X-Test-Session", "s1")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status want 500 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetConfig(t *testing.T) {
	env := setupHandlerTest(t, nil)

	resp := decodeBody(t, env.do(t, http.MethodGet, "/api/config", ""))
	if resp["network"] != "testnet" || resp["walletConnectProjectId"] != "wc-project" {
		t.Fatalf("unexpected config: %v", resp)
	}
}
