package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"affiliate-backend/internal/affiliate"
)

type nopSender struct{}

func (nopSender) Send(string, string) error { return nil }

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	decimal.MarshalJSONWithoutQuotes = true
	store := affiliate.NewMemStore()
	senders := map[string]affiliate.Sender{
		affiliate.ChannelEmail:    nopSender{},
		affiliate.ChannelWhatsapp: nopSender{},
	}
	app := &affiliate.App{Svc: affiliate.NewService(store, senders, nil)}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("app", app)
	})
	members := router.Group("/members")
	{
		members.POST("", RegisterMember)
		members.GET("/:id", GetMember)
		members.GET("/:id/stats", GetMemberStats)
		members.GET("/:id/referrals", GetReferrals)
		members.GET("/:id/notifications", GetNotificationLogs)
		members.PATCH("/:id/active", SetMemberActive)
		members.GET("/link/:link", GetMemberByLink)
	}
	router.POST("/purchases", CreatePurchase)
	router.POST("/notifications", SendNotification)
	router.POST("/products", CreateProduct)
	router.GET("/products", GetProducts)
	return router
}

func do(t *testing.T, router *gin.Engine, method string, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerBody(name string, email string) gin.H {
	return gin.H{
		"full_name":       name,
		"email":           email,
		"whatsapp_number": "5511999990000",
		"address":         "Rua das Flores 12",
	}
}

func registerMember(t *testing.T, router *gin.Engine, body gin.H) affiliate.Member {
	t.Helper()
	w := do(t, router, http.MethodPost, "/members", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d, body %s", w.Code, w.Body.String())
	}
	var member affiliate.Member
	if err := json.Unmarshal(w.Body.Bytes(), &member); err != nil {
		t.Fatal(err)
	}
	return member
}

func TestRegisterMemberEndpoint(t *testing.T) {
	router := newTestRouter()
	member := registerMember(t, router, registerBody("Alice Prado", "alice@example.com"))
	if member.Email != "alice@example.com" {
		t.Errorf("email = %s", member.Email)
	}
	if len(member.UniqueLink) != 8 {
		t.Errorf("unique link %q, want 8 chars", member.UniqueLink)
	}

	w := do(t, router, http.MethodPost, "/members", registerBody("Alice Again", "alice@example.com"))
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate email: status %d, want 409", w.Code)
	}

	w = do(t, router, http.MethodPost, "/members", gin.H{"full_name": "No Email"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing fields: status %d, want 400", w.Code)
	}
}

func TestGetMemberEndpoints(t *testing.T) {
	router := newTestRouter()
	member := registerMember(t, router, registerBody("Alice Prado", "alice@example.com"))

	w := do(t, router, http.MethodGet, fmt.Sprintf("/members/%d", member.Id), nil)
	if w.Code != http.StatusOK {
		t.Errorf("get by id: status %d", w.Code)
	}
	w = do(t, router, http.MethodGet, "/members/999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status %d, want 404", w.Code)
	}
	w = do(t, router, http.MethodGet, "/members/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id: status %d, want 400", w.Code)
	}
	w = do(t, router, http.MethodGet, "/members/link/"+member.UniqueLink, nil)
	if w.Code != http.StatusOK {
		t.Errorf("get by link: status %d", w.Code)
	}
	w = do(t, router, http.MethodGet, "/members/link/unknown1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown link: status %d, want 404", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter()
	referrer := registerMember(t, router, registerBody("Alice Prado", "alice@example.com"))

	body := registerBody("Bruno Costa", "bruno@example.com")
	body["referrer_link"] = referrer.UniqueLink
	buyer := registerMember(t, router, body)

	w := do(t, router, http.MethodPost, "/purchases", gin.H{
		"member_id":    buyer.Id,
		"product_name": "Go Course",
		"amount":       100,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("purchase: status %d, body %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, fmt.Sprintf("/members/%d/stats", referrer.Id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: status %d", w.Code)
	}
	var stats affiliate.MemberStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalReferrals != 1 || stats.ActiveReferrals != 1 {
		t.Errorf("counts = %d/%d, want 1/1", stats.TotalReferrals, stats.ActiveReferrals)
	}
	// the purchase is still pending, nothing earned yet
	if !stats.TotalEarnings.IsZero() {
		t.Errorf("earnings = %s, want 0", stats.TotalEarnings)
	}
}

func TestPurchaseEndpointRejectsBadAmount(t *testing.T) {
	router := newTestRouter()
	member := registerMember(t, router, registerBody("Alice Prado", "alice@example.com"))

	for _, amount := range []any{0, -5, "0.00"} {
		w := do(t, router, http.MethodPost, "/purchases", gin.H{
			"member_id":    member.Id,
			"product_name": "Go Course",
			"amount":       amount,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("amount %v: status %d, want 400", amount, w.Code)
		}
	}

	w := do(t, router, http.MethodPost, "/purchases", gin.H{
		"member_id":    999,
		"product_name": "Go Course",
		"amount":       10,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown member: status %d, want 404", w.Code)
	}
}

func TestSetMemberActiveEndpoint(t *testing.T) {
	router := newTestRouter()
	member := registerMember(t, router, registerBody("Alice Prado", "alice@example.com"))

	w := do(t, router, http.MethodPatch, fmt.Sprintf("/members/%d/active", member.Id), gin.H{"is_active": false})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var updated affiliate.Member
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatal(err)
	}
	if updated.IsActive {
		t.Error("member still active")
	}

	w = do(t, router, http.MethodPatch, fmt.Sprintf("/members/%d/active", member.Id), gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing flag: status %d, want 400", w.Code)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	router := newTestRouter()
	member := registerMember(t, router, registerBody("Alice Prado", "alice@example.com"))

	w := do(t, router, http.MethodPost, "/notifications", gin.H{
		"member_id":       member.Id,
		"type":            "email",
		"event_type":      "welcome",
		"message_content": "hello",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("send: status %d, body %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPost, "/notifications", gin.H{
		"member_id":       member.Id,
		"type":            "pigeon",
		"event_type":      "welcome",
		"message_content": "hello",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad channel: status %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodGet, fmt.Sprintf("/members/%d/notifications?page=1&size=2", member.Id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status %d", w.Code)
	}
	var paginated PaginatedLogs
	if err := json.Unmarshal(w.Body.Bytes(), &paginated); err != nil {
		t.Fatal(err)
	}
	// 2 welcome logs from registration plus the manual one
	if paginated.Count != 3 {
		t.Errorf("count = %d, want 3", paginated.Count)
	}
	if len(paginated.Results) != 2 {
		t.Errorf("results = %d, want page of 2", len(paginated.Results))
	}
	if paginated.Next == "" {
		t.Error("expected a next page link")
	}
	if paginated.Results[0].Id <= paginated.Results[1].Id {
		t.Error("logs not newest-first")
	}
}

func TestReferralsPagination(t *testing.T) {
	router := newTestRouter()
	referrer := registerMember(t, router, registerBody("Alice Prado", "alice@example.com"))
	for i := 0; i < 3; i++ {
		body := registerBody(fmt.Sprintf("Referred %d", i), fmt.Sprintf("r%d@example.com", i))
		body["referrer_link"] = referrer.UniqueLink
		registerMember(t, router, body)
	}

	w := do(t, router, http.MethodGet, fmt.Sprintf("/members/%d/referrals?page=2&size=2", referrer.Id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var paginated PaginatedRef
	if err := json.Unmarshal(w.Body.Bytes(), &paginated); err != nil {
		t.Fatal(err)
	}
	if paginated.Count != 3 {
		t.Errorf("count = %d, want 3", paginated.Count)
	}
	if len(paginated.Results) != 1 {
		t.Errorf("page 2 results = %d, want 1", len(paginated.Results))
	}
	if paginated.Previous == "" {
		t.Error("expected a previous page link")
	}
	if paginated.Next != "" {
		t.Errorf("next = %q, want empty on last page", paginated.Next)
	}

	w = do(t, router, http.MethodGet, fmt.Sprintf("/members/%d/referrals?size=500", referrer.Id), nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("oversized page: status %d, want 400", w.Code)
	}
}

func TestProductEndpoints(t *testing.T) {
	router := newTestRouter()

	w := do(t, router, http.MethodPost, "/products", gin.H{"name": "Go Course", "price": 49.90})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodPost, "/products", gin.H{"name": "Free Thing", "price": 0})
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero price: status %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodGet, "/products", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status %d", w.Code)
	}
	var products []affiliate.DigitalProduct
	if err := json.Unmarshal(w.Body.Bytes(), &products); err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 {
		t.Errorf("products = %d, want 1", len(products))
	}
}
