package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/users"
)

type published struct {
	Topic    string
	Key      string
	Envelope orders.Envelope
}

type fakePublisher struct{ events []published }

func (f *fakePublisher) Publish(topic string, key, value []byte, headers ...kafkago.Header) {
	var ev orders.Envelope
	_ = json.Unmarshal(value, &ev)
	f.events = append(f.events, published{Topic: topic, Key: string(key), Envelope: ev})
}

func (f *fakePublisher) byTopic(topic string) []published {
	var out []published
	for _, e := range f.events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	mux      http.Handler
	store    *orders.MemoryStore
	pub      *fakePublisher
	customer string
	admin    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := orders.NewMemoryStore()
	store.SeedProduct(orders.Product{ID: "p1", Name: "Kopi Gayo", Stock: 10, PriceCents: 1500})
	store.SeedProduct(orders.Product{ID: "p2", Name: "Teh Melati", Stock: 3, PriceCents: 800})

	pub := &fakePublisher{}
	tokens := auth.NewTokens("test-secret", time.Minute, time.Hour)

	h := Handlers{
		Orders: &OrdersHandler{
			Svc:       orders.NewService(store, zap.NewNop()),
			Producer:  pub,
			Service:   "api-test",
			Threshold: 2,
			Log:       zap.NewNop(),
		},
		Catalog: &CatalogHandler{Log: zap.NewNop()},
		Users:   &UsersHandler{Log: zap.NewNop()},
		Auth:    &AuthHandler{Tokens: tokens, Log: zap.NewNop()},
		Tokens:  tokens,
	}

	customer, _, err := tokens.IssueAccess("u-cust", "cust@toko.id", users.RoleCustomer)
	require.NoError(t, err)
	admin, _, err := tokens.IssueAccess("u-admin", "admin@toko.id", users.RoleAdmin)
	require.NoError(t, err)

	return &fixture{
		mux:      NewRouter(h),
		store:    store,
		pub:      pub,
		customer: customer,
		admin:    admin,
	}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) createOrder(t *testing.T, in orders.CreateInput) *orders.Order {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/orders", f.customer, in)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var o orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	return &o
}

func TestOrders_CreateRequiresAuth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/orders", "", orders.CreateInput{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrders_Create(t *testing.T) {
	f := newFixture(t)

	o := f.createOrder(t, orders.CreateInput{Items: []orders.ItemInput{
		{ProductID: "p1", Quantity: 4, PriceCents: 1500},
	}})

	assert.Equal(t, orders.StatusPending, o.Status)
	assert.Equal(t, 6000, o.TotalCents)
	assert.Equal(t, 6, f.store.ProductStock("p1"))

	created := f.pub.byTopic(orders.TopicOrderCreated)
	require.Len(t, created, 1)
	assert.Equal(t, orders.EventOrderCreated, created[0].Envelope.EventType)
	assert.Equal(t, o.ID, created[0].Key)
	assert.Equal(t, "api-test", created[0].Envelope.Producer)
}

func TestOrders_CreateInsufficientStock(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/orders", f.customer, orders.CreateInput{
		Items: []orders.ItemInput{{ProductID: "p2", Quantity: 4, PriceCents: 800}},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, KindInsufficientStock, body["kind"])
	assert.Equal(t, "Insufficient stock for Teh Melati. Available: 3, Required: 4", body["error"])
	assert.Equal(t, 3, f.store.ProductStock("p2"))
	assert.Empty(t, f.pub.events)
}

func TestOrders_CreatePublishesStockLow(t *testing.T) {
	f := newFixture(t)

	// stok p2 3 -> 1, di bawah threshold 2
	f.createOrder(t, orders.CreateInput{Items: []orders.ItemInput{
		{ProductID: "p2", Quantity: 2, PriceCents: 800},
	}})

	low := f.pub.byTopic(orders.TopicStockLow)
	require.Len(t, low, 1)
	assert.Equal(t, orders.EventStockLow, low[0].Envelope.EventType)
}

func TestOrders_UpdateForbiddenForCustomer(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, orders.CreateInput{Items: []orders.ItemInput{
		{ProductID: "p1", Quantity: 1, PriceCents: 1500},
	}})

	rec := f.do(t, http.MethodPatch, "/orders/"+o.ID, f.customer,
		orders.UpdateInput{Status: "CANCELLED"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOrders_CancelPublishesCancelledTopic(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, orders.CreateInput{Items: []orders.ItemInput{
		{ProductID: "p1", Quantity: 4, PriceCents: 1500},
	}})

	rec := f.do(t, http.MethodPatch, "/orders/"+o.ID, f.admin,
		orders.UpdateInput{Status: "CANCELLED"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, 10, f.store.ProductStock("p1"))
	cancelled := f.pub.byTopic(orders.TopicOrderCancelled)
	require.Len(t, cancelled, 1)
	assert.Equal(t, orders.EventOrderCancelled, cancelled[0].Envelope.EventType)
	assert.Empty(t, f.pub.byTopic(orders.TopicOrderUpdated))
}

func TestOrders_UpdateStatusPublishesUpdatedTopic(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, orders.CreateInput{Items: []orders.ItemInput{
		{ProductID: "p1", Quantity: 1, PriceCents: 1500},
	}})

	rec := f.do(t, http.MethodPatch, "/orders/"+o.ID, f.admin,
		orders.UpdateInput{Status: "PROCESSING"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Len(t, f.pub.byTopic(orders.TopicOrderUpdated), 1)
}

func TestOrders_DeleteCompletedRejected(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, orders.CreateInput{Items: []orders.ItemInput{
		{ProductID: "p1", Quantity: 1, PriceCents: 1500},
	}})
	rec := f.do(t, http.MethodPatch, "/orders/"+o.ID, f.admin,
		orders.UpdateInput{Status: "COMPLETED"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/orders/"+o.ID, f.admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, KindPreconditionFailed, body["kind"])
}

func TestOrders_Delete(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, orders.CreateInput{Items: []orders.ItemInput{
		{ProductID: "p1", Quantity: 3, PriceCents: 1500},
	}})

	rec := f.do(t, http.MethodDelete, "/orders/"+o.ID, f.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["success"])

	assert.Equal(t, 10, f.store.ProductStock("p1"))
	require.Len(t, f.pub.byTopic(orders.TopicOrderDeleted), 1)

	rec = f.do(t, http.MethodGet, "/orders/"+o.ID, f.customer, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrders_GetAndList(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, orders.CreateInput{Items: []orders.ItemInput{
		{ProductID: "p1", Quantity: 2, PriceCents: 1500},
	}})

	rec := f.do(t, http.MethodGet, "/orders/"+o.ID, f.customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, o.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Kopi Gayo", got.Items[0].ProductName)

	// list admin only
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodGet, "/orders", f.customer, nil).Code)
	rec = f.do(t, http.MethodGet, "/orders", f.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestOrders_StatusFallsBackToStore(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, orders.CreateInput{Items: []orders.ItemInput{
		{ProductID: "p1", Quantity: 2, PriceCents: 1500},
	}})

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/orders/%s/status", o.ID), f.customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(orders.StatusPending), body["status"])
	assert.Equal(t, float64(3000), body["total_cents"])
}

func TestOrders_UnknownOrder(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/orders/nope", f.customer, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
