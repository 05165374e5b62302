package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caribbeanhomehub/server/config"
	"caribbeanhomehub/server/internal/auth"
	"caribbeanhomehub/server/internal/database"
	"caribbeanhomehub/server/internal/models"
	"caribbeanhomehub/server/internal/payments"
)

type testServer struct {
	router *gin.Engine
	db     *database.Database
	auth   *auth.Service
}

func newTestServer(t *testing.T, processor payments.Processor) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Listing.RentalFee = 49
	cfg.Admin.Username = "admin"
	cfg.Admin.Password = "s3cret"
	cfg.Admin.JWTSecret = "test-secret"

	authService := auth.NewService(cfg.Admin.JWTSecret, cfg.Admin.Username, cfg.Admin.Password)

	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))

	handler := NewHandler(db, cfg, authService, processor, nil, logger)

	router := gin.New()
	SetupRoutes(router, handler, authService)

	return &testServer{router: router, db: db, auth: authService}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	token, err := s.auth.IssueToken(auth.RoleAdmin, "Admin User")
	require.NoError(t, err)
	return token
}

func (s *testServer) propertyCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, s.db.GetDB().Model(&models.Property{}).Count(&count).Error)
	return count
}

func (s *testServer) paymentCount(t *testing.T) int64 {
	t.Helper()
	count, err := s.db.CountPayments()
	require.NoError(t, err)
	return count
}

func TestCreateRentalListing(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())

	rec := server.do(t, http.MethodPost, "/api/rental-listings", map[string]interface{}{
		"propertyType": "Villa",
		"address":      "123 Palm St",
		"contactEmail": "a@b.com",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	listingID, _ := body["listingId"].(string)
	require.NotEmpty(t, listingID)

	assert.Equal(t, int64(1), server.propertyCount(t))
	stored, err := server.db.GetProperty(listingID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, stored.ApprovalStatus)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)
	assert.Equal(t, "Villa - 123 Palm St", stored.Title)
	assert.Equal(t, models.ListingTypeRental, stored.ListingType)
	assert.Equal(t, 49.0, stored.ListingFee)
}

func TestCreateRentalListingMissingFields(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())

	complete := map[string]interface{}{
		"propertyType": "Villa",
		"address":      "123 Palm St",
		"contactEmail": "a@b.com",
	}

	for _, field := range []string{"propertyType", "address", "contactEmail"} {
		t.Run(field, func(t *testing.T) {
			body := map[string]interface{}{}
			for k, v := range complete {
				if k != field {
					body[k] = v
				}
			}

			rec := server.do(t, http.MethodPost, "/api/rental-listings", body, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeBody(t, rec)
			assert.Equal(t, fmt.Sprintf("Missing required field: %s", field), resp["error"])
		})
	}

	assert.Zero(t, server.propertyCount(t))
}

func TestCreateProperty(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())

	rec := server.do(t, http.MethodPost, "/api/properties", map[string]interface{}{
		"title":           "Beachfront Villa",
		"description":     "Stunning villa with ocean views",
		"propertyType":    "villa",
		"price":           850000,
		"country":         "barbados",
		"bedrooms":        4,
		"bathrooms":       3,
		"squareFeet":      3200,
		"agentName":       "Maria Joseph",
		"agentEmail":      "maria@islandrealty.com",
		"agentPhone":      "+1 246 555 0199",
		"selectedPackage": "premium",
		"features":        []string{"Swimming Pool", "Beach Access"},
		"images":          []string{"https://cdn.example.com/villa.jpg"},
	}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	property, ok := body["property"].(map[string]interface{})
	require.True(t, ok)
	id, _ := property["id"].(string)
	require.NotEmpty(t, id)

	stored, err := server.db.GetProperty(id)
	require.NoError(t, err)
	assert.Equal(t, models.ListingTypeSale, stored.ListingType)
	assert.Equal(t, 75.0, stored.ListingFee) // premium tier
	assert.Equal(t, models.ApprovalPending, stored.ApprovalStatus)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)
	assert.Equal(t, "BBD", stored.LocalCurrency)
	assert.Equal(t, 1700000.0, stored.PriceLocalCurrency)

	// Owner resolved by agent email.
	owner, err := server.db.FindOrCreateUser("maria@islandrealty.com", "")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, stored.UserID)
}

func TestCreatePropertyMissingField(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())

	rec := server.do(t, http.MethodPost, "/api/properties", map[string]interface{}{
		"description":  "No title given",
		"propertyType": "villa",
		"price":        100000,
		"country":      "barbados",
		"agentEmail":   "a@b.com",
	}, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Missing required field: title", body["error"])
	assert.Zero(t, server.propertyCount(t))
}

func TestCreatePropertyRejectsNonPositivePrice(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())

	rec := server.do(t, http.MethodPost, "/api/properties", map[string]interface{}{
		"title":        "Free Villa",
		"description":  "Suspiciously free",
		"propertyType": "villa",
		"price":        0,
		"country":      "barbados",
		"agentEmail":   "a@b.com",
	}, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, server.propertyCount(t))
}

func createRental(t *testing.T, server *testServer) string {
	t.Helper()
	rec := server.do(t, http.MethodPost, "/api/rental-listings", map[string]interface{}{
		"propertyType": "Villa",
		"address":      "123 Palm St",
		"contactEmail": "a@b.com",
		"contactName":  "Ann",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	id, _ := decodeBody(t, rec)["listingId"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestProcessPayment(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())
	listingID := createRental(t, server)

	rec := server.do(t, http.MethodPost, "/api/payments/process", map[string]interface{}{
		"listingId": listingID,
		"amount":    49,
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 49.0, body["amount"])
	assert.NotEmpty(t, body["paymentId"])

	assert.Equal(t, int64(1), server.paymentCount(t))
	records, err := server.db.GetPaymentsForProperty(listingID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.PaymentCompleted, records[0].Status)
	assert.Equal(t, 49.0, records[0].Amount)
	assert.Equal(t, "USD", records[0].Currency)

	stored, err := server.db.GetProperty(listingID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, stored.PaymentStatus)
	// Payment does not publish: approval is a separate admin decision.
	assert.Equal(t, models.ApprovalPending, stored.ApprovalStatus)
}

func TestProcessPaymentUnknownListing(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())

	rec := server.do(t, http.MethodPost, "/api/payments/process", map[string]interface{}{
		"listingId": "does-not-exist",
		"amount":    49,
	}, nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Listing not found", decodeBody(t, rec)["error"])
	assert.Zero(t, server.paymentCount(t))
}

func TestProcessPaymentMissingInformation(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())
	listingID := createRental(t, server)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{name: "missing amount", body: map[string]interface{}{"listingId": listingID}},
		{name: "missing listing id", body: map[string]interface{}{"amount": 49}},
		{name: "non-numeric amount", body: map[string]interface{}{"listingId": listingID, "amount": "forty-nine"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := server.do(t, http.MethodPost, "/api/payments/process", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	assert.Zero(t, server.paymentCount(t))
}

func TestProcessPaymentDeclined(t *testing.T) {
	server := newTestServer(t, &payments.DecliningProcessor{})
	listingID := createRental(t, server)

	rec := server.do(t, http.MethodPost, "/api/payments/process", map[string]interface{}{
		"listingId": listingID,
		"amount":    49,
	}, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, server.paymentCount(t))

	stored, err := server.db.GetProperty(listingID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)
}

func TestProcessPaymentIdempotency(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())
	listingID := createRental(t, server)

	body := map[string]interface{}{"listingId": listingID, "amount": 49}
	headers := map[string]string{"Idempotency-Key": "retry-token"}

	first := server.do(t, http.MethodPost, "/api/payments/process", body, headers)
	require.Equal(t, http.StatusOK, first.Code)
	second := server.do(t, http.MethodPost, "/api/payments/process", body, headers)
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, decodeBody(t, first)["paymentId"], decodeBody(t, second)["paymentId"])
	assert.Equal(t, int64(1), server.paymentCount(t))
}

func TestListingsVisibility(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())
	listingID := createRental(t, server)

	// Unpaid, unapproved: hidden from the public feed.
	rec := server.do(t, http.MethodGet, "/api/properties", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	// Hidden from the public detail page too.
	rec = server.do(t, http.MethodGet, "/api/properties/"+listingID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Admin sees it regardless.
	adminHeaders := map[string]string{"Authorization": "Bearer " + server.adminToken(t)}
	rec = server.do(t, http.MethodGet, "/api/properties", nil, adminHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	var adminFeed []models.Property
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &adminFeed))
	assert.Len(t, adminFeed, 1)

	// Pay and approve: now public.
	rec = server.do(t, http.MethodPost, "/api/payments/process",
		map[string]interface{}{"listingId": listingID, "amount": 49}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = server.do(t, http.MethodPost, "/api/admin/listings/"+listingID+"/approve", nil, adminHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodGet, "/api/properties", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var publicFeed []models.Property
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &publicFeed))
	require.Len(t, publicFeed, 1)
	assert.Equal(t, listingID, publicFeed[0].ID)

	rec = server.do(t, http.MethodGet, "/api/properties/"+listingID, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListingsFilterQuery(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())
	adminHeaders := map[string]string{"Authorization": "Bearer " + server.adminToken(t)}

	for _, price := range []float64{800, 1500, 2500} {
		rec := server.do(t, http.MethodPost, "/api/properties", map[string]interface{}{
			"title":        fmt.Sprintf("Listing %v", price),
			"description":  "Test listing",
			"propertyType": "house",
			"price":        price,
			"country":      "jamaica",
			"agentEmail":   "a@b.com",
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := server.do(t, http.MethodGet, "/api/properties?price=1000-2000", nil, adminHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []models.Property
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, 1500.0, feed[0].Price)
}

func TestAdminLogin(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())

	rec := server.do(t, http.MethodPost, "/api/admin/login",
		map[string]interface{}{"username": "admin", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = server.do(t, http.MethodPost, "/api/admin/login",
		map[string]interface{}{"username": "admin", "password": "s3cret"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	// The issued token opens the admin surface.
	rec = server.do(t, http.MethodGet, "/api/admin/listings", nil,
		map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Without it the surface stays closed.
	rec = server.do(t, http.MethodGet, "/api/admin/listings", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApproveRejectListing(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())
	adminHeaders := map[string]string{"Authorization": "Bearer " + server.adminToken(t)}

	approveID := createRental(t, server)
	rec := server.do(t, http.MethodPost, "/api/admin/listings/"+approveID+"/approve", nil, adminHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := server.db.GetProperty(approveID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, stored.ApprovalStatus)

	rejectID := createRental(t, server)
	rec = server.do(t, http.MethodPost, "/api/admin/listings/"+rejectID+"/reject", nil, adminHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err = server.db.GetProperty(rejectID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalRejected, stored.ApprovalStatus)

	rec = server.do(t, http.MethodPost, "/api/admin/listings/missing/approve", nil, adminHeaders)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, payments.NewSimulatedProcessor())

	rec := server.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
