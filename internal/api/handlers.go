package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"caribbeanhomehub/server/config"
	"caribbeanhomehub/server/internal/auth"
	"caribbeanhomehub/server/internal/cache"
	"caribbeanhomehub/server/internal/database"
	"caribbeanhomehub/server/internal/listings"
	"caribbeanhomehub/server/internal/models"
	"caribbeanhomehub/server/internal/payments"
)

type Handler struct {
	db        *database.Database
	logger    *logrus.Logger
	cfg       *config.Config
	auth      *auth.Service
	processor payments.Processor
	cache     *cache.ListingCache
}

// PropertyRequest is the sale-listing submission payload produced by the
// draft builder's final step.
type PropertyRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	PropertyType string  `json:"propertyType"`
	Price        float64 `json:"price"`

	Country string `json:"country"`
	Island  string `json:"island"`
	Region  string `json:"region"`
	Address string `json:"address"`

	Bedrooms   int `json:"bedrooms"`
	Bathrooms  int `json:"bathrooms"`
	SquareFeet int `json:"squareFeet"`

	AgentName  string `json:"agentName"`
	AgentEmail string `json:"agentEmail"`
	AgentPhone string `json:"agentPhone"`
	Brokerage  string `json:"brokerage"`

	SelectedPackage string `json:"selectedPackage"`

	Featured            bool     `json:"featured"`
	CitizenshipEligible bool     `json:"citizenshipEligible"`
	Features            []string `json:"features"`
	Images              []string `json:"images"`
}

// RentalListingRequest is the shorter rental submission payload.
type RentalListingRequest struct {
	PropertyType string `json:"propertyType"`
	Address      string `json:"address"`
	ContactEmail string `json:"contactEmail"`
	ContactName  string `json:"contactName"`
	Bedrooms     string `json:"bedrooms"`
	Bathrooms    string `json:"bathrooms"`
	Description  string `json:"description"`
}

// PaymentRequest confirms payment of a listing fee. Amount is a pointer so
// a missing field is distinguishable from zero.
type PaymentRequest struct {
	ListingID     string   `json:"listingId"`
	Amount        *float64 `json:"amount"`
	PaymentMethod string   `json:"paymentMethod"`
	CustomerEmail string   `json:"customerEmail"`
	CustomerName  string   `json:"customerName"`
	CustomerType  string   `json:"customerType"`
}

func NewHandler(db *database.Database, cfg *config.Config, authService *auth.Service,
	processor payments.Processor, listingCache *cache.ListingCache, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:        db,
		logger:    logger,
		cfg:       cfg,
		auth:      authService,
		processor: processor,
		cache:     listingCache,
	}
}

// CreateProperty accepts a complete sale-listing draft. The owner is
// resolved by agent email and the listing starts unpaid and unapproved.
func (h *Handler) CreateProperty(c *gin.Context) {
	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	required := []struct{ name, value string }{
		{"title", req.Title},
		{"description", req.Description},
		{"propertyType", req.PropertyType},
		{"country", req.Country},
		{"agentEmail", req.AgentEmail},
	}
	for _, field := range required {
		if field.value == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   fmt.Sprintf("Missing required field: %s", field.name),
			})
			return
		}
	}
	if req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required field: price"})
		return
	}

	pkg, ok := config.PackageByID(req.SelectedPackage)
	if !ok {
		pkg = config.DefaultPackage()
	}

	property := models.Property{
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		Price:        req.Price,
		Country:      req.Country,
		Island:       req.Island,
		Region:       req.Region,
		Address:      req.Address,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareFeet:   req.SquareFeet,
		AgentName:    req.AgentName,
		AgentEmail:   req.AgentEmail,
		AgentPhone:   req.AgentPhone,
		Brokerage:    req.Brokerage,
		ListingType:  models.ListingTypeSale,
		ListingFee:   pkg.PriceUSD,

		Featured:            req.Featured,
		CitizenshipEligible: req.CitizenshipEligible,
		Features:            req.Features,
		Images:              req.Images,
	}

	if country, found := config.CountryByCode(req.Country); found {
		property.LocalCurrency = country.Currency
		if country.ExchangeRate != 1.0 {
			property.PriceLocalCurrency = roundedLocalPrice(req.Price, country.ExchangeRate)
		}
	}

	if err := h.db.CreateListing(&property, req.AgentEmail, req.AgentName); err != nil {
		h.logger.WithError(err).Error("Failed to create listing")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create listing"})
		return
	}

	h.invalidateListings(c)
	c.JSON(http.StatusCreated, gin.H{"success": true, "property": property})
}

// CreateRentalListing accepts the rental submission variant. Rentals carry
// a flat listing fee and resolve their owner by contact email.
func (h *Handler) CreateRentalListing(c *gin.Context) {
	var req RentalListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	required := []struct{ name, value string }{
		{"propertyType", req.PropertyType},
		{"address", req.Address},
		{"contactEmail", req.ContactEmail},
	}
	for _, field := range required {
		if field.value == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Missing required field: %s", field.name),
			})
			return
		}
	}

	property := models.Property{
		Title:        fmt.Sprintf("%s - %s", req.PropertyType, req.Address),
		Description:  req.Description,
		PropertyType: req.PropertyType,
		Address:      req.Address,
		Country:      "Caribbean",
		Bedrooms:     atoiOrDefault(req.Bedrooms, 1),
		Bathrooms:    atoiOrDefault(req.Bathrooms, 1),
		Price:        h.cfg.Listing.RentalFee,
		AgentEmail:   req.ContactEmail,
		AgentName:    req.ContactName,
		ListingType:  models.ListingTypeRental,
		ListingFee:   h.cfg.Listing.RentalFee,
	}

	if err := h.db.CreateListing(&property, req.ContactEmail, req.ContactName); err != nil {
		h.logger.WithError(err).Error("Failed to create rental listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rental listing"})
		return
	}

	h.invalidateListings(c)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"listingId": property.ID,
		"message":   "Rental listing submitted successfully. Awaiting approval.",
	})
}

// ProcessPayment confirms payment of a listing fee: charge the processor,
// then record the payment and mark the listing paid in one transaction.
// Paying does not publish the listing; admin approval is a separate gate.
func (h *Handler) ProcessPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payment information"})
		return
	}
	if req.Amount == nil || req.ListingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payment information"})
		return
	}
	if *req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment amount must be greater than 0"})
		return
	}

	listing, err := h.db.GetProperty(req.ListingID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to look up listing for payment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment processing failed"})
		return
	}

	// A replayed idempotency token is answered from the original record
	// before the processor is asked to charge again.
	clientToken := c.GetHeader("Idempotency-Key")
	if clientToken != "" {
		if prior, err := h.db.FindPaymentByToken(listing.ID, clientToken); err == nil {
			c.JSON(http.StatusOK, gin.H{
				"success":   true,
				"paymentId": prior.ID,
				"amount":    prior.Amount,
				"message":   "Payment processed successfully!",
			})
			return
		}
	}

	customerEmail := req.CustomerEmail
	if customerEmail == "" {
		customerEmail = listing.AgentEmail
	}
	customerName := req.CustomerName
	if customerName == "" {
		customerName = listing.AgentName
	}
	customerType := req.CustomerType
	if customerType == "" {
		customerType = "owner"
	}

	result, err := h.processor.Charge(c.Request.Context(), payments.ChargeRequest{
		Amount:        *req.Amount,
		Currency:      "USD",
		CustomerEmail: customerEmail,
		CustomerName:  customerName,
		CustomerType:  customerType,
	})
	if errors.Is(err, payments.ErrDeclined) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment processing failed"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Payment processor error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment processing failed"})
		return
	}

	record := models.PaymentRecord{
		PropertyID:         listing.ID,
		Amount:             *req.Amount,
		Currency:           "USD",
		ListingType:        listing.ListingType,
		CustomerEmail:      customerEmail,
		CustomerName:       customerName,
		CustomerType:       customerType,
		ProcessorPaymentID: result.PaymentID,
		ProcessorSessionID: result.SessionID,
	}

	replayed, err := h.db.RecordPayment(&record, clientToken)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to record payment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment processing failed"})
		return
	}

	if !replayed {
		h.invalidateListings(c)
	}
	h.logger.WithFields(logrus.Fields{
		"payment_id":  record.ID,
		"property_id": record.PropertyID,
		"amount":      record.Amount,
		"replayed":    replayed,
	}).Info("Payment processed")

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"paymentId": record.ID,
		"amount":    record.Amount,
		"message":   "Payment processed successfully!",
	})
}

// GetAllProperties serves the listings feed, newest-first. Public callers
// see only published listings; a valid admin token widens the feed to all
// statuses. Query parameters apply the dashboard filter.
func (h *Handler) GetAllProperties(c *gin.Context) {
	admin := auth.IsAdmin(c)
	audience := cache.AudiencePublic
	if admin {
		audience = cache.AudienceAdmin
	}

	filter := filterFromQuery(c)
	unfiltered := filter == (listings.Filter{})

	if h.cache != nil && unfiltered {
		if data, err := h.cache.GetListings(c.Request.Context(), audience); err == nil {
			c.Data(http.StatusOK, "application/json", data)
			return
		}
	}

	properties, err := h.db.GetAllProperties(admin)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return
	}
	properties = filter.Apply(properties)
	if properties == nil {
		properties = []models.Property{}
	}

	if h.cache != nil && unfiltered {
		if data, err := json.Marshal(properties); err == nil {
			_ = h.cache.PutListings(c.Request.Context(), audience, data)
		}
	}

	c.JSON(http.StatusOK, properties)
}

// GetProperty serves a single listing.
func (h *Handler) GetProperty(c *gin.Context) {
	property, err := h.db.GetProperty(c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property"})
		return
	}

	if !property.Visible() && !auth.IsAdmin(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	c.JSON(http.StatusOK, property)
}

// AdminLogin exchanges admin credentials for a 24-hour session token.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetAdminListings returns every listing regardless of status.
func (h *Handler) GetAdminListings(c *gin.Context) {
	properties, err := h.db.GetAllProperties(true)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get admin listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listings"})
		return
	}
	if properties == nil {
		properties = []models.Property{}
	}
	c.JSON(http.StatusOK, properties)
}

// ApproveListing flips the administrative gate to APPROVED. The listing
// becomes publicly visible once its fee is also collected.
func (h *Handler) ApproveListing(c *gin.Context) {
	h.decideListing(c, models.ApprovalApproved)
}

// RejectListing flips the administrative gate to REJECTED.
func (h *Handler) RejectListing(c *gin.Context) {
	h.decideListing(c, models.ApprovalRejected)
}

func (h *Handler) decideListing(c *gin.Context, status string) {
	property, err := h.db.SetApprovalStatus(c.Param("id"), status)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to update approval status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}

	h.invalidateListings(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "property": property})
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) invalidateListings(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context())
	}
}

func filterFromQuery(c *gin.Context) listings.Filter {
	minBedrooms, _ := strconv.Atoi(c.Query("bedrooms"))
	return listings.Filter{
		Search:          c.Query("search"),
		PriceRange:      c.Query("price"),
		PropertyType:    c.Query("type"),
		MinBedrooms:     minBedrooms,
		Country:         c.Query("country"),
		CitizenshipOnly: c.Query("citizenship") == "true",
	}
}

func atoiOrDefault(s string, fallback int) int {
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return fallback
}

func roundedLocalPrice(usd, rate float64) float64 {
	return math.Round(usd * rate)
}
