package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	billingapp "github.com/Yousefaborizk/moonstar/internal/application/billing"
	catalogapp "github.com/Yousefaborizk/moonstar/internal/application/catalog"
	identityapp "github.com/Yousefaborizk/moonstar/internal/application/identity"
	inventoryapp "github.com/Yousefaborizk/moonstar/internal/application/inventory"
	partnerapp "github.com/Yousefaborizk/moonstar/internal/application/partner"
	salesapp "github.com/Yousefaborizk/moonstar/internal/application/sales"
	"github.com/Yousefaborizk/moonstar/internal/domain/identity"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/auth"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/cache"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/config"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/event"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/persistence"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/storage"
	"github.com/Yousefaborizk/moonstar/internal/interfaces/http/handler"
	"github.com/Yousefaborizk/moonstar/internal/interfaces/http/middleware"
	"github.com/Yousefaborizk/moonstar/internal/interfaces/http/router"
)

// APIResponse mirrors the standard API envelope for decoding test responses
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

// TestServer wires the full API stack against a containerized database.
// Routes and middleware mirror the production server, minus TLS and
// observability concerns.
type TestServer struct {
	DB     *TestDB
	Engine *gin.Engine

	AuthService    *identityapp.AuthService
	InvoiceService *billingapp.InvoiceService
	ProductService *catalogapp.ProductService
	StockService   *inventoryapp.StockService
	ClientService  *partnerapp.ClientService
}

// NewTestServer creates a test server with the complete route set registered
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	testDB := NewTestDB(t)
	log := zap.NewNop()

	productRepo := persistence.NewGormProductRepository(testDB.DB)
	clientRepo := persistence.NewGormClientRepository(testDB.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(testDB.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(testDB.DB)
	userRepo := persistence.NewGormUserRepository(testDB.DB)

	productCache := cache.NewInMemoryProductCache()
	mediaStorage := storage.NewStubObjectStorage()
	eventBus := event.NewInMemoryEventBus(log)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-test-secret-0123456789abcdef",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "moonstar-test",
	})
	invoicePolicy := auth.NewAllowListPolicy([]string{"yousef", "hany"})

	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, productRepo, clientRepo, invoicePolicy, eventBus, log)
	productService := catalogapp.NewProductService(productRepo, invoiceRepo, warehouseRepo, mediaStorage, productCache, log)
	stockService := inventoryapp.NewStockService(warehouseRepo, productRepo, log)
	clientService := partnerapp.NewClientService(clientRepo, invoiceRepo, log)
	salesService := salesapp.NewCatalogService(productRepo, productCache, mediaStorage, time.Minute, log)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	warehouseHandler := handler.NewWarehouseHandler(stockService)
	clientHandler := handler.NewClientHandler(clientService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, authService)
	salesHandler := handler.NewSalesHandler(salesService)

	engine := gin.New()

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.DefaultJWTConfig(jwtService)))

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.GET("/profile", authHandler.Profile)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	productRoutes := router.NewDomainGroup("catalog", "/products")
	productRoutes.POST("", productHandler.Create)
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.Get)
	productRoutes.PUT("/:id", productHandler.Update)
	productRoutes.DELETE("/:id", productHandler.Delete)
	productRoutes.POST("/:id/media", productHandler.InitiateMediaUpload)
	productRoutes.POST("/:id/media/confirm", productHandler.ConfirmMediaUpload)

	warehouseRoutes := router.NewDomainGroup("inventory", "/warehouses")
	warehouseRoutes.POST("", warehouseHandler.Create)
	warehouseRoutes.GET("", warehouseHandler.List)
	warehouseRoutes.GET("/:id", warehouseHandler.Get)
	warehouseRoutes.PUT("/:id", warehouseHandler.Update)
	warehouseRoutes.DELETE("/:id", warehouseHandler.Delete)
	warehouseRoutes.POST("/:id/stock", warehouseHandler.AddStock)
	warehouseRoutes.PUT("/:id/stock/:productId", warehouseHandler.SetStock)
	warehouseRoutes.DELETE("/:id/stock/:productId", warehouseHandler.RemoveStock)

	clientRoutes := router.NewDomainGroup("partner", "/clients")
	clientRoutes.POST("", clientHandler.Create)
	clientRoutes.GET("", clientHandler.List)
	clientRoutes.GET("/export", clientHandler.Export)
	clientRoutes.GET("/:id", clientHandler.Get)
	clientRoutes.PUT("/:id", clientHandler.Update)
	clientRoutes.DELETE("/:id", clientHandler.Delete)

	invoiceRoutes := router.NewDomainGroup("billing", "/invoices")
	invoiceRoutes.POST("", invoiceHandler.Create)
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.GET("/summary", invoiceHandler.Summary)
	invoiceRoutes.GET("/:id", invoiceHandler.Get)
	invoiceRoutes.PUT("/:id", invoiceHandler.Update)
	invoiceRoutes.DELETE("/:id", invoiceHandler.Delete)
	invoiceRoutes.GET("/:id/totals", invoiceHandler.Totals)
	invoiceRoutes.POST("/:id/mark-paid", invoiceHandler.MarkPaid)
	invoiceRoutes.POST("/:id/status", invoiceHandler.ChangeStatus)
	invoiceRoutes.POST("/:id/installments", invoiceHandler.AddInstallment)

	installmentRoutes := router.NewDomainGroup("billing", "/installments")
	installmentRoutes.POST("/:id/mark-paid", invoiceHandler.MarkInstallmentPaid)

	salesRoutes := router.NewDomainGroup("sales", "/sales")
	salesRoutes.GET("/products", salesHandler.ListProducts)
	salesRoutes.GET("/products/:id", salesHandler.GetProduct)
	salesRoutes.GET("/categories", salesHandler.ListCategories)

	r.Register(authRoutes).
		Register(productRoutes).
		Register(warehouseRoutes).
		Register(clientRoutes).
		Register(invoiceRoutes).
		Register(installmentRoutes).
		Register(salesRoutes)
	r.Setup()

	return &TestServer{
		DB:             testDB,
		Engine:         engine,
		AuthService:    authService,
		InvoiceService: invoiceService,
		ProductService: productService,
		StockService:   stockService,
		ClientService:  clientService,
	}
}

// Request makes an HTTP request to the test server. An optional bearer
// token is attached when provided.
func (ts *TestServer) Request(method, path string, body interface{}, token ...string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if len(token) > 0 && token[0] != "" {
		req.Header.Set("Authorization", "Bearer "+token[0])
	}

	w := httptest.NewRecorder()
	ts.Engine.ServeHTTP(w, req)
	return w
}

// RegisterUser seeds an account directly through the application service
// and returns an access token obtained via the login endpoint.
func (ts *TestServer) RegisterUser(t *testing.T, username, password string, role identity.UserRole) string {
	t.Helper()

	_, err := ts.AuthService.Register(t.Context(), identityapp.RegisterUserRequest{
		Username: username,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err, "Failed to register test user")

	return ts.Login(t, username, password)
}

// Login authenticates through the API and returns the access token
func (ts *TestServer) Login(t *testing.T, username, password string) string {
	t.Helper()

	w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, "Login failed: %s", w.Body.String())

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	token, _ := data["access_token"].(string)
	require.NotEmpty(t, token, "Login response missing access token")
	return token
}

// DecodeResponse unmarshals a recorded response into the API envelope
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to parse response: %s", w.Body.String())
	return resp
}
