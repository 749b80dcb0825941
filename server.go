package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/middlewares"
	"github.com/willtech-site/polaris_backend/models"
	"github.com/willtech-site/polaris_backend/utils"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("polaris-backend")

type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func getRedisClient(redisAddress string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
	return client
}

func registerRoutes(r *gin.Engine) {
	r.POST("/user/register/", registerUserHandler())
	r.POST("/user/register-with-business/", registerUserWithBusinessHandler())
	r.POST("/user/login/", loginHandler())
	r.POST("/user/logout/", logoutHandler())
	r.POST("/user/password-reset/", passwordResetHandler())
	r.POST("/user/password-reset-confirm/", passwordResetConfirmHandler())

	r.POST("/products/create-product/", createProductHandler())
	r.GET("/products/list-products/", listProductsHandler())
	r.GET("/products/search-products/", searchProductsHandler())
	r.PUT("/products/update-product/:id/", updateProductHandler())
	r.DELETE("/products/delete-product/:id/", deleteProductHandler())

	r.POST("/products_category/create-category/", createProductCategoryHandler())
	r.GET("/products_category/list-categories/", listProductCategoriesHandler())
	r.PUT("/products_category/update-category/:id/", updateProductCategoryHandler())
	r.DELETE("/products_category/delete-category/:id/", deleteProductCategoryHandler())

	r.POST("/customers/create-customer/", createCustomerHandler())
	r.GET("/customers/list-customers/", listCustomersHandler())
	r.PUT("/customers/update-customer/:id/", updateCustomerHandler())
	r.DELETE("/customers/delete-customer/:id/", deleteCustomerHandler())

	r.POST("/suppliers/create-supplier/", createSupplierHandler())
	r.GET("/suppliers/list-suppliers/", listSuppliersHandler())
	r.PUT("/suppliers/update-supplier/:id/", updateSupplierHandler())
	r.DELETE("/suppliers/delete-supplier/:id/", deleteSupplierHandler())

	r.POST("/payment-types/create-payment-type/", createPaymentTypeHandler())
	r.GET("/payment-types/list-payment-types/", listPaymentTypesHandler())
	r.PUT("/payment-types/update-payment-type/:id/", updatePaymentTypeHandler())
	r.DELETE("/payment-types/delete-payment-type/:id/", deletePaymentTypeHandler())
	r.POST("/currencies/create-currency/", createCurrencyHandler())
	r.GET("/currencies/list-currencies/", listCurrenciesHandler())
	r.PUT("/currencies/update-currency/:id/", updateCurrencyHandler())
	r.DELETE("/currencies/delete-currency/:id/", deleteCurrencyHandler())
	r.POST("/plan-types/create-plan-type/", createPlanTypeHandler())
	r.GET("/plan-types/list-plan-types/", listPlanTypesHandler())
	r.PUT("/plan-types/update-plan-type/:id/", updatePlanTypeHandler())
	r.DELETE("/plan-types/delete-plan-type/:id/", deletePlanTypeHandler())

	r.POST("/user-roles/create-user-role/", createUserRoleHandler())
	r.GET("/user-roles/list-user-roles/", listUserRolesHandler())
	r.PUT("/user-roles/update-user-role/:id/", updateUserRoleHandler())
	r.DELETE("/user-roles/delete-user-role/:id/", deleteUserRoleHandler())

	r.POST("/sub-user-registrations/create-sub-user/", createSubUserRegistrationHandler())
	r.GET("/sub-user-registrations/list-sub-users/", listSubUserRegistrationsHandler())
	r.PUT("/sub-user-registrations/update-sub-user/:id/", updateSubUserRegistrationHandler())
	r.DELETE("/sub-user-registrations/delete-sub-user/:id/", deleteSubUserRegistrationHandler())

	r.POST("/sale/create-sale/", createSaleHandler())
	r.GET("/sale/list-sales/", listSalesHandler())
	r.PUT("/sale/update-sale/:id/", updateSaleHandler())
	r.DELETE("/sale/delete-sale/:id/", deleteSaleHandler())

	r.POST("/invoice/create-invoice/", createInvoiceHandler())
	r.GET("/invoice/list-invoices/", listInvoicesHandler())
	r.PUT("/invoice/update-invoice/:id/", updateInvoiceHandler())
	r.DELETE("/invoice/delete-invoice/:id/", deleteInvoiceHandler())
	r.GET("/invoice/total-sales-invoice/", totalSalesHandler())
	r.GET("/invoice/export-invoices/", exportInvoicesHandler())
	r.GET("/invoice/sales-by-customer/", salesByCustomerReportHandler())

	r.POST("/others/subtract_stock/", subtractStockHandler())
	r.POST("/others/customer_invoices/", customerInvoicesHandler())
	r.POST("/others/invoices_by_specified_date_range/", invoicesByDateRangeHandler())
	r.POST("/others/invoices_in_month/", invoicesInMonthHandler())
	r.GET("/others/last_registered_invoice/", lastRegisteredInvoiceHandler())
	r.GET("/others/currency_by_business/", currencyByBusinessHandler())
	r.GET("/others/complete_invoice_number_series/", completeInvoiceNumberSeriesHandler())
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server before the dependencies are up; app endpoints
	// return 503 until DB and redis are connected.
	r := gin.New()
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production the allowlist must be explicit; anywhere else allow all.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Optional rate limiting.
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.HandleMethodNotAllowed = true
	r.NoMethod(methodNotAllowedHandler)
	r.NoRoute(customNotFoundHandler)
	registerRoutes(r)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running migrations
	// as a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/")
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger logs only requests that accumulated errors, tagged with
// the request's correlation id.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
			logger.WithFields(logrus.Fields{
				"correlation_id": correlationId,
				"path":           c.FullPath(),
			}).Error(c.Errors.String())
		}
	}
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// RateLimitMiddleware does fixed-window counting per client IP.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	key := c.ClientIP()

	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
