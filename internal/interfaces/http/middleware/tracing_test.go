package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupSpanRecorder installs an in-memory span recorder as the global
// tracer provider.
func setupSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return sr
}

func findSpan(spans []sdktrace.ReadOnlySpan, name string) sdktrace.ReadOnlySpan {
	for _, span := range spans {
		if span.Name() == name {
			return span
		}
	}
	return nil
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{
		Enabled:     false,
		ServiceName: "test-service",
	}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTracingWithConfig_Enabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupSpanRecorder(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{
		Enabled:     true,
		ServiceName: "test-service",
	}))
	router.GET("/vehicles", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/vehicles", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, findSpan(sr.Ended(), "GET /vehicles"), "HTTP span not found")
}

func TestTracingWithConfig_WithRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupSpanRecorder(t)

	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(TracingConfig{
		Enabled:     true,
		ServiceName: "test-service",
	}))
	router.Use(TracingAttributeInjector())
	router.GET("/deals", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/deals", nil)
	req.Header.Set("X-Request-ID", "req-7f3a2b")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	span := findSpan(sr.Ended(), "GET /deals")
	require.NotNil(t, span)

	found := false
	for _, attr := range span.Attributes() {
		if attr.Key == "request_id" {
			assert.Equal(t, "req-7f3a2b", attr.Value.AsString())
			found = true
		}
	}
	assert.True(t, found, "request_id attribute not found in span")
}

func TestTracingWithConfig_WithJWTClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupSpanRecorder(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{
		Enabled:     true,
		ServiceName: "test-service",
	}))
	router.Use(func(c *gin.Context) {
		c.Set(JWTDealerIDKey, "3f1e9d40-8e47-4d1b-9ad5-0c5b9ab21f30")
		c.Set(JWTUserIDKey, "b7a54c10-2a71-4f3e-8bb3-6dc4f0e81a92")
		c.Next()
	})
	router.Use(TracingAttributeInjector())
	router.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	router.ServeHTTP(w, req)

	span := findSpan(sr.Ended(), "GET /me")
	require.NotNil(t, span)

	var dealerID, userID string
	for _, attr := range span.Attributes() {
		switch attr.Key {
		case "dealer_id":
			dealerID = attr.Value.AsString()
		case "user_id":
			userID = attr.Value.AsString()
		}
	}
	assert.Equal(t, "3f1e9d40-8e47-4d1b-9ad5-0c5b9ab21f30", dealerID)
	assert.Equal(t, "b7a54c10-2a71-4f3e-8bb3-6dc4f0e81a92", userID)
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantMessage string
	}{
		{"bad request", http.StatusBadRequest, "Client Error"},
		{"unauthorized", http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", http.StatusForbidden, "Forbidden"},
		{"not found", http.StatusNotFound, "Not Found"},
		{"server error", http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			sr := setupSpanRecorder(t)

			router := gin.New()
			router.Use(TracingWithConfig(TracingConfig{
				Enabled:     true,
				ServiceName: "test-service",
			}))
			router.Use(SpanErrorMarker())
			router.GET("/fail", func(c *gin.Context) {
				c.JSON(tt.status, gin.H{"error": "boom"})
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/fail", nil)
			router.ServeHTTP(w, req)

			span := findSpan(sr.Ended(), "GET /fail")
			require.NotNil(t, span)
			assert.Equal(t, codes.Error, span.Status().Code)
			assert.Equal(t, tt.wantMessage, span.Status().Description)
		})
	}
}

func TestSpanErrorMarker_SuccessResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupSpanRecorder(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{
		Enabled:     true,
		ServiceName: "test-service",
	}))
	router.Use(SpanErrorMarker())
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ok", nil)
	router.ServeHTTP(w, req)

	span := findSpan(sr.Ended(), "GET /ok")
	require.NotNil(t, span)
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestSpanRequestID_LongHeaderTruncated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/test", nil)
	c.Request.Header.Set("X-Request-ID", strings.Repeat("a", MaxRequestIDLength+40))

	id := spanRequestID(c)
	assert.Len(t, id, MaxRequestIDLength)
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()
	assert.Equal(t, "wheeltrade-backend", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
}
