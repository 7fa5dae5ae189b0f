package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/unipool/unipool/internal/pkg/database"
	natspkg "github.com/unipool/unipool/internal/pkg/nats"
)

// Checker reports the health of one dependency
type Checker interface {
	Name() string
	CheckHealth(ctx context.Context) error
}

// PostgresChecker pings the database pool
type PostgresChecker struct {
	client *database.PostgresClient
}

func NewPostgresChecker(client *database.PostgresClient) *PostgresChecker {
	return &PostgresChecker{client: client}
}

func (p *PostgresChecker) Name() string { return "postgres" }

func (p *PostgresChecker) CheckHealth(ctx context.Context) error {
	return p.client.DB.PingContext(ctx)
}

// RedisChecker pings the Redis connection
type RedisChecker struct {
	client *database.RedisClient
}

func NewRedisChecker(client *database.RedisClient) *RedisChecker {
	return &RedisChecker{client: client}
}

func (r *RedisChecker) Name() string { return "redis" }

func (r *RedisChecker) CheckHealth(ctx context.Context) error {
	return r.client.Client.Ping(ctx).Err()
}

// NATSChecker verifies the NATS connection is open
type NATSChecker struct {
	client *natspkg.Client
}

func NewNATSChecker(client *natspkg.Client) *NATSChecker {
	return &NATSChecker{client: client}
}

func (n *NATSChecker) Name() string { return "nats" }

func (n *NATSChecker) CheckHealth(ctx context.Context) error {
	if !n.client.GetConn().IsConnected() {
		return natspkg.ErrDisconnected
	}
	return nil
}

// Handler serves the service health endpoint
type Handler struct {
	serviceName string
	checkers    []Checker
}

// NewHandler creates a health handler over a set of dependency checkers
func NewHandler(serviceName string, checkers ...Checker) *Handler {
	return &Handler{serviceName: serviceName, checkers: checkers}
}

// RegisterRoutes exposes /health
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.healthCheck)
}

type checkResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Service string                 `json:"service"`
	Status  string                 `json:"status"`
	Checks  map[string]checkResult `json:"checks"`
}

func (h *Handler) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	resp := healthResponse{
		Service: h.serviceName,
		Status:  "ok",
		Checks:  make(map[string]checkResult, len(h.checkers)),
	}

	status := http.StatusOK
	for _, checker := range h.checkers {
		if err := checker.CheckHealth(ctx); err != nil {
			resp.Checks[checker.Name()] = checkResult{Status: "down", Error: err.Error()}
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[checker.Name()] = checkResult{Status: "ok"}
	}

	return c.JSON(status, resp)
}
