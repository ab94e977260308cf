package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"matchbook/domain/book"
	"matchbook/service"
)

// Server adapts OrderService to HTTP.
type Server struct {
	router *gin.Engine
	svc    *service.OrderService
	log    *zap.Logger
}

func New(svc *service.OrderService, logger *zap.Logger) *Server {
	s := &Server{svc: svc, log: logger}

	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/orders", s.placeOrder)
		v1.DELETE("/orders/:exchange/:id", s.cancelOrder)
		v1.GET("/book/quantity", s.restingQuantity)
		v1.GET("/book/count", s.orderCount)
		v1.GET("/book/depth", s.depth)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.router = router
	return s
}

// Handler exposes the router for the HTTP server and for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// -------------------- Commands --------------------

type placeOrderRequest struct {
	ExchangeID string `json:"exchange_id" binding:"required"`
	Side       string `json:"side" binding:"required"`
	Price      string `json:"price" binding:"required"`
	Quantity   int64  `json:"quantity" binding:"required"`
}

func (s *Server) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	side, ok := parseSide(req.Side)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be buy or sell"})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price: " + req.Price})
		return
	}

	orderID, err := s.svc.PlaceOrder(c.Request.Context(), req.ExchangeID, side, price, req.Quantity)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, book.ErrInvalidPrice) || errors.Is(err, book.ErrInvalidQuantity) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": orderID})
}

func (s *Server) cancelOrder(c *gin.Context) {
	numericID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id: " + c.Param("id")})
		return
	}

	err = s.svc.CancelOrder(c.Request.Context(), c.Param("exchange"), numericID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, book.ErrOrderNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// -------------------- Queries --------------------

func (s *Server) restingQuantity(c *gin.Context) {
	side, ok := parseSide(c.Query("side"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be buy or sell"})
		return
	}

	price, err := decimal.NewFromString(c.Query("price"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price: " + c.Query("price")})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quantity": s.svc.RestingQuantity(side, price)})
}

func (s *Server) orderCount(c *gin.Context) {
	side, ok := parseSide(c.Query("side"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be buy or sell"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": s.svc.OrderCount(side)})
}

func (s *Server) depth(c *gin.Context) {
	bids, asks := s.svc.Depth()
	c.JSON(http.StatusOK, gin.H{"bids": bids, "asks": asks})
}

// -------------------- Converters --------------------

func parseSide(raw string) (book.Side, bool) {
	switch raw {
	case "buy", "BUY", "Buy":
		return book.Buy, true
	case "sell", "SELL", "Sell":
		return book.Sell, true
	default:
		return book.Buy, false
	}
}
