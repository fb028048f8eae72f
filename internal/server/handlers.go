package server

import (
	_ "embed"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/matthieukhl/eashop/internal/catalog"
	"github.com/matthieukhl/eashop/internal/shop"
)

//go:embed web/index.html
var indexHTML []byte

// ErrorResponse represents a unified error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Alert   string `json:"alert,omitempty"`
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
}

type searchRequest struct {
	Term string `json:"term"`
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: code, Message: message})
}

// fail maps service errors onto HTTP responses.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		writeError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, shop.ErrEmptyCart):
		writeError(c, http.StatusBadRequest, "EMPTY_CART", "Cannot checkout an empty cart")
	case errors.Is(err, shop.ErrCheckoutFailed):
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "CHECKOUT_FAILED",
			Message: "Invoice could not be created",
			Alert:   shop.AlertMessage,
		})
	default:
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid product ID")
		return 0, false
	}
	return id, true
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *Server) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": s.shop.Products(c.Query("q"))})
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	p, err := s.shop.Product(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"owner": owner(c), "user": user(c)})
}

func (s *Server) getCart(c *gin.Context) {
	summary, err := s.shop.Cart(c.Request.Context(), owner(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_INPUT", "product_id must be a positive integer")
		return
	}
	summary, err := s.shop.AddToCart(c.Request.Context(), owner(c), req.ProductID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) removeCartItem(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	summary, err := s.shop.RemoveFromCart(c.Request.Context(), owner(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) respondScreen(c *gin.Context, scr *shop.Screen, err error) {
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, scr)
}

func (s *Server) getView(c *gin.Context) {
	scr, err := s.shop.Screen(c.Request.Context(), owner(c))
	s.respondScreen(c, scr, err)
}

func (s *Server) toggleCart(c *gin.Context) {
	scr, err := s.shop.ToggleCart(c.Request.Context(), owner(c))
	s.respondScreen(c, scr, err)
}

func (s *Server) goHome(c *gin.Context) {
	scr, err := s.shop.GoHome(c.Request.Context(), owner(c))
	s.respondScreen(c, scr, err)
}

func (s *Server) goBack(c *gin.Context) {
	scr, err := s.shop.GoBack(c.Request.Context(), owner(c))
	s.respondScreen(c, scr, err)
}

func (s *Server) showDetails(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	scr, err := s.shop.ShowDetails(c.Request.Context(), owner(c), id)
	s.respondScreen(c, scr, err)
}

func (s *Server) setSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid JSON payload")
		return
	}
	scr, err := s.shop.SetSearch(c.Request.Context(), owner(c), req.Term)
	s.respondScreen(c, scr, err)
}

func (s *Server) checkout(c *gin.Context) {
	res, err := s.shop.Checkout(c.Request.Context(), owner(c), user(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
