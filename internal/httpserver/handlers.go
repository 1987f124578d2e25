package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"windstruck-api/internal/domain"
	ordersvc "windstruck-api/internal/service/order"
)

type handlers struct {
	products ProductService
	orders   OrderService
	seeder   Seeder
	logger   logrus.FieldLogger
}

func (h *handlers) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Windstruck API running"})
}

func (h *handlers) listProducts(c *gin.Context) {
	tag := strings.TrimSpace(c.Query("tag"))

	var featured *bool
	if raw, ok := c.GetQuery("featured"); ok && raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(c, h.logger, fmt.Errorf("%w: featured must be a boolean", domain.ErrInvalidInput), "")
			return
		}
		featured = &v
	}

	products, err := h.products.List(c.Request.Context(), tag, featured)
	if err != nil {
		writeError(c, h.logger, err, "")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) createOrder(c *gin.Context) {
	var req ordersvc.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, fmt.Errorf("%w: malformed order body", domain.ErrInvalidInput), "")
		return
	}

	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "order": order})
}

func (h *handlers) getOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err, "Order not found")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) seed(c *gin.Context) {
	res, err := h.seeder.Apply(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, res)
}
