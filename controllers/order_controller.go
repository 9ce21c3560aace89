package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/marco-deluca/pizza-orders-api/config"
	"github.com/marco-deluca/pizza-orders-api/middleware"
	"github.com/marco-deluca/pizza-orders-api/models"
)

// OrderRequest represents the request body for placing or updating an order.
// Quantity is a pointer so an explicit zero is distinguishable from a missing
// field; no lower bound is enforced on the value itself.
type OrderRequest struct {
	Quantity  *int             `json:"quantity" binding:"required"`
	PizzaSize models.PizzaSize `json:"pizza_size" binding:"omitempty,oneof=SMALL MEDIUM LARGE EXTRA-LARGE"`
}

// OrderStatusRequest represents the request body for setting an order's status
type OrderStatusRequest struct {
	OrderStatus models.OrderStatus `json:"order_status" binding:"required,oneof=PENDING IN-TRANSIT DELIVERED"`
}

// currentUser resolves the token subject to a persisted user. A valid token
// whose subject no longer exists is treated the same as an invalid token.
func currentUser(c *gin.Context) (*models.User, bool) {
	username, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token!"})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token!"})
		return nil, false
	}

	return &user, true
}

// orderID parses the :id path parameter
func orderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Order does not exist!"})
		return 0, false
	}
	return uint(id), true
}

// PlaceOrder handles POST /order/order - places a new order.
// The owner is always the acting user, never client-supplied.
func PlaceOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	size := req.PizzaSize
	if size == "" {
		size = models.SizeMedium
	}

	order := models.Order{
		Quantity:    *req.Quantity,
		PizzaSize:   size,
		OrderStatus: models.StatusPending,
		UserID:      user.ID,
	}

	db := config.GetDB()
	if err := db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           order.ID,
		"quantity":     order.Quantity,
		"pizza_size":   order.PizzaSize,
		"order_status": order.OrderStatus,
	})
}

// ListAllOrders handles GET /order/orders-list - lists every order (staff only)
func ListAllOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.IsStaff {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "You are not a superuser!"})
		return
	}

	db := config.GetDB()
	var orders []models.Order
	if err := db.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /order/order/:id - fetches any order by id (staff only)
func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.IsStaff {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "You are not a superuser!"})
		return
	}

	id, ok := orderID(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Order does not exist!"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /order/order/:id - removes an order (staff only).
// Hard delete, no tombstone.
func DeleteOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.IsStaff {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "You are not a superuser!"})
		return
	}

	id, ok := orderID(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Order does not exist!"})
		return
	}

	if err := db.Delete(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to delete order"})
		return
	}

	c.Status(http.StatusOK)
}

// GetMyOrders handles GET /order/users/orders - lists the acting user's orders.
// The ownership filter is applied server-side from the token subject.
func GetMyOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var orders []models.Order
	if err := db.Where("user_id = ?", user.ID).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetMyOrder handles GET /order/users/:id - fetches one of the acting user's
// orders by id. An order owned by someone else is indistinguishable from a
// missing one.
func GetMyOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := orderID(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", id, user.ID).First(&order).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No such order!"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrder handles PUT /order/update/:id - replaces an order's quantity
// and pizza size. Restricted to the order's owner or staff.
func UpdateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	id, ok := orderID(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Order does not exist!"})
		return
	}

	if order.UserID != user.ID && !user.IsStaff {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not your order!"})
		return
	}

	// Wholesale replacement: an omitted size falls back to the default,
	// it does not preserve the old value.
	size := req.PizzaSize
	if size == "" {
		size = models.SizeMedium
	}
	order.Quantity = *req.Quantity
	order.PizzaSize = size

	if err := db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to update order"})
		return
	}

	c.Status(http.StatusAccepted)
}

// UpdateOrderStatus handles PATCH /order/update/:id - sets an order's status
// (staff only). Any of the three statuses may be set in any sequence.
func UpdateOrderStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.IsStaff {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "You are not a superuser!"})
		return
	}

	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	id, ok := orderID(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Order does not exist!"})
		return
	}

	order.OrderStatus = req.OrderStatus
	if err := db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           order.ID,
		"order_status": order.OrderStatus,
	})
}
