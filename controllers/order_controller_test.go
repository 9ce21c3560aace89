package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/marco-deluca/pizza-orders-api/models"
	"github.com/marco-deluca/pizza-orders-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, userID uint, quantity int, size models.PizzaSize) models.Order {
	t.Helper()

	order := models.Order{
		Quantity:    quantity,
		PizzaSize:   size,
		OrderStatus: models.StatusPending,
		UserID:      userID,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	return order
}

func TestPlaceOrder(t *testing.T) {
	db, cfg, router := setupControllerTest(t)

	alice := testutil.SeedUser(t, db, "alice", "a@x.com", "pw1", false)
	bob := testutil.SeedUser(t, db, "bob", "b@x.com", "pw1", false)
	aliceToken := testutil.AccessToken(t, cfg, "alice")

	tests := []struct {
		name           string
		token          string
		requestBody    map[string]interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:  "successfully places an order",
			token: aliceToken,
			requestBody: map[string]interface{}{
				"quantity":   2,
				"pizza_size": "LARGE",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, float64(2), response["quantity"])
				assert.Equal(t, "LARGE", response["pizza_size"])
				assert.Equal(t, "PENDING", response["order_status"])

				// Owner is forced to the acting user
				var order models.Order
				assert.NoError(t, db.First(&order, uint(response["id"].(float64))).Error)
				assert.Equal(t, alice.ID, order.UserID)
			},
		},
		{
			name:  "defaults to MEDIUM when size is omitted",
			token: aliceToken,
			requestBody: map[string]interface{}{
				"quantity": 1,
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, "MEDIUM", response["pizza_size"])
			},
		},
		{
			name:  "ignores a client-supplied owner",
			token: aliceToken,
			requestBody: map[string]interface{}{
				"quantity":   1,
				"pizza_size": "SMALL",
				"user_id":    bob.ID,
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				var order models.Order
				assert.NoError(t, db.First(&order, uint(response["id"].(float64))).Error)
				assert.Equal(t, alice.ID, order.UserID, "Owner must come from the token, not the body")
			},
		},
		{
			name:  "accepts an explicit zero quantity",
			token: aliceToken,
			requestBody: map[string]interface{}{
				"quantity":   0,
				"pizza_size": "SMALL",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, float64(0), response["quantity"])
			},
		},
		{
			name:  "accepts a negative quantity",
			token: aliceToken,
			requestBody: map[string]interface{}{
				"quantity": -1,
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				// No lower bound is enforced
				assert.Equal(t, float64(-1), response["quantity"])
			},
		},
		{
			name:  "rejects an unknown pizza size",
			token: aliceToken,
			requestBody: map[string]interface{}{
				"quantity":   1,
				"pizza_size": "FAMILY",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "rejects missing quantity",
			token: aliceToken,
			requestBody: map[string]interface{}{
				"pizza_size": "LARGE",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "rejects a missing token",
			token: "",
			requestBody: map[string]interface{}{
				"quantity": 1,
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, "POST", "/order/order", tt.token, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.checkResponse != nil {
				var response map[string]interface{}
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestListAllOrders(t *testing.T) {
	db, cfg, router := setupControllerTest(t)

	alice := testutil.SeedUser(t, db, "alice", "a@x.com", "pw1", false)
	admin := testutil.SeedUser(t, db, "admin", "admin@x.com", "pw1", true)
	seedOrder(t, db, alice.ID, 2, models.SizeLarge)
	seedOrder(t, db, admin.ID, 1, models.SizeSmall)

	t.Run("non-staff is rejected", func(t *testing.T) {
		token := testutil.AccessToken(t, cfg, "alice")
		w := doJSON(router, "GET", "/order/orders-list", token, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "You are not a superuser!")
	})

	t.Run("staff sees every order", func(t *testing.T) {
		token := testutil.AccessToken(t, cfg, "admin")
		w := doJSON(router, "GET", "/order/orders-list", token, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var orders []models.Order
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
		assert.Len(t, orders, 2)
	})
}

func TestGetOrder(t *testing.T) {
	db, cfg, router := setupControllerTest(t)

	alice := testutil.SeedUser(t, db, "alice", "a@x.com", "pw1", false)
	testutil.SeedUser(t, db, "admin", "admin@x.com", "pw1", true)
	order := seedOrder(t, db, alice.ID, 2, models.SizeLarge)

	adminToken := testutil.AccessToken(t, cfg, "admin")
	aliceToken := testutil.AccessToken(t, cfg, "alice")

	t.Run("staff fetches any order by id", func(t *testing.T) {
		w := doJSON(router, "GET", fmt.Sprintf("/order/order/%d", order.ID), adminToken, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var got models.Order
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, order.ID, got.ID)
		assert.Equal(t, alice.ID, got.UserID)
	})

	t.Run("unknown order id", func(t *testing.T) {
		w := doJSON(router, "GET", "/order/order/9999", adminToken, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Order does not exist!")
	})

	t.Run("non-staff is rejected", func(t *testing.T) {
		w := doJSON(router, "GET", fmt.Sprintf("/order/order/%d", order.ID), aliceToken, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "You are not a superuser!")
	})
}

func TestDeleteOrder(t *testing.T) {
	db, cfg, router := setupControllerTest(t)

	alice := testutil.SeedUser(t, db, "alice", "a@x.com", "pw1", false)
	testutil.SeedUser(t, db, "admin", "admin@x.com", "pw1", true)
	order := seedOrder(t, db, alice.ID, 2, models.SizeLarge)

	adminToken := testutil.AccessToken(t, cfg, "admin")
	aliceToken := testutil.AccessToken(t, cfg, "alice")

	t.Run("non-staff is rejected", func(t *testing.T) {
		w := doJSON(router, "DELETE", fmt.Sprintf("/order/order/%d", order.ID), aliceToken, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("staff deletes the order", func(t *testing.T) {
		w := doJSON(router, "DELETE", fmt.Sprintf("/order/order/%d", order.ID), adminToken, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())

		// Hard delete, the row is gone
		var count int64
		db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("deleting a missing order fails", func(t *testing.T) {
		w := doJSON(router, "DELETE", fmt.Sprintf("/order/order/%d", order.ID), adminToken, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Order does not exist!")
	})
}

func TestGetMyOrders(t *testing.T) {
	db, cfg, router := setupControllerTest(t)

	alice := testutil.SeedUser(t, db, "alice", "a@x.com", "pw1", false)
	bob := testutil.SeedUser(t, db, "bob", "b@x.com", "pw1", false)
	seedOrder(t, db, alice.ID, 2, models.SizeLarge)
	seedOrder(t, db, alice.ID, 1, models.SizeSmall)
	seedOrder(t, db, bob.ID, 3, models.SizeMedium)

	token := testutil.AccessToken(t, cfg, "alice")
	w := doJSON(router, "GET", "/order/users/orders", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var orders []models.Order
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 2, "Only the caller's own orders are listed")
	for _, order := range orders {
		assert.Equal(t, alice.ID, order.UserID)
	}
}

func TestGetMyOrder(t *testing.T) {
	db, cfg, router := setupControllerTest(t)

	alice := testutil.SeedUser(t, db, "alice", "a@x.com", "pw1", false)
	bob := testutil.SeedUser(t, db, "bob", "b@x.com", "pw1", false)
	aliceOrder := seedOrder(t, db, alice.ID, 2, models.SizeLarge)
	bobOrder := seedOrder(t, db, bob.ID, 3, models.SizeMedium)

	token := testutil.AccessToken(t, cfg, "alice")

	t.Run("own order is returned", func(t *testing.T) {
		w := doJSON(router, "GET", fmt.Sprintf("/order/users/%d", aliceOrder.ID), token, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var got models.Order
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, aliceOrder.ID, got.ID)
	})

	t.Run("someone else's order looks missing", func(t *testing.T) {
		w := doJSON(router, "GET", fmt.Sprintf("/order/users/%d", bobOrder.ID), token, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No such order!")
	})

	t.Run("nonexistent order", func(t *testing.T) {
		w := doJSON(router, "GET", "/order/users/9999", token, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No such order!")
	})
}

func TestUpdateOrder(t *testing.T) {
	db, cfg, router := setupControllerTest(t)

	alice := testutil.SeedUser(t, db, "alice", "a@x.com", "pw1", false)
	testutil.SeedUser(t, db, "bob", "b@x.com", "pw1", false)
	testutil.SeedUser(t, db, "admin", "admin@x.com", "pw1", true)
	order := seedOrder(t, db, alice.ID, 2, models.SizeLarge)

	body := map[string]interface{}{
		"quantity":   5,
		"pizza_size": "SMALL",
	}

	t.Run("a stranger may not update the order", func(t *testing.T) {
		token := testutil.AccessToken(t, cfg, "bob")
		w := doJSON(router, "PUT", fmt.Sprintf("/order/update/%d", order.ID), token, body)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Not your order!")
	})

	t.Run("the owner replaces quantity and size", func(t *testing.T) {
		token := testutil.AccessToken(t, cfg, "alice")
		w := doJSON(router, "PUT", fmt.Sprintf("/order/update/%d", order.ID), token, body)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Empty(t, w.Body.String())

		var got models.Order
		assert.NoError(t, db.First(&got, order.ID).Error)
		assert.Equal(t, 5, got.Quantity)
		assert.Equal(t, models.SizeSmall, got.PizzaSize)
		assert.Equal(t, alice.ID, got.UserID, "Owner is never reassigned")
	})

	t.Run("staff may update any order", func(t *testing.T) {
		token := testutil.AccessToken(t, cfg, "admin")
		w := doJSON(router, "PUT", fmt.Sprintf("/order/update/%d", order.ID), token, map[string]interface{}{
			"quantity":   1,
			"pizza_size": "EXTRA-LARGE",
		})

		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("unknown order id", func(t *testing.T) {
		token := testutil.AccessToken(t, cfg, "alice")
		w := doJSON(router, "PUT", "/order/update/9999", token, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Order does not exist!")
	})

	t.Run("invalid pizza size", func(t *testing.T) {
		token := testutil.AccessToken(t, cfg, "alice")
		w := doJSON(router, "PUT", fmt.Sprintf("/order/update/%d", order.ID), token, map[string]interface{}{
			"quantity":   1,
			"pizza_size": "GIGANTIC",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zero quantity is a valid replacement", func(t *testing.T) {
		token := testutil.AccessToken(t, cfg, "alice")
		w := doJSON(router, "PUT", fmt.Sprintf("/order/update/%d", order.ID), token, map[string]interface{}{
			"quantity":   0,
			"pizza_size": "LARGE",
		})

		assert.Equal(t, http.StatusAccepted, w.Code)

		var got models.Order
		assert.NoError(t, db.First(&got, order.ID).Error)
		assert.Equal(t, 0, got.Quantity)
	})

	t.Run("omitted size resets to the default", func(t *testing.T) {
		token := testutil.AccessToken(t, cfg, "alice")
		w := doJSON(router, "PUT", fmt.Sprintf("/order/update/%d", order.ID), token, map[string]interface{}{
			"quantity": 2,
		})

		assert.Equal(t, http.StatusAccepted, w.Code)

		// The update is wholesale: the old LARGE does not survive
		var got models.Order
		assert.NoError(t, db.First(&got, order.ID).Error)
		assert.Equal(t, 2, got.Quantity)
		assert.Equal(t, models.SizeMedium, got.PizzaSize)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	db, cfg, router := setupControllerTest(t)

	alice := testutil.SeedUser(t, db, "alice", "a@x.com", "pw1", false)
	testutil.SeedUser(t, db, "admin", "admin@x.com", "pw1", true)
	order := seedOrder(t, db, alice.ID, 2, models.SizeLarge)

	adminToken := testutil.AccessToken(t, cfg, "admin")
	aliceToken := testutil.AccessToken(t, cfg, "alice")

	t.Run("non-staff is rejected", func(t *testing.T) {
		w := doJSON(router, "PATCH", fmt.Sprintf("/order/update/%d", order.ID), aliceToken, map[string]interface{}{
			"order_status": "IN-TRANSIT",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "You are not a superuser!")
	})

	t.Run("staff sets the status", func(t *testing.T) {
		w := doJSON(router, "PATCH", fmt.Sprintf("/order/update/%d", order.ID), adminToken, map[string]interface{}{
			"order_status": "DELIVERED",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, float64(order.ID), response["id"])
		assert.Equal(t, "DELIVERED", response["order_status"])
	})

	t.Run("any status may follow any other", func(t *testing.T) {
		// No transition graph: DELIVERED back to PENDING is allowed
		w := doJSON(router, "PATCH", fmt.Sprintf("/order/update/%d", order.ID), adminToken, map[string]interface{}{
			"order_status": "PENDING",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var got models.Order
		assert.NoError(t, db.First(&got, order.ID).Error)
		assert.Equal(t, models.StatusPending, got.OrderStatus)
	})

	t.Run("invalid status value", func(t *testing.T) {
		w := doJSON(router, "PATCH", fmt.Sprintf("/order/update/%d", order.ID), adminToken, map[string]interface{}{
			"order_status": "CANCELLED",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown order id", func(t *testing.T) {
		w := doJSON(router, "PATCH", "/order/update/9999", adminToken, map[string]interface{}{
			"order_status": "IN-TRANSIT",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Order does not exist!")
	})
}
