// Package api: handlers for the customer order endpoints.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sobmedida/atelier-api/internal/auth"
	"github.com/sobmedida/atelier-api/internal/models"
)

// ordersHandler routes /orders and /orders/{code}.
func (s *Server) ordersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		slog.Error("Server.ordersHandler: no authenticated user in context")
		writeInternalError(w)
		return
	}
	code := pathCode(r.URL.Path, "/orders")

	if code == "" {
		switch r.Method {
		case http.MethodGet:
			s.listOrdersHandler(w, r, user)
		case http.MethodPost:
			s.createOrderHandler(w, r, user)
		default:
			w.Header().Set("Allow", "GET, POST")
			writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getOrderHandler(w, r, user, code)
	case http.MethodPut:
		s.updateOrderStatusHandler(w, r, user, code)
	case http.MethodDelete:
		s.deleteOrderHandler(w, r, user, code)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}

// createOrderHandler persists a new order with its items and part
// configuration in one transaction (POST /orders). The authenticated caller
// is the owning customer.
func (s *Server) createOrderHandler(w http.ResponseWriter, r *http.Request, user models.User) {
	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.createOrderHandler: failed to decode JSON", "error", err, "user", user.Code)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		slog.Warn("Server.createOrderHandler: validation failed", "error", err, "user", user.Code)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	order, err := s.orderFromRequest(user, req)
	if err != nil {
		slog.Warn("Server.createOrderHandler: invalid order", "error", err, "user", user.Code)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	if err := s.st.CreateOrder(*order); err != nil {
		slog.Error("Server.createOrderHandler: failed to create order", "error", err, "user", user.Code)
		writeInternalError(w)
		return
	}

	slog.Info("Order created", "code", order.Code, "customer", user.Code, "items", len(order.Items))
	writeJSONResponse(w, http.StatusCreated, models.Success(order))
}

// orderFromRequest resolves a validated order request against the catalog and
// assigns codes. Unknown product or part references are reported to the
// caller rather than persisted dangling.
func (s *Server) orderFromRequest(user models.User, req models.OrderRequest) (*models.Order, error) {
	code, err := models.NewCode(models.CodePrefixOrder)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	order := models.Order{
		Code:         code,
		Status:       models.OrderStatusPending,
		CustomerCode: user.Code,
		GeneralNote:  req.GeneralNote,
		Items:        make([]models.OrderItem, 0, len(req.Items)),
		CreatedAt:    now,
	}

	for _, item := range req.Items {
		product, err := s.st.GetProduct(item.ProductCode)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("unknown product %s", item.ProductCode)
		}

		itemCode, err := models.NewCode(models.CodePrefixOrderItem)
		if err != nil {
			return nil, err
		}
		parts := make([]models.OrderItemPart, 0, len(item.Parts))
		seen := make(map[string]bool, len(item.Parts))
		for _, p := range item.Parts {
			if seen[p.PartCode] {
				return nil, fmt.Errorf("duplicate part %s in order item", p.PartCode)
			}
			seen[p.PartCode] = true

			part, err := s.st.GetPart(p.PartCode)
			if err != nil {
				return nil, err
			}
			if part == nil {
				return nil, fmt.Errorf("unknown part %s", p.PartCode)
			}
			parts = append(parts, models.OrderItemPart{PartCode: p.PartCode, Quantity: p.Quantity})
		}

		order.Items = append(order.Items, models.OrderItem{
			Code:        itemCode,
			ProductCode: item.ProductCode,
			Note:        item.Note,
			Parts:       parts,
			CreatedAt:   now,
		})
	}
	return &order, nil
}

// listOrdersHandler lists orders newest-first (GET /orders). Customers see
// only their own orders; staff sees all.
func (s *Server) listOrdersHandler(w http.ResponseWriter, r *http.Request, user models.User) {
	var orders []models.Order
	var err error
	if user.Staff {
		orders, err = s.st.ListOrders()
	} else {
		orders, err = s.st.ListOrdersByCustomer(user.Code)
	}
	if err != nil {
		slog.Error("Server.listOrdersHandler: failed to list orders", "error", err, "user", user.Code)
		writeInternalError(w)
		return
	}
	slog.Debug("Server.listOrdersHandler: orders fetched", "count", len(orders), "staff", user.Staff)
	writeJSONResponse(w, http.StatusOK, models.Success(orders))
}

// fetchVisibleOrder loads an order and enforces customer/staff visibility.
// Orders outside the caller's scope are indistinguishable from missing ones.
func (s *Server) fetchVisibleOrder(user models.User, code string) (*models.Order, error) {
	order, err := s.st.GetOrder(code)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	if !user.Staff && order.CustomerCode != user.Code {
		return nil, nil
	}
	return order, nil
}

func (s *Server) getOrderHandler(w http.ResponseWriter, r *http.Request, user models.User, code string) {
	order, err := s.fetchVisibleOrder(user, code)
	if err != nil {
		slog.Error("Server.getOrderHandler: failed to fetch order", "error", err, "code", code)
		writeInternalError(w)
		return
	}
	if order == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Order not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(order))
}

// updateOrderStatusHandler moves an order through its lifecycle
// (PUT /orders/{code}). Only the status field is writable after creation.
func (s *Server) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request, user models.User, code string) {
	order, err := s.fetchVisibleOrder(user, code)
	if err != nil {
		slog.Error("Server.updateOrderStatusHandler: failed to fetch order", "error", err, "code", code)
		writeInternalError(w)
		return
	}
	if order == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Order not found"))
		return
	}

	var req models.OrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.updateOrderStatusHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if !models.IsValidOrderStatus(req.Status) {
		slog.Warn("Server.updateOrderStatusHandler: invalid status", "status", req.Status, "code", code)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(models.ErrInvalidOrderState.Error()))
		return
	}

	if err := s.st.UpdateOrderStatus(code, req.Status); err != nil {
		slog.Error("Server.updateOrderStatusHandler: failed to update status", "error", err, "code", code)
		writeInternalError(w)
		return
	}
	order.Status = req.Status

	slog.Info("Order status updated", "code", code, "status", req.Status)
	writeJSONResponse(w, http.StatusOK, models.Success(order))
}

func (s *Server) deleteOrderHandler(w http.ResponseWriter, r *http.Request, user models.User, code string) {
	order, err := s.fetchVisibleOrder(user, code)
	if err != nil {
		slog.Error("Server.deleteOrderHandler: failed to fetch order", "error", err, "code", code)
		writeInternalError(w)
		return
	}
	if order == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Order not found"))
		return
	}
	if err := s.st.DeleteOrder(code); err != nil {
		slog.Error("Server.deleteOrderHandler: failed to delete order", "error", err, "code", code)
		writeInternalError(w)
		return
	}

	slog.Info("Order deleted", "code", code)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Order deleted successfully", nil))
}
