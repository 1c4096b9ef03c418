// Package models defines the catalog and order entities for the atelier API.
package models

import "time"

// Product is a made-to-order catalog entry composed of optional and
// required parts.
type Product struct {
	Code        string    `json:"codigo"`
	Name        string    `json:"nome"`
	Description string    `json:"descricao"`
	Price       string    `json:"preco"`
	PartCodes   []string  `json:"partes"`
	CreatedAt   time.Time `json:"data_criacao"`
}

// ProductPart is a component a product can be configured with.
type ProductPart struct {
	Code        string    `json:"codigo"`
	Name        string    `json:"nome"`
	Description string    `json:"descricao"`
	Price       string    `json:"preco"`
	Active      bool      `json:"ativo"`
	Required    bool      `json:"obrigatorio"`
	MaxQuantity int       `json:"maximo"`
	MinQuantity int       `json:"minimo"`
	CreatedAt   time.Time `json:"data_criacao"`
}

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "P"
	OrderStatusProduction OrderStatus = "A"
	OrderStatusRejected   OrderStatus = "R"
	OrderStatusCancelled  OrderStatus = "C"
	OrderStatusShipped    OrderStatus = "E"
	OrderStatusFinished   OrderStatus = "F"
)

// IsValidOrderStatus checks if the given order status is supported.
func IsValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProduction, OrderStatusRejected,
		OrderStatusCancelled, OrderStatusShipped, OrderStatusFinished:
		return true
	default:
		return false
	}
}

// OrderItemPart is one configured part of an order item with its quantity.
type OrderItemPart struct {
	PartCode string `json:"parte"`
	Quantity int    `json:"quantidade"`
}

// OrderItem is one product in an order, together with its part configuration.
type OrderItem struct {
	Code        string          `json:"codigo"`
	ProductCode string          `json:"produto"`
	Note        string          `json:"observacao"`
	Parts       []OrderItemPart `json:"configuracao_partes"`
	CreatedAt   time.Time       `json:"data_criacao"`
}

// Order is a customer order over catalog products.
type Order struct {
	Code         string      `json:"codigo"`
	Status       OrderStatus `json:"status"`
	CustomerCode string      `json:"cliente"`
	GeneralNote  string      `json:"observacao_geral"`
	Items        []OrderItem `json:"items"`
	CreatedAt    time.Time   `json:"data_criacao"`
}

// Request payloads for the catalog and order endpoints. Field validation uses
// go-playground/validator tags; codes and timestamps are always server-assigned.

// ProductRequest is the payload for creating or updating a product.
type ProductRequest struct {
	Name        string   `json:"nome" validate:"required,max=100"`
	Description string   `json:"descricao"`
	Price       string   `json:"preco" validate:"required,numeric"`
	PartCodes   []string `json:"partes"`
}

// ProductPartRequest is the payload for creating or updating a product part.
type ProductPartRequest struct {
	Name        string `json:"nome" validate:"required,max=100"`
	Description string `json:"descricao"`
	Price       string `json:"preco" validate:"omitempty,numeric"`
	Active      *bool  `json:"ativo"`
	Required    bool   `json:"obrigatorio"`
	MaxQuantity int    `json:"maximo" validate:"omitempty,min=1"`
	MinQuantity int    `json:"minimo" validate:"omitempty,min=0"`
}

// OrderItemPartRequest selects a part and quantity for an order item.
type OrderItemPartRequest struct {
	PartCode string `json:"parte" validate:"required"`
	Quantity int    `json:"quantidade" validate:"required,min=1"`
}

// OrderItemRequest is one requested product configuration within a new order.
type OrderItemRequest struct {
	ProductCode string                 `json:"produto" validate:"required"`
	Note        string                 `json:"observacoes"`
	Parts       []OrderItemPartRequest `json:"partes_produto" validate:"dive"`
}

// OrderRequest is the payload for creating an order.
type OrderRequest struct {
	GeneralNote string             `json:"observacao_geral"`
	Items       []OrderItemRequest `json:"pedido_items" validate:"required,min=1,dive"`
}

// OrderStatusRequest is the payload for updating an order's status.
type OrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

// FlowStepRequest is the payload for the administrative flow step endpoint.
type FlowStepRequest struct {
	Label  string `json:"etapa_fluxo" validate:"required,max=100"`
	Prompt string `json:"resposta"`
}

// FlowOptionRequest is the payload for the administrative flow option endpoint.
type FlowOptionRequest struct {
	StepLabel   string `json:"etapa_fluxo" validate:"required"`
	Destination string `json:"fluxo_destino"`
	Description string `json:"descricao"`
}
