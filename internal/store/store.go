// Package store provides storage backends for the atelier API.
//
// It includes an in-memory store for tests and DSN-less runs, plus SQLite and
// PostgreSQL backed stores selected by DSN detection.
package store

import (
	"strings"

	"github.com/sobmedida/atelier-api/internal/models"
)

// Opts holds configuration for store construction.
type Opts struct {
	// DSN is the database connection string. File paths select SQLite,
	// postgres:// URLs or key=value DSNs select PostgreSQL.
	DSN string
}

// Option configures store construction.
type Option func(*Opts)

// WithSQLiteDSN sets a SQLite database file path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets a PostgreSQL connection string.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType reports which database driver a DSN belongs to:
// "postgres" for PostgreSQL connection strings, "sqlite3" otherwise.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite3"
}

// Store defines the persistence operations the API and flow engine depend on.
// Read operations return (nil, nil) when the record does not exist.
type Store interface {
	// Users
	SaveUser(u models.User) error
	GetUser(code string) (*models.User, error)
	GetUserByToken(token string) (*models.User, error)

	// Flow definitions (read-mostly; administered out-of-band or via the
	// admin endpoints)
	SaveFlowStep(s models.FlowStep) error
	GetFlowStep(label string) (*models.FlowStep, error)
	ListFlowSteps() ([]models.FlowStep, error)
	SaveFlowOption(o models.FlowOption) (int64, error)
	ListFlowOptions(stepLabel string) ([]models.FlowOption, error)

	// Chats. CreateChat is an atomic create-or-fetch keyed on the owning
	// user: if a chat for the user already exists the existing chat is
	// returned and nothing is inserted. AdvanceChat reassigns the step
	// pointer and appends the optional message in a single transaction.
	GetChatByUser(userCode string) (*models.Chat, error)
	CreateChat(chat models.Chat) (*models.Chat, error)
	AdvanceChat(chatCode, stepLabel string, msg *models.ChatMessage) error
	ListChatMessages(chatCode string) ([]models.ChatMessage, error)

	// Products
	SaveProduct(p models.Product) error
	GetProduct(code string) (*models.Product, error)
	ListProducts() ([]models.Product, error)
	DeleteProduct(code string) error

	// Product parts
	SavePart(p models.ProductPart) error
	GetPart(code string) (*models.ProductPart, error)
	ListParts() ([]models.ProductPart, error)
	DeletePart(code string) error

	// Orders. CreateOrder persists the order, its items and their part
	// configuration in a single transaction.
	CreateOrder(o models.Order) error
	GetOrder(code string) (*models.Order, error)
	ListOrders() ([]models.Order, error)
	ListOrdersByCustomer(customerCode string) ([]models.Order, error)
	UpdateOrderStatus(code string, status models.OrderStatus) error
	DeleteOrder(code string) error

	Close() error
}
