// Package store provides storage backends for the atelier API.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/sobmedida/atelier-api/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}

func (s *PostgresStore) SaveUser(u models.User) error {
	_, err := s.db.Exec(`INSERT INTO users (code, email, name, staff, api_token, created_at) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE SET email=EXCLUDED.email, name=EXCLUDED.name, staff=EXCLUDED.staff, api_token=EXCLUDED.api_token`,
		u.Code, u.Email, u.Name, u.Staff, u.APIToken, u.CreatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveUser failed", "error", err, "code", u.Code)
		return fmt.Errorf("failed to save user %s: %w", u.Code, err)
	}
	return nil
}

func (s *PostgresStore) GetUser(code string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT code, email, name, staff, api_token, created_at FROM users WHERE code = $1`, code)
	var u models.User
	err := row.Scan(&u.Code, &u.Email, &u.Name, &u.Staff, &u.APIToken, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetUser failed", "error", err, "code", code)
		return nil, fmt.Errorf("failed to get user %s: %w", code, err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByToken(token string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT code, email, name, staff, api_token, created_at FROM users WHERE api_token = $1`, token)
	var u models.User
	err := row.Scan(&u.Code, &u.Email, &u.Name, &u.Staff, &u.APIToken, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetUserByToken failed", "error", err)
		return nil, fmt.Errorf("failed to get user by token: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) SaveFlowStep(step models.FlowStep) error {
	_, err := s.db.Exec(`INSERT INTO flow_steps (code, label, prompt, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (label) DO UPDATE SET prompt=EXCLUDED.prompt`,
		step.Code, step.Label, step.Prompt, step.CreatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveFlowStep failed", "error", err, "label", step.Label)
		return fmt.Errorf("failed to save flow step %s: %w", step.Label, err)
	}
	slog.Debug("PostgresStore SaveFlowStep succeeded", "label", step.Label)
	return nil
}

func (s *PostgresStore) GetFlowStep(label string) (*models.FlowStep, error) {
	row := s.db.QueryRow(`SELECT code, label, prompt, created_at FROM flow_steps WHERE label = $1`, label)
	var step models.FlowStep
	err := row.Scan(&step.Code, &step.Label, &step.Prompt, &step.CreatedAt)
	if err == sql.ErrNoRows {
		slog.Debug("PostgresStore GetFlowStep not found", "label", label)
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetFlowStep failed", "error", err, "label", label)
		return nil, fmt.Errorf("failed to get flow step %s: %w", label, err)
	}
	return &step, nil
}

func (s *PostgresStore) ListFlowSteps() ([]models.FlowStep, error) {
	rows, err := s.db.Query(`SELECT code, label, prompt, created_at FROM flow_steps ORDER BY created_at, label`)
	if err != nil {
		slog.Error("PostgresStore ListFlowSteps query failed", "error", err)
		return nil, fmt.Errorf("failed to query flow steps: %w", err)
	}
	defer rows.Close()

	var steps []models.FlowStep
	for rows.Next() {
		var step models.FlowStep
		if err := rows.Scan(&step.Code, &step.Label, &step.Prompt, &step.CreatedAt); err != nil {
			slog.Error("PostgresStore ListFlowSteps scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan flow step row: %w", err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flow step rows: %w", err)
	}
	return steps, nil
}

func (s *PostgresStore) SaveFlowOption(o models.FlowOption) (int64, error) {
	var id int64
	err := s.db.QueryRow(`INSERT INTO flow_options (code, step_label, destination, description, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		o.Code, o.StepLabel, nilIfEmpty(o.Destination), o.Description, o.CreatedAt).Scan(&id)
	if err != nil {
		slog.Error("PostgresStore SaveFlowOption failed", "error", err, "step", o.StepLabel)
		return 0, fmt.Errorf("failed to save flow option for %s: %w", o.StepLabel, err)
	}
	slog.Debug("PostgresStore SaveFlowOption succeeded", "step", o.StepLabel, "id", id)
	return id, nil
}

func (s *PostgresStore) ListFlowOptions(stepLabel string) ([]models.FlowOption, error) {
	rows, err := s.db.Query(`SELECT id, code, step_label, destination, description, created_at
		FROM flow_options WHERE step_label = $1 ORDER BY id`, stepLabel)
	if err != nil {
		slog.Error("PostgresStore ListFlowOptions query failed", "error", err, "step", stepLabel)
		return nil, fmt.Errorf("failed to query flow options for %s: %w", stepLabel, err)
	}
	defer rows.Close()

	var options []models.FlowOption
	for rows.Next() {
		o, err := scanFlowOption(rows)
		if err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flow option rows: %w", err)
	}
	return options, nil
}

func (s *PostgresStore) GetChatByUser(userCode string) (*models.Chat, error) {
	row := s.db.QueryRow(`SELECT code, user_code, step_label, created_at FROM chats WHERE user_code = $1`, userCode)
	chat, err := scanChatRow(row)
	if err == sql.ErrNoRows {
		slog.Debug("PostgresStore GetChatByUser not found", "user", userCode)
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetChatByUser failed", "error", err, "user", userCode)
		return nil, fmt.Errorf("failed to get chat for user %s: %w", userCode, err)
	}
	return &chat, nil
}

// CreateChat inserts the chat unless the user already owns one. The unique
// constraint on user_code makes concurrent first contacts converge on a
// single row; the surviving chat is returned either way.
func (s *PostgresStore) CreateChat(chat models.Chat) (*models.Chat, error) {
	_, err := s.db.Exec(`INSERT INTO chats (code, user_code, step_label, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_code) DO NOTHING`,
		chat.Code, chat.UserCode, nilIfEmpty(chat.StepLabel), chat.CreatedAt)
	if err != nil {
		slog.Error("PostgresStore CreateChat failed", "error", err, "user", chat.UserCode)
		return nil, fmt.Errorf("failed to create chat for user %s: %w", chat.UserCode, err)
	}
	existing, err := s.GetChatByUser(chat.UserCode)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("chat for user %s missing after insert", chat.UserCode)
	}
	slog.Debug("PostgresStore CreateChat succeeded", "user", chat.UserCode, "chat", existing.Code)
	return existing, nil
}

// AdvanceChat reassigns the chat's step pointer and appends the optional
// message in one transaction, so the two mutations land or fail together.
func (s *PostgresStore) AdvanceChat(chatCode, stepLabel string, msg *models.ChatMessage) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin advance transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE chats SET step_label = $1 WHERE code = $2`, stepLabel, chatCode)
	if err != nil {
		slog.Error("PostgresStore AdvanceChat update failed", "error", err, "chat", chatCode)
		return fmt.Errorf("failed to update chat %s: %w", chatCode, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrChatNotFound
	}

	if msg != nil {
		_, err = tx.Exec(`INSERT INTO chat_messages (code, chat_code, author_code, body, created_at) VALUES ($1, $2, $3, $4, $5)`,
			msg.Code, msg.ChatCode, msg.AuthorCode, msg.Body, msg.CreatedAt)
		if err != nil {
			slog.Error("PostgresStore AdvanceChat message insert failed", "error", err, "chat", chatCode)
			return fmt.Errorf("failed to append message to chat %s: %w", chatCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit advance transaction: %w", err)
	}
	slog.Debug("PostgresStore AdvanceChat succeeded", "chat", chatCode, "step", stepLabel, "message_appended", msg != nil)
	return nil
}

func (s *PostgresStore) ListChatMessages(chatCode string) ([]models.ChatMessage, error) {
	rows, err := s.db.Query(`SELECT code, chat_code, author_code, body, created_at
		FROM chat_messages WHERE chat_code = $1 ORDER BY created_at, code`, chatCode)
	if err != nil {
		slog.Error("PostgresStore ListChatMessages query failed", "error", err, "chat", chatCode)
		return nil, fmt.Errorf("failed to query messages for chat %s: %w", chatCode, err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.Code, &m.ChatCode, &m.AuthorCode, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message rows: %w", err)
	}
	return messages, nil
}

func (s *PostgresStore) SaveProduct(p models.Product) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin product transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO products (code, name, description, price, created_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET name=EXCLUDED.name, description=EXCLUDED.description, price=EXCLUDED.price`,
		p.Code, p.Name, p.Description, p.Price, p.CreatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveProduct failed", "error", err, "code", p.Code)
		return fmt.Errorf("failed to save product %s: %w", p.Code, err)
	}

	if _, err := tx.Exec(`DELETE FROM product_part_links WHERE product_code = $1`, p.Code); err != nil {
		return fmt.Errorf("failed to clear part links for %s: %w", p.Code, err)
	}
	for _, partCode := range p.PartCodes {
		if _, err := tx.Exec(`INSERT INTO product_part_links (product_code, part_code) VALUES ($1, $2)`, p.Code, partCode); err != nil {
			return fmt.Errorf("failed to link part %s to product %s: %w", partCode, p.Code, err)
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) loadProductParts(code string) ([]string, error) {
	rows, err := s.db.Query(`SELECT part_code FROM product_part_links WHERE product_code = $1 ORDER BY part_code`, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query part links for %s: %w", code, err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan part link row: %w", err)
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (s *PostgresStore) GetProduct(code string) (*models.Product, error) {
	row := s.db.QueryRow(`SELECT code, name, description, price, created_at FROM products WHERE code = $1`, code)
	var p models.Product
	err := row.Scan(&p.Code, &p.Name, &p.Description, &p.Price, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetProduct failed", "error", err, "code", code)
		return nil, fmt.Errorf("failed to get product %s: %w", code, err)
	}
	if p.PartCodes, err = s.loadProductParts(code); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) ListProducts() ([]models.Product, error) {
	rows, err := s.db.Query(`SELECT code, name, description, price, created_at FROM products ORDER BY created_at DESC, code`)
	if err != nil {
		slog.Error("PostgresStore ListProducts query failed", "error", err)
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.Code, &p.Name, &p.Description, &p.Price, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}
	for i := range products {
		if products[i].PartCodes, err = s.loadProductParts(products[i].Code); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (s *PostgresStore) DeleteProduct(code string) error {
	_, err := s.db.Exec(`DELETE FROM products WHERE code = $1`, code)
	if err != nil {
		slog.Error("PostgresStore DeleteProduct failed", "error", err, "code", code)
		return fmt.Errorf("failed to delete product %s: %w", code, err)
	}
	return nil
}

func (s *PostgresStore) SavePart(p models.ProductPart) error {
	_, err := s.db.Exec(`INSERT INTO product_parts (code, name, description, price, active, required, max_quantity, min_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (code) DO UPDATE SET name=EXCLUDED.name, description=EXCLUDED.description, price=EXCLUDED.price,
			active=EXCLUDED.active, required=EXCLUDED.required, max_quantity=EXCLUDED.max_quantity, min_quantity=EXCLUDED.min_quantity`,
		p.Code, p.Name, p.Description, p.Price, p.Active, p.Required, p.MaxQuantity, p.MinQuantity, p.CreatedAt)
	if err != nil {
		slog.Error("PostgresStore SavePart failed", "error", err, "code", p.Code)
		return fmt.Errorf("failed to save part %s: %w", p.Code, err)
	}
	return nil
}

func (s *PostgresStore) GetPart(code string) (*models.ProductPart, error) {
	row := s.db.QueryRow(`SELECT code, name, description, price, active, required, max_quantity, min_quantity, created_at
		FROM product_parts WHERE code = $1`, code)
	var p models.ProductPart
	err := row.Scan(&p.Code, &p.Name, &p.Description, &p.Price, &p.Active, &p.Required, &p.MaxQuantity, &p.MinQuantity, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetPart failed", "error", err, "code", code)
		return nil, fmt.Errorf("failed to get part %s: %w", code, err)
	}
	return &p, nil
}

func (s *PostgresStore) ListParts() ([]models.ProductPart, error) {
	rows, err := s.db.Query(`SELECT code, name, description, price, active, required, max_quantity, min_quantity, created_at
		FROM product_parts ORDER BY created_at DESC, code`)
	if err != nil {
		slog.Error("PostgresStore ListParts query failed", "error", err)
		return nil, fmt.Errorf("failed to query parts: %w", err)
	}
	defer rows.Close()

	var parts []models.ProductPart
	for rows.Next() {
		var p models.ProductPart
		if err := rows.Scan(&p.Code, &p.Name, &p.Description, &p.Price, &p.Active, &p.Required, &p.MaxQuantity, &p.MinQuantity, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan part row: %w", err)
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (s *PostgresStore) DeletePart(code string) error {
	_, err := s.db.Exec(`DELETE FROM product_parts WHERE code = $1`, code)
	if err != nil {
		slog.Error("PostgresStore DeletePart failed", "error", err, "code", code)
		return fmt.Errorf("failed to delete part %s: %w", code, err)
	}
	return nil
}

// CreateOrder persists the order, its items and their part configuration in
// one transaction.
func (s *PostgresStore) CreateOrder(o models.Order) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin order transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO orders (code, status, customer_code, general_note, created_at) VALUES ($1, $2, $3, $4, $5)`,
		o.Code, o.Status, o.CustomerCode, o.GeneralNote, o.CreatedAt)
	if err != nil {
		slog.Error("PostgresStore CreateOrder failed", "error", err, "code", o.Code)
		return fmt.Errorf("failed to insert order %s: %w", o.Code, err)
	}

	for _, item := range o.Items {
		_, err = tx.Exec(`INSERT INTO order_items (code, order_code, product_code, note, created_at) VALUES ($1, $2, $3, $4, $5)`,
			item.Code, o.Code, item.ProductCode, item.Note, item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order item %s: %w", item.Code, err)
		}
		for _, part := range item.Parts {
			_, err = tx.Exec(`INSERT INTO order_item_parts (item_code, part_code, quantity) VALUES ($1, $2, $3)`,
				item.Code, part.PartCode, part.Quantity)
			if err != nil {
				return fmt.Errorf("failed to insert part config for item %s: %w", item.Code, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order transaction: %w", err)
	}
	slog.Debug("PostgresStore CreateOrder succeeded", "code", o.Code, "items", len(o.Items))
	return nil
}

func (s *PostgresStore) loadOrderItems(orderCode string) ([]models.OrderItem, error) {
	rows, err := s.db.Query(`SELECT code, product_code, note, created_at FROM order_items WHERE order_code = $1 ORDER BY created_at, code`, orderCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for order %s: %w", orderCode, err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.Code, &item.ProductCode, &item.Note, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		partRows, err := s.db.Query(`SELECT part_code, quantity FROM order_item_parts WHERE item_code = $1 ORDER BY part_code`, items[i].Code)
		if err != nil {
			return nil, fmt.Errorf("failed to query part config for item %s: %w", items[i].Code, err)
		}
		for partRows.Next() {
			var p models.OrderItemPart
			if err := partRows.Scan(&p.PartCode, &p.Quantity); err != nil {
				partRows.Close()
				return nil, fmt.Errorf("failed to scan part config row: %w", err)
			}
			items[i].Parts = append(items[i].Parts, p)
		}
		if err := partRows.Err(); err != nil {
			partRows.Close()
			return nil, err
		}
		partRows.Close()
	}
	return items, nil
}

func (s *PostgresStore) GetOrder(code string) (*models.Order, error) {
	row := s.db.QueryRow(`SELECT code, status, customer_code, general_note, created_at FROM orders WHERE code = $1`, code)
	var o models.Order
	err := row.Scan(&o.Code, &o.Status, &o.CustomerCode, &o.GeneralNote, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetOrder failed", "error", err, "code", code)
		return nil, fmt.Errorf("failed to get order %s: %w", code, err)
	}
	if o.Items, err = s.loadOrderItems(code); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *PostgresStore) listOrders(query string, args ...interface{}) ([]models.Order, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		slog.Error("PostgresStore listOrders query failed", "error", err)
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order rows: %w", err)
	}
	for i := range orders {
		if orders[i].Items, err = s.loadOrderItems(orders[i].Code); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *PostgresStore) ListOrders() ([]models.Order, error) {
	return s.listOrders(`SELECT code, status, customer_code, general_note, created_at FROM orders ORDER BY created_at DESC, code`)
}

func (s *PostgresStore) ListOrdersByCustomer(customerCode string) ([]models.Order, error) {
	return s.listOrders(`SELECT code, status, customer_code, general_note, created_at FROM orders WHERE customer_code = $1 ORDER BY created_at DESC, code`, customerCode)
}

func (s *PostgresStore) UpdateOrderStatus(code string, status models.OrderStatus) error {
	res, err := s.db.Exec(`UPDATE orders SET status = $1 WHERE code = $2`, status, code)
	if err != nil {
		slog.Error("PostgresStore UpdateOrderStatus failed", "error", err, "code", code)
		return fmt.Errorf("failed to update order %s: %w", code, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteOrder(code string) error {
	_, err := s.db.Exec(`DELETE FROM orders WHERE code = $1`, code)
	if err != nil {
		slog.Error("PostgresStore DeleteOrder failed", "error", err, "code", code)
		return fmt.Errorf("failed to delete order %s: %w", code, err)
	}
	return nil
}
