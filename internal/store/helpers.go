package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sobmedida/atelier-api/internal/models"
)

// Sentinel errors shared by all store backends.
var (
	ErrChatNotFound  = errors.New("chat not found")
	ErrOrderNotFound = errors.New("order not found")
)

// nilIfEmpty returns nil if s is empty, otherwise returns s.
// Used for nullable database columns.
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// scanFlowOption scans a FlowOption from sql.Rows.
func scanFlowOption(rows *sql.Rows) (models.FlowOption, error) {
	var o models.FlowOption
	var destination sql.NullString
	err := rows.Scan(&o.ID, &o.Code, &o.StepLabel, &destination, &o.Description, &o.CreatedAt)
	if err != nil {
		return o, fmt.Errorf("scan flow option failed: %w", err)
	}
	o.Destination = destination.String
	return o, nil
}

// scanChatRow scans a Chat from a single sql.Row.
func scanChatRow(row *sql.Row) (models.Chat, error) {
	var c models.Chat
	var stepLabel sql.NullString
	err := row.Scan(&c.Code, &c.UserCode, &stepLabel, &c.CreatedAt)
	if err != nil {
		return c, err
	}
	c.StepLabel = stepLabel.String
	return c, nil
}

// scanOrder scans an Order (without items) from sql.Rows.
func scanOrder(rows *sql.Rows) (models.Order, error) {
	var o models.Order
	err := rows.Scan(&o.Code, &o.Status, &o.CustomerCode, &o.GeneralNote, &o.CreatedAt)
	if err != nil {
		return o, fmt.Errorf("scan order failed: %w", err)
	}
	return o, nil
}
