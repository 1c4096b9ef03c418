// Package store provides storage backends for the atelier API.
//
// This file implements the in-memory store used by tests and DSN-less runs.
package store

import (
	"log/slog"
	"sync"

	"github.com/sobmedida/atelier-api/internal/models"
)

// InMemoryStore is a mutex-guarded Store kept entirely in process memory.
type InMemoryStore struct {
	mu           sync.Mutex
	users        map[string]models.User
	steps        map[string]models.FlowStep // keyed by label
	stepOrder    []string
	options      []models.FlowOption
	nextOptionID int64
	chats        map[string]models.Chat // keyed by chat code
	chatsByUser  map[string]string      // user code -> chat code
	messages     []models.ChatMessage
	products     map[string]models.Product
	productOrder []string
	parts        map[string]models.ProductPart
	partOrder    []string
	orders       map[string]models.Order
	orderOrder   []string
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:       make(map[string]models.User),
		steps:       make(map[string]models.FlowStep),
		chats:       make(map[string]models.Chat),
		chatsByUser: make(map[string]string),
		products:    make(map[string]models.Product),
		parts:       make(map[string]models.ProductPart),
		orders:      make(map[string]models.Order),
	}
}

func (s *InMemoryStore) SaveUser(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Code] = u
	return nil
}

func (s *InMemoryStore) GetUser(code string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[code]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *InMemoryStore) GetUserByToken(token string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.APIToken == token {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) SaveFlowStep(step models.FlowStep) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.steps[step.Label]; !exists {
		s.stepOrder = append(s.stepOrder, step.Label)
	}
	s.steps[step.Label] = step
	return nil
}

func (s *InMemoryStore) GetFlowStep(label string) (*models.FlowStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if step, ok := s.steps[label]; ok {
		return &step, nil
	}
	return nil, nil
}

func (s *InMemoryStore) ListFlowSteps() ([]models.FlowStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	steps := make([]models.FlowStep, 0, len(s.stepOrder))
	for _, label := range s.stepOrder {
		steps = append(steps, s.steps[label])
	}
	return steps, nil
}

func (s *InMemoryStore) SaveFlowOption(o models.FlowOption) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextOptionID++
	o.ID = s.nextOptionID
	s.options = append(s.options, o)
	return o.ID, nil
}

func (s *InMemoryStore) ListFlowOptions(stepLabel string) ([]models.FlowOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var options []models.FlowOption
	for _, o := range s.options {
		if o.StepLabel == stepLabel {
			options = append(options, o)
		}
	}
	return options, nil
}

func (s *InMemoryStore) GetChatByUser(userCode string) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.chatsByUser[userCode]; ok {
		chat := s.chats[code]
		return &chat, nil
	}
	return nil, nil
}

// CreateChat inserts the chat unless the user already owns one, in which case
// the existing chat is returned unchanged.
func (s *InMemoryStore) CreateChat(chat models.Chat) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.chatsByUser[chat.UserCode]; ok {
		existing := s.chats[code]
		slog.Debug("InMemoryStore CreateChat found existing chat", "user", chat.UserCode, "chat", code)
		return &existing, nil
	}
	s.chats[chat.Code] = chat
	s.chatsByUser[chat.UserCode] = chat.Code
	return &chat, nil
}

func (s *InMemoryStore) AdvanceChat(chatCode, stepLabel string, msg *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[chatCode]
	if !ok {
		return ErrChatNotFound
	}
	chat.StepLabel = stepLabel
	s.chats[chatCode] = chat
	if msg != nil {
		s.messages = append(s.messages, *msg)
	}
	return nil
}

func (s *InMemoryStore) ListChatMessages(chatCode string) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var messages []models.ChatMessage
	for _, m := range s.messages {
		if m.ChatCode == chatCode {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

func (s *InMemoryStore) SaveProduct(p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[p.Code]; !exists {
		s.productOrder = append(s.productOrder, p.Code)
	}
	s.products[p.Code] = p
	return nil
}

func (s *InMemoryStore) GetProduct(code string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[code]; ok {
		return &p, nil
	}
	return nil, nil
}

// ListProducts returns products newest first.
func (s *InMemoryStore) ListProducts() ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make([]models.Product, 0, len(s.productOrder))
	for i := len(s.productOrder) - 1; i >= 0; i-- {
		products = append(products, s.products[s.productOrder[i]])
	}
	return products, nil
}

func (s *InMemoryStore) DeleteProduct(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, code)
	for i, c := range s.productOrder {
		if c == code {
			s.productOrder = append(s.productOrder[:i], s.productOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *InMemoryStore) SavePart(p models.ProductPart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.parts[p.Code]; !exists {
		s.partOrder = append(s.partOrder, p.Code)
	}
	s.parts[p.Code] = p
	return nil
}

func (s *InMemoryStore) GetPart(code string) (*models.ProductPart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.parts[code]; ok {
		return &p, nil
	}
	return nil, nil
}

// ListParts returns parts newest first.
func (s *InMemoryStore) ListParts() ([]models.ProductPart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parts := make([]models.ProductPart, 0, len(s.partOrder))
	for i := len(s.partOrder) - 1; i >= 0; i-- {
		parts = append(parts, s.parts[s.partOrder[i]])
	}
	return parts, nil
}

func (s *InMemoryStore) DeletePart(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.parts, code)
	for i, c := range s.partOrder {
		if c == code {
			s.partOrder = append(s.partOrder[:i], s.partOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *InMemoryStore) CreateOrder(o models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[o.Code]; !exists {
		s.orderOrder = append(s.orderOrder, o.Code)
	}
	s.orders[o.Code] = o
	return nil
}

func (s *InMemoryStore) GetOrder(code string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[code]; ok {
		return &o, nil
	}
	return nil, nil
}

// ListOrders returns orders newest first.
func (s *InMemoryStore) ListOrders() ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make([]models.Order, 0, len(s.orderOrder))
	for i := len(s.orderOrder) - 1; i >= 0; i-- {
		orders = append(orders, s.orders[s.orderOrder[i]])
	}
	return orders, nil
}

func (s *InMemoryStore) ListOrdersByCustomer(customerCode string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orders []models.Order
	for i := len(s.orderOrder) - 1; i >= 0; i-- {
		o := s.orders[s.orderOrder[i]]
		if o.CustomerCode == customerCode {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (s *InMemoryStore) UpdateOrderStatus(code string, status models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[code]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	s.orders[code] = o
	return nil
}

func (s *InMemoryStore) DeleteOrder(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, code)
	for i, c := range s.orderOrder {
		if c == code {
			s.orderOrder = append(s.orderOrder[:i], s.orderOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
