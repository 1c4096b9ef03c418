package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sobmedida/atelier-api/internal/models"
	"github.com/sobmedida/atelier-api/internal/store"
)

// seedFlow loads a small flow graph:
//
//	PERGUNTA_1 --(Ver produtos)--> PERGUNTA_2 --(Fazer pedido)--> PERGUNTA_3
//	PERGUNTA_1 --(Encerrar)--> (nothing)
//	PERGUNTA_3 is a terminal leaf.
func seedFlow(t *testing.T, st *store.InMemoryStore) {
	t.Helper()
	now := time.Now()
	steps := []models.FlowStep{
		{Code: "fl00001", Label: "PERGUNTA_1", Prompt: "Olá! Como podemos ajudar?", CreatedAt: now},
		{Code: "fl00002", Label: "PERGUNTA_2", Prompt: "Qual produto você procura?", CreatedAt: now},
		{Code: "fl00003", Label: "PERGUNTA_3", Prompt: "Pedido registrado. Obrigado!", CreatedAt: now},
	}
	for _, step := range steps {
		if err := st.SaveFlowStep(step); err != nil {
			t.Fatalf("SaveFlowStep failed: %v", err)
		}
	}
	options := []models.FlowOption{
		{Code: "fo00001", StepLabel: "PERGUNTA_1", Destination: "PERGUNTA_2", Description: "Ver produtos", CreatedAt: now},
		{Code: "fo00002", StepLabel: "PERGUNTA_1", Description: "Encerrar", CreatedAt: now},
		{Code: "fo00003", StepLabel: "PERGUNTA_2", Destination: "PERGUNTA_3", Description: "Fazer pedido", CreatedAt: now},
	}
	for _, o := range options {
		if _, err := st.SaveFlowOption(o); err != nil {
			t.Fatalf("SaveFlowOption failed: %v", err)
		}
	}
}

func newTestEngine(t *testing.T) (*Engine, *store.InMemoryStore) {
	t.Helper()
	st := store.NewInMemoryStore()
	t.Cleanup(func() { st.Close() })
	seedFlow(t, st)
	return NewEngine(NewGraph(st), st), st
}

func testUser() models.User {
	return models.User{Code: "us00001", Email: "cliente@example.com", Name: "Cliente"}
}

func TestAdvanceFirstContactStartsAtEntryStep(t *testing.T) {
	engine, st := newTestEngine(t)
	user := testUser()

	// The caller-supplied label is ignored on first contact.
	result, err := engine.Advance(context.Background(), user, "PERGUNTA_3", "oi")
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if result.Step != "PERGUNTA_1" {
		t.Errorf("Expected entry step PERGUNTA_1, got %s", result.Step)
	}
	if result.Prompt != "Olá! Como podemos ajudar?" {
		t.Errorf("Unexpected prompt: %q", result.Prompt)
	}
	if len(result.Options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(result.Options))
	}
	if result.Options[0].Description != "Ver produtos" || result.Options[1].Description != "Encerrar" {
		t.Errorf("Unexpected option order: %+v", result.Options)
	}

	chat, err := st.GetChatByUser(user.Code)
	if err != nil {
		t.Fatalf("GetChatByUser failed: %v", err)
	}
	if chat == nil || chat.StepLabel != "PERGUNTA_1" {
		t.Errorf("Expected chat at entry step, got %+v", chat)
	}

	messages, err := st.ListChatMessages(chat.Code)
	if err != nil {
		t.Fatalf("ListChatMessages failed: %v", err)
	}
	if len(messages) != 1 || messages[0].Body != "oi" {
		t.Errorf("Expected one transcript message 'oi', got %+v", messages)
	}
	if messages[0].AuthorCode != user.Code {
		t.Errorf("Expected author %s, got %s", user.Code, messages[0].AuthorCode)
	}
}

func TestAdvanceFirstContactWithoutMessage(t *testing.T) {
	engine, st := newTestEngine(t)
	user := testUser()

	result, err := engine.Advance(context.Background(), user, "PERGUNTA_1", "")
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if result.Step != "PERGUNTA_1" {
		t.Errorf("Expected entry step, got %s", result.Step)
	}

	chat, _ := st.GetChatByUser(user.Code)
	messages, _ := st.ListChatMessages(chat.Code)
	if len(messages) != 0 {
		t.Errorf("Expected empty transcript, got %d messages", len(messages))
	}
}

func TestAdvanceReturnContactMovesPointer(t *testing.T) {
	engine, st := newTestEngine(t)
	user := testUser()
	ctx := context.Background()

	if _, err := engine.Advance(ctx, user, "PERGUNTA_1", "oi"); err != nil {
		t.Fatalf("First advance failed: %v", err)
	}

	result, err := engine.Advance(ctx, user, "PERGUNTA_2", "quero ver")
	if err != nil {
		t.Fatalf("Second advance failed: %v", err)
	}
	if result.Step != "PERGUNTA_2" {
		t.Errorf("Expected PERGUNTA_2, got %s", result.Step)
	}
	if result.Prompt != "Qual produto você procura?" {
		t.Errorf("Expected PERGUNTA_2 prompt, got %q", result.Prompt)
	}
	if len(result.Options) != 1 || result.Options[0].Destination != "PERGUNTA_3" {
		t.Errorf("Expected PERGUNTA_2 options, got %+v", result.Options)
	}

	chat, _ := st.GetChatByUser(user.Code)
	if chat.StepLabel != "PERGUNTA_2" {
		t.Errorf("Expected pointer at PERGUNTA_2, got %s", chat.StepLabel)
	}

	messages, _ := st.ListChatMessages(chat.Code)
	if len(messages) != 2 {
		t.Errorf("Expected 2 transcript messages, got %d", len(messages))
	}
}

func TestAdvanceFreeFormJumpIsAllowed(t *testing.T) {
	engine, st := newTestEngine(t)
	user := testUser()
	ctx := context.Background()

	if _, err := engine.Advance(ctx, user, "PERGUNTA_1", ""); err != nil {
		t.Fatalf("First advance failed: %v", err)
	}

	// PERGUNTA_3 is not a declared destination of any PERGUNTA_1 option;
	// the jump succeeds anyway.
	result, err := engine.Advance(ctx, user, "PERGUNTA_3", "")
	if err != nil {
		t.Fatalf("Jump failed: %v", err)
	}
	if result.Step != "PERGUNTA_3" {
		t.Errorf("Expected PERGUNTA_3, got %s", result.Step)
	}

	chat, _ := st.GetChatByUser(user.Code)
	if chat.StepLabel != "PERGUNTA_3" {
		t.Errorf("Expected pointer at PERGUNTA_3, got %s", chat.StepLabel)
	}
}

func TestAdvanceTerminalStepHasNoOptions(t *testing.T) {
	engine, _ := newTestEngine(t)
	user := testUser()
	ctx := context.Background()

	if _, err := engine.Advance(ctx, user, "PERGUNTA_1", ""); err != nil {
		t.Fatalf("First advance failed: %v", err)
	}
	result, err := engine.Advance(ctx, user, "PERGUNTA_3", "")
	if err != nil {
		t.Fatalf("Advance to terminal step failed: %v", err)
	}
	if len(result.Options) != 0 {
		t.Errorf("Expected no options at terminal step, got %d", len(result.Options))
	}
}

func TestAdvanceIsIdempotent(t *testing.T) {
	engine, st := newTestEngine(t)
	user := testUser()
	ctx := context.Background()

	first, err := engine.Advance(ctx, user, "PERGUNTA_1", "")
	if err != nil {
		t.Fatalf("First advance failed: %v", err)
	}
	second, err := engine.Advance(ctx, user, "PERGUNTA_1", "")
	if err != nil {
		t.Fatalf("Second advance failed: %v", err)
	}

	if first.Step != second.Step || first.Prompt != second.Prompt {
		t.Errorf("Expected identical results, got %+v vs %+v", first, second)
	}
	if len(first.Options) != len(second.Options) {
		t.Errorf("Expected identical option lists, got %d vs %d", len(first.Options), len(second.Options))
	}

	chat, _ := st.GetChatByUser(user.Code)
	messages, _ := st.ListChatMessages(chat.Code)
	if len(messages) != 0 {
		t.Errorf("Expected empty transcript after message-less advances, got %d", len(messages))
	}
}

func TestAdvanceUnknownStep(t *testing.T) {
	engine, st := newTestEngine(t)
	user := testUser()
	ctx := context.Background()

	if _, err := engine.Advance(ctx, user, "PERGUNTA_1", ""); err != nil {
		t.Fatalf("First advance failed: %v", err)
	}

	_, err := engine.Advance(ctx, user, "PERGUNTA_999", "perdido")
	if !errors.Is(err, ErrStepNotFound) {
		t.Fatalf("Expected ErrStepNotFound, got %v", err)
	}

	// The failed advance must not have mutated anything.
	chat, _ := st.GetChatByUser(user.Code)
	if chat.StepLabel != "PERGUNTA_1" {
		t.Errorf("Expected pointer unchanged at PERGUNTA_1, got %s", chat.StepLabel)
	}
	messages, _ := st.ListChatMessages(chat.Code)
	if len(messages) != 0 {
		t.Errorf("Expected no message appended on failed advance, got %d", len(messages))
	}
}

func TestAdvanceEmptyGraph(t *testing.T) {
	st := store.NewInMemoryStore()
	defer st.Close()
	engine := NewEngine(NewGraph(st), st)

	_, err := engine.Advance(context.Background(), testUser(), "PERGUNTA_1", "oi")
	if !errors.Is(err, ErrStepNotFound) {
		t.Fatalf("Expected ErrStepNotFound for missing entry step, got %v", err)
	}

	// No chat may be created when the entry step cannot be resolved.
	chat, _ := st.GetChatByUser("us00001")
	if chat != nil {
		t.Errorf("Expected no chat, got %+v", chat)
	}
}

func TestAdvanceTranscriptAppendOnly(t *testing.T) {
	engine, st := newTestEngine(t)
	user := testUser()
	ctx := context.Background()

	bodies := []string{"primeira", "segunda", "terceira"}
	labels := []string{"PERGUNTA_1", "PERGUNTA_2", "PERGUNTA_1"}
	for i := range bodies {
		if _, err := engine.Advance(ctx, user, labels[i], bodies[i]); err != nil {
			t.Fatalf("Advance %d failed: %v", i, err)
		}
	}

	chat, _ := st.GetChatByUser(user.Code)
	messages, err := st.ListChatMessages(chat.Code)
	if err != nil {
		t.Fatalf("ListChatMessages failed: %v", err)
	}
	if len(messages) != len(bodies) {
		t.Fatalf("Expected %d messages, got %d", len(bodies), len(messages))
	}
	for i, body := range bodies {
		if messages[i].Body != body {
			t.Errorf("Message %d: expected %q, got %q", i, body, messages[i].Body)
		}
	}
}
