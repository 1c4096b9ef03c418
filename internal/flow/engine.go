// Package flow implements the guided chat flow engine for the atelier API.
//
// The engine walks an authenticated user through the flow graph: first
// contact always starts at the entry step regardless of the requested label,
// return contacts jump to whichever declared step the caller names.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sobmedida/atelier-api/internal/models"
)

// ErrStepNotFound reports that a requested label resolves to no declared
// flow step. Detected before any mutation: the chat pointer is not moved and
// no message is appended.
var ErrStepNotFound = errors.New("flow step not found")

// Conversations is the chat side of the store the engine mutates.
type Conversations interface {
	GetChatByUser(userCode string) (*models.Chat, error)
	CreateChat(chat models.Chat) (*models.Chat, error)
	AdvanceChat(chatCode, stepLabel string, msg *models.ChatMessage) error
}

// Result is what the caller receives after an advance: the step the user now
// stands at and its outgoing options.
type Result struct {
	Prompt  string
	Step    string
	Options []models.FlowOption
}

// Engine advances user chats through the flow graph.
type Engine struct {
	graph *Graph
	chats Conversations
}

// NewEngine creates a flow engine over the given graph and chat store.
func NewEngine(graph *Graph, chats Conversations) *Engine {
	slog.Debug("Creating flow engine")
	return &Engine{graph: graph, chats: chats}
}

// Advance moves the user's chat to the requested step and returns that step's
// prompt and options.
//
// A user with no chat yet is started at the entry step; the requested label
// is ignored on first contact. The requested label is not validated against
// the current step's declared options, so restart and back shortcuts work as
// free-form jumps. An empty message means nothing is appended to the
// transcript.
func (e *Engine) Advance(ctx context.Context, user models.User, stepLabel, message string) (*Result, error) {
	slog.Debug("Engine.Advance invoked", "user", user.Code, "step", stepLabel, "has_message", message != "")

	chat, err := e.chats.GetChatByUser(user.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up chat for user %s: %w", user.Code, err)
	}

	if chat == nil {
		return e.firstContact(ctx, user, message)
	}
	return e.returnContact(ctx, user, chat, stepLabel, message)
}

// firstContact creates the user's chat at the entry step.
func (e *Engine) firstContact(ctx context.Context, user models.User, message string) (*Result, error) {
	step, err := e.graph.Step(models.EntryStepLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entry step: %w", err)
	}
	if step == nil {
		slog.Error("Engine.firstContact entry step missing from flow graph", "label", models.EntryStepLabel)
		return nil, fmt.Errorf("entry step %s: %w", models.EntryStepLabel, ErrStepNotFound)
	}

	code, err := models.NewCode(models.CodePrefixChat)
	if err != nil {
		return nil, err
	}
	chat, err := e.chats.CreateChat(models.Chat{
		Code:      code,
		UserCode:  user.Code,
		StepLabel: step.Label,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat for user %s: %w", user.Code, err)
	}
	slog.Info("Chat started", "user", user.Code, "chat", chat.Code, "step", step.Label)

	if message != "" {
		msg, err := e.newMessage(chat.Code, user.Code, message)
		if err != nil {
			return nil, err
		}
		if err := e.chats.AdvanceChat(chat.Code, step.Label, msg); err != nil {
			return nil, fmt.Errorf("failed to append first message to chat %s: %w", chat.Code, err)
		}
	}

	return e.result(step)
}

// returnContact jumps the existing chat to the requested step.
func (e *Engine) returnContact(ctx context.Context, user models.User, chat *models.Chat, stepLabel, message string) (*Result, error) {
	step, err := e.graph.Step(stepLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve step %s: %w", stepLabel, err)
	}
	if step == nil {
		slog.Warn("Engine.returnContact unknown step requested", "user", user.Code, "step", stepLabel)
		return nil, fmt.Errorf("step %s: %w", stepLabel, ErrStepNotFound)
	}

	var msg *models.ChatMessage
	if message != "" {
		if msg, err = e.newMessage(chat.Code, user.Code, message); err != nil {
			return nil, err
		}
	}
	if err := e.chats.AdvanceChat(chat.Code, step.Label, msg); err != nil {
		return nil, fmt.Errorf("failed to advance chat %s to %s: %w", chat.Code, step.Label, err)
	}
	slog.Debug("Chat advanced", "user", user.Code, "chat", chat.Code, "step", step.Label)

	return e.result(step)
}

func (e *Engine) newMessage(chatCode, authorCode, body string) (*models.ChatMessage, error) {
	code, err := models.NewCode(models.CodePrefixMessage)
	if err != nil {
		return nil, err
	}
	return &models.ChatMessage{
		Code:       code,
		ChatCode:   chatCode,
		AuthorCode: authorCode,
		Body:       body,
		CreatedAt:  time.Now(),
	}, nil
}

func (e *Engine) result(step *models.FlowStep) (*Result, error) {
	options, err := e.graph.Options(step.Label)
	if err != nil {
		return nil, fmt.Errorf("failed to list options for step %s: %w", step.Label, err)
	}
	return &Result{Prompt: step.Prompt, Step: step.Label, Options: options}, nil
}
