package controllers

import (
	"net/http"

	"github.com/gaonbazar/gaonbazar-backend/api/middleware"
	"github.com/gaonbazar/gaonbazar-backend/api/responses"
	"github.com/gaonbazar/gaonbazar-backend/api/validators"
	"github.com/gaonbazar/gaonbazar-backend/internal/assistant"
	pkgerrors "github.com/gaonbazar/gaonbazar-backend/pkg/errors"
	"github.com/gaonbazar/gaonbazar-backend/pkg/logger"
)

const maxMessageLength = 500

type AskRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

type AskResponse struct {
	Question assistant.Message `json:"question"`
	Reply    assistant.Message `json:"reply"`
}

type ConversationResponse struct {
	SessionID string              `json:"session_id"`
	Messages  []assistant.Message `json:"messages"`
}

// AssistantAsk appends the question and the matched answer to the session conversation.
func AssistantAsk(conversations *assistant.Conversations, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id is required"))
			return
		}

		var payload AskRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conv := conversations.Open(sessionID)
		question, reply, ok := conv.Ask(validators.SanitizeString(payload.Text, maxMessageLength))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "message is empty"))
			return
		}

		if logg != nil {
			ctx := logg.WithField(r.Context(), "topic", reply.Topic.String())
			logg.Debug(ctx, "assistant.answered")
		}
		responses.WriteSuccess(w, AskResponse{Question: question, Reply: reply})
	}
}

// AssistantMessages returns the session conversation. A session that has not asked
// anything yet sees the welcome message.
func AssistantMessages(conversations *assistant.Conversations, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id is required"))
			return
		}
		responses.WriteSuccess(w, ConversationResponse{SessionID: sessionID, Messages: conversations.Messages(sessionID)})
	}
}

// AssistantReset drops the session conversation; the next question starts a fresh one.
func AssistantReset(conversations *assistant.Conversations, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id is required"))
			return
		}
		conversations.Close(sessionID)
		responses.WriteSuccess(w, ConversationResponse{SessionID: sessionID, Messages: conversations.Messages(sessionID)})
	}
}

func AssistantQuickQuestions(engine *assistant.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"welcome":   engine.Welcome(),
			"questions": engine.QuickQuestions(),
		})
	}
}
