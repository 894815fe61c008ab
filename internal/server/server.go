package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"codebot/internal/bot"
)

// SecretHeader carries the secret_token registered with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

const maxBodyBytes = 1 << 20

// Dispatcher produces the reply for one update.
type Dispatcher interface {
	Dispatch(ctx context.Context, u bot.Update) string
}

var errMalformedMessage = errors.New("message without chat or sender")

// Server is the webhook endpoint.
type Server struct {
	dispatcher Dispatcher
	messenger  bot.Messenger
	secret     string
	logger     *zap.Logger
}

// New builds a Server. An empty secret disables the secret header check.
func New(dispatcher Dispatcher, messenger bot.Messenger, secret string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		dispatcher: dispatcher,
		messenger:  messenger,
		secret:     secret,
		logger:     logger,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("POST /{$}", s.handleWebhook)
	return mux
}

// handleHealth handles GET /.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello, API is working!"})
}

// handleWebhook handles POST / with a Telegram update.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With(zap.String("request_id", uuid.NewString()))

	if !s.authorized(r) {
		log.Warn("webhook secret mismatch", zap.String("remote", r.RemoteAddr))
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	update, err := decodeUpdate(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Info("bad update payload", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if update == nil {
		log.Debug("update ignored")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	log = log.With(zap.Int64("chat_id", update.ChatID), zap.Int64("user_id", update.SenderID))

	reply, err := s.dispatch(r.Context(), *update)
	if err != nil {
		log.Error("dispatch failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := s.messenger.SendText(r.Context(), update.ChatID, reply); err != nil {
		log.Warn("send reply failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) authorized(r *http.Request) bool {
	if s.secret == "" {
		return true
	}
	got := r.Header.Get(SecretHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) == 1
}

// dispatch runs the dispatcher and turns a panic into an error.
func (s *Server) dispatch(ctx context.Context, u bot.Update) (reply string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return s.dispatcher.Dispatch(ctx, u), nil
}

// decodeUpdate parses a Telegram update. It returns a nil Update without error
// for payloads that carry nothing to answer (no message, or a message without
// text such as a sticker).
func decodeUpdate(body io.Reader) (*bot.Update, error) {
	var raw tgbotapi.Update
	dec := json.NewDecoder(body)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode update: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decode update: trailing data after update")
	}

	msg := raw.Message
	if msg == nil {
		return nil, nil
	}
	if msg.Chat == nil || msg.From == nil {
		return nil, errMalformedMessage
	}
	if msg.Text == "" {
		return nil, nil
	}

	return &bot.Update{
		ChatID:    msg.Chat.ID,
		SenderID:  msg.From.ID,
		Username:  msg.From.UserName,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
		Text:      msg.Text,
	}, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
