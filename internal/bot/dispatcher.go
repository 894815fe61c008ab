package bot

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"codebot/internal/model"
	"codebot/internal/repository"
)

// Store is the persistence the dispatcher needs.
type Store interface {
	GetCode(ctx context.Context, code string) (*model.Code, error)
	UpsertCode(ctx context.Context, code, response string) error
	DeleteCode(ctx context.Context, code string) (bool, error)
	ListCodes(ctx context.Context) ([]string, error)
	CountCodes(ctx context.Context) (int64, error)
	UpsertUser(ctx context.Context, profile model.UserProfile) error
	CountUsers(ctx context.Context) (int64, error)
}

// Update is an inbound text message reduced to what the dispatcher uses.
type Update struct {
	ChatID    int64
	SenderID  int64
	Username  string
	FirstName string
	LastName  string
	Text      string
}

func (u Update) profile() model.UserProfile {
	return model.UserProfile{
		UserID:    u.SenderID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// Dispatcher turns one update into one reply, touching the store on the way.
// It keeps no state between calls and is safe for concurrent use.
type Dispatcher struct {
	store        Store
	adminID      int64
	startTrigger string
	logger       *zap.Logger
}

// NewDispatcher builds a Dispatcher. adminID 0 disables admin commands.
func NewDispatcher(store Store, adminID int64, startTrigger string, logger *zap.Logger) *Dispatcher {
	if startTrigger == "" {
		startTrigger = DefaultStartTrigger
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		store:        store,
		adminID:      adminID,
		startTrigger: startTrigger,
		logger:       logger,
	}
}

func (d *Dispatcher) isAdmin(userID int64) bool {
	return d.adminID != 0 && userID == d.adminID
}

// Dispatch classifies u and runs the matching handler. It always returns a
// non-empty reply; store failures become user-facing messages.
func (d *Dispatcher) Dispatch(ctx context.Context, u Update) string {
	intent := Classify(u.Text, d.startTrigger)
	log := d.logger.With(
		zap.Int64("user_id", u.SenderID),
		zap.Stringer("intent", intent.Kind),
	)
	log.Debug("dispatch")

	if intent.Kind.AdminOnly() && !d.isAdmin(u.SenderID) {
		log.Info("admin command rejected", zap.String("command", intent.Command))
		return replyAdminOnly
	}

	var (
		reply string
		err   error
	)
	switch intent.Kind {
	case IntentStart:
		reply, err = d.handleStart(ctx, u)
	case IntentHelp:
		reply = helpText(d.isAdmin(u.SenderID))
	case IntentAddCode:
		reply, err = d.handleAddCode(ctx, intent)
	case IntentDeleteCode:
		reply, err = d.handleDeleteCode(ctx, intent)
	case IntentListCodes:
		reply, err = d.handleListCodes(ctx)
	case IntentStats:
		reply, err = d.handleStats(ctx)
	case IntentUnknown:
		reply = unknownCommandText(intent.Command)
	case IntentLookup:
		reply, err = d.handleLookup(ctx, u, intent)
	default:
		reply = unknownCommandText(intent.Command)
	}

	if err != nil {
		if errors.Is(err, repository.ErrStorageUnavailable) {
			log.Warn("store unavailable", zap.Error(err))
			return replyStoreUnavailable
		}
		log.Error("dispatch failed", zap.Error(err))
		return replyInternalError
	}
	return reply
}

func (d *Dispatcher) handleStart(ctx context.Context, u Update) (string, error) {
	if err := d.store.UpsertUser(ctx, u.profile()); err != nil {
		return "", err
	}
	return welcomeText(u.FirstName), nil
}

func (d *Dispatcher) handleLookup(ctx context.Context, u Update, intent Intent) (string, error) {
	if err := d.store.UpsertUser(ctx, u.profile()); err != nil {
		if errors.Is(err, repository.ErrStorageUnavailable) {
			return "", err
		}
		d.logger.Warn("record user activity", zap.Int64("user_id", u.SenderID), zap.Error(err))
	}

	if intent.Text == "" {
		return replyCodeNotFound, nil
	}
	entry, err := d.store.GetCode(ctx, intent.Text)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return replyCodeNotFound, nil
	case err != nil:
		return "", err
	}
	return entry.Response, nil
}

func (d *Dispatcher) handleAddCode(ctx context.Context, intent Intent) (string, error) {
	if intent.Code == "" || intent.Response == "" {
		return replyAddCodeUsage, nil
	}
	if err := d.store.UpsertCode(ctx, intent.Code, intent.Response); err != nil {
		return "", err
	}
	d.logger.Info("code saved", zap.String("code", intent.Code))
	return codeSavedText(intent.Code), nil
}

func (d *Dispatcher) handleDeleteCode(ctx context.Context, intent Intent) (string, error) {
	if intent.Code == "" {
		return replyDeleteCodeUsage, nil
	}
	removed, err := d.store.DeleteCode(ctx, intent.Code)
	if err != nil {
		return "", err
	}
	if !removed {
		return replyCodeNotFound, nil
	}
	d.logger.Info("code deleted", zap.String("code", intent.Code))
	return codeDeletedText(intent.Code), nil
}

func (d *Dispatcher) handleListCodes(ctx context.Context) (string, error) {
	codes, err := d.store.ListCodes(ctx)
	if err != nil {
		return "", err
	}
	return codeListText(codes), nil
}

func (d *Dispatcher) handleStats(ctx context.Context) (string, error) {
	codes, err := d.store.CountCodes(ctx)
	if err != nil {
		return "", err
	}
	users, err := d.store.CountUsers(ctx)
	if err != nil {
		return "", err
	}
	return statsText(codes, users), nil
}
