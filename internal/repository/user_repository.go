package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"codebot/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db  *Database
	now func() time.Time
}

func NewUserRepository(db *Database) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// UpsertUser records activity for a Telegram user. Non-empty profile fields
// replace stored ones, last_active is always refreshed and first_joined is
// only written when the row is created.
func (r *UserRepository) UpsertUser(ctx context.Context, profile model.UserProfile) error {
	db, err := r.db.session(ctx)
	if err != nil {
		return wrap("upsert user", err)
	}
	now := r.now()
	user := model.User{
		UserID:      profile.UserID,
		Username:    profile.Username,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		FirstJoined: now,
		LastActive:  now,
	}
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"username":    gorm.Expr("COALESCE(NULLIF(excluded.username, ''), users.username)"),
			"first_name":  gorm.Expr("COALESCE(NULLIF(excluded.first_name, ''), users.first_name)"),
			"last_name":   gorm.Expr("COALESCE(NULLIF(excluded.last_name, ''), users.last_name)"),
			"last_active": gorm.Expr("excluded.last_active"),
		}),
	}).Create(&user).Error
	return wrap("upsert user", err)
}

func (r *UserRepository) FindUser(ctx context.Context, userID int64) (*model.User, error) {
	db, err := r.db.session(ctx)
	if err != nil {
		return nil, wrap("find user", err)
	}
	var user model.User
	if err := db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, wrap("find user", err)
	}
	return &user, nil
}

func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	db, err := r.db.session(ctx)
	if err != nil {
		return 0, wrap("count users", err)
	}
	var n int64
	if err := db.Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, wrap("count users", err)
	}
	return n, nil
}
