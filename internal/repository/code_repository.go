package repository

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"codebot/internal/model"
)

// CodeRepository handles the code→response mapping.
type CodeRepository struct {
	db  *Database
	now func() time.Time
}

func NewCodeRepository(db *Database) *CodeRepository {
	return &CodeRepository{db: db, now: time.Now}
}

// GetCode returns the entry stored under code, or ErrNotFound.
func (r *CodeRepository) GetCode(ctx context.Context, code string) (*model.Code, error) {
	db, err := r.db.session(ctx)
	if err != nil {
		return nil, wrap("get code", err)
	}
	var entry model.Code
	if err := db.Where("code = ?", code).First(&entry).Error; err != nil {
		return nil, wrap("get code", err)
	}
	return &entry, nil
}

// UpsertCode inserts code or replaces its response. created_at is written
// only by the insert branch, so it survives later upserts.
func (r *CodeRepository) UpsertCode(ctx context.Context, code, response string) error {
	db, err := r.db.session(ctx)
	if err != nil {
		return wrap("upsert code", err)
	}
	now := r.now()
	entry := model.Code{
		Code:      code,
		Response:  response,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"response", "updated_at"}),
	}).Create(&entry).Error
	return wrap("upsert code", err)
}

// DeleteCode removes code and reports whether it existed.
func (r *CodeRepository) DeleteCode(ctx context.Context, code string) (bool, error) {
	db, err := r.db.session(ctx)
	if err != nil {
		return false, wrap("delete code", err)
	}
	res := db.Where("code = ?", code).Delete(&model.Code{})
	if res.Error != nil {
		return false, wrap("delete code", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListCodes returns every stored code in ascending order.
func (r *CodeRepository) ListCodes(ctx context.Context) ([]string, error) {
	db, err := r.db.session(ctx)
	if err != nil {
		return nil, wrap("list codes", err)
	}
	var codes []string
	if err := db.Model(&model.Code{}).Order("code ASC").Pluck("code", &codes).Error; err != nil {
		return nil, wrap("list codes", err)
	}
	return codes, nil
}

func (r *CodeRepository) CountCodes(ctx context.Context) (int64, error) {
	db, err := r.db.session(ctx)
	if err != nil {
		return 0, wrap("count codes", err)
	}
	var n int64
	if err := db.Model(&model.Code{}).Count(&n).Error; err != nil {
		return 0, wrap("count codes", err)
	}
	return n, nil
}
