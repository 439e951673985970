package store

import (
	"Snack-Tracker/entities"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository keeps leaves in the store_nodes table, one row per leaf.
func NewStoreRepository(db *gorm.DB) Store {
	return &storeRepository{db: db}
}

func (r *storeRepository) Get(ctx context.Context, path string) (*Snapshot, error) {
	p, err := CleanPath(path)
	if err != nil {
		return nil, err
	}

	var nodes []entities.StoreNode
	if err := r.db.WithContext(ctx).
		Where("path = ? OR path LIKE ?", p, likePrefix(p)).
		Order("path asc").
		Find(&nodes).Error; err != nil {
		return nil, err
	}

	leaves := make(map[string]Fields, len(nodes))
	for _, n := range nodes {
		var f Fields
		if err := json.Unmarshal([]byte(n.Value), &f); err != nil {
			return nil, fmt.Errorf("decode store node %s: %w", n.Path, err)
		}
		leaves[n.Path] = f
	}
	return buildSnapshot(p, leaves), nil
}

func (r *storeRepository) Set(ctx context.Context, path string, fields Fields) error {
	p, err := CleanPath(path)
	if err != nil {
		return err
	}
	value, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("path LIKE ? OR path IN ?", likePrefix(p), ancestorsOf(p)).
			Delete(&entities.StoreNode{}).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return tx.Where("path = ?", p).Delete(&entities.StoreNode{}).Error
		}
		node := &entities.StoreNode{
			Path:   p,
			Parent: parentOf(p),
			Value:  string(value),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "parent", "updated_at"}),
		}).Create(node).Error
	})
}

func (r *storeRepository) Push(ctx context.Context, parent string) (string, error) {
	if _, err := CleanPath(parent); err != nil {
		return "", err
	}
	return newKey()
}

// likePrefix matches every path strictly below p. Paths never contain LIKE
// wildcards other than underscore, which is escaped.
func likePrefix(p string) string {
	return strings.ReplaceAll(p, "_", `\_`) + "/%"
}

func ancestorsOf(p string) []string {
	out := []string{""}
	for parent := parentOf(p); parent != ""; parent = parentOf(parent) {
		out = append(out, parent)
	}
	return out
}
