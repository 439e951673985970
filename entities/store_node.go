package entities

import (
	"time"
)

// StoreNode is one leaf of the hierarchical store. Path is the full slash
// separated address; Value is the JSON encoded field map.
type StoreNode struct {
	Path      string    `gorm:"primaryKey;type:text" json:"path"`
	Parent    string    `gorm:"index;type:text" json:"parent"`
	Value     string    `gorm:"type:jsonb;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
