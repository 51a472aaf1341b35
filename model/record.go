package model

import (
	"fmt"
	"time"

	"github.com/exvulsec/harpoon/datastore"
)

// ActionRecord is the audit row written by the record executor for every
// action that reaches it.
type ActionRecord struct {
	ID        int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Chain     string    `json:"chain" gorm:"column:chain"`
	Kind      string    `json:"kind" gorm:"column:kind"`
	Detail    string    `json:"detail" gorm:"column:detail"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (ActionRecord) TableName() string {
	return "action_records"
}

func (ar *ActionRecord) Create() error {
	if err := datastore.DB().Create(ar).Error; err != nil {
		return fmt.Errorf("create action record is err: %v", err)
	}
	return nil
}
