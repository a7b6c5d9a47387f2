package entities

import (
	"time"

	"gorm.io/datatypes"
)

type Fields = map[string]any

// Record is a single row of a store table as the store returns it.
type Record struct {
	ID          string `json:"id"`
	CreatedTime string `json:"createdTime,omitempty"`
	Fields      Fields `json:"fields"`
}

// StoredRecord is the SQL row behind a Record when the gorm backend is used.
// Every table shares the one "records" relation, keyed by table name.
type StoredRecord struct {
	ID        string            `gorm:"type:varchar(32);primaryKey" json:"id"`
	Table     string            `gorm:"column:table_name;type:varchar(64);index;not null" json:"table_name"`
	Fields    datatypes.JSONMap `gorm:"column:fields" json:"fields"`
	CreatedAt time.Time         `gorm:"column:created_time;autoCreateTime" json:"created_time"`
}

func (StoredRecord) TableName() string {
	return "records"
}

func (r StoredRecord) ToRecord() Record {
	fields := Fields{}
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Record{
		ID:          r.ID,
		CreatedTime: r.CreatedAt.UTC().Format(time.RFC3339),
		Fields:      fields,
	}
}
