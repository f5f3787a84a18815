package domain

import (
	"time"

	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

// AuditTrail records administrative mutations. Rows are append-only.
type AuditTrail struct {
	Base
	AdminID          string    `gorm:"type:varchar(64);not null;index" json:"admin_id"`
	ActionType       string    `gorm:"type:varchar(100);not null" json:"action_type"`
	Description      string    `gorm:"type:text" json:"description"`
	AffectedTable    string    `gorm:"type:varchar(100)" json:"affected_table"`
	AffectedRecordID string    `gorm:"type:varchar(64)" json:"affected_record_id"`
	Timestamp        time.Time `gorm:"not null;autoCreateTime" json:"timestamp"`
}

func (AuditTrail) TableName() string { return "audit_trail" }

func (AuditTrail) Descriptor() storage.Schema {
	return storage.Schema{
		Entity: "AuditTrail",
		Table:  "audit_trail",
		Fields: withBaseFields(map[string]storage.Field{
			"admin_id":           {Column: "admin_id", Kind: storage.KindString},
			"action_type":        {Column: "action_type", Kind: storage.KindString},
			"description":        {Column: "description", Kind: storage.KindString},
			"affected_table":     {Column: "affected_table", Kind: storage.KindString},
			"affected_record_id": {Column: "affected_record_id", Kind: storage.KindString},
			"timestamp":          {Column: "timestamp", Kind: storage.KindTime},
		}),
		Deletion: storage.HardCascade,
	}
}

// ActivityLog rows are materialized by the Kafka consumer from domain events.
type ActivityLog struct {
	Base
	UserID       string `gorm:"type:varchar(64);not null;index" json:"user_id"`
	ActivityType string `gorm:"type:varchar(100);not null" json:"activity_type"`
	Title        string `gorm:"type:varchar(255);not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	Read         bool   `gorm:"not null;default:false" json:"read"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

func (ActivityLog) Descriptor() storage.Schema {
	return storage.Schema{
		Entity: "ActivityLog",
		Table:  "activity_logs",
		Fields: withBaseFields(map[string]storage.Field{
			"user_id":       {Column: "user_id", Kind: storage.KindString},
			"activity_type": {Column: "activity_type", Kind: storage.KindString},
			"title":         {Column: "title", Kind: storage.KindString},
			"description":   {Column: "description", Kind: storage.KindString},
			"read":          {Column: "read", Kind: storage.KindBool},
		}),
		Deletion: storage.HardCascade,
	}
}

type LoginHistory struct {
	Base
	UserID         string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	LoginTimestamp time.Time `gorm:"not null;autoCreateTime" json:"login_timestamp"`
	IPAddress      string    `gorm:"type:varchar(64)" json:"ip_address"`
	DeviceInfo     string    `gorm:"type:varchar(255)" json:"device_info"`
}

func (LoginHistory) TableName() string { return "login_history" }

func (LoginHistory) Descriptor() storage.Schema {
	return storage.Schema{
		Entity: "LoginHistory",
		Table:  "login_history",
		Fields: withBaseFields(map[string]storage.Field{
			"user_id":         {Column: "user_id", Kind: storage.KindString},
			"login_timestamp": {Column: "login_timestamp", Kind: storage.KindTime},
			"ip_address":      {Column: "ip_address", Kind: storage.KindString},
			"device_info":     {Column: "device_info", Kind: storage.KindString},
		}),
		Deletion: storage.HardCascade,
	}
}
