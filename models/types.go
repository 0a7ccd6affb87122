package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice stores a JSON array of strings in a single database column.
// Used for entity image URLs and tags.
type StringSlice []string

// Value implements driver.Valuer for database storage
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return nil, nil
	}
	return json.Marshal(ss)
}

// Scan implements sql.Scanner for database retrieval
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ss)
	case string:
		return json.Unmarshal([]byte(v), ss)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// GormDataType returns the data type for GORM
func (StringSlice) GormDataType() string {
	return "json"
}

// MarshalJSON implements json.Marshaler
func (ss StringSlice) MarshalJSON() ([]byte, error) {
	if ss == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(ss))
}

// UnmarshalJSON implements json.Unmarshaler
func (ss *StringSlice) UnmarshalJSON(data []byte) error {
	var slice []string
	if err := json.Unmarshal(data, &slice); err != nil {
		return err
	}
	*ss = StringSlice(slice)
	return nil
}

// ContentStatus is the moderation lifecycle state shared by regions and places.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
	ContentStatusRejected  ContentStatus = "rejected"
)

// Valid reports whether s is a known content status.
func (s ContentStatus) Valid() bool {
	switch s {
	case ContentStatusDraft, ContentStatusPublished, ContentStatusArchived, ContentStatusRejected:
		return true
	}
	return false
}

// Terminal content states cannot be left, not even by admins.
func (s ContentStatus) Terminal() bool {
	return s == ContentStatusArchived || s == ContentStatusRejected
}
