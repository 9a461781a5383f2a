package models

import "time"

// DefaultSource tags messages whose producer did not identify itself.
const DefaultSource = "esp32_color_sensor"

// Message is a single line of device output as persisted by the store.
// Rows are immutable after creation; there is no update path.
type Message struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Message         string    `gorm:"type:text;not null" json:"message"`
	ClientTimestamp *string   `gorm:"type:text" json:"client_timestamp"`
	ServerTimestamp time.Time `gorm:"not null;autoCreateTime" json:"server_timestamp"`
	Source          string    `gorm:"not null;default:esp32_color_sensor" json:"source"`
}

func (Message) TableName() string {
	return "messages"
}
