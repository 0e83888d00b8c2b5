// internal/domain/models/calendarevent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reminder is an embedded notification request on a calendar event.
type Reminder struct {
	ID            string `bson:"id" json:"id"` // uuid
	OffsetMinutes int    `bson:"offset_minutes" json:"offset_minutes"` // before event start
	Channel       string `bson:"channel" json:"channel"`               // email | sms | in_app
}

// CalendarEvent is a scheduled occurrence (field visit, distribution,
// deadline, meeting).
type CalendarEvent struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Type     string             `bson:"type" json:"type"`         // visit | distribution | meeting | deadline
	Scope    string             `bson:"scope" json:"scope"`       // national | state | program
	Priority string             `bson:"priority" json:"priority"` // low | medium | high
	Location string             `bson:"location,omitempty" json:"location,omitempty"`

	StartsAt time.Time `bson:"starts_at" json:"starts_at"`
	EndsAt   time.Time `bson:"ends_at" json:"ends_at"`
	AllDay   bool      `bson:"all_day" json:"all_day"`

	Reminders []Reminder `bson:"reminders,omitempty" json:"reminders,omitempty"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
