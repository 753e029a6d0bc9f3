package events

import (
	"context"
	"encoding/json"
	"time"
)

// RecipeQueue is the durable queue recipe events are published to.
const RecipeQueue = "recipe_events"

type EventType string

const (
	RecipeCreated EventType = "recipe.created"
	RecipeUpdated EventType = "recipe.updated"
	RecipeDeleted EventType = "recipe.deleted"
)

// RecipeEvent is published after a recipe write commits.
type RecipeEvent struct {
	Type       EventType `json:"type"`
	RecipeID   uint      `json:"recipeId"`
	OwnerID    uint      `json:"ownerId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewRecipeEvent stamps an event with the current UTC time.
func NewRecipeEvent(eventType EventType, recipeID, ownerID uint) RecipeEvent {
	return RecipeEvent{
		Type:       eventType,
		RecipeID:   recipeID,
		OwnerID:    ownerID,
		OccurredAt: time.Now().UTC(),
	}
}

// Encode returns the JSON wire form of the event.
func (e RecipeEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers recipe events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, event RecipeEvent) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, RecipeEvent) error {
	return nil
}
