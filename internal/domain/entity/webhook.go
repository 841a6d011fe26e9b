package entity

import "strings"

// WebhookNotification is the decoded body of a provider change notification.
// It is processed and discarded, never persisted.
type WebhookNotification struct {
	EventNotifications []WebhookEventGroup `json:"eventNotifications"`
}

type WebhookEventGroup struct {
	RealmID         string          `json:"realmId"`
	DataChangeEvent DataChangeEvent `json:"dataChangeEvent"`
}

type DataChangeEvent struct {
	Entities []ChangedEntity `json:"entities"`
}

type ChangedEntity struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	Operation   string `json:"operation"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

const EntityInvoice = "Invoice"

func (e ChangedEntity) IsInvoice() bool {
	return strings.EqualFold(e.Name, EntityInvoice)
}

// IsRemoval is true for operations after which the entity no longer exists upstream
func (e ChangedEntity) IsRemoval() bool {
	return strings.EqualFold(e.Operation, "Delete") || strings.EqualFold(e.Operation, "Void")
}
