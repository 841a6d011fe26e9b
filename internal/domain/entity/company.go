package entity

import "github.com/google/uuid"

// Company is the read-only view of a local company used for customer mapping
type Company struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	ExternalCustomerID *string   `json:"external_customer_id,omitempty"`
}

// CustomerIndex maps external customer ids to local company ids
type CustomerIndex map[string]uuid.UUID

// NewCustomerIndex skips companies without an external customer id
func NewCustomerIndex(companies []*Company) CustomerIndex {
	index := make(CustomerIndex, len(companies))
	for _, c := range companies {
		if c.ExternalCustomerID == nil || *c.ExternalCustomerID == "" {
			continue
		}
		index[*c.ExternalCustomerID] = c.ID
	}
	return index
}

func (i CustomerIndex) Lookup(externalCustomerID string) (uuid.UUID, bool) {
	id, ok := i[externalCustomerID]
	return id, ok
}
