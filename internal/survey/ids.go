package survey

import "github.com/google/uuid"

// IDGenerator hands out identifiers for questions that have not been persisted yet.
type IDGenerator func() ID

func NewUUID() ID {
	return ID(uuid.New().String())
}
