package service

import (
	"fmt"

	"github.com/google/uuid"
)

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid order id %q: %w", id, err)
	}
	return uid, nil
}
