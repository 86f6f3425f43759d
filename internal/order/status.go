package order

import (
	"fmt"
	"strings"
)

const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusShipped    = "SHIPPED"
	StatusDelivered  = "DELIVERED"
	StatusCancelled  = "CANCELLED"
)

// transitions enumerates the legal moves. Forward only, plus CANCELLED from
// any non-terminal state. DELIVERED and CANCELLED are terminal.
var transitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func ParseStatus(raw string) (string, error) {
	status := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("%w: unknown order status %q", ErrValidation, raw)
	}
	return status, nil
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
