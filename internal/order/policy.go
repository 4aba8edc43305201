// AngelaMos | 2026
// policy.go

package order

import (
	"fmt"
	"slices"

	"github.com/carterperez-dev/orderdesk/internal/config"
	"github.com/carterperez-dev/orderdesk/internal/core"
)

// TransitionPolicy decides whether an order may move between two statuses.
type TransitionPolicy interface {
	Allow(from, to Status) error
}

type allowAll struct{}

func (allowAll) Allow(_, _ Status) error { return nil }

// AllowAll permits every transition, including leaving Delivered and
// Cancelled.
var AllowAll TransitionPolicy = allowAll{}

// TransitionTable lists the permitted targets for each status. Staying in
// the same status is always allowed.
type TransitionTable map[Status][]Status

func (t TransitionTable) Allow(from, to Status) error {
	if from == to || slices.Contains(t[from], to) {
		return nil
	}
	return core.Invalidf("cannot move order from %q to %q", from, to)
}

// ForwardOnly is a strict table: each status may advance along the
// lifecycle, and anything not yet delivered may be cancelled.
var ForwardOnly = TransitionTable{
	StatusNew:         {StatusProcessing, StatusCancelled},
	StatusProcessing:  {StatusBillingDone, StatusCancelled},
	StatusBillingDone: {StatusDispatched, StatusCancelled},
	StatusDispatched:  {StatusDelivered, StatusCancelled},
}

// PolicyNamed resolves the orders.transition_policy setting. An empty name
// is AllowAll.
func PolicyNamed(name string) (TransitionPolicy, error) {
	switch name {
	case "", config.TransitionPolicyAllowAll:
		return AllowAll, nil
	case config.TransitionPolicyForwardOnly:
		return ForwardOnly, nil
	}
	return nil, fmt.Errorf("unknown transition policy %q", name)
}

func errUnknownStatus(s string) error {
	return core.Invalidf("unknown status %q", s)
}
