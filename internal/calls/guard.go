package calls

import (
	"fmt"
	"strings"

	"jessica-sub/internal/common/config"
)

// Guard decides which number an outbound call actually dials. In TEST mode
// every destination is replaced by the safe test number.
type Guard struct {
	mode       string
	safeNumber string
}

func NewGuard(mode, safeNumber string) *Guard {
	mode = strings.ToUpper(strings.TrimSpace(mode))
	if mode == "" {
		mode = config.CallModeTest
	}
	return &Guard{
		mode:       mode,
		safeNumber: strings.TrimSpace(safeNumber),
	}
}

func (g *Guard) Mode() string {
	return g.mode
}

func (g *Guard) IsLive() bool {
	return g.mode == config.CallModeLive
}

// Destination returns the number to dial for requested. Anything other than
// LIVE is treated as TEST, so an unknown mode never reaches a real customer.
func (g *Guard) Destination(requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if g.IsLive() {
		if requested == "" {
			return "", fmt.Errorf("customer number is required in %s mode", config.CallModeLive)
		}
		return requested, nil
	}
	if g.safeNumber == "" {
		return "", fmt.Errorf("safe test number is not configured")
	}
	return g.safeNumber, nil
}
