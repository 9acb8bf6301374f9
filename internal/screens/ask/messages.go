package ask

import (
	"time"

	"github.com/grecsai/grecs/internal/tutor"
)

// answeredMsg carries the outcome of a submitted request.
type answeredMsg struct {
	Outcome tutor.Outcome
}

// spinnerTickMsg animates the loading indicator.
type spinnerTickMsg time.Time
