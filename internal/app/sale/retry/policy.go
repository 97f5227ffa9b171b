package retry

import (
	"fmt"
	"math"
	"time"
)

const maxDuration = time.Duration(math.MaxInt64)

// Policy bounds purchase polling. Attempts are 1-indexed: the wait after
// attempt n is BaseDelay * BackoffMultiplier^(n-1), so the first wait
// equals BaseDelay.
type Policy struct {
	MaxAttempts       int           `validate:"min=1"`
	BaseDelay         time.Duration `validate:"min=0"`
	BackoffMultiplier float64       `validate:"gte=1"`
	// MaxDelay caps a single wait when > 0.
	MaxDelay time.Duration `validate:"min=0"`
	// MaxElapsed caps the total wait when > 0. A wait that would cross it
	// is not started; the scheduler gives up instead.
	MaxElapsed time.Duration `validate:"min=0"`
	// PurchaseFallback asks the ERP once after the attempts run out.
	PurchaseFallback bool
}

// DefaultPolicy returns the production polling policy: 30s, 60s, 90s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:       4,
		BaseDelay:         30 * time.Second,
		BackoffMultiplier: 2,
		MaxDelay:          90 * time.Second,
	}
}

// Delay returns the wait that follows the given attempt.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 || p.BaseDelay <= 0 {
		return 0
	}

	delay := maxDuration
	if d := float64(p.BaseDelay) * math.Pow(p.BackoffMultiplier, float64(attempt-1)); d < float64(math.MaxInt64) {
		delay = time.Duration(d)
	}

	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// WorstCaseWait is the longest total a scheduler can wait under this policy.
func (p Policy) WorstCaseWait() time.Duration {
	var total time.Duration
	for attempt := 1; attempt < p.MaxAttempts; attempt++ {
		d := p.Delay(attempt)
		if total > maxDuration-d {
			total = maxDuration
			break
		}
		total += d
	}
	if p.MaxElapsed > 0 && total > p.MaxElapsed {
		return p.MaxElapsed
	}
	return total
}

// FitsBudget checks that the worst-case wait leaves room inside budget.
func (p Policy) FitsBudget(budget time.Duration) error {
	if budget <= 0 {
		return nil
	}
	if worst := p.WorstCaseWait(); worst >= budget {
		return fmt.Errorf("retry policy may wait %s, which does not fit the %s invocation budget", worst, budget)
	}
	return nil
}
