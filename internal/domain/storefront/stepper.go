// Package storefront holds the view-side state of the catalog pages: quantity steppers and purchase affordances.
package storefront

import "sync"

// Stepper bounds
const (
	MinStepperValue = 1
	MaxStepperValue = 9999
)

// Stepper holds one transient quantity per product key.
// Values are independent of the cart; a key never touched reads as MinStepperValue.
type Stepper struct {
	mu     sync.Mutex
	values map[string]int
}

// NewStepper creates an empty stepper set
func NewStepper() *Stepper {
	return &Stepper{values: make(map[string]int)}
}

// Value returns the current quantity for key
func (s *Stepper) Value(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valueLocked(key)
}

// Increment raises the quantity by one, never above MaxStepperValue
func (s *Stepper) Increment(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := clampStep(s.valueLocked(key) + 1)
	s.values[key] = v
	return v
}

// Decrement lowers the quantity by one, never below MinStepperValue
func (s *Stepper) Decrement(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := clampStep(s.valueLocked(key) - 1)
	s.values[key] = v
	return v
}

// Set stores an explicit quantity, clamped to the stepper bounds
func (s *Stepper) Set(key string, value int) int {
	value = clampStep(value)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return value
}

// Reset returns key to MinStepperValue
func (s *Stepper) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

func (s *Stepper) valueLocked(key string) int {
	if v, ok := s.values[key]; ok {
		return v
	}
	return MinStepperValue
}

func clampStep(v int) int {
	return min(max(v, MinStepperValue), MaxStepperValue)
}
