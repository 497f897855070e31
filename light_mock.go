package opt4001

import (
	"context"
)

// LightBehaviorFunc defines the function signature for light sensor
// behavior. It returns the illuminance in lux or an error.
type LightBehaviorFunc func(ctx context.Context) (float64, error)

// MockLightSensor is a mock light sensor driven by a behavior function, for
// hosts that want to exercise their measurement pipeline without hardware.
type MockLightSensor struct {
	behavior LightBehaviorFunc
}

// NewMockLightSensor creates a new mock light sensor with the given
// behavior function. The behavior function is called whenever Lux is
// invoked.
//
// Example usage:
//
//	// Static value
//	sensor := NewMockLightSensor(func(ctx context.Context) (float64, error) {
//		return 500, nil
//	})
//
//	// Error simulation
//	sensor := NewMockLightSensor(func(ctx context.Context) (float64, error) {
//		return 0, fmt.Errorf("sensor malfunction")
//	})
func NewMockLightSensor(behavior LightBehaviorFunc) *MockLightSensor {
	return &MockLightSensor{
		behavior: behavior,
	}
}

// Lux returns the lux value by calling the behavior function.
func (m *MockLightSensor) Lux(ctx context.Context) (float64, error) {
	return m.behavior(ctx)
}
