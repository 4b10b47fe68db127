package leitner

import (
	"fmt"

	"github.com/phrazzld/leitner/internal/domain"
)

// Params defines the configurable parameters of the transition engine.
// A Wrong answer always resets a card to bucket 0; the other difficulties
// move it forward by their step.
type Params struct {
	HardStep int
	EasyStep int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	HardStep int
	EasyStep int
}

// NewDefaultParams creates a new Params instance with default values:
// Hard moves a card up one bucket and Easy moves it up two.
func NewDefaultParams() *Params {
	return &Params{
		HardStep: 1,
		EasyStep: 2,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if config.HardStep != 0 {
		params.HardStep = config.HardStep
	}
	if config.EasyStep != 0 {
		params.EasyStep = config.EasyStep
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Validate checks that the steps keep the Wrong < Hard < Easy ordering
// meaningful: Easy never moves a card less far than Hard.
func (p *Params) Validate() error {
	if p.HardStep > p.EasyStep {
		return fmt.Errorf("%w: hard step %d exceeds easy step %d",
			ErrInvalidParams, p.HardStep, p.EasyStep)
	}
	return nil
}

// step returns the bucket delta for a non-Wrong difficulty.
func (p *Params) step(d domain.Difficulty) int {
	if d == domain.Easy {
		return p.EasyStep
	}
	return p.HardStep
}
