package synth

import "errors"

var (
	// ErrUnknownScenario is returned for a scenario name the generator does not know.
	ErrUnknownScenario = errors.New("unknown scenario")
	// ErrInvalidConfig is returned when the generation config is unusable.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrVerification is returned when the analyzer disagrees with the scenario.
	ErrVerification = errors.New("verification failed")
)
