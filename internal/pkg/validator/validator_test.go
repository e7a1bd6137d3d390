package validator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type reading struct {
	Value    float64  `validate:"finite"`
	Optional *float64 `validate:"omitempty,finite"`
}

func TestValidate_Finite(t *testing.T) {
	nan := math.NaN()
	ok := 1.5

	assert.NoError(t, Validate(reading{Value: 3}))
	assert.NoError(t, Validate(reading{Value: 3, Optional: &ok}))
	assert.Error(t, Validate(reading{Value: math.Inf(-1)}))
	assert.Error(t, Validate(reading{Value: 3, Optional: &nan}))
}
