package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	type priceFilter struct {
		MinPrice *string `json:"minPrice" binding:"omitempty,decimalstr"`
	}

	valid := "19.99"
	assert.NoError(t, v.Struct(priceFilter{MinPrice: &valid}))

	negative := "-1"
	assert.Error(t, v.Struct(priceFilter{MinPrice: &negative}))

	garbage := "abc"
	assert.Error(t, v.Struct(priceFilter{MinPrice: &garbage}))

	assert.NoError(t, v.Struct(priceFilter{}))
}
