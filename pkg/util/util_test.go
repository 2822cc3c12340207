package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInPlaceFilter(t *testing.T) {
	values := []int{1, 2, 3, 4, 5}

	dropped := InPlaceFilter(&values, func(v int) bool { return v%2 == 1 })

	assert.Equal(t, []int{1, 3, 5}, values)
	assert.Equal(t, 2, dropped)
}

func TestInPlaceFilterEmpty(t *testing.T) {
	var values []string

	assert.Zero(t, InPlaceFilter(&values, func(string) bool { return true }))
	assert.Empty(t, values)
}

func TestGetEnvironmentVariables(t *testing.T) {
	t.Setenv("TARTARE_TEST_VALUE", "a=b")
	t.Setenv("OTHER_TEST_VALUE", "x")

	env := GetEnvironmentVariables("TARTARE_")

	assert.Equal(t, "a=b", env["TARTARE_TEST_VALUE"])
	assert.NotContains(t, env, "OTHER_TEST_VALUE")
}
