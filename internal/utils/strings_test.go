package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimAll(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b c"}, TrimAll([]string{" a ", "   ", "b c\t"}))
	assert.Nil(t, TrimAll(nil))
}
