package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionKeyOrderIndependent(t *testing.T) {
	a := OptionKey([]int64{3, 1, 2})
	b := OptionKey([]int64{2, 3, 1})

	assert.Equal(t, a, b)
	assert.Equal(t, "1,2,3", a)
}

func TestOptionKeyDeduplicates(t *testing.T) {
	assert.Equal(t, "4,7", OptionKey([]int64{7, 4, 7, 4}))
}

func TestOptionKeyEmpty(t *testing.T) {
	assert.Equal(t, "", OptionKey(nil))
	assert.Equal(t, "", OptionKey([]int64{}))
}

func TestOptionKeySingle(t *testing.T) {
	assert.Equal(t, "42", OptionKey([]int64{42}))
}
