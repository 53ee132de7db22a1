package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryStartsEmpty(t *testing.T) {
	r := New()

	assert.Empty(t, r.Files())
	assert.NotNil(t, r.Files())
	assert.Equal(t, uint64(0), r.Version())
	assert.True(t, r.UpdatedAt().IsZero())
}

func TestRegistryReplace(t *testing.T) {
	r := New()

	v1 := r.Replace([]string{"a.txt", "b.txt"})
	assert.Equal(t, uint64(1), v1)
	assert.Equal(t, []string{"a.txt", "b.txt"}, r.Files())
	assert.True(t, r.Contains("b.txt"))

	v2 := r.Replace([]string{"c.txt"})
	assert.Equal(t, uint64(2), v2)
	assert.Equal(t, []string{"c.txt"}, r.Files())
	assert.False(t, r.Contains("a.txt"))
	assert.Equal(t, 1, r.Len())

	r.Replace(nil)
	assert.Equal(t, []string{}, r.Files())
}

func TestRegistryCopiesInput(t *testing.T) {
	r := New()
	input := []string{"a.txt"}
	r.Replace(input)

	input[0] = "mutated"
	assert.Equal(t, []string{"a.txt"}, r.Files())

	out := r.Files()
	out[0] = "mutated"
	assert.Equal(t, []string{"a.txt"}, r.Files())
}
