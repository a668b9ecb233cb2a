package preproc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rgould/textgate/internal/defines"
)

func TestErrorMessageIncludesLine(t *testing.T) {
	err := newUnknownDirectiveError(7, "FROBNICATE x")
	assert.Equal(t, `line 7: unknown directive "FROBNICATE x"`, err.Error())

	err = newUnexpectedContinuationError(3)
	assert.Equal(t, "line 3: unexpected conditional block continuation", err.Error())
}

func TestUnterminatedBlockMessageListsOpenLines(t *testing.T) {
	err := newUnterminatedBlockError(20, []int{4, 11})
	assert.Equal(t, "blocks still open at end of input (opened at line 4, 11)", err.Error())
}

func TestUndefinedNameErrorUnwraps(t *testing.T) {
	lookup := &defines.NotDefinedError{Name: "ghost"}
	err := newUndefinedNameError(5, lookup)

	assert.Contains(t, err.Error(), "line 5")
	assert.Contains(t, err.Error(), "ghost")

	var notDefined *defines.NotDefinedError
	assert.True(t, errors.As(err, &notDefined))
}

func TestIsStructureError(t *testing.T) {
	assert.True(t, IsStructureError(newUnexpectedContinuationError(1)))
	assert.True(t, IsStructureError(fmt.Errorf("outer: %w", newUnknownDirectiveError(2, "X"))))
	assert.False(t, IsStructureError(errors.New("plain")))
	assert.False(t, IsStructureError(nil))
}
