package match

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreExact(t *testing.T) {
	assert.Equal(t, uint32(Exact), Score("name", "name"))
}

func TestScoreExactPrefix(t *testing.T) {
	assert.Equal(t, uint32(ExactPrefix), Score("Name", "name"))
}

func TestScorePartial(t *testing.T) {
	assert.Equal(t, uint32(2), Score("na", "name"))
}

func TestScoreDashUnderscoreFold(t *testing.T) {
	assert.Equal(t, uint32(ExactPrefix), Score("foo-bar", "foo_bar"))
}

func TestScoreNoMatch(t *testing.T) {
	assert.Equal(t, uint32(0), Score("zz", "name"))
}

func TestBestUniquePrefix(t *testing.T) {
	idx, err := Best("na", []string{"name", "number"})
	assert.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestBestExactWinsOverPrefix(t *testing.T) {
	idx, err := Best("name", []string{"name", "name2"})
	assert.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestBestAmbiguous(t *testing.T) {
	_, err := Best("n", []string{"name", "number"})
	assert.True(t, errors.Is(err, ErrAmbiguous))
}

func TestBestNoMatch(t *testing.T) {
	_, err := Best("zz", []string{"name", "number"})
	assert.True(t, errors.Is(err, ErrNoMatch))
}
