package errs

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	err := errors.E(ParseError, "fasta.go", "line 12")
	assert.True(t, Is(err, ParseError))
	assert.False(t, Is(err, IOError))
}

func TestKindsAreDistinct(t *testing.T) {
	kinds := []Kind{IOError, ParseError, EmptyReference, BadMagic, UnsupportedVersion}
	for i, a := range kinds {
		for j, b := range kinds {
			if i == j {
				continue
			}
			assert.NotEqual(t, a, b)
		}
	}
}

func TestKindErrorReturnsName(t *testing.T) {
	assert.Equal(t, "parse-error", ParseError.Error())
}
