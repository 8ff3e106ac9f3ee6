package dbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%go%", ContainsPattern("go"))
	assert.Equal(t, "%%", ContainsPattern(""))
	assert.Equal(t, `%100\%%`, ContainsPattern("100%"))
	assert.Equal(t, `%a\_b%`, ContainsPattern("a_b"))
	assert.Equal(t, `%c:\\tmp%`, ContainsPattern(`c:\tmp`))
}
