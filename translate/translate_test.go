package translate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	Set("en-US")
	defer Set()

	assert.Equal("plain", From("plain"))
	assert.Equal("R3 8", From("R%d %d", 3, 8))
	assert.Equal("0x0004", From("0x%04x", 4))
	assert.Equal("line 2 'frob' instruction invalid", From("line %d '%v' %v", 2, "frob", "instruction invalid"))
}

func TestSet(t *testing.T) {
	assert := assert.New(t)

	defer Set()

	Set("zz-ZZ")
	assert.Equal("plain", From("plain"))

	Set()
	assert.NotNil(printer)
}

func TestError(t *testing.T) {
	assert := assert.New(t)

	defer Set()

	errBounds := Error("bounds exceeded")

	assert.NoError(message.SetString(language.AmericanEnglish, "bounds exceeded", "bounds exceeded"))
	assert.NoError(message.SetString(language.MustParse("eo"), "bounds exceeded", "ekster limoj"))

	// The text follows the printer selected after the error was created.
	Set("en-US")
	assert.Equal("bounds exceeded", errBounds.Error())

	Set("eo")
	assert.Equal("ekster limoj", errBounds.Error())

	wrapped := errors.Join(errors.New("context"), errBounds)
	assert.ErrorIs(wrapped, errBounds)
	assert.NotErrorIs(wrapped, Error("other"))
}
