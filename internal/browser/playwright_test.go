package browser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
)

func TestHasTextPattern(t *testing.T) {
	assert.Nil(t, hasTextPattern(CSS("li")))

	re := hasTextPattern(Selector{CSS: "li", HasText: []string{"Teletrabajo", "Híbrido", "(a.b)"}})
	assert.True(t, re.MatchString("Trabajo Híbrido"))
	assert.True(t, re.MatchString("x (a.b) y"))
	assert.False(t, re.MatchString("Presencial"))
	assert.False(t, re.MatchString("(axb)"), "alternatives are literal")
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	timeout := fmt.Errorf("locator.click: %w", playwright.ErrTimeout)
	assert.ErrorIs(t, classify(timeout), ErrTimeout)

	stale := errors.New("Element is not attached to the DOM")
	assert.ErrorIs(t, classify(stale), ErrStale)

	other := errors.New("target closed")
	assert.Equal(t, other, classify(other))
}

func TestLanguageOf(t *testing.T) {
	assert.Equal(t, "es", languageOf("es-ES"))
	assert.Equal(t, "en", languageOf("en"))
}
