package preferences

import (
	"errors"
	"testing"

	"tomato/internal/core/model"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormSubmitsRawText(t *testing.T) {
	test.NewTempApp(t)

	var gotWork, gotBreak string
	form := NewForm(model.DefaultSessionConfig(), func(workText, breakText string) error {
		gotWork, gotBreak = workText, breakText
		return nil
	}, func(error) {
		t.Fatal("unexpected error callback")
	})

	workText, breakText := form.Values()
	assert.Equal(t, "40", workText)
	assert.Equal(t, "10", breakText)

	form.workEntry.SetText("25")
	test.Tap(form.update)
	assert.Equal(t, "25", gotWork)
	assert.Equal(t, "10", gotBreak)
}

func TestFormReportsRejection(t *testing.T) {
	test.NewTempApp(t)

	rejection := errors.New("nope")
	var reported error
	form := NewForm(model.DefaultSessionConfig(), func(string, string) error {
		return rejection
	}, func(err error) {
		reported = err
	})

	form.Submit()
	require.Error(t, reported)
	assert.Equal(t, rejection, reported)

	form.SetConfig(model.SessionConfig{WorkMinutes: 25, BreakMinutes: 5})
	workText, breakText := form.Values()
	assert.Equal(t, "25", workText)
	assert.Equal(t, "5", breakText)
}
