package preferences

import (
	"strconv"

	"tomato/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// UpdateFunc applies the raw text of the duration fields.
type UpdateFunc func(workText, breakText string) error

// Form is the inline duration editor shown under the timer.
type Form struct {
	workEntry  *widget.Entry
	breakEntry *widget.Entry
	update     *widget.Button
	onUpdate   UpdateFunc
	onError    func(error)
	content    fyne.CanvasObject
}

// NewForm builds the editor pre-filled from config.
func NewForm(config model.SessionConfig, onUpdate UpdateFunc, onError func(error)) *Form {
	workEntry := widget.NewEntry()
	breakEntry := widget.NewEntry()

	form := &Form{
		workEntry:  workEntry,
		breakEntry: breakEntry,
		onUpdate:   onUpdate,
		onError:    onError,
	}
	form.update = widget.NewButton("Update", form.Submit)
	form.SetConfig(config)

	form.content = container.NewHBox(
		widget.NewLabel("Work (min):"), sized(workEntry),
		widget.NewLabel("Break (min):"), sized(breakEntry),
		form.update,
	)
	return form
}

// Content returns the widget tree to embed.
func (form *Form) Content() fyne.CanvasObject {
	return form.content
}

// SetConfig replaces entry values.
func (form *Form) SetConfig(config model.SessionConfig) {
	form.workEntry.SetText(strconv.Itoa(config.WorkMinutes))
	form.breakEntry.SetText(strconv.Itoa(config.BreakMinutes))
}

// Values returns the raw entry text.
func (form *Form) Values() (string, string) {
	return form.workEntry.Text, form.breakEntry.Text
}

// Submit hands the entries to the update callback and reports a rejection.
func (form *Form) Submit() {
	if form.onUpdate == nil {
		return
	}
	workText, breakText := form.Values()
	if err := form.onUpdate(workText, breakText); err != nil && form.onError != nil {
		form.onError(err)
	}
}

func sized(entry *widget.Entry) fyne.CanvasObject {
	return container.NewGridWrap(fyne.NewSize(56, entry.MinSize().Height), entry)
}
