package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defWith(template string, variables ...string) *Definition {
	return &Definition{
		Task:        "clinical_summarization",
		Version:     Version{Major: 1},
		Status:      StatusActive,
		Template:    template,
		Variables:   variables,
		MaxTokens:   512,
		Temperature: 0.2,
		ContentHash: computeHash("", template),
	}
}

func TestRenderSubstitutesEveryPlaceholder(t *testing.T) {
	def := defWith("Summarize: {note_text}", "note_text")
	out, err := Render(def, map[string]string{"note_text": "BP 120/80"})
	require.NoError(t, err)
	assert.Equal(t, "Summarize: BP 120/80", out)
}

func TestRenderLeavesSurroundingTextUntouched(t *testing.T) {
	def := defWith("Patient {patient}: {note}. End of note for {patient}.", "patient", "note")
	out, err := Render(def, map[string]string{"patient": "A", "note": "stable"})
	require.NoError(t, err)
	assert.Equal(t, "Patient A: stable. End of note for A.", out)
}

func TestRenderMissingVariable(t *testing.T) {
	def := defWith("Summarize: {note_text}", "note_text")
	out, err := Render(def, map[string]string{})
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, []string{"note_text"}, re.Missing)
	assert.Empty(t, out)
}

func TestRenderUndeclaredPlaceholder(t *testing.T) {
	def := defWith("Summarize: {note_text} for {patient_name}", "note_text")
	_, err := Render(def, map[string]string{"note_text": "x", "patient_name": "y"})
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, []string{"patient_name"}, re.Undeclared)
}

func TestRenderIgnoresExtraVariables(t *testing.T) {
	def := defWith("Summarize: {note_text}", "note_text")
	out, err := Render(def, map[string]string{"note_text": "x", "unused": "y"})
	require.NoError(t, err)
	assert.Equal(t, "Summarize: x", out)
}

func TestRenderDoesNotReExpandSubstitutedValues(t *testing.T) {
	def := defWith("{a} {b}", "a", "b")
	out, err := Render(def, map[string]string{"a": "{b}", "b": "two"})
	require.NoError(t, err)
	assert.Equal(t, "{b} two", out)
}

func TestRenderNoEscaping(t *testing.T) {
	def := defWith("Summarize: {note_text}", "note_text")
	out, err := Render(def, map[string]string{"note_text": `<b>"quotes" & symbols</b>`})
	require.NoError(t, err)
	assert.Equal(t, `Summarize: <b>"quotes" & symbols</b>`, out)
}
