package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStatusEmail(t *testing.T) {
	body, err := RenderStatusEmail("Dana", "Your submission has been reviewed.", "AI Challenge", "fix the docs")
	require.NoError(t, err)

	assert.Contains(t, body, "Hello Dana,")
	assert.Contains(t, body, "Your submission has been reviewed.")
	assert.Contains(t, body, "<b>AI Challenge</b>")
	assert.Contains(t, body, "Reviewer remarks: fix the docs")
}

func TestRenderStatusEmailWithoutRemarks(t *testing.T) {
	body, err := RenderStatusEmail("Dana", "Welcome.", "AI Challenge", "")
	require.NoError(t, err)
	assert.NotContains(t, body, "Reviewer remarks")
}

func TestRenderStatusEmailEscapesHTML(t *testing.T) {
	body, err := RenderStatusEmail("<script>alert(1)</script>", "hi", "AI Challenge", "")
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}
