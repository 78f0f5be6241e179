package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMapOmitsEmptyFields(t *testing.T) {
	m := ToMap(EmailData{Name: "Acme", Email: "ops@acme.test"})

	assert.Equal(t, "Acme", m["Name"])
	assert.Equal(t, "ops@acme.test", m["Email"])

	// absent keys let the worker inject its own defaults
	_, ok := m["AppName"]
	assert.False(t, ok)
	_, ok = m["Reason"]
	assert.False(t, ok)
}

func TestRenderAccountSuspended(t *testing.T) {
	data := ToMap(EmailData{Name: "Acme", AppName: "CareerBridge", Reason: "spam postings"})

	subject, text, html, err := Render(AccountSuspended, data)
	require.NoError(t, err)

	assert.Contains(t, subject, "CareerBridge")
	assert.Contains(t, text, "Acme")
	assert.NotEmpty(t, html)
}
