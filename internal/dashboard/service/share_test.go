package service

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShare(t *testing.T) {
	share := NewShare("https://moto.example.com/", "Caravana 2024")

	assert.Equal(t, "https://moto.example.com/inscripcion", share.FormURL)
	assert.Contains(t, share.Message, "Caravana 2024")
	assert.Contains(t, share.Message, share.FormURL)

	require.True(t, strings.HasPrefix(share.WhatsAppURL, "https://wa.me/?text="))
	decoded, err := url.QueryUnescape(strings.TrimPrefix(share.WhatsAppURL, "https://wa.me/?text="))
	require.NoError(t, err)
	assert.Equal(t, share.Message, decoded)
}
