package services

import (
	"testing"

	"github.com/Hariom00027/hackathon-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateURLsIndividual(t *testing.T) {
	app := &models.Application{ID: 42}

	urls := CertificateURLs(app, "https://results.example.com/cert")

	require.Len(t, urls, 1)
	assert.Equal(t, "https://results.example.com/cert?applicationId=42", urls["default"])
}

func TestCertificateURLsTeam(t *testing.T) {
	app := &models.Application{
		ID:     7,
		IsTeam: true,
		TeamMembers: []models.TeamMember{
			{Name: "Alice", Email: "alice@example.com"},
			{Name: "Bob", Email: "bob@example.com"},
			{Name: "No Email"},
		},
	}

	urls := CertificateURLs(app, "https://results.example.com/cert")

	require.Len(t, urls, 2, "members without email are skipped")
	assert.Equal(t, "https://results.example.com/cert?applicationId=7&email=alice%40example.com", urls["alice@example.com"])
	assert.Equal(t, "https://results.example.com/cert?applicationId=7&email=bob%40example.com", urls["bob@example.com"])
}

func TestCertificateURLsTeamWithoutMembersFallsBack(t *testing.T) {
	app := &models.Application{ID: 9, IsTeam: true}

	urls := CertificateURLs(app, "https://results.example.com/cert")

	require.Len(t, urls, 1)
	assert.Contains(t, urls, "default")
}

func TestCertificateURLsDeterministic(t *testing.T) {
	app := &models.Application{
		ID:          3,
		IsTeam:      true,
		TeamMembers: []models.TeamMember{{Name: "Alice", Email: "alice@example.com"}},
	}

	first := CertificateURLs(app, "https://results.example.com/cert")
	second := CertificateURLs(app, "https://results.example.com/cert")

	assert.Equal(t, first, second)
}
