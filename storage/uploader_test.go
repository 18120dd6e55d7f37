package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionKey(t *testing.T) {
	assert.Equal(t, "submissions/app_42/phase_7.zip", SubmissionKey(42, 7, ".zip"))
	assert.Equal(t, "submissions/app_1/phase_2", SubmissionKey(1, 2, ""))
}

func TestCertificateAssetKey(t *testing.T) {
	assert.Equal(t, "certificates/hackathon_5/left-logo.png", CertificateAssetKey(5, "left-logo.png"))
}
