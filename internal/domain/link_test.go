package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSharedLinkExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (&SharedLink{}).Expired(now), "no expiry means never expired")
	assert.False(t, (&SharedLink{ExpiresAt: &future}).Expired(now))
	assert.True(t, (&SharedLink{ExpiresAt: &past}).Expired(now))
}
