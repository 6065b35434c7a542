package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		DatabaseURL:    "postgres://localhost/agentdesk",
		JWTSecret:      "secret",
		AccessTokenTTL: DefaultAccessTokenExpireMinutes * time.Minute,
	}
	assert.NoError(t, valid.Validate())

	noDB := valid
	noDB.DatabaseURL = ""
	assert.Error(t, noDB.Validate())

	noSecret := valid
	noSecret.JWTSecret = ""
	assert.Error(t, noSecret.Validate())

	noTTL := valid
	noTTL.AccessTokenTTL = 0
	assert.Error(t, noTTL.Validate())
}
