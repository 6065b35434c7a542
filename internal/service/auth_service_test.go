package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/service"
)

func TestHashPassword(t *testing.T) {
	_, err := service.HashPassword("short")
	assert.ErrorIs(t, err, domain.ErrInvalidPasswordSpec)

	hash, err := service.HashPassword("long enough")
	require.NoError(t, err)
	assert.NotEqual(t, "long enough", hash)
}
