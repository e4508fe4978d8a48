package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hoangit2k2/lovepink/internal/utils"
)

func TestDeriveAvatarFilename(t *testing.T) {
	first := utils.DeriveAvatarFilename("alice", "Photo.JPG")

	// Deterministic for the same inputs, lowercased extension.
	require.Equal(t, first, utils.DeriveAvatarFilename("alice", "Photo.JPG"))
	require.Regexp(t, `^\d+\.jpg$`, first)

	// A different owner or source name maps to a different stored name.
	require.NotEqual(t, first, utils.DeriveAvatarFilename("bob", "Photo.JPG"))
	require.NotEqual(t, first, utils.DeriveAvatarFilename("alice", "Other.JPG"))
}

func TestDeriveAvatarFilename_NoExtension(t *testing.T) {
	require.Regexp(t, `^\d+$`, utils.DeriveAvatarFilename("alice", "avatar"))
}
