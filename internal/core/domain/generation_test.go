package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/offline/internal/core/domain"
)

func TestGeneration_Validate(t *testing.T) {
	tests := []struct {
		name    string
		gen     domain.Generation
		wantErr bool
	}{
		{"release", "impostor-game-v1.2.0", false},
		{"unicode", "impostor-juego-versión-2", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"dot", ".", true},
		{"dot dot", "..", true},
		{"slash", "impostor/v1", true},
		{"backslash", `impostor\v1`, true},
		{"control", "impostor\nv1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.gen.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorContains(t, err, domain.ErrInvalidGeneration.Error())
		})
	}
}

func TestParseInstallPolicy(t *testing.T) {
	policy, err := domain.ParseInstallPolicy("")
	require.NoError(t, err)
	assert.Equal(t, domain.InstallBestEffort, policy)

	policy, err = domain.ParseInstallPolicy("atomic")
	require.NoError(t, err)
	assert.Equal(t, domain.InstallAtomic, policy)

	_, err = domain.ParseInstallPolicy("all-or-nothing")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidInstallPolicy.Error())
}

func TestWorkerState_RoundTrip(t *testing.T) {
	for _, s := range []domain.WorkerState{
		domain.StateParsed,
		domain.StateInstalling,
		domain.StateInstalled,
		domain.StateActivating,
		domain.StateActivated,
		domain.StateRedundant,
	} {
		assert.Equal(t, s, domain.ParseWorkerState(s.String()))
	}
	assert.Equal(t, "unknown", domain.WorkerState(42).String())
	assert.Equal(t, domain.StateParsed, domain.ParseWorkerState("sleeping"))
}
