package host_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/offline/internal/core/ports/mocks"
	"go.trai.ch/offline/internal/engine/host"
	"go.uber.org/mock/gomock"
)

func newRegistration(t *testing.T, ctrl *gomock.Controller) *host.Registration {
	t.Helper()

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Span) { return ctx, span },
	).AnyTimes()

	return host.NewRegistration(logger, tracer)
}

// newWorker returns a worker mock whose Install and Activate behave like the
// real worker: install asks to skip waiting, activate claims.
func newWorker(ctrl *gomock.Controller, reg *host.Registration, gen domain.Generation, skip bool) *mocks.MockWorker {
	w := mocks.NewMockWorker(ctrl)
	w.EXPECT().Generation().Return(gen).AnyTimes()
	w.EXPECT().Install(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		if skip {
			return reg.SkipWaiting(ctx, gen)
		}
		return nil
	}).AnyTimes()
	w.EXPECT().Activate(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		return reg.Claim(ctx, gen)
	}).AnyTimes()
	w.EXPECT().Wait().AnyTimes()
	return w
}

func TestRegistration_FirstWorkerActivatesAndClaims(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := newRegistration(t, ctrl)
	w := newWorker(ctrl, reg, "v1", false)

	require.NoError(t, reg.Register(context.Background(), w))

	assert.Equal(t, ports.Worker(w), reg.Controller())
	status := reg.Status()
	require.NotNil(t, status.Active)
	assert.Equal(t, domain.Generation("v1"), status.Active.Generation)
	assert.Equal(t, domain.StateActivated, status.Active.State)
	assert.Nil(t, status.Waiting)
	assert.Nil(t, status.Installing)
	assert.True(t, status.Controlled)
}

func TestRegistration_FailedInstallKeepsPreviousWorker(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := newRegistration(t, ctrl)
	v1 := newWorker(ctrl, reg, "v1", true)
	require.NoError(t, reg.Register(context.Background(), v1))

	v2 := mocks.NewMockWorker(ctrl)
	v2.EXPECT().Generation().Return(domain.Generation("v2")).AnyTimes()
	v2.EXPECT().Install(gomock.Any()).Return(errors.New("asset unreachable"))
	v2.EXPECT().Activate(gomock.Any()).Times(0)
	v2.EXPECT().Wait().AnyTimes()

	err := reg.Register(context.Background(), v2)
	require.Error(t, err)
	assert.ErrorContains(t, err, "asset unreachable")

	assert.Equal(t, ports.Worker(v1), reg.Controller())
	status := reg.Status()
	assert.Equal(t, domain.Generation("v1"), status.Active.Generation)
	assert.Nil(t, status.Waiting)
	assert.Nil(t, status.Installing)
}

func TestRegistration_UpdateWaitsUntilSkipWaiting(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := newRegistration(t, ctrl)
	ctx := context.Background()

	v1 := newWorker(ctrl, reg, "v1", false)
	require.NoError(t, reg.Register(ctx, v1))

	v2 := newWorker(ctrl, reg, "v2", false)
	require.NoError(t, reg.Register(ctx, v2))

	status := reg.Status()
	assert.Equal(t, domain.Generation("v1"), status.Active.Generation)
	require.NotNil(t, status.Waiting)
	assert.Equal(t, domain.Generation("v2"), status.Waiting.Generation)
	assert.Equal(t, domain.StateInstalled, status.Waiting.State)
	assert.Equal(t, ports.Worker(v1), reg.Controller())

	require.NoError(t, reg.SkipWaiting(ctx, "v2"))

	assert.Equal(t, ports.Worker(v2), reg.Controller())
	assert.Nil(t, reg.Waiting())
	assert.Equal(t, domain.Generation("v2"), reg.Status().Active.Generation)
}

func TestRegistration_SkipWaitingDuringInstallActivatesImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := newRegistration(t, ctrl)
	ctx := context.Background()

	require.NoError(t, reg.Register(ctx, newWorker(ctrl, reg, "v1", true)))
	v2 := newWorker(ctrl, reg, "v2", true)
	require.NoError(t, reg.Register(ctx, v2))

	assert.Equal(t, ports.Worker(v2), reg.Controller())
	assert.Nil(t, reg.Status().Waiting)
}

func TestRegistration_SkipWaitingUnknownGeneration(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := newRegistration(t, ctrl)

	err := reg.SkipWaiting(context.Background(), "v9")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrWorkerRedundant.Error())
}

func TestRegistration_ClaimRequiresActiveGeneration(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := newRegistration(t, ctrl)
	require.NoError(t, reg.Register(context.Background(), newWorker(ctrl, reg, "v1", false)))

	err := reg.Claim(context.Background(), "v0")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNoActiveWorker.Error())
}

func TestRegistration_ActivateFailureLeavesGatewayUncontrolled(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := newRegistration(t, ctrl)

	w := mocks.NewMockWorker(ctrl)
	w.EXPECT().Generation().Return(domain.Generation("v1")).AnyTimes()
	w.EXPECT().Install(gomock.Any()).Return(nil)
	w.EXPECT().Activate(gomock.Any()).Return(errors.New("evict failed"))

	err := reg.Register(context.Background(), w)
	require.Error(t, err)
	assert.ErrorContains(t, err, "evict failed")

	assert.Nil(t, reg.Controller())
	status := reg.Status()
	assert.Equal(t, domain.StateActivated, status.Active.State)
	assert.False(t, status.Controlled)
}

func TestRegistration_MessageRouting(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := newRegistration(t, ctrl)
	ctx := context.Background()

	err := reg.Message(ctx, domain.Message{Type: domain.MessageGetVersion}, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNoActiveWorker.Error())

	v1 := newWorker(ctrl, reg, "v1", false)
	require.NoError(t, reg.Register(ctx, v1))
	v2 := newWorker(ctrl, reg, "v2", false)
	require.NoError(t, reg.Register(ctx, v2))

	version := domain.Message{Type: domain.MessageGetVersion}
	v1.EXPECT().Message(gomock.Any(), version, nil).Return(nil)
	require.NoError(t, reg.Message(ctx, version, nil))

	skip := domain.Message{Type: domain.MessageSkipWaiting}
	v2.EXPECT().Message(gomock.Any(), skip, nil).Return(nil)
	require.NoError(t, reg.Message(ctx, skip, nil))
}

func TestRegistration_PushAndClickGoToActiveWorker(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := newRegistration(t, ctrl)
	ctx := context.Background()

	require.ErrorContains(t, reg.Push(ctx, nil), domain.ErrNoActiveWorker.Error())

	w := newWorker(ctrl, reg, "v1", false)
	require.NoError(t, reg.Register(ctx, w))

	w.EXPECT().Push(gomock.Any(), []byte("hola")).Return(nil)
	require.NoError(t, reg.Push(ctx, []byte("hola")))

	click := domain.NotificationClick{Tag: "push-1", Action: domain.ActionExplore}
	w.EXPECT().NotificationClick(gomock.Any(), click).Return(nil)
	require.NoError(t, reg.NotificationClick(ctx, click))
}

func TestRegistration_WaitCoversRetiredWorkers(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := newRegistration(t, ctrl)
	ctx := context.Background()

	v1 := newWorker(ctrl, reg, "v1", true)
	v2 := newWorker(ctrl, reg, "v2", true)
	require.NoError(t, reg.Register(ctx, v1))
	require.NoError(t, reg.Register(ctx, v2))

	reg.Wait()
}
