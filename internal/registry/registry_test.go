package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/roster-cli/internal/model"
)

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Load(ctx context.Context) ([]model.RosterRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RosterRecord), args.Error(1)
}

func TestNewWithLoader(t *testing.T) {
	ml := new(mockLoader)
	ml.On("Load", mock.Anything).Return(wantRoster, nil).Once()

	r, err := NewWithLoader(context.Background(), "test", ml)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, wantRoster, r.Records())
	assert.False(t, r.LoadedAt().IsZero())
	assert.Equal(t, "test", r.Source())
	ml.AssertExpectations(t)
}

func TestNewWithLoader_FailureIsUnavailable(t *testing.T) {
	ml := new(mockLoader)
	ml.On("Load", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := NewWithLoader(context.Background(), "postgres://db/prc", ml)
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))

	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "postgres://db/prc", ue.Source)
	assert.EqualError(t, ue.Err, "connection refused")
}

func TestReload_SwapsSnapshot(t *testing.T) {
	ml := new(mockLoader)
	ml.On("Load", mock.Anything).Return(wantRoster[:1], nil).Once()
	ml.On("Load", mock.Anything).Return(wantRoster, nil).Once()

	r, err := NewWithLoader(context.Background(), "test", ml)
	require.NoError(t, err)
	before := r.Records()
	require.Len(t, before, 1)

	require.NoError(t, r.Reload(context.Background()))
	assert.Equal(t, 2, r.Len())
	// A previously taken snapshot is unaffected by the swap.
	assert.Len(t, before, 1)
	ml.AssertExpectations(t)
}

func TestReload_FailureKeepsSnapshot(t *testing.T) {
	ml := new(mockLoader)
	ml.On("Load", mock.Anything).Return(wantRoster, nil).Once()
	ml.On("Load", mock.Anything).Return(nil, errors.New("timeout")).Once()

	r, err := NewWithLoader(context.Background(), "test", ml)
	require.NoError(t, err)
	loadedAt := r.LoadedAt()

	err = r.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, loadedAt, r.LoadedAt())
}

func TestReload_NilRosterBecomesEmpty(t *testing.T) {
	r, err := NewWithLoader(context.Background(), "empty", LoaderFunc(func(context.Context) ([]model.RosterRecord, error) {
		return nil, nil
	}))
	require.NoError(t, err)
	assert.NotNil(t, r.Records())
	assert.Equal(t, 0, r.Len())
}

func TestUnavailableError(t *testing.T) {
	inner := errors.New("no such file")
	err := &UnavailableError{Source: "data/roster.json", Err: inner}
	assert.Equal(t, "registry: roster unavailable from data/roster.json: no such file", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.False(t, IsUnavailable(inner))
	assert.Nil(t, unavailable("x", nil))
	// Already-typed errors are not wrapped twice.
	assert.Same(t, err, unavailable("other", err).(*UnavailableError))
}
