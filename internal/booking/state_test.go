package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		apply   func(State) (State, error)
		want    State
		wantErr error
	}{
		{"confirm requested", Requested{}, Confirm, Confirmed{}, nil},
		{"confirm confirmed", Confirmed{}, Confirm, nil, ErrNotRequested},
		{"confirm cancelled", Cancelled{By: ActorPlayer}, Confirm, nil, ErrAlreadyCancelled},
		{"confirm refused", Refused{}, Confirm, nil, ErrNotRequested},
		{"refuse requested", Requested{}, Refuse, Refused{}, nil},
		{"refuse confirmed", Confirmed{}, Refuse, nil, ErrNotRequested},
		{"refuse cancelled", Cancelled{By: ActorOwner}, Refuse, nil, ErrAlreadyCancelled},
		{"cancel requested", Requested{}, func(s State) (State, error) { return Cancel(s, ActorPlayer) }, Cancelled{By: ActorPlayer}, nil},
		{"cancel confirmed", Confirmed{}, func(s State) (State, error) { return Cancel(s, ActorOwner) }, Cancelled{By: ActorOwner}, nil},
		{"cancel cancelled", Cancelled{By: ActorPlayer}, func(s State) (State, error) { return Cancel(s, ActorPlayer) }, nil, ErrAlreadyCancelled},
		{"cancel refused", Refused{}, func(s State) (State, error) { return Cancel(s, ActorPlayer) }, nil, ErrRefused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.apply(tt.from)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCancelRejectsUnknownActor(t *testing.T) {
	_, err := Cancel(Requested{}, Actor("admin"))
	assert.ErrorIs(t, err, ErrUnknownActor)
}

func TestDecodeEncode(t *testing.T) {
	by := "sistema"
	s, err := Decode("cancelado", &by)
	require.NoError(t, err)
	assert.Equal(t, Cancelled{By: ActorSystem}, s)

	status, actor := Encode(s)
	assert.Equal(t, "cancelado", status)
	require.NotNil(t, actor)
	assert.Equal(t, "sistema", *actor)

	status, actor = Encode(Confirmed{})
	assert.Equal(t, "confirmado", status)
	assert.Nil(t, actor)

	_, err = Decode("cancelado", nil)
	assert.Error(t, err)

	_, err = Decode("pendente", nil)
	assert.Error(t, err)
}

func TestIsActive(t *testing.T) {
	assert.True(t, IsActive(Requested{}))
	assert.True(t, IsActive(Confirmed{}))
	assert.False(t, IsActive(Cancelled{By: ActorOwner}))
	assert.False(t, IsActive(Refused{}))

	assert.True(t, StatusRequested.Active())
	assert.True(t, StatusConfirmed.Active())
	assert.False(t, StatusCancelled.Active())
	assert.False(t, Status("pendente").Active())
}
