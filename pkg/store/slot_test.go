package store

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestSlotStates(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	var slot Slot[string]
	is.Equal(slot.Get().State, Idle)

	v := "ada"
	snap, err := slot.Refresh(ctx, func(context.Context) (*string, error) {
		is.Equal(slot.Get().State, Loading)
		return &v, nil
	})
	is.NoErr(err)
	is.Equal(snap.State, Ready)
	is.Equal(*snap.Value, "ada")
	is.True(snap.Settled())

	boom := errors.New("boom")
	snap, err = slot.Refresh(ctx, func(context.Context) (*string, error) {
		return nil, boom
	})
	is.Equal(err, boom)
	is.Equal(snap.State, Failed)
	is.Equal(snap.Err, boom)
	is.True(!snap.Absent())

	snap, err = slot.Refresh(ctx, func(context.Context) (*string, error) {
		return nil, nil
	})
	is.NoErr(err)
	is.True(snap.Absent())
	is.True(snap.Err == nil)
}

func TestSlotDiscardsStale(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	var slot Slot[int]

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	old, fresh := 1, 2
	go func() {
		_, err := slot.Refresh(ctx, func(context.Context) (*int, error) {
			close(started)
			<-release
			return &old, nil
		})
		done <- err
	}()

	<-started
	snap, err := slot.Refresh(ctx, func(context.Context) (*int, error) {
		return &fresh, nil
	})
	is.NoErr(err)
	is.Equal(*snap.Value, 2)

	close(release)
	is.True(errors.Is(<-done, ErrStale))
	is.Equal(*slot.Get().Value, 2)
	is.Equal(slot.Get().Seq, uint64(2))
}

func TestSlotResetInvalidatesInFlight(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	var slot Slot[int]

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan Snapshot[int], 1)
	fresh := 2
	go func() {
		snap, _ := slot.Refresh(ctx, func(context.Context) (*int, error) {
			close(started)
			<-release
			return &fresh, nil
		})
		done <- snap
	}()
	<-started

	slot.Reset()
	close(release)
	<-done
	is.Equal(slot.Get().State, Idle)
	is.True(slot.Get().Value == nil)
}

func TestSlotKeepsValueWhileLoading(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	var slot Slot[int]
	v := 7
	_, err := slot.Refresh(ctx, func(context.Context) (*int, error) { return &v, nil })
	is.NoErr(err)

	_, err = slot.Refresh(ctx, func(context.Context) (*int, error) {
		snap := slot.Get()
		is.Equal(snap.State, Loading)
		is.Equal(*snap.Value, 7)
		return nil, errors.New("offline")
	})
	is.True(err != nil)
	// The failed refresh keeps the last good value around.
	is.Equal(*slot.Get().Value, 7)
}

func TestStateString(t *testing.T) {
	is := is.New(t)
	is.Equal(Ready.String(), "ready")
	is.Equal(State(9).String(), "unknown")
}
