package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/helmcode/hotel-audit/pkg/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var gurgaon = &model.LocationHint{Latitude: 28.4595, Longitude: 77.0266}

func TestResolveStatic(t *testing.T) {
	assert.Equal(t, gurgaon, Resolve(context.Background(), Static{Hint: gurgaon}, time.Second))
	assert.Nil(t, Resolve(context.Background(), Static{}, time.Second))
	assert.Nil(t, Resolve(context.Background(), nil, time.Second))
}

func TestResolveError(t *testing.T) {
	l := Func(func(context.Context) (*model.LocationHint, error) {
		return gurgaon, errors.New("permission denied")
	})
	assert.Nil(t, Resolve(context.Background(), l, time.Second))
}

func TestResolveRejectsOutOfRange(t *testing.T) {
	l := Static{Hint: &model.LocationHint{Latitude: 120, Longitude: 0}}
	assert.Nil(t, Resolve(context.Background(), l, time.Second))
}

func TestResolveTimeout(t *testing.T) {
	l := Func(func(ctx context.Context) (*model.LocationHint, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	start := time.Now()
	got := Resolve(context.Background(), l, 30*time.Millisecond)

	assert.Nil(t, got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestResolveLateAnswerDoesNotLeak(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})
	l := Func(func(ctx context.Context) (*model.LocationHint, error) {
		defer close(finished)
		<-release
		return gurgaon, nil
	})

	assert.Nil(t, Resolve(context.Background(), l, 10*time.Millisecond))

	close(release)
	<-finished
}
