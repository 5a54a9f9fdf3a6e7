package mutation_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silicon.com/app/internal/mutation"
)

func TestExecuteSuccess(t *testing.T) {
	w := mutation.New(func(_ context.Context, in string) (int, error) {
		return len(in), nil
	})
	assert.Equal(t, mutation.Idle, w.State())

	var got []int
	failures := 0
	out, err := w.Execute(context.Background(), "abcd",
		func(n int) { got = append(got, n) },
		func(error) { failures++ },
	)
	require.NoError(t, err)
	assert.Equal(t, 4, out)
	assert.Equal(t, []int{4}, got)
	assert.Zero(t, failures)
	assert.Equal(t, mutation.Success, w.State())
	assert.Equal(t, 4, w.Result())
	assert.NoError(t, w.Err())
}

func TestExecuteFailure(t *testing.T) {
	boom := errors.New("boom")
	w := mutation.New(func(context.Context, string) (int, error) { return 0, boom })

	successes := 0
	var gotErr []error
	_, err := w.Execute(context.Background(), "x",
		func(int) { successes++ },
		func(e error) { gotErr = append(gotErr, e) },
	)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, successes)
	require.Len(t, gotErr, 1)
	assert.ErrorIs(t, gotErr[0], boom)
	assert.Equal(t, mutation.Failed, w.State())
	assert.ErrorIs(t, w.Err(), boom)
}

func TestPendingWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	w := mutation.New(func(context.Context, int) (int, error) {
		close(started)
		<-release
		return 1, nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = w.Execute(context.Background(), 0, nil, nil)
	}()

	<-started
	assert.True(t, w.Pending())
	close(release)
	<-done
	assert.Equal(t, mutation.Success, w.State())
}

func TestConcurrentExecuteNotDeduplicated(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	w := mutation.New(func(context.Context, int) (int, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return 0, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.Execute(context.Background(), 0, nil, nil)
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, calls)
	assert.Equal(t, mutation.Success, w.State())
}

func TestStaleCallDoesNotOverwriteLatest(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	first := true
	w := mutation.New(func(_ context.Context, in int) (int, error) {
		if in == 1 && first {
			first = false
			close(started)
			<-release
			return 0, errors.New("slow failure")
		}
		return in, nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = w.Execute(context.Background(), 1, nil, nil)
	}()
	<-started

	_, err := w.Execute(context.Background(), 2, nil, nil)
	require.NoError(t, err)
	close(release)
	<-done

	assert.Equal(t, mutation.Success, w.State())
	assert.Equal(t, 2, w.Result())
}

func TestReset(t *testing.T) {
	w := mutation.New(func(context.Context, int) (int, error) { return 0, errors.New("x") })
	_, _ = w.Execute(context.Background(), 0, nil, nil)
	require.Equal(t, mutation.Failed, w.State())
	w.Reset()
	assert.Equal(t, mutation.Idle, w.State())
	assert.NoError(t, w.Err())
}
