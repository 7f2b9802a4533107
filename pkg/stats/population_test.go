package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticPopulation(t *testing.T) {
	pop := StaticPopulation{"CAN": 38_000_000, "ZZZ": 0}
	ctx := context.Background()

	p, err := pop.Population(ctx, "can")
	require.NoError(t, err)
	assert.Equal(t, 38_000_000.0, p)

	for _, code := range []string{"ZZZ", "XXX", ""} {
		_, err := pop.Population(ctx, code)
		assert.ErrorIs(t, err, ErrUnresolvedPopulation, code)

		var unresolved *UnresolvedPopulationError
		assert.True(t, errors.As(err, &unresolved))
	}
}

func TestLoadPopulation(t *testing.T) {
	f := csvFile([]byte(`name,iso_code,population
Canada,CAN,"38,005,238"
Japan,jpn,125836021
Nowhere,,12
Unknown,UNK,
`))

	table, err := LoadPopulation(f)
	require.NoError(t, err)
	assert.Equal(t, StaticPopulation{"CAN": 38005238, "JPN": 125836021}, table)

	_, err = LoadPopulation(csvFile([]byte("code,count\nCAN,1\n")))
	assert.Error(t, err)
}

type slowResolver struct {
	delay time.Duration
}

func (s slowResolver) Population(ctx context.Context, code string) (float64, error) {
	select {
	case <-time.After(s.delay):
		return 42, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func TestTimeoutResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("slow lookup is unresolved", func(t *testing.T) {
		r := TimeoutResolver{Resolver: slowResolver{delay: time.Second}, Timeout: 10 * time.Millisecond}
		_, err := r.Population(ctx, "CAN")
		assert.ErrorIs(t, err, ErrUnresolvedPopulation)
	})

	t.Run("fast lookup passes through", func(t *testing.T) {
		r := TimeoutResolver{Resolver: slowResolver{}, Timeout: time.Second}
		p, err := r.Population(ctx, "CAN")
		require.NoError(t, err)
		assert.Equal(t, 42.0, p)
	})

	t.Run("caller cancellation propagates", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		r := TimeoutResolver{Resolver: slowResolver{delay: time.Second}, Timeout: time.Second}
		_, err := r.Population(cctx, "CAN")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestResolvePopulations(t *testing.T) {
	pop := StaticPopulation{"CAN": 10, "JPN": 20}

	out, err := ResolvePopulations(context.Background(), pop, []string{"JPN", "", "XXX", "CAN"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 0, 0, 10}, out)

	r := TimeoutResolver{Resolver: slowResolver{delay: time.Second}, Timeout: 5 * time.Millisecond}
	out, err = ResolvePopulations(context.Background(), r, []string{"CAN", "JPN"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, out)
}
