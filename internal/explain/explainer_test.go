package explain

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexandreBonaventure/nodehoist/internal/hoist"
	"github.com/AlexandreBonaventure/nodehoist/pkg/graph"
)

func TestExplainAllNarratesEveryRejection(t *testing.T) {
	e := NewExplainer(2)
	e.narrate = func(ctx context.Context, packageName, diagnostic string) (string, error) {
		return "because " + diagnostic, nil
	}

	rejections := []hoist.Rejection{
		{Package: graph.PackageName("A"), Diagnostic: "popularity loss"},
		{Package: graph.PackageName("B"), Diagnostic: "peer unresolved"},
	}

	out, err := e.ExplainAll(context.Background(), rejections)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Package)
	assert.Equal(t, "because popularity loss", out[0].Explanation)
	assert.Equal(t, "B", out[1].Package)
	assert.Equal(t, "because peer unresolved", out[1].Explanation)
}

func TestExplainAllReturnsEmptyForNoRejections(t *testing.T) {
	e := NewExplainer(2)
	e.narrate = func(ctx context.Context, packageName, diagnostic string) (string, error) {
		t.Fatal("narrate should not be called with no rejections")
		return "", nil
	}

	out, err := e.ExplainAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestExplainAllPropagatesFirstError(t *testing.T) {
	e := NewExplainer(3)
	boom := errors.New("boom")
	e.narrate = func(ctx context.Context, packageName, diagnostic string) (string, error) {
		if packageName == "FAIL" {
			return "", boom
		}
		return "ok", nil
	}

	rejections := []hoist.Rejection{
		{Package: graph.PackageName("OK"), Diagnostic: "x"},
		{Package: graph.PackageName("FAIL"), Diagnostic: "y"},
	}

	_, err := e.ExplainAll(context.Background(), rejections)
	require.Error(t, err)
}

func TestExplainAllRespectsConcurrencyLimit(t *testing.T) {
	e := NewExplainer(2)

	var mu sync.Mutex
	inFlight := 0
	maxInFlight := 0
	release := make(chan struct{})

	e.narrate = func(ctx context.Context, packageName, diagnostic string) (string, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		<-release

		mu.Lock()
		inFlight--
		mu.Unlock()
		return "ok", nil
	}

	rejections := make([]hoist.Rejection, 6)
	for i := range rejections {
		rejections[i] = hoist.Rejection{Package: graph.PackageName("P"), Diagnostic: "d"}
	}

	done := make(chan struct{})
	go func() {
		_, _ = e.ExplainAll(context.Background(), rejections)
		close(done)
	}()

	close(release)
	<-done

	assert.LessOrEqual(t, maxInFlight, 2)
}
