package rod_test

import (
	"context"
	"testing"

	"github.com/fwojciec/siteaudit/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_CanceledContextDoesNotLaunchBrowser(t *testing.T) {
	t.Parallel()

	r := rod.NewRenderer(rod.WithPoolSize(1))
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, "https://example.com/")

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, r.LauncherPID())
}

func TestRenderer_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	r := rod.NewRenderer()

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
}

func TestRenderer_RenderAfterCloseFails(t *testing.T) {
	t.Parallel()

	r := rod.NewRenderer()
	require.NoError(t, r.Close())

	_, err := r.Render(context.Background(), "https://example.com/")

	assert.Error(t, err)
	assert.Zero(t, r.LauncherPID())
}
