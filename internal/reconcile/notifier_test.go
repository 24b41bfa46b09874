package reconcile_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plannest/internal/reconcile"
	"plannest/internal/service"
)

func TestBellNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := reconcile.BellNotifier{W: &buf}

	require.NoError(t, n.TaskCompleted(context.Background(), service.Task{ID: "a"}))
	assert.Equal(t, "\a", buf.String())
}
