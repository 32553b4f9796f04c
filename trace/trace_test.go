package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")

	id, ok := RequestIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-123", id)
}

func TestRequestIDFromContextMissing(t *testing.T) {
	id, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestRequestIDFromContextEmptyValue(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	id, ok := RequestIDFromContext(ctx)
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestEnsureRequestID(t *testing.T) {
	t.Run("returns existing ID", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "existing")
		assert.Equal(t, "existing", EnsureRequestID(ctx))
	})

	t.Run("generates when missing", func(t *testing.T) {
		id := EnsureRequestID(context.Background())
		assert.NotEmpty(t, id)

		// Generated IDs must be unique per call.
		other := EnsureRequestID(context.Background())
		assert.NotEqual(t, id, other)
	})
}
