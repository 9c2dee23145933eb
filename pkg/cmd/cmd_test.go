package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name string
	runs int
}

func (s *stubCommand) Name() string        { return s.name }
func (s *stubCommand) Description() string { return "stub " + s.name }
func (s *stubCommand) Run(ctx context.Context, inv *Invocation) error {
	s.runs++
	return nil
}

func TestRegistry_LowercasesAndSorts(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubCommand{name: "Zeta"}))
	require.NoError(t, r.Register(&stubCommand{name: "alpha"}))

	_, ok := r.Get("zeta")
	assert.True(t, ok)
	_, ok = r.Get("ALPHA")
	assert.True(t, ok)
	_, ok = r.Get("missing")
	assert.False(t, ok)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Name())
	assert.Equal(t, "Zeta", all[1].Name())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubCommand{name: "info"}))

	err := r.Register(&stubCommand{name: "INFO"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Error(t, r.Register(&stubCommand{}))
	assert.Equal(t, 1, r.Len())
}

func TestApply_OrderLayersAndRoot(t *testing.T) {
	inner := &stubCommand{name: "info"}
	var order []string
	mw := func(tag string) Middleware {
		return func(c Command) Command {
			return Wrap(c, tag, func(ctx context.Context, inv *Invocation) error {
				order = append(order, tag)
				return c.Run(ctx, inv)
			})
		}
	}

	wrapped := Apply(inner, mw("recover"), nil, mw("log"))
	require.NoError(t, wrapped.Run(context.Background(), &Invocation{}))

	assert.Equal(t, []string{"log", "recover"}, order)
	assert.Equal(t, []string{"log", "recover"}, Layers(wrapped))
	assert.Equal(t, 1, inner.runs)
	assert.Same(t, inner, Root(wrapped))
	assert.Equal(t, "info", wrapped.Name())
	assert.Equal(t, "stub info", wrapped.Description())
	assert.Empty(t, Layers(inner))
}

func TestChain_MatchesApply(t *testing.T) {
	inner := &stubCommand{name: "cc"}
	passthrough := func(name string) Middleware {
		return func(c Command) Command { return Wrap(c, name, nil) }
	}

	wrapped := Chain(passthrough("a"), passthrough("b"))(inner)
	require.NoError(t, wrapped.Run(context.Background(), &Invocation{}))
	assert.Equal(t, []string{"b", "a"}, Layers(wrapped))
	assert.Equal(t, 1, inner.runs)
}

func TestInvocation_Since(t *testing.T) {
	assert.Zero(t, (&Invocation{}).Since())

	inv := NewInvocation("help", nil)
	inv.Received = time.Now().Add(-time.Second)
	assert.GreaterOrEqual(t, inv.Since(), time.Second)
	assert.Equal(t, "help", inv.Command)
}
