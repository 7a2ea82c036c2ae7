package mocks

import "context"

// PassthroughTransactor runs fn directly, for service tests that mock every repository.
type PassthroughTransactor struct {
	Calls int
}

func (t *PassthroughTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}
