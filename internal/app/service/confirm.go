package service

import "context"

// DeletePrompt is the question asked before a product is removed.
const DeletePrompt = "Are you sure you want to delete this product?"

// Confirmer asks the user a yes/no question. Implementations may block until
// the user answers or ctx is done.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}
