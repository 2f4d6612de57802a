package register

import "context"

// Key is a global shortcut understood by the register.
type Key string

const (
	KeyF2     Key = "F2"
	KeyF5     Key = "F5"
	KeyEscape Key = "Escape"
)

// Action runs a shortcut against the controller's current state.
type Action func(ctx context.Context, c *Controller)

type Keymap map[Key]Action

// DefaultKeymap binds F5 to checkout, F2 to the add-product modal toggle and
// Escape to closing the modal.
func DefaultKeymap() Keymap {
	return Keymap{
		KeyF5: func(ctx context.Context, c *Controller) {
			_, _ = c.Checkout(ctx)
		},
		KeyF2: func(_ context.Context, c *Controller) {
			c.ToggleModal()
		},
		KeyEscape: func(_ context.Context, c *Controller) {
			c.CloseModal()
		},
	}
}
