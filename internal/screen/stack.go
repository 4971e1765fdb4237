package screen

// Stack is the ordered set of screens the user has drilled into; the top is
// active. It is never empty while the application handles events — an empty
// stack is the signal to exit, checked before any event touches a screen.
type Stack struct {
	screens []*Screen
}

// NewStack creates a stack with its root screen.
func NewStack(root *Screen) *Stack {
	return &Stack{screens: []*Screen{root}}
}

// Top returns the active screen, or nil when the stack is empty.
func (st *Stack) Top() *Screen {
	if len(st.screens) == 0 {
		return nil
	}
	return st.screens[len(st.screens)-1]
}

// Len returns the number of screens.
func (st *Stack) Len() int {
	return len(st.screens)
}

// Push makes s the active screen.
func (st *Stack) Push(s *Screen) {
	st.screens = append(st.screens, s)
}

// Pop removes the active screen and returns the screen beneath it, or nil
// when the stack is exhausted. The caller refreshes the returned screen so
// it reflects whatever the dismissed screen changed.
func (st *Stack) Pop() *Screen {
	if len(st.screens) == 0 {
		return nil
	}
	st.screens = st.screens[:len(st.screens)-1]
	return st.Top()
}

// TruncateToRoot drops every screen above the root, leaving it active.
func (st *Stack) TruncateToRoot() {
	if len(st.screens) > 1 {
		st.screens = st.screens[:1]
	}
}

// Resize propagates a terminal size change to every screen so a screen
// revealed by a pop is already sized correctly.
func (st *Stack) Resize(width, height int) {
	for _, s := range st.screens {
		s.Width = width
		s.Height = height
	}
}
