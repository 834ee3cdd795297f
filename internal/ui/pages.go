package ui

import (
	"github.com/derailed/tview"
)

// Pages stacks the application screens. Modal overlays are added as plain
// pages and never enter the stack.
type Pages struct {
	*tview.Pages
	*Stack
}

// NewPages returns a new pages manager.
func NewPages() *Pages {
	p := Pages{
		Pages: tview.NewPages(),
		Stack: NewStack(),
	}
	p.Stack.AddListener(&p)

	return &p
}

// IsTopDialog checks if a modal overlay is in front of the stack.
func (p *Pages) IsTopDialog() bool {
	name, _ := p.GetFrontPage()
	top := p.Top()
	return top != nil && name != componentID(top)
}

// Current returns the name of the top component.
func (p *Pages) Current() string {
	if top := p.Top(); top != nil {
		return top.Name()
	}
	return ""
}

// StackPushed notifies a new component was pushed.
func (p *Pages) StackPushed(c Component) {
	p.AddPage(componentID(c), c, true, true)
}

// StackPopped notifies a component was removed.
func (p *Pages) StackPopped(o, top Component) {
	p.RemovePage(componentID(o))
	if top != nil {
		p.SwitchToPage(componentID(top))
	}
}

// StackTop notifies the top component.
func (*Pages) StackTop(Component) {}

func componentID(c Component) string {
	return "main:" + c.Name()
}
