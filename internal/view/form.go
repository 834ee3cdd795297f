package view

import (
	"context"

	"github.com/userdeck/userdeck/internal/dao"
	"github.com/userdeck/userdeck/internal/ui"
)

// FormView hosts a user form on the content stack.
type FormView struct {
	*ui.UserForm
}

// NewFormView returns a form for u, or an empty one when u is nil.
func NewFormView(u *dao.User, readOnly bool) *FormView {
	f := FormView{UserForm: ui.NewUserForm(u)}
	f.SetReadOnly(readOnly)

	return &f
}

// Init initializes the view.
func (*FormView) Init(context.Context) error {
	return nil
}

// Start starts the view.
func (*FormView) Start() {}

// Stop stops the view.
func (*FormView) Stop() {}

// Name returns the view name.
func (f *FormView) Name() string {
	switch {
	case f.IsNew():
		return "add"
	case f.IsEditing():
		return "edit"
	default:
		return "view"
	}
}

// CapturesInput keeps global shortcuts away from fields being edited.
func (f *FormView) CapturesInput() bool {
	return f.IsEditing()
}

// Hints returns the menu hints.
func (f *FormView) Hints() ui.MenuHints {
	if f.IsEditing() {
		return ui.MenuHints{
			{Mnemonic: "tab", Description: "Next Field", Visible: true},
			{Mnemonic: "ctrl-s", Description: "Save", Visible: true},
			{Mnemonic: "esc", Description: "Cancel", Visible: true},
		}
	}
	return ui.MenuHints{
		{Mnemonic: "e", Description: "Edit", Visible: true},
		{Mnemonic: "esc", Description: "Back", Visible: true},
	}
}
