// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/userdeck/userdeck/internal/dao"
)

const (
	formFieldWidth = 40
	dobLayout      = "2006-01-02"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindSecret
	kindChoice
)

type formField struct {
	name    string
	label   string
	kind    fieldKind
	options []string
	ref     func(*dao.User) *string
}

var formFields = []formField{
	{name: "name", label: "Name", ref: func(u *dao.User) *string { return &u.Name }},
	{name: "email", label: "Email", ref: func(u *dao.User) *string { return &u.Email }},
	{name: "phone", label: "Phone", ref: func(u *dao.User) *string { return &u.Phone }},
	{name: "password", label: "Password", kind: kindSecret, ref: func(u *dao.User) *string { return &u.Password }},
	{name: "dob", label: "Date of birth", ref: func(u *dao.User) *string { return &u.Dob }},
	{name: "genre", label: "Genre", kind: kindChoice, options: dao.Genres, ref: func(u *dao.User) *string { return &u.Genre }},
	{name: "color", label: "Color", ref: func(u *dao.User) *string { return &u.Color }},
	{name: "avatar", label: "Avatar URL", ref: func(u *dao.User) *string { return &u.Avatar }},
	{name: "company", label: "Company", ref: func(u *dao.User) *string { return &u.Company }},
	{name: "job", label: "Job", ref: func(u *dao.User) *string { return &u.Job }},
	{name: "typeofjob", label: "Job type", kind: kindChoice, options: dao.JobTypes, ref: func(u *dao.User) *string { return &u.TypeOfJob }},
	{name: "jd", label: "JD", ref: func(u *dao.User) *string { return &u.JD }},
	{name: "desc", label: "Description", ref: func(u *dao.User) *string { return &u.Desc }},
	{name: "building", label: "Building", ref: func(u *dao.User) *string { return &u.Building }},
	{name: "street", label: "Street", ref: func(u *dao.User) *string { return &u.Street }},
	{name: "address", label: "Address", ref: func(u *dao.User) *string { return &u.Address }},
	{name: "city", label: "City", ref: func(u *dao.User) *string { return &u.City }},
	{name: "state", label: "State", ref: func(u *dao.User) *string { return &u.State }},
	{name: "country", label: "Country", ref: func(u *dao.User) *string { return &u.Country }},
	{name: "zipcode", label: "Zipcode", ref: func(u *dao.User) *string { return &u.Zipcode }},
	{name: "timezone", label: "Timezone", ref: func(u *dao.User) *string { return &u.Timezone }},
	{name: "fincode", label: "Fincode", ref: func(u *dao.User) *string { return &u.Fincode }},
	{name: "music", label: "Music", ref: func(u *dao.User) *string { return &u.Music }},
	{name: "ip", label: "IP address", ref: func(u *dao.User) *string { return &u.IP }},
}

// SaveFunc submits a user and reports the outcome through done, which must
// run on the UI goroutine. A *dao.ValidationError is shown inline.
type SaveFunc func(u dao.User, done func(error))

// UserForm edits or displays every field of a user.
type UserForm struct {
	*tview.Flex

	form     *tview.Form
	status   *tview.TextView
	user     dao.User
	isNew    bool
	editing  bool
	inputs   map[string]*tview.InputField
	choices  map[string]*tview.DropDown
	now      func() time.Time
	saveFn   SaveFunc
	saving   bool
	closeFn  func()
	readOnly bool
}

// NewUserForm returns a form for u. A nil user opens an empty form in edit
// mode, otherwise the form starts in view mode.
func NewUserForm(u *dao.User) *UserForm {
	f := UserForm{
		Flex:    tview.NewFlex().SetDirection(tview.FlexRow),
		form:    tview.NewForm(),
		status:  tview.NewTextView(),
		inputs:  make(map[string]*tview.InputField),
		choices: make(map[string]*tview.DropDown),
		now:     time.Now,
	}
	if u == nil {
		f.isNew, f.editing = true, true
		f.user = dao.User{Color: dao.DefaultColor}
	} else {
		f.user = *u
	}

	f.form.SetBorder(true)
	f.form.SetBorderPadding(0, 0, 1, 1)
	f.form.SetBackgroundColor(tcell.ColorDefault)
	f.form.SetFieldBackgroundColor(tcell.ColorDarkSlateGray)
	f.form.SetButtonsAlign(tview.AlignCenter)
	f.form.SetInputCapture(f.keyboard)
	f.status.SetDynamicColors(true)
	f.status.SetBackgroundColor(tcell.ColorDefault)

	f.build()
	f.AddItem(f.form, 0, 1, true)
	f.AddItem(f.status, 2, 0, false)
	f.refresh()

	return &f
}

// SetClock overrides the time source used to default the date of birth.
func (f *UserForm) SetClock(now func() time.Time) {
	if now != nil {
		f.now = now
	}
}

// SetSaveFn sets the submit callback.
func (f *UserForm) SetSaveFn(fn SaveFunc) {
	f.saveFn = fn
}

// SetCloseFn sets the callback fired when the form is dismissed.
func (f *UserForm) SetCloseFn(fn func()) {
	f.closeFn = fn
}

// SetReadOnly prevents switching to edit mode.
func (f *UserForm) SetReadOnly(b bool) {
	f.readOnly = b
	if b && !f.isNew {
		f.SetEditing(false)
	}
}

// IsNew returns true when the form creates a user.
func (f *UserForm) IsNew() bool {
	return f.isNew
}

// IsEditing returns true in edit mode.
func (f *UserForm) IsEditing() bool {
	return f.editing
}

// SetEditing switches between view and edit mode.
func (f *UserForm) SetEditing(b bool) {
	if b && f.readOnly {
		return
	}
	f.editing = b
	f.refresh()
}

// Focusable returns the primitive receiving focus.
func (f *UserForm) Focusable() tview.Primitive {
	return f.form
}

func (f *UserForm) build() {
	for _, fd := range formFields {
		value := *fd.ref(&f.user)
		switch fd.kind {
		case kindChoice:
			opts := append([]string{""}, fd.options...)
			dd := tview.NewDropDown().
				SetLabel(fd.label).
				SetOptions(opts, nil)
			dd.SetCurrentOption(indexOf(opts, value))
			f.choices[fd.name] = dd
			f.form.AddFormItem(dd)
		default:
			if fd.name == "dob" {
				value = displayDob(f.user)
			}
			in := tview.NewInputField().
				SetLabel(fd.label).
				SetText(value).
				SetFieldWidth(formFieldWidth)
			if fd.kind == kindSecret {
				in.SetMaskCharacter('*')
			}
			f.inputs[fd.name] = in
			f.form.AddFormItem(in)
		}
	}
}

func (f *UserForm) refresh() {
	f.form.ClearButtons()
	switch {
	case f.editing:
		f.form.AddButton("Save", f.Submit)
		f.form.AddButton("Cancel", f.cancel)
	case !f.readOnly:
		f.form.AddButton("Edit", func() { f.SetEditing(true) })
		f.form.AddButton("Close", f.close)
	default:
		f.form.AddButton("Close", f.close)
	}

	f.form.SetTitle(f.title())
}

func (f *UserForm) title() string {
	switch {
	case f.isNew:
		return " New user "
	case f.editing:
		return fmt.Sprintf(" Edit %s ", f.user.Name)
	default:
		return fmt.Sprintf(" %s [#%s] ", f.user.Name, f.user.ID)
	}
}

func (f *UserForm) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	switch evt.Key() {
	case tcell.KeyEsc:
		f.cancel()
		return nil
	case tcell.KeyCtrlS:
		if f.editing {
			f.Submit()
		}
		return nil
	case tcell.KeyTab, tcell.KeyBacktab, tcell.KeyUp, tcell.KeyDown, tcell.KeyEnter:
		return evt
	}
	if f.editing {
		return evt
	}
	if AsKey(evt) == KeyE {
		f.SetEditing(true)
	}

	return nil
}

// Value returns the user as currently entered.
func (f *UserForm) Value() dao.User {
	u := f.user
	for _, fd := range formFields {
		dst := fd.ref(&u)
		if dd, ok := f.choices[fd.name]; ok {
			_, *dst = dd.GetCurrentOption()
			continue
		}
		if in, ok := f.inputs[fd.name]; ok {
			*dst = strings.TrimSpace(in.GetText())
		}
	}

	return u
}

// Submit validates the entered user and hands it to the save callback.
// Validation failures are shown next to the fields and nothing is sent.
// Submits are ignored while a save is pending.
func (f *UserForm) Submit() {
	if f.saving {
		return
	}
	u := f.Value()
	if errs := dao.Validate(u); len(errs) > 0 {
		f.ShowErrors(errs)
		return
	}
	u.NormalizeDob(f.now())
	f.ShowErrors(nil)

	if f.saveFn == nil {
		return
	}
	f.saving = true
	f.status.SetText("[yellow::]Saving...[-::]")
	f.saveFn(u, func(err error) { f.saved(u, err) })
}

// IsSaving returns true while a save is in flight.
func (f *UserForm) IsSaving() bool {
	return f.saving
}

func (f *UserForm) saved(u dao.User, err error) {
	f.saving = false
	var verr *dao.ValidationError
	switch {
	case err == nil:
		f.user = u
		f.status.SetText("")
	case errors.As(err, &verr):
		f.ShowErrors(verr.Fields)
	default:
		f.status.SetText(fmt.Sprintf("[red::]Error: %s[-::]", tview.Escape(err.Error())))
	}
}

// ShowErrors marks the failing fields and lists the messages.
func (f *UserForm) ShowErrors(errs dao.FieldErrors) {
	for _, fd := range formFields {
		label := fd.label
		if _, ok := errs[fd.name]; ok {
			label = "[red::b]" + fd.label + " *[-::-]"
		}
		if dd, ok := f.choices[fd.name]; ok {
			dd.SetLabel(label)
			continue
		}
		f.inputs[fd.name].SetLabel(label)
	}

	if len(errs) == 0 {
		f.status.SetText("")
		return
	}
	msgs := make([]string, 0, len(errs))
	for _, k := range errs.Fields() {
		msgs = append(msgs, k+": "+errs[k])
	}
	f.status.SetText("[red::]" + tview.Escape(strings.Join(msgs, ", ")) + "[-::]")
}

// Status returns the text of the status line.
func (f *UserForm) Status() string {
	return f.status.GetText(true)
}

func (f *UserForm) cancel() {
	if f.editing && !f.isNew {
		f.SetEditing(false)
		return
	}
	f.close()
}

func (f *UserForm) close() {
	if f.closeFn != nil {
		f.closeFn()
	}
}

func displayDob(u dao.User) string {
	if t := u.Born(); !t.IsZero() {
		return t.UTC().Format(dobLayout)
	}
	return u.Dob
}

func indexOf(ss []string, s string) int {
	for i, v := range ss {
		if v == s {
			return i
		}
	}
	return 0
}
