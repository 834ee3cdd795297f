package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/userdeck/userdeck/internal/dao"
)

var formClock = func() time.Time {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestUserFormNew(t *testing.T) {
	f := NewUserForm(nil)

	assert.True(t, f.IsNew())
	assert.True(t, f.IsEditing())
	assert.Equal(t, dao.DefaultColor, f.Value().Color)
	assert.Equal(t, "", f.Value().Genre)
}

func TestUserFormValidationBlocksSave(t *testing.T) {
	var calls int
	f := NewUserForm(nil)
	f.SetSaveFn(func(_ dao.User, done func(error)) {
		calls++
		done(nil)
	})
	f.inputs["email"].SetText("nope")
	f.Submit()

	assert.Equal(t, 0, calls)
	assert.Contains(t, f.Status(), "email: invalid email")
	assert.Contains(t, f.Status(), "name: required")
}

func TestUserFormSubmit(t *testing.T) {
	var saved dao.User
	f := NewUserForm(nil)
	f.SetClock(formClock)
	f.SetSaveFn(func(u dao.User, done func(error)) {
		saved = u
		done(nil)
	})
	f.inputs["name"].SetText(" Ann ")
	f.inputs["email"].SetText("ann@x.io")
	f.choices["genre"].SetCurrentOption(2)
	f.Submit()

	assert.Equal(t, "Ann", saved.Name)
	assert.Equal(t, "female", saved.Genre)
	assert.Equal(t, "2024-01-02T03:04:05Z", saved.Dob)
	assert.Equal(t, dao.DefaultColor, saved.Color)
	assert.Empty(t, f.Status())
}

func TestUserFormDobDateOnly(t *testing.T) {
	var saved dao.User
	f := NewUserForm(nil)
	f.SetSaveFn(func(u dao.User, done func(error)) {
		saved = u
		done(nil)
	})
	f.inputs["name"].SetText("Ann")
	f.inputs["email"].SetText("ann@x.io")
	f.inputs["dob"].SetText("1990-05-06")
	f.Submit()

	assert.Equal(t, "1990-05-06T00:00:00Z", saved.Dob)
}

func TestUserFormSaveErrors(t *testing.T) {
	f := NewUserForm(nil)
	f.inputs["name"].SetText("Ann")
	f.inputs["email"].SetText("ann@x.io")

	f.SetSaveFn(func(_ dao.User, done func(error)) {
		done(&dao.ValidationError{Fields: dao.FieldErrors{"phone": "taken"}})
	})
	f.Submit()
	assert.Contains(t, f.Status(), "phone: taken")

	f.SetSaveFn(func(_ dao.User, done func(error)) {
		done(errors.New("boom"))
	})
	f.Submit()
	assert.Contains(t, f.Status(), "Error: boom")
	assert.False(t, f.IsSaving())
}

func TestUserFormSavePending(t *testing.T) {
	var (
		calls   int
		pending func(error)
	)
	f := NewUserForm(nil)
	f.inputs["name"].SetText("Ann")
	f.inputs["email"].SetText("ann@x.io")
	f.SetSaveFn(func(_ dao.User, done func(error)) {
		calls++
		pending = done
	})

	f.Submit()
	assert.True(t, f.IsSaving())
	assert.Contains(t, f.Status(), "Saving")

	f.Submit()
	assert.Equal(t, 1, calls)

	pending(nil)
	assert.False(t, f.IsSaving())
	assert.Empty(t, f.Status())
	assert.Equal(t, "Ann", f.Value().Name)
}

func TestUserFormViewMode(t *testing.T) {
	u := dao.User{ID: "7", Name: "Bob", Email: "bob@x.io", Dob: "1990-05-06T10:00:00Z", TypeOfJob: "Contract"}
	f := NewUserForm(&u)

	assert.False(t, f.IsNew())
	assert.False(t, f.IsEditing())
	assert.Equal(t, "1990-05-06", f.inputs["dob"].GetText())
	assert.Equal(t, "Contract", f.Value().TypeOfJob)
	assert.Equal(t, "7", f.Value().ID)

	assert.Nil(t, f.keyboard(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))
	assert.False(t, f.IsEditing())
	f.keyboard(tcell.NewEventKey(tcell.KeyRune, 'e', tcell.ModNone))
	assert.True(t, f.IsEditing())

	evt := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	assert.Equal(t, evt, f.keyboard(evt))

	f.keyboard(tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone))
	assert.False(t, f.IsEditing())
}

func TestUserFormReadOnly(t *testing.T) {
	var closed bool
	u := dao.User{ID: "7", Name: "Bob"}
	f := NewUserForm(&u)
	f.SetReadOnly(true)
	f.SetCloseFn(func() { closed = true })

	f.keyboard(tcell.NewEventKey(tcell.KeyRune, 'e', tcell.ModNone))
	assert.False(t, f.IsEditing())
	f.keyboard(tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone))
	assert.True(t, closed)
}
