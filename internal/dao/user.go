package dao

import (
	"encoding/json"
	"strconv"
	"time"
)

// Job types accepted by the form.
var JobTypes = []string{"Consultant", "Full-time", "Part-time", "Freelance", "Contract"}

// Genres accepted by the form.
var Genres = []string{"male", "female", "other"}

// DefaultColor is the accent color for new users.
const DefaultColor = "#6366f1"

// User is a record managed by the remote API.
type User struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Color     string `json:"color,omitempty"`
	Password  string `json:"password,omitempty"`
	Dob       string `json:"dob,omitempty"`
	Genre     string `json:"genre,omitempty"`
	Job       string `json:"job,omitempty"`
	Company   string `json:"company,omitempty"`
	TypeOfJob string `json:"typeofjob,omitempty"`
	JD        string `json:"jd,omitempty"`
	Desc      string `json:"desc,omitempty"`
	Country   string `json:"country,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Street    string `json:"street,omitempty"`
	Address   string `json:"address,omitempty"`
	Building  string `json:"building,omitempty"`
	Zipcode   string `json:"zipcode,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	Music     string `json:"music,omitempty"`
	Fincode   string `json:"fincode,omitempty"`
	IP        string `json:"ip,omitempty"`
}

// Key returns the stable render key for a user at the given index.
func (u User) Key(idx int) string {
	if u.ID != "" {
		return u.ID
	}
	return "#" + strconv.Itoa(idx)
}

// Created parses the creation timestamp. Zero time is returned on failure.
func (u User) Created() time.Time {
	return parseTime(u.CreatedAt)
}

// Born parses the date of birth. Zero time is returned on failure.
func (u User) Born() time.Time {
	return parseTime(u.Dob)
}

// Fields returns the user as a flat name/value map.
func (u User) Fields() map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"createdAt": u.CreatedAt,
		"name":      u.Name,
		"email":     u.Email,
		"phone":     u.Phone,
		"avatar":    u.Avatar,
		"color":     u.Color,
		"dob":       u.Dob,
		"genre":     u.Genre,
		"job":       u.Job,
		"company":   u.Company,
		"typeofjob": u.TypeOfJob,
		"jd":        u.JD,
		"desc":      u.Desc,
		"country":   u.Country,
		"city":      u.City,
		"state":     u.State,
		"street":    u.Street,
		"address":   u.Address,
		"building":  u.Building,
		"zipcode":   u.Zipcode,
		"timezone":  u.Timezone,
		"music":     u.Music,
		"fincode":   u.Fincode,
		"ip":        u.IP,
	}
}

// Merge returns u overlaid with every non-empty field of patch. ID and
// CreatedAt are server assigned and always kept.
func (u User) Merge(patch User) (User, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return User{}, err
	}
	merged := u
	if err := json.Unmarshal(raw, &merged); err != nil {
		return User{}, err
	}
	merged.ID, merged.CreatedAt = u.ID, u.CreatedAt

	return merged, nil
}

// NormalizeDob rewrites the date of birth in RFC3339. An empty or
// unparsable value is replaced with now.
func (u *User) NormalizeDob(now time.Time) {
	t := parseTime(u.Dob)
	if t.IsZero() {
		t = now
	}
	u.Dob = t.UTC().Format(time.RFC3339)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
