package render

import (
	"fmt"
	"sort"

	"github.com/fvbommel/sortorder"

	"github.com/userdeck/userdeck/internal/dao"
	"github.com/userdeck/userdeck/internal/model1"
)

// DefaultColumns is the number of user cards per grid row.
const DefaultColumns = 3

// CardLines is the number of text lines a user card occupies, including the
// separator line.
const CardLines = 5

// User renders users.
type User struct{}

// Header returns the user table header.
func (User) Header() model1.Header {
	return model1.Header{
		{Name: "ID"},
		{Name: "NAME"},
		{Name: "EMAIL"},
		{Name: "PHONE", Attrs: model1.Attrs{Wide: true}},
		{Name: "JOB"},
		{Name: "COMPANY", Attrs: model1.Attrs{Wide: true}},
		{Name: "COUNTRY", Attrs: model1.Attrs{Wide: true}},
		{Name: "AGE", Attrs: model1.Attrs{Time: true}},
	}
}

// Render renders a user to a row.
func (User) Render(o any, idx int, row *model1.Row) error {
	u, ok := o.(dao.User)
	if !ok {
		return fmt.Errorf("expected dao.User, got %T", o)
	}

	row.ID = u.Key(idx)
	row.Fields = model1.Fields{
		NA(u.ID),
		Missing(u.Name),
		Missing(u.Email),
		NA(u.Phone),
		NA(u.Job),
		NA(u.Company),
		NA(u.Country),
		ToAge(u.Created()),
	}

	return nil
}

// Card returns the text lines of a user card, without the separator.
func (User) Card(u dao.User) []string {
	return []string{
		fmt.Sprintf("[::b]%s[::-] [gray]#%s[-]", Missing(u.Name), NA(u.ID)),
		u.Email,
		JoinStrings(" @ ", u.Job, u.Company),
		JoinStrings(", ", u.City, u.Country),
	}
}

// Describe returns the user fields as sorted key/value pairs.
func (User) Describe(u dao.User) [][2]string {
	ff := u.Fields()
	keys := make([]string, 0, len(ff))
	for k := range ff {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return sortorder.NaturalLess(keys[i], keys[j])
	})

	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, Missing(fmt.Sprintf("%v", ff[k]))})
	}

	return out
}

// Chunk groups users into rows of cols cards.
func Chunk(uu []dao.User, cols int) [][]dao.User {
	if cols < 1 {
		cols = 1
	}
	out := make([][]dao.User, 0, (len(uu)+cols-1)/cols)
	for i := 0; i < len(uu); i += cols {
		end := i + cols
		if end > len(uu) {
			end = len(uu)
		}
		out = append(out, uu[i:end])
	}

	return out
}
