// AngelaMos | 2026
// entity.go

package user

// User is a login account. Names are stored uppercased and are not unique;
// Type holds the role and may be a legacy value.
type User struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Type string `db:"type"`
	Pass string `db:"pass"`
}
