// AngelaMos | 2026
// entity.go

package distributor

type Distributor struct {
	ID       int64  `db:"id"       json:"id"`
	Name     string `db:"name"     json:"name"`
	Address  string `db:"address"  json:"address"`
	Location string `db:"location" json:"location"`
	Contact  string `db:"contact"  json:"contact"`
	Email    string `db:"email"    json:"email"`
	AddedBy  string `db:"added_by" json:"added_by"`
}

func nameOf(d Distributor) string     { return d.Name }
func locationOf(d Distributor) string { return d.Location }
