// AngelaMos | 2026
// entity.go

package order

import (
	"slices"
	"strings"
)

type Status string

const (
	StatusNew         Status = "New"
	StatusProcessing  Status = "Processing"
	StatusBillingDone Status = "Billing Done"
	StatusDispatched  Status = "Dispatched"
	StatusDelivered   Status = "Delivered"
	StatusCancelled   Status = "Cancelled"
)

// Statuses is the full status set in presentation order.
var Statuses = []Status{
	StatusNew,
	StatusProcessing,
	StatusBillingDone,
	StatusDispatched,
	StatusDelivered,
	StatusCancelled,
}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// ParseStatus accepts only the exact stored spelling.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if !st.Valid() {
		return "", errUnknownStatus(s)
	}
	return st, nil
}

const (
	DateLayout = "02-01-2006"
	TimeLayout = "15:04:05"
)

// Order is one row of the ledger. AddedBy and the descriptive fields never
// change after creation; UpdateBy follows the latest write.
type Order struct {
	ID       int64  `db:"id"        json:"id"`
	Date     string `db:"date"      json:"date"`
	Time     string `db:"time"      json:"time"`
	Dist     string `db:"dist"      json:"dist"`
	Location string `db:"location"  json:"location"`
	Model    string `db:"model"     json:"model"`
	Color    string `db:"color"     json:"color"`
	Spec     string `db:"spec"      json:"spec"`
	Quantity int    `db:"quantity"  json:"quantity"`
	Status   Status `db:"status"    json:"status"`
	Remark   string `db:"remark"    json:"remark"`
	AddedBy  string `db:"added_by"  json:"added_by"`
	UpdateBy string `db:"update_by" json:"update_by"`
}

func distOf(o Order) string { return o.Dist }
