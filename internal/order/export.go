// AngelaMos | 2026
// export.go

package order

import (
	"io"
	"strconv"

	"github.com/carterperez-dev/orderdesk/internal/tabular"
)

// ExportColumns are the po columns in table order.
var ExportColumns = []string{
	"id", "date", "time", "dist", "location", "model", "color", "spec",
	"quantity", "status", "remark", "added_by", "update_by",
}

func exportRows(orders []Order) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.FormatInt(o.ID, 10),
			o.Date,
			o.Time,
			o.Dist,
			o.Location,
			o.Model,
			o.Color,
			o.Spec,
			strconv.Itoa(o.Quantity),
			string(o.Status),
			o.Remark,
			o.AddedBy,
			o.UpdateBy,
		})
	}
	return rows
}

// WriteCSV writes orders with a header row of every stored column.
func WriteCSV(w io.Writer, orders []Order) error {
	return tabular.Write(w, ExportColumns, exportRows(orders))
}
