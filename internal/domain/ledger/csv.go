package ledger

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{
	"member", "round", "date", "hits",
	"due", "column_cost", "ones_penalty", "sellado",
	"prize", "manual_income", "total_income", "total_expense",
	"net", "cumulative", "exempt", "doubles",
}

// WriteCSV renders the ledger lines in the fixed export column order.
func WriteCSV(w io.Writer, lines []Line) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range lines {
		record := []string{
			l.MemberName,
			strconv.Itoa(l.RoundNumber),
			l.RoundDate,
			strconv.Itoa(l.Hits),
			money(l.Due),
			money(l.ColumnCost),
			money(l.OnesPenalty),
			money(l.Sellado),
			money(l.Prize),
			money(l.ManualIncome),
			money(l.TotalIncome),
			money(l.TotalExpense),
			money(l.Net),
			money(l.Cumulative),
			strconv.FormatBool(l.Exempt),
			strconv.FormatBool(l.PlaysDoubles),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func money(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
