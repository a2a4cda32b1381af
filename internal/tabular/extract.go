package tabular

// MemberRow is one extracted member/dividend row.
type MemberRow struct {
	Name     string
	Dividend float64
	Sheet    string
}

// FinancialRow is one extracted financial line item.
type FinancialRow struct {
	Item   string
	Amount float64
	Sheet  string
}

// ExtractMembers emits one row per sheet line that has both a non-blank
// member name and a non-zero dividend after coercion. Header/footer noise
// fails one of those tests and is discarded, which is the point: the
// typed table feeds aggregates and must stay clean.
func ExtractMembers(sheet Sheet) []MemberRow {
	if sheet.empty() {
		return nil
	}

	header, body := sheet.Rows[0], sheet.Rows[1:]
	roles, ok := InferMemberRoles(header, body)
	if !ok {
		return nil
	}

	var out []MemberRow
	for _, row := range body {
		name := cell(row, roles.Identity)
		dividend := Coerce(cell(row, roles.Quantity))
		if name == "" || dividend == 0 || IsAggregateRow(name) {
			continue
		}
		out = append(out, MemberRow{Name: name, Dividend: dividend, Sheet: sheet.Name})
	}
	return out
}

// ExtractFinancial emits line items from a financial sheet. A mostly
// textual first row is promoted to column names; otherwise synthetic
// positional names are used so headerless exports still extract.
func ExtractFinancial(sheet Sheet) []FinancialRow {
	if sheet.empty() {
		return nil
	}

	var header []string
	body := sheet.Rows
	if LooksLikeHeader(sheet.Rows[0]) {
		header, body = sheet.Rows[0], sheet.Rows[1:]
	} else {
		header = SyntheticHeader(widest(sheet.Rows))
	}

	roles, ok := InferFinancialRoles(header, body)
	if !ok {
		return nil
	}

	var out []FinancialRow
	for _, row := range body {
		item := cell(row, roles.Identity)
		amount := Coerce(cell(row, roles.Quantity))
		if item == "" || amount == 0 || IsAggregateRow(item) {
			continue
		}
		out = append(out, FinancialRow{Item: item, Amount: amount, Sheet: sheet.Name})
	}
	return out
}

func widest(rows [][]string) int {
	w := 0
	for _, row := range rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}
