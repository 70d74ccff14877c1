package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paydesk/deposit-service/internal/domain"
)

// buildDepositWhere compiles a deposit filter into a parameterized WHERE
// clause. All conditions combine by conjunction; the search term expands to an
// internal disjunction over name, iban, and (when the term is numeric) an
// exact amount match. The returned clause includes the leading "WHERE", or is
// empty when the filter has no conditions.
func buildDepositWhere(f domain.DepositFilter) (string, []any) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.SenderID != nil {
		conditions = append(conditions, "d.sender_id = "+arg(*f.SenderID))
	}
	if f.ServiceProviderID != nil {
		conditions = append(conditions, "d.service_provider_id = "+arg(*f.ServiceProviderID))
	}
	if f.TypeID != nil {
		conditions = append(conditions, "d.type_id = "+arg(*f.TypeID))
	}
	if f.InstitutionID != nil {
		conditions = append(conditions, "d.institution_id = "+arg(*f.InstitutionID))
	}
	if f.Status != nil {
		conditions = append(conditions, "d.status = "+arg(int(*f.Status)))
	}
	if f.ExcludeStatus != nil {
		conditions = append(conditions, "d.status <> "+arg(int(*f.ExcludeStatus)))
	}
	if f.TransactionType != nil {
		conditions = append(conditions, "d.transaction_type = "+arg(int(*f.TransactionType)))
	}

	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		pattern := arg("%" + term + "%")
		search := []string{
			"d.name ILIKE " + pattern,
			"d.iban ILIKE " + pattern,
		}
		if amount, err := strconv.ParseFloat(term, 64); err == nil {
			search = append(search, "d.amount = "+arg(amount))
		}
		conditions = append(conditions, "("+strings.Join(search, " OR ")+")")
	}

	if f.MinDate != nil && f.MaxDate != nil {
		conditions = append(conditions, "d.created_at >= "+arg(*f.MinDate))
		conditions = append(conditions, "d.created_at <= "+arg(*f.MaxDate))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// depositSortColumns is the allow-list of sortable listing fields, mapped to
// their SQL columns. Unknown sort fields fall back to creation time.
var depositSortColumns = map[string]string{
	"createdAt":     "d.created_at",
	"updatedAt":     "d.updated_at",
	"amount":        "d.amount",
	"status":        "d.status",
	"transactionId": "d.transaction_id",
	"name":          "d.name",
}

func depositOrderBy(opts domain.ListOptions) string {
	column, ok := depositSortColumns[opts.SortField]
	if !ok {
		column = "d.created_at"
	}
	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}
