package graph

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/finsight/graphview/pkg/common"
)

var uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// Classify infers an entity's display category from its fields. The rule
// order is load-bearing: an explicit known type wins, then transaction shape,
// then transaction-looking ids, then company markers, then the user default.
func Classify(e common.Entity) common.Category {
	if t := common.Category(e.Str("type")); t.Known() {
		return t
	}

	if e.Has("amount") && (e.Has("sender_id") || e.Has("receiver_id")) {
		return common.CategoryTransaction
	}

	if id := e.ID(); id != "" && (strings.HasPrefix(id, "tx") || uuidPattern.MatchString(id)) {
		if e.Has("amount") || e.Has("currency") || e.Has("metadata") {
			return common.CategoryTransaction
		}
	}

	if e.Str("entity_type") == "company" ||
		e.NonEmpty("company_name") || e.NonEmpty("company_id") || e.NonEmpty("incorporation_date") {
		return common.CategoryCompany
	}

	return common.CategoryUser
}

// Label derives the display label for an entity. It never fails on missing
// optional fields: a missing amount formats as 0 and the currency defaults to
// USD.
func Label(e common.Entity) string {
	switch Classify(e) {
	case common.CategoryTransaction:
		amount := formatAmount(e.Num("amount"))
		currency := e.StrOr("currency", "USD")

		if meta := e.Map("metadata"); meta != nil {
			if purpose, _ := meta["purpose"].(string); purpose != "" {
				return capitalize(purpose) + " (" + amount + " " + currency + ")"
			}
		}
		return "Transaction " + strings.Replace(e.ID(), "tx", "#", 1) + " (" + amount + " " + currency + ")"
	case common.CategoryCompany:
		return e.StrOr("company_name", e.Str("name"))
	default:
		return e.Str("name")
	}
}

// Size derives the display size for an entity. Transactions scale
// logarithmically with amount, clamped to [30, 80]; non-positive amounts are
// treated as 0 and land on the floor rather than producing a non-finite size.
func Size(e common.Entity) float64 {
	switch Classify(e) {
	case common.CategoryTransaction:
		amount := e.Num("amount")
		if amount <= 0 {
			return 30
		}
		return math.Min(math.Max(30+math.Log10(amount)*10, 30), 80)
	case common.CategoryCompany:
		return 60
	default:
		return 40
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// formatAmount renders an amount in en-US style: grouped thousands, at most
// two fraction digits, trailing zeros trimmed.
func formatAmount(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
