package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/stay"
)

var errUsage = errors.New("wrong arguments")

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q: %w", s, errUsage)
	}
	return id, nil
}

// parseAmount accepts both 12.5 and 12,5.
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, errUsage)
	}
	return v, nil
}

// parseRangeArgs reads "<checkIn> <checkOut>".
func parseRangeArgs(args []string) (stay.Range, error) {
	if len(args) != 2 {
		return stay.Range{}, errUsage
	}
	rg, err := stay.ParseRange(args[0], args[1])
	if err != nil && !errors.Is(err, stay.ErrInvalidDateRange) {
		return stay.Range{}, fmt.Errorf("%w: %w", errUsage, err)
	}
	return rg, err
}

// parseQuoteArgs reads "<roomID> <checkIn> <checkOut>".
func parseQuoteArgs(args []string) (int64, stay.Range, error) {
	if len(args) != 3 {
		return 0, stay.Range{}, errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return 0, stay.Range{}, err
	}
	rg, err := parseRangeArgs(args[1:])
	return id, rg, err
}

// parseAddArgs reads "<qty> <rate> [category] <description...>".
func parseAddArgs(args []string) (billing.CustomInput, error) {
	if len(args) < 3 {
		return billing.CustomInput{}, errUsage
	}
	qty, err := strconv.Atoi(args[0])
	if err != nil {
		return billing.CustomInput{}, fmt.Errorf("qty %q: %w", args[0], errUsage)
	}
	rate, err := parseAmount(args[1])
	if err != nil {
		return billing.CustomInput{}, err
	}

	in := billing.CustomInput{Quantity: qty, Rate: rate}
	rest := args[2:]
	switch c := billing.Category(strings.ToLower(rest[0])); c {
	case billing.CategoryRoom, billing.CategoryMeal, billing.CategoryService, billing.CategoryOther:
		in.Category = c
		rest = rest[1:]
	}
	in.Description = strings.Join(rest, " ")
	return in, nil
}

type discountArgs struct {
	clear       bool
	amount      float64
	description string
}

// parseDiscountArgs reads "<amount> [description...]" or "off".
func parseDiscountArgs(args []string) (discountArgs, error) {
	if len(args) == 0 {
		return discountArgs{}, errUsage
	}
	if strings.EqualFold(args[0], "off") {
		return discountArgs{clear: true}, nil
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		return discountArgs{}, err
	}
	return discountArgs{amount: amount, description: strings.Join(args[1:], " ")}, nil
}

// parseLineNumber turns the 1-based number shown to staff into a line index.
func parseLineNumber(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("line %q: %w", args[0], errUsage)
	}
	return n - 1, nil
}

func parseStatus(args []string) (billing.Status, error) {
	if len(args) != 1 {
		return "", errUsage
	}
	s := billing.Status(strings.ToLower(args[0]))
	if !s.Valid() {
		return "", fmt.Errorf("status %q: %w", args[0], errUsage)
	}
	return s, nil
}

// parseApproveData reads callback data "staff:approve:<tgID>:<role>".
func parseApproveData(data string) (int64, string, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 4 || parts[0] != "staff" || parts[1] != "approve" {
		return 0, "", errUsage
	}
	id, err := parseID(parts[2])
	return id, parts[3], err
}
