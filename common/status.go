package common

import (
	"database/sql/driver"
	"fmt"

	json "github.com/json-iterator/go"
)

// TicketStatus is the lifecycle state of a ticket. Sold is the only initial
// state and Used is terminal.
type TicketStatus string

const (
	TicketStatusSold TicketStatus = "Sold"
	TicketStatusUsed TicketStatus = "Used"
)

// ParseTicketStatus accepts the canonical names plus the legacy Spanish tags
// still found in older exports.
func ParseTicketStatus(s string) (TicketStatus, error) {
	switch s {
	case "Sold", "sold", "Vendido":
		return TicketStatusSold, nil
	case "Used", "used", "Usado":
		return TicketStatusUsed, nil
	}
	return "", fmt.Errorf("%w: unknown ticket status %q", ErrInvalidArgument, s)
}

func (s TicketStatus) Valid() bool {
	return s == TicketStatusSold || s == TicketStatusUsed
}

func (s TicketStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *TicketStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*s = TicketStatus(v)
	case []byte:
		*s = TicketStatus(v)
	case nil:
		*s = ""
	default:
		return fmt.Errorf("cannot scan %T into TicketStatus", src)
	}
	return nil
}

func (s *TicketStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTicketStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
