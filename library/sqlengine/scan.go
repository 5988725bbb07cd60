package sqlengine

import (
	"fmt"
	"time"

	"github.com/AntonStoeckl/university-library-go/library"
)

// timestampLayouts are the textual forms SQLite hands back for TIMESTAMP columns.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// nullableTimestamp scans timestamps from every supported driver; NULL leaves Valid false.
type nullableTimestamp struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (n *nullableTimestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = library.Normalize(v), true
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", src)
	}
}

func (n *nullableTimestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = library.Normalize(t), true
			return nil
		}
	}

	return fmt.Errorf("cannot parse %q as a timestamp", s)
}

// Ptr returns nil for NULL.
func (n nullableTimestamp) Ptr() *time.Time {
	if !n.Valid {
		return nil
	}

	t := n.Time

	return &t
}

// timestamp scans a NOT NULL timestamp column.
type timestamp struct {
	nullableTimestamp
}

// Scan implements sql.Scanner.
func (t *timestamp) Scan(src any) error {
	if src == nil {
		return fmt.Errorf("unexpected NULL timestamp")
	}

	return t.nullableTimestamp.Scan(src)
}

// timestampArg converts t into the value bound as a statement argument.
func timestampArg(t time.Time) time.Time {
	return library.Normalize(t)
}
