package decommission

import (
	"strings"

	"github.com/google/uuid"
)

const (
	commandType = "DecommissionBook"
	queryType   = "PreviewDecommission"
)

// Command represents the intent to write a Book off the catalog.
// Reason and Responsible are optional audit fields, carried to the log and the Result.
type Command struct {
	BookID      uuid.UUID
	Reason      string
	Responsible string
}

// CommandType returns the type of this command for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID uuid.UUID, reason, responsible string) Command {
	return Command{
		BookID:      bookID,
		Reason:      strings.TrimSpace(reason),
		Responsible: strings.TrimSpace(responsible),
	}
}
