package errors

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/routinely/internal/constants"
	"github.com/julianstephens/routinely/internal/keyring"
	"github.com/julianstephens/routinely/internal/logger"
	"github.com/julianstephens/routinely/internal/migration"
	"github.com/julianstephens/routinely/internal/storage"
	"github.com/julianstephens/routinely/internal/storage/postgres"
)

var hints = []struct {
	target error
	hint   string
}{
	{storage.ErrNotInitialized, "Run 'routinely init' to create the database."},
	{migration.ErrSchemaOutdated, "Run 'routinely migrate' to upgrade the database."},
	{migration.ErrSchemaTooNew, "Upgrade routinely to open this database."},
	{postgres.ErrEmbeddedCredentials, "Store the connection string with 'routinely keyring set', or use " + constants.EnvDBConnection + " or .pgpass."},
	{keyring.ErrNotFound, "Run 'routinely keyring set' to store a connection string."},
	{keyring.ErrUnavailable, "Set " + constants.EnvDBConnection + " instead of using the keyring."},
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Hint returns the follow-up action for a known failure, or "".
func Hint(err error) string {
	for _, h := range hints {
		if errors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Report writes err and its hint to w. It reports whether anything was written.
func Report(w io.Writer, err error) bool {
	if err == nil {
		return false
	}
	fmt.Fprintln(w, Format(err))
	if hint := Hint(err); hint != "" {
		fmt.Fprintln(w, hint)
	}
	return true
}

// Fatal logs an error, reports it on stderr and exits with code 1
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	Report(os.Stderr, err)
	os.Exit(1)
}
