package registry

import (
	"strings"

	"github.com/verran/presenz/internal/models"
)

// angleEscaper neutralizes the characters a polling dashboard would render
// as markup. Only < and > are escaped; existing consumers expect &, quotes
// and apostrophes to pass through unchanged.
var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// Sanitize returns a copy of rec with HTML angle brackets escaped in every
// string field. Numeric fields and timestamps pass through untouched. The
// caller's record is not modified.
func Sanitize(rec models.PlayerRecord) models.PlayerRecord {
	rec.PlayerName = angleEscaper.Replace(rec.PlayerName)
	rec.DisplayName = angleEscaper.Replace(rec.DisplayName)
	rec.GameName = angleEscaper.Replace(rec.GameName)
	rec.PlaceID = angleEscaper.Replace(rec.PlaceID)
	rec.JobID = angleEscaper.Replace(rec.JobID)
	rec.CurrentTime = angleEscaper.Replace(rec.CurrentTime)
	rec.Country = angleEscaper.Replace(rec.Country)
	rec.Executor = angleEscaper.Replace(rec.Executor)
	rec.Version = angleEscaper.Replace(rec.Version)

	return rec
}
