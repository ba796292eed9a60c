// Bounded version history for editable documents: newest first, capped at
// twenty entries, restore by id.

package versions

import (
	"time"

	"github.com/google/uuid"

	"go-jobcoach/internal/models"
)

// MaxVersions caps each document's history; the oldest entry is evicted
// beyond this.
const MaxVersions = 20

// Snapshot prepends a copy of the document's current content to its version
// list and returns the new version.
func Snapshot(doc *models.Document, label string, now time.Time) models.DocVersion {
	v := models.DocVersion{
		ID:          uuid.NewString(),
		Label:       label,
		ContentHTML: doc.ContentHTML,
		CreatedAt:   now,
	}
	doc.Versions = append([]models.DocVersion{v}, doc.Versions...)
	if len(doc.Versions) > MaxVersions {
		doc.Versions = doc.Versions[:MaxVersions]
	}
	return v
}

// Restore overwrites the document's content with the named version's HTML.
// A stale id is a silent no-op: the version list is untouched and no new
// snapshot is taken.
func Restore(doc *models.Document, versionID string) bool {
	for _, v := range doc.Versions {
		if v.ID == versionID {
			doc.ContentHTML = v.ContentHTML
			return true
		}
	}
	return false
}
