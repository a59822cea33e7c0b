package syncer

import (
	"sort"

	"github.com/mailguest/flatnotes/models"
)

// MergeNotes reconciles the local notes collection against the remote one.
// The rules are one-directional:
//
//   - a remote note absent locally is adopted;
//   - a remote note with a strictly newer UpdatedAt fully replaces the local
//     one, field for field — there is no field-level merge;
//   - a local note absent from the remote collection was deleted remotely
//     and is dropped;
//   - otherwise the local note is kept unchanged.
//
// The merged collection preserves the remote ordering. The second return
// value reports whether the merge differs from the local input.
func MergeNotes(local, remote []models.Note) ([]models.Note, bool) {
	localByID := make(map[string]models.Note, len(local))
	for _, n := range local {
		localByID[n.ID] = n
	}

	changed := len(local) != len(remote)
	merged := make([]models.Note, 0, len(remote))
	for _, remoteNote := range remote {
		localNote, exists := localByID[remoteNote.ID]
		if !exists || remoteNote.UpdatedAt.After(localNote.UpdatedAt) {
			merged = append(merged, remoteNote)
			if !exists || !remoteNote.Equal(localNote) {
				changed = true
			}
			continue
		}
		merged = append(merged, localNote)
	}

	return merged, changed
}

// ReconcileCategories compares the two collections ordered by id. Categories
// carry no timestamp, so reconciliation is all-or-nothing: any difference at
// all replaces the entire local collection with the remote one.
func ReconcileCategories(local, remote []models.Category) ([]models.Category, bool) {
	if categoriesEqual(local, remote) {
		return local, false
	}

	replaced := make([]models.Category, len(remote))
	copy(replaced, remote)
	return replaced, true
}

func categoriesEqual(a, b []models.Category) bool {
	if len(a) != len(b) {
		return false
	}

	as := make([]models.Category, len(a))
	bs := make([]models.Category, len(b))
	copy(as, a)
	copy(bs, b)
	sort.Slice(as, func(i, j int) bool { return as[i].ID < as[j].ID })
	sort.Slice(bs, func(i, j int) bool { return bs[i].ID < bs[j].ID })

	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
