package diff

import "github.com/Vincentvirtuoso/shopverse-admin-sub001/models"

// ImageChanges lists the image binaries that still need uploading.
// Persisted references are never re-sent.
type ImageChanges struct {
	Main       *models.Upload
	Additional []models.Upload
}

// Empty reports whether there is nothing to upload.
func (c ImageChanges) Empty() bool {
	return c.Main == nil && len(c.Additional) == 0
}

// ComputeImageChanges decides which slots carry uploads. In create mode
// every new binary goes out. In edit mode the main image is only sent
// when the slot's reference moved away from the one loaded with the
// snapshot; additional images send all new binaries regardless.
func ComputeImageChanges(mode models.Mode, main, additional []models.ImageSlot, initialMainRef string) ImageChanges {
	var out ImageChanges

	if len(main) > 0 {
		slot := main[0]
		if slot.IsNew() && (mode == models.ModeCreate || slot.Ref() != initialMainRef) {
			out.Main = slot.File
		}
	}
	for _, slot := range additional {
		if slot.IsNew() {
			out.Additional = append(out.Additional, *slot.File)
		}
	}
	return out
}
