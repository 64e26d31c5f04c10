package models

// Upload is a newly selected image that has not been persisted yet.
type Upload struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

// ImageSlot holds exactly one of: a URL referencing an image already
// stored on the server, or a new local upload.
type ImageSlot struct {
	URL  string  `json:"url,omitempty"`
	File *Upload `json:"file,omitempty"`
}

// IsNew reports whether the slot holds a not-yet-uploaded binary.
func (s ImageSlot) IsNew() bool {
	return s.File != nil
}

// Ref returns the slot's comparable reference: the persisted URL when
// present, otherwise the pending upload's file name.
func (s ImageSlot) Ref() string {
	if s.URL != "" {
		return s.URL
	}
	if s.File != nil {
		return s.File.Name
	}
	return ""
}
