package domain

// TaxonomyMode enumerates the configured behavior for one taxonomy.
type TaxonomyMode string

const (
	TaxonomySkip  TaxonomyMode = "skip"
	TaxonomyAuto  TaxonomyMode = "auto"
	TaxonomyFixed TaxonomyMode = "fixed"
)

// Valid reports whether the mode is one of the known values.
func (m TaxonomyMode) Valid() bool {
	switch m {
	case TaxonomySkip, TaxonomyAuto, TaxonomyFixed:
		return true
	}
	return false
}

// PostStatus enumerates the publication statuses the content store accepts.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "publish"
	StatusPending   PostStatus = "pending"
	StatusPrivate   PostStatus = "private"
)

// Valid reports whether the status is one of the known values.
func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusPending, StatusPrivate:
		return true
	}
	return false
}

// TaxonomyAssignment reports the outcome of resolving one taxonomy during a
// single publish call.
type TaxonomyAssignment struct {
	Taxonomy string       `json:"taxonomy"`
	Mode     TaxonomyMode `json:"mode"`
	TermIDs  []int64      `json:"term_ids,omitempty"`
	Success  bool         `json:"success"`
	Detail   string       `json:"detail,omitempty"`
}

// PublishResult is the aggregate outcome returned to the caller. Built fresh
// per invocation and never reused.
type PublishResult struct {
	Success         bool                 `json:"success"`
	Error           string               `json:"error,omitempty"`
	PostID          int64                `json:"post_id,omitempty"`
	PostURL         string               `json:"post_url,omitempty"`
	EditURL         string               `json:"edit_url,omitempty"`
	TaxonomyResults []TaxonomyAssignment `json:"taxonomy_results,omitempty"`
}
