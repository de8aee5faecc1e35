package content

import "time"

// Item is one entry of a content list. JSON names follow the wire format the
// notes frontend already consumes.
type Item struct {
	ID          string    `json:"_id" db:"id"`
	Title       string    `json:"Title" db:"title"`
	Tags        []string  `json:"Tag" db:"tags"`
	Description string    `json:"Desc" db:"description"`
	Content     string    `json:"Content" db:"content"` // Markdown with embedded asset URLs
	CreatedTime time.Time `json:"CreatedTime" db:"created_time"`
	IsDeleted   bool      `json:"IsDelete" db:"is_deleted"` // Stored, not used by list/delete
}

// ItemPatch carries the fields of an update. Nil fields are left unchanged.
type ItemPatch struct {
	Title       *string
	Tags        *[]string
	Description *string
	Content     *string
	IsDeleted   *bool
	CreatedTime time.Time // Always stamped on update
}

// StoredObject is an object listed from the bucket
type StoredObject struct {
	Key          string    `json:"key"`
	Bucket       string    `json:"bucket"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}
