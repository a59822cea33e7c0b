package models

// OrderUpdate is the body of PUT /notes/{id}/order.
type OrderUpdate struct {
	Order int `json:"order"`
}

// CategoryUpdate is the body of PUT /notes/{id}/category.
type CategoryUpdate struct {
	Category string `json:"category" validate:"required"`
}

// ReorderEntry assigns a new display rank to a single item.
type ReorderEntry struct {
	ID    string `json:"id" validate:"required"`
	Order int    `json:"order"`
}

// ReorderRequest is the body of PUT /notes/reorder and PUT /categories/reorder.
type ReorderRequest struct {
	Items []ReorderEntry `json:"items" validate:"min=1,dive"`
}

// UploadResponse is returned by POST /upload with the server-side location of
// the stored attachment.
type UploadResponse struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

// HealthResponse is returned by the unauthenticated liveness probe.
type HealthResponse struct {
	Status string `json:"status"`
}
