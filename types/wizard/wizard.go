package wizard

// FieldsRequest carries one or more wizard field updates, keyed by field name.
type FieldsRequest struct {
	Fields map[string]string `json:"fields" validate:"required,min=1"`
}
