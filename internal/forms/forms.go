package forms

import "github.com/gin-gonic/gin"

// PickValues extracts the allowed form fields that were actually
// submitted. Absent fields stay absent so that ComputeChanges only
// compares what the client sent.
func PickValues(c *gin.Context, allowed ...string) map[string]string {
	values := make(map[string]string)
	for _, field := range allowed {
		if value, ok := c.GetPostForm(field); ok {
			values[field] = value
		}
	}
	return values
}

// ComputeChanges returns the subset of submitted fields whose value
// differs from the current record's string form. Comparison is plain
// string equality; callers stringify stored values (numeric IDs
// included) before calling.
func ComputeChanges(submitted, current map[string]string) map[string]string {
	changes := make(map[string]string)
	for field, value := range submitted {
		if value != current[field] {
			changes[field] = value
		}
	}
	return changes
}
