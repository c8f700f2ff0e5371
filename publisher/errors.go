package publisher

import "fmt"

// TemplateError reports an article template missing a required
// placeholder. Fatal: the template must be fixed, retrying cannot help.
type TemplateError struct {
	Placeholder string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template is missing required placeholder %s", e.Placeholder)
}

// StructureError reports an index document that offers no safe insertion
// point: neither feed markers nor a recognizable listing container.
// Fatal: the index must be repaired by hand before the next run.
type StructureError struct {
	Reason string
}

func (e *StructureError) Error() string {
	return "index structure: " + e.Reason
}
