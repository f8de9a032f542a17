package domain

// FieldShape declares the expected JSON shape of an extractable field.
type FieldShape string

const (
	ShapeScalarString FieldShape = "scalar-string"
	ShapeScalarNumber FieldShape = "scalar-number"
	ShapeStringArray  FieldShape = "string-array"
	ShapeObject       FieldShape = "object"
)

// ValidFieldShapes is the canonical set of accepted field shape strings.
var ValidFieldShapes = map[string]bool{
	"scalar-string": true, "scalar-number": true,
	"string-array": true, "object": true,
}

// ReflectionMarker tags system-generated reflections.
type ReflectionMarker string

const (
	MarkerNone          ReflectionMarker = ""
	MarkerStepCompleted ReflectionMarker = "step_completed"
	MarkerSessionClosed ReflectionMarker = "session_closed"
)

// StepClosed is the sentinel value of Session.CurrentStep once the terminal
// step has completed. It is never a valid step name inside a framework.
const StepClosed = "closed"
