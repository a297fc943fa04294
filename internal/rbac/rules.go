package rbac

// Permissions used by the API routes.
const (
	ExamCreate      = "exam:create"
	ExamView        = "exam:view"
	AttemptCreate   = "attempt:create"
	AttemptSave     = "attempt:save"
	AttemptSubmit   = "attempt:submit"
	AttemptView     = "attempt:view"
	AttemptAnyUser  = "attempt:any-user" // act on attempts owned by someone else
	AnswerPreview   = "answer:preview"
	SerializersList = "serializers:list"
)

// RolePermissions is the default policy. Patterns ending in "*" match by prefix.
var RolePermissions = map[string][]string{
	"student": {
		ExamView,
		AttemptCreate,
		AttemptSave,
		AttemptSubmit,
		AttemptView,
		AnswerPreview,
	},
	"teacher": {
		"exam:*",
		AttemptView,
		AttemptAnyUser,
		AnswerPreview,
		SerializersList,
	},
	"admin": {
		"*",
	},
}
