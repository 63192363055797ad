package rbac

const (
	PermQuizCreate      = "quiz:create"
	PermQuizViewAll     = "quiz:view-all"
	PermQuizView        = "quiz:view"
	PermAttemptView     = "attempt:view"
	PermAttemptStart    = "attempt:start"
	PermAttemptSubmit   = "attempt:submit"
	PermSubmissionsView = "submissions:view"
)

// RolePermissions is the default policy. Admins manage quizzes and read the
// feed; students take quizzes.
var RolePermissions = map[string][]string{
	"student": {
		PermQuizView,
		"attempt:*",
	},
	"admin": {
		PermQuizCreate,
		PermQuizViewAll,
		PermSubmissionsView,
	},
}
