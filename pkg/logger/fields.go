package logger

// Standard field names for consistent logging.
const (
	FieldService = "service"
	FieldJob     = "job"
	FieldUserID  = "user_id"
	FieldChatID  = "chat_id"
	FieldPlanID  = "plan_id"
)
