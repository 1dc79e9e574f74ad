package types

// TriggerKind identifies what caused an engine evaluation.
type TriggerKind string

const (
	TriggerAppLaunch       TriggerKind = "app_launch"
	TriggerPeriodicRefresh TriggerKind = "periodic_refresh"
	TriggerSignalUpdate    TriggerKind = "signal_update"
	TriggerIntakeLogged    TriggerKind = "intake_logged"
)

// AlertKind identifies the severity band of an emitted alert.
type AlertKind string

const (
	AlertMediumRisk AlertKind = "medium_risk"
	AlertHighRisk   AlertKind = "high_risk"
)

// Sex is the biological sex recorded in a user profile.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ChannelType identifies an outbound alert delivery channel.
type ChannelType string

const (
	ChannelWebhook ChannelType = "webhook"
	ChannelSQS     ChannelType = "sqs"
)
