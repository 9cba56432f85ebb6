package domain

// EffectKind identifies what the presentation layer must do.
type EffectKind string

const (
	EffectNavigate  EffectKind = "navigate"
	EffectShowError EffectKind = "show_error"
)

// Effect is a user-visible instruction emitted by an onboarding operation.
type Effect struct {
	Kind    EffectKind
	Route   string
	Message string
}

// Navigate asks the presentation layer to redirect to route.
func Navigate(route string) Effect {
	return Effect{Kind: EffectNavigate, Route: route}
}

// ShowError asks the presentation layer to display message.
func ShowError(message string) Effect {
	return Effect{Kind: EffectShowError, Message: message}
}
