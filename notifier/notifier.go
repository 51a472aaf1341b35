package notifier

const (
	LarkNotifierName  = "LarkNotifier"
	SlackNotifierName = "SlackNotifier"
)

type Notifier interface {
	Name() string
	Notify(data any)
}

// Message is the notifier independent payload composed by executors.
type Message struct {
	Title string
	Text  string
	Level string
}
