package livereload

// Message types sent to browser clients.
const (
	TypeHello  = "hello"
	TypeReload = "reload"
	TypeInject = "inject"
	TypeNotify = "notify"
)

// Message is the JSON envelope pushed over the WebSocket.
type Message struct {
	Type    string   `json:"type"`
	ID      string   `json:"id,omitempty"`
	Paths   []string `json:"paths,omitempty"`
	Message string   `json:"message,omitempty"`
}
