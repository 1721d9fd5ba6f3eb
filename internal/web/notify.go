package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/JonMunkholm/uikit/internal/logging"
	"github.com/JonMunkholm/uikit/internal/ui"
)

// NotificationEvent is the HX-Trigger event the page listens for.
const NotificationEvent = "showNotification"

type notification struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}

// hxNotifier collects notifications raised while handling a request and
// sends them to the page as an HX-Trigger event. They are logged as well.
type hxNotifier struct {
	log ui.LogNotifier

	mu    sync.Mutex
	items []notification
}

func newNotifier(ctx context.Context) *hxNotifier {
	return &hxNotifier{log: ui.LogNotifier{Logger: logging.FromContext(ctx)}}
}

func (n *hxNotifier) Notify(message, level string) {
	n.log.Notify(message, level)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, notification{Message: message, Level: level})
}

func (n *hxNotifier) notifications() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.items...)
}

// apply sets the HX-Trigger header. It must run before the status is
// written. A single notification is sent as an object, several as a list.
func (n *hxNotifier) apply(w http.ResponseWriter) {
	items := n.notifications()
	if len(items) == 0 {
		return
	}

	var detail any = items
	if len(items) == 1 {
		detail = items[0]
	}
	b, err := json.Marshal(map[string]any{NotificationEvent: detail})
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(b))
}
