package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmarkin/roomcast-server/internal/core"
)

// Notifier posts room participation to an external backend. Calls are
// best-effort: the caller runs them off the hub loop and discards errors
// after logging.
type Notifier struct {
	base   string
	client *http.Client
	log    zerolog.Logger
}

// NewNotifier builds a notifier for the given backend base URL.
func NewNotifier(baseURL string, timeout time.Duration, logger *zerolog.Logger) *Notifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}
	return &Notifier{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
		log:    lg,
	}
}

type participantPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NotifyJoin reports a join to the backend's participants endpoint.
func (n *Notifier) NotifyJoin(ctx context.Context, p core.Participation) error {
	body, err := json.Marshal(participantPayload{
		RoomID:   p.Room,
		UserID:   p.UserID,
		Username: p.Username,
		Email:    p.Email,
	})
	if err != nil {
		return fmt.Errorf("encode participant: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.base+"/participants", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post participant: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend responded %d", resp.StatusCode)
	}

	n.log.Debug().Str("room", p.Room).Str("user_id", p.UserID).Msg("participant reported")
	return nil
}
