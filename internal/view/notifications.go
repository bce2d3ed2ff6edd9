// Package view renders the HTML fragments patched into pages over SSE.
package view

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/msomdec/skill-swap/internal/domain"
)

// Element IDs targeted by SSE patches.
const (
	BadgeID            = "notification-badge"
	NotificationListID = "notification-list"
)

const badgeCap = 99

// NotificationBadge renders the unread counter. A zero count renders an empty,
// hidden badge so the element stays addressable.
func NotificationBadge(unread int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if unread <= 0 {
			_, err := fmt.Fprintf(w, `<span id="%s" class="badge" hidden></span>`, BadgeID)
			return err
		}
		label := strconv.Itoa(unread)
		if unread > badgeCap {
			label = strconv.Itoa(badgeCap) + "+"
		}
		_, err := fmt.Fprintf(w, `<span id="%s" class="badge" aria-label="%d unread notifications">%s</span>`,
			BadgeID, unread, label)
		return err
	})
}

// NotificationList renders the user's notifications as list items, newest first.
func NotificationList(items []domain.Notification) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(items) == 0 {
			_, err := io.WriteString(w, `<li class="notification empty">No notifications yet</li>`)
			return err
		}
		for _, n := range items {
			class := "notification"
			if !n.Read {
				class += " unread"
			}
			_, err := fmt.Fprintf(w,
				`<li id="notification-%s" class="%s" data-kind="%s"><p>%s</p><time datetime="%s">%s</time></li>`,
				templ.EscapeString(n.ID),
				class,
				templ.EscapeString(string(n.Kind)),
				templ.EscapeString(n.Message),
				n.CreatedAt.UTC().Format(time.RFC3339),
				n.CreatedAt.UTC().Format("Jan 2, 15:04"),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
