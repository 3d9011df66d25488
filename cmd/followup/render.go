package main

import (
	"fmt"
	"io"
	"strings"

	"denuncia/backend/internal/localization"
	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"
	"denuncia/backend/internal/tracker"
)

// renderSnapshot writes the case view the way the portal lays it out:
// banner, status, transcript, then what the actor can do next.
func renderSnapshot(w io.Writer, l *localization.Localizer, lang string, s tracker.Snapshot) {
	if s.Notice != nil {
		fmt.Fprintf(w, "! %s\n", noticeText(l, lang, *s.Notice))
	}
	if s.Closed {
		return
	}
	if s.Status == nil {
		fmt.Fprintln(w, l.GetString(lang, "cli.loading"))
		return
	}

	fmt.Fprintln(w, l.Format(lang, "cli.status", statusLabel(l, lang, *s.Status)))
	fmt.Fprintln(w)
	if s.Messages != nil && len(s.Messages) == 0 {
		fmt.Fprintln(w, l.GetString(lang, "cli.no_messages"))
	}
	for _, m := range s.Messages {
		author := m.Author
		if s.IsOwn(m) {
			author = l.GetString(lang, "cli.you")
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", m.SentAt.Local().Format("02/01 15:04"), author, m.Body)
	}
	fmt.Fprintln(w)

	switch s.CanSend {
	case policy.Allowed:
		fmt.Fprintln(w, l.GetString(lang, "cli.can_send"))
	case policy.Denied:
		fmt.Fprintln(w, l.GetString(lang, "cli.cannot_send"))
	}
	if len(s.StatusTargets) > 0 {
		labels := make([]string, len(s.StatusTargets))
		for i, st := range s.StatusTargets {
			labels[i] = fmt.Sprintf("%s (%s)", statusLabel(l, lang, st), st)
		}
		fmt.Fprintln(w, l.Format(lang, "cli.status_targets", strings.Join(labels, ", ")))
	}
}

func noticeText(l *localization.Localizer, lang string, n policy.Notice) string {
	return l.GetString(lang, n.Key)
}

func statusLabel(l *localization.Localizer, lang string, s models.Status) string {
	return l.GetString(lang, "status."+string(s))
}
