package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"donatelife/internal/forms"
	"donatelife/pkg/types"
)

func (s *Service) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) error {
	userID, _ := r.Context().Value(contextKeyUserID).(string)
	userEmail := emailFromContext(r.Context())

	if setter, ok := data.(types.NavbarDataSetter); ok {
		setter.SetNavbarData(types.NavbarData{
			IsAuthenticated: userID != "",
			UserID:          userID,
			UserEmail:       userEmail,
			UserName:        userEmail,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.templates.ExecuteTemplate(w, templateName, data)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"flag": forms.Flag,
		"fieldError": func(errs types.FieldErrors, field string) string {
			return errs[field]
		},
		"telURL": telURL,
		"year": func() int {
			return time.Now().Year()
		},
	}
}

// timeAgo renders the distance between t and now, e.g. "about 3 hours ago".
func timeAgo(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}

	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s", unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}

	switch {
	case d < 45*time.Second:
		return "less than a minute ago"
	case d < 90*time.Second:
		return "1 minute ago"
	case d < 45*time.Minute:
		return plural(int((d+30*time.Second)/time.Minute), "minute") + " ago"
	case d < 90*time.Minute:
		return "about 1 hour ago"
	case d < 24*time.Hour:
		return "about " + plural(int((d+30*time.Minute)/time.Hour), "hour") + " ago"
	case d < 30*24*time.Hour:
		return plural(int((d+12*time.Hour)/(24*time.Hour)), "day") + " ago"
	case d < 365*24*time.Hour:
		return plural(int(d/(30*24*time.Hour)), "month") + " ago"
	}

	return "about " + plural(int(d/(365*24*time.Hour)), "year") + " ago"
}

// longDate formats a stored instant like "January 2, 2006". Values that do
// not parse are returned unchanged.
func longDate(v string) string {
	t, err := types.ParseInstant(v)
	if err != nil {
		return v
	}
	return t.UTC().Format("January 2, 2006")
}

// telURL marks a phone number as a safe tel: link. html/template rejects
// schemes other than http, https and mailto.
func telURL(phone string) template.URL {
	return template.URL("tel:" + strings.ReplaceAll(phone, " ", ""))
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "U"
	}
	return strings.ToUpper(string([]rune(name)[0:1]))
}
