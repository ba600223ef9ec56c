// Package guard decides, for a requested path and a settled session
// state, whether to render, wait, or redirect. It holds no state of its
// own and issues at most one decision per evaluation.
package guard

import (
	"github.com/ragavi522/knee-prime-assessment/internal/auth"
)

type Action int

const (
	// Allow renders the requested path as-is.
	Allow Action = iota
	// Await renders nothing while an auth operation is outstanding.
	Await
	// RedirectLogin sends the visitor to the login surface.
	RedirectLogin
	// RedirectLanding sends an authenticated visitor off a login page.
	RedirectLanding
)

// Notice is the user-visible message attached to a login redirect.
type Notice string

const (
	NoticeNone           Notice = ""
	NoticePleaseLogIn    Notice = "Please log in to continue."
	NoticeSessionExpired Notice = "Your session has expired. Please log in again."
)

type Decision struct {
	Action Action
	Target string // redirect target, empty for Allow/Await
	Notice Notice
}

// Routes is the static route classification. Paths in neither set are
// open: not gated, not redirect-triggering.
type Routes struct {
	Protected []string
	Public    []string
	Login     []string // subset of Public: the login surfaces

	LoginPath   string
	LandingPath string
}

// DefaultRoutes is the portal's route table.
func DefaultRoutes() Routes {
	return Routes{
		Protected: []string{
			"/report-viewer",
			"/patient-id",
			"/dashboard",
			"/manage-patients",
			"/all-reports",
			"/manage-users",
		},
		Public: []string{
			"/",
			"/login",
			"/general-login",
			"/contactus",
			"/privacy-policy",
		},
		Login: []string{
			"/login",
			"/general-login",
		},
		LoginPath:   "/login",
		LandingPath: "/dashboard",
	}
}

// Decide maps (path, validation result, session state) to one outcome.
// The state must be a settled snapshot taken after validation; the
// ordering below matches how it is re-evaluated on every navigation.
func (r Routes) Decide(path string, authenticated bool, st auth.State) Decision {

	if st.IsLoading {
		return Decision{Action: Await}
	}

	if !authenticated && contains(r.Protected, path) {
		notice := NoticePleaseLogIn
		if st.Expired {
			notice = NoticeSessionExpired
		}
		return Decision{
			Action: RedirectLogin,
			Target: r.LoginPath,
			Notice: notice,
		}
	}

	// Landing is role-independent: admin and patient both land on the
	// dashboard, role only changes what renders inside it.
	if authenticated && st.User != nil && contains(r.Login, path) {
		return Decision{
			Action: RedirectLanding,
			Target: r.LandingPath,
		}
	}

	return Decision{Action: Allow}
}

func contains(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}
