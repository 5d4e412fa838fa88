// Package tui provides the Bubble Tea interface for the ML playground.
package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mdjaved24/mlplay/internal/api"
	"github.com/mdjaved24/mlplay/internal/session"
)

type route int

const (
	routeHome route = iota
	routePlayground
	routeModels
	routeDashboard
	routeLearn
	routeProfile
	routeLogin
	routeSignup
	routeForgot
)

// mainRoutes is the nav bar order; auth screens are reached by guard
// redirects and from each other.
var mainRoutes = []route{routeHome, routePlayground, routeModels, routeDashboard, routeLearn, routeProfile}

func (r route) title() string {
	switch r {
	case routeHome:
		return "Home"
	case routePlayground:
		return "Playground"
	case routeModels:
		return "Models"
	case routeDashboard:
		return "Dashboard"
	case routeLearn:
		return "Learn"
	case routeProfile:
		return "Profile"
	case routeLogin:
		return "Sign In"
	case routeSignup:
		return "Sign Up"
	case routeForgot:
		return "Reset Password"
	default:
		return ""
	}
}

func (r route) protected() bool {
	switch r {
	case routePlayground, routeModels, routeDashboard, routeLearn, routeProfile:
		return true
	default:
		return false
	}
}

// App is the root Bubble Tea model. It owns navigation, the session guard
// and the status line; each screen owns its own state.
type App struct {
	deps    Deps
	session *session.Store

	route   route
	pending route // where to go after a successful sign-in
	width   int
	height  int

	status    string
	statusErr bool

	login      *loginModel
	signup     *signupModel
	forgot     *forgotModel
	profile    *profileModel
	playground *playgroundModel
	models     *modelsModel
	dashboard  *dashboardModel
	home       staticModel
	learn      staticModel
}

// NewApp constructs the root model.
func NewApp(deps Deps, sess *session.Store) *App {
	a := &App{
		deps:    deps,
		session: sess,
		route:   routeHome,
		pending: routeHome,
	}
	a.login = newLoginModel()
	a.signup = newSignupModel()
	a.forgot = newForgotModel()
	a.profile = newProfileModel()
	a.playground = newPlaygroundModel(deps)
	a.models = newModelsModel(deps)
	a.dashboard = newDashboardModel()
	a.home = newStaticModel(homeContent)
	a.learn = newStaticModel(learnContent)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.playground.init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()
		return a, nil
	case tea.KeyMsg:
		return a.updateKey(msg)
	}
	return a.updateResult(msg)
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "ctrl+n":
		return a, a.cycle(1)
	case "ctrl+p":
		return a, a.cycle(-1)
	case "ctrl+l":
		if a.session.IsAuthenticated() {
			return a, logoutCmd(a.deps.API)
		}
		a.goTo(routeLogin)
		return a, nil
	}
	return a, a.dispatchKey(msg)
}

// updateResult routes async results to the screen that issued them, then
// applies the one global rule: an expired session lands on the sign-in
// screen whatever was on screen.
func (a *App) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m := msg.(type) {
	case loginDoneMsg:
		cmd = a.login.update(msg)
		if m.err == nil {
			target := a.pending
			if target.protected() && !a.session.IsAuthenticated() {
				target = routeHome
			}
			a.pending = routeHome
			a.setStatus("signed in", false)
			return a, tea.Batch(cmd, a.enter(target))
		}
	case logoutDoneMsg:
		a.setStatus("signed out", false)
		a.goTo(routeHome)
	case registerDoneMsg, questionsMsg:
		cmd = a.signup.update(msg)
		if done, ok := m.(registerDoneMsg); ok && done.err == nil {
			if a.session.IsAuthenticated() {
				a.setStatus("account created", false)
				return a, tea.Batch(cmd, a.enter(routeHome))
			}
			a.setStatus("account created, sign in to continue", false)
			a.goTo(routeLogin)
		}
	case userQuestionsMsg, verifyDoneMsg:
		cmd = a.forgot.update(msg)
	case resetDoneMsg:
		cmd = a.forgot.update(msg)
		if m.err == nil {
			a.setStatus("password updated, sign in with the new password", false)
			a.goTo(routeLogin)
		}
	case profileMsg, profileSavedMsg, passwordDoneMsg:
		cmd = a.profile.update(msg)
	case previewMsg, trainDoneMsg, modelSavedMsg, runRecordedMsg:
		cmd = a.playground.update(msg)
		if saved, ok := m.(modelSavedMsg); ok && saved.err == nil {
			a.setStatus("model saved", false)
			return a, tea.Batch(cmd, a.enter(routeModels))
		}
	case modelsMsg, predictMsg, downloadDoneMsg, modelDeletedMsg:
		cmd = a.models.update(msg)
	case dashboardMsg:
		cmd = a.dashboard.update(msg)
	default:
		cmd = a.playground.updateAny(msg)
	}
	if f, ok := msg.(failer); ok {
		if err := f.failure(); err != nil && errors.Is(err, api.ErrSessionExpired) {
			a.pending = a.route
			a.setStatus("session expired, sign in again", true)
			a.goTo(routeLogin)
		}
	}
	return a, cmd
}

func (a *App) dispatchKey(msg tea.KeyMsg) tea.Cmd {
	switch a.route {
	case routeLogin:
		action, cmd := a.login.updateKey(a.deps, msg)
		switch action {
		case loginGoSignup:
			return a.enter(routeSignup)
		case loginGoForgot:
			a.goTo(routeForgot)
		}
		return cmd
	case routeSignup:
		action, cmd := a.signup.updateKey(a.deps, msg)
		if action == signupGoLogin {
			a.goTo(routeLogin)
		}
		return cmd
	case routeForgot:
		action, cmd := a.forgot.updateKey(a.deps, msg)
		if action == forgotGoLogin {
			a.goTo(routeLogin)
		}
		return cmd
	case routeProfile:
		return a.profile.updateKey(a.deps, msg)
	case routePlayground:
		return a.playground.updateKey(msg)
	case routeModels:
		return a.models.updateKey(msg)
	case routeDashboard:
		return a.dashboard.updateKey(a.deps, msg)
	case routeHome:
		return a.home.updateKey(msg)
	case routeLearn:
		return a.learn.updateKey(msg)
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return ""
	}
	header := fitLines(a.renderNav()+"\n"+a.renderStatus(), a.width, a.headerHeight())
	bodyHeight := a.bodyHeight()
	body := fitLines(a.currentView(bodyHeight), a.width, bodyHeight)
	footer := fitLines(a.renderHelp(), a.width, 1)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (a *App) currentView(height int) string {
	switch a.route {
	case routeLogin:
		return a.login.view(a.width, height)
	case routeSignup:
		return a.signup.view(a.width, height)
	case routeForgot:
		return a.forgot.view(a.width, height)
	case routeProfile:
		return a.profile.view(a.width, height)
	case routePlayground:
		return a.playground.view(a.width, height)
	case routeModels:
		return a.models.view(a.width, height)
	case routeDashboard:
		return a.dashboard.view(a.width, height)
	case routeLearn:
		return a.learn.view(a.width, height)
	default:
		return a.home.view(a.width, height)
	}
}

func (a *App) renderNav() string {
	parts := make([]string, 0, len(mainRoutes)+1)
	for _, r := range mainRoutes {
		if r == a.route {
			parts = append(parts, activeNavStyle.Render(r.title()))
		} else {
			parts = append(parts, inactiveNavStyle.Render(r.title()))
		}
	}
	auth := "Sign In"
	if a.session.IsAuthenticated() {
		auth = "Sign Out"
	}
	if a.route == routeLogin || a.route == routeSignup || a.route == routeForgot {
		parts = append(parts, activeNavStyle.Render(a.route.title()))
	} else {
		parts = append(parts, inactiveNavStyle.Render(auth))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	line := truncateLine(a.status, a.width)
	if a.statusErr {
		return errorStyle.Render(line)
	}
	return successStyle.Render(line)
}

func (a *App) renderHelp() string {
	help := "Nav: ctrl+n/ctrl+p  Sign in/out: ctrl+l  Quit: ctrl+c"
	if extra := a.currentHelp(); extra != "" {
		help = extra + "  " + help
	}
	return headerStyle.Render(truncateLine(help, a.width))
}

func (a *App) currentHelp() string {
	switch a.route {
	case routeLogin:
		return "enter: sign in  ctrl+s: sign up  ctrl+r: reset"
	case routeSignup:
		return "tab: next field  enter: create account  esc: back"
	case routeForgot:
		return "enter: continue  esc: back"
	case routeProfile:
		return a.profile.help()
	case routePlayground:
		return a.playground.help()
	case routeModels:
		return a.models.help()
	case routeDashboard:
		return "r: refresh"
	default:
		return "scroll: up/down"
	}
}

func (a *App) headerHeight() int {
	navHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if navHeight < 1 {
		navHeight = 1
	}
	return navHeight + 1
}

func (a *App) bodyHeight() int {
	h := a.height - a.headerHeight() - 1
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) propagateSize() {
	w, h := a.width, a.bodyHeight()
	a.login.setSize(w, h)
	a.signup.setSize(w, h)
	a.forgot.setSize(w, h)
	a.profile.setSize(w, h)
	a.playground.setSize(w, h)
	a.models.setSize(w, h)
	a.dashboard.setSize(w, h)
	a.home.setSize(w, h)
	a.learn.setSize(w, h)
}

func (a *App) cycle(delta int) tea.Cmd {
	idx := 0
	for i, r := range mainRoutes {
		if r == a.route {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = len(mainRoutes) - 1
	}
	if idx >= len(mainRoutes) {
		idx = 0
	}
	a.setStatus("", false)
	return a.enter(mainRoutes[idx])
}

// enter applies the session guard and triggers the load a screen needs on
// entry. goTo switches without loading, for redirects.
func (a *App) enter(target route) tea.Cmd {
	if target.protected() && !a.session.IsAuthenticated() {
		a.pending = target
		a.setStatus(fmt.Sprintf("sign in to open %s", target.title()), true)
		a.goTo(routeLogin)
		return nil
	}
	a.goTo(target)
	switch target {
	case routeModels:
		a.models.startLoad()
		return modelsCmd(a.deps.API)
	case routeDashboard:
		a.dashboard.startLoad()
		return dashboardCmd(a.deps.API, a.deps.History)
	case routeProfile:
		a.profile.startLoad()
		return profileCmd(a.deps.API)
	case routeSignup:
		if cmd := a.signup.ensureQuestions(a.deps); cmd != nil {
			return cmd
		}
	}
	return nil
}

func (a *App) goTo(target route) {
	a.route = target
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}
