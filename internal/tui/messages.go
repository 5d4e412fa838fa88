package tui

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/mdjaved24/mlplay/internal/api"
	"github.com/mdjaved24/mlplay/internal/dataset"
	"github.com/mdjaved24/mlplay/internal/history"
)

// Deps carries the shared services every screen draws on.
type Deps struct {
	API         *api.Client
	History     *history.Store
	Log         zerolog.Logger
	PreviewRows int
	TestSize    float64
	RandomState int
	DownloadDir string
}

// failer marks result messages that may carry an API error, so the root
// model can intercept expired sessions in one place.
type failer interface {
	failure() error
}

type loginDoneMsg struct{ err error }

type registerDoneMsg struct{ err error }

type logoutDoneMsg struct{ err error }

type questionsMsg struct {
	questions []api.SecretQuestion
	err       error
}

type userQuestionsMsg struct {
	questions []api.SecretQuestion
	err       error
}

type verifyDoneMsg struct{ err error }

type resetDoneMsg struct{ err error }

type profileMsg struct {
	profile api.Profile
	err     error
}

type profileSavedMsg struct {
	profile api.Profile
	err     error
}

type passwordDoneMsg struct{ err error }

type previewMsg struct {
	seq     int
	summary dataset.Summary
	err     error
}

type trainDoneMsg struct {
	result  api.TrainResult
	elapsed time.Duration
	err     error
}

type modelSavedMsg struct{ err error }

type modelsMsg struct {
	models []api.SavedModel
	err    error
}

type dashboardMsg struct {
	stats   api.DashboardStats
	metrics []float64
	err     error
}

type predictMsg struct {
	prediction string
	err        error
}

type downloadDoneMsg struct {
	path string
	err  error
}

type modelDeletedMsg struct {
	id  int
	err error
}

type runRecordedMsg struct{ err error }

func (m loginDoneMsg) failure() error     { return m.err }
func (m registerDoneMsg) failure() error  { return m.err }
func (m logoutDoneMsg) failure() error    { return m.err }
func (m questionsMsg) failure() error     { return m.err }
func (m userQuestionsMsg) failure() error { return m.err }
func (m verifyDoneMsg) failure() error    { return m.err }
func (m resetDoneMsg) failure() error     { return m.err }
func (m profileMsg) failure() error       { return m.err }
func (m profileSavedMsg) failure() error  { return m.err }
func (m passwordDoneMsg) failure() error  { return m.err }
func (m previewMsg) failure() error       { return m.err }
func (m trainDoneMsg) failure() error     { return m.err }
func (m modelSavedMsg) failure() error    { return m.err }
func (m modelsMsg) failure() error        { return m.err }
func (m dashboardMsg) failure() error     { return m.err }
func (m predictMsg) failure() error       { return m.err }
func (m downloadDoneMsg) failure() error  { return m.err }
func (m modelDeletedMsg) failure() error  { return m.err }
func (m runRecordedMsg) failure() error   { return m.err }

func loginCmd(client *api.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := client.Login(context.Background(), username, password)
		return loginDoneMsg{err: err}
	}
}

func registerCmd(client *api.Client, req api.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		_, err := client.Register(context.Background(), req)
		return registerDoneMsg{err: err}
	}
}

func logoutCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		return logoutDoneMsg{err: client.Logout(context.Background())}
	}
}

func questionsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		questions, err := client.SecretQuestions(context.Background())
		return questionsMsg{questions: questions, err: err}
	}
}

func userQuestionsCmd(client *api.Client, username string) tea.Cmd {
	return func() tea.Msg {
		questions, err := client.UserSecretQuestions(context.Background(), username)
		return userQuestionsMsg{questions: questions, err: err}
	}
}

func verifyCmd(client *api.Client, username string, answers []api.SecretAnswer) tea.Cmd {
	return func() tea.Msg {
		return verifyDoneMsg{err: client.VerifySecretAnswers(context.Background(), username, answers)}
	}
}

func resetCmd(client *api.Client, username string, req api.ResetPasswordRequest) tea.Cmd {
	return func() tea.Msg {
		return resetDoneMsg{err: client.ResetPassword(context.Background(), username, req)}
	}
}

func profileCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		profile, err := client.Profile(context.Background())
		return profileMsg{profile: profile, err: err}
	}
}

func saveProfileCmd(client *api.Client, profile api.Profile) tea.Cmd {
	return func() tea.Msg {
		updated, err := client.UpdateProfile(context.Background(), profile)
		return profileSavedMsg{profile: updated, err: err}
	}
}

func changePasswordCmd(client *api.Client, req api.ChangePasswordRequest) tea.Cmd {
	return func() tea.Msg {
		return passwordDoneMsg{err: client.ChangePassword(context.Background(), req)}
	}
}

// previewCmd uploads the dataset for preview. The sequence number lets the
// playground discard responses that arrive after a newer upload started.
func previewCmd(client *api.Client, seq int, path string, rows int) tea.Cmd {
	return func() tea.Msg {
		preview, err := client.DatasetPreview(context.Background(), path, rows)
		if err != nil {
			return previewMsg{seq: seq, err: err}
		}
		return previewMsg{seq: seq, summary: dataset.Summary{
			Path:        path,
			Name:        filepath.Base(path),
			Columns:     preview.Columns,
			ColumnTypes: preview.ColumnTypes,
			Rows:        preview.Data,
			Stats:       preview.Stats,
			Corr:        preview.Corr,
		}}
	}
}

func trainCmd(client *api.Client, path, name, configJSON string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		result, err := client.Train(context.Background(), path, name, configJSON)
		return trainDoneMsg{result: result, elapsed: time.Since(start), err: err}
	}
}

func saveModelCmd(client *api.Client, req api.SaveModelRequest) tea.Cmd {
	return func() tea.Msg {
		return modelSavedMsg{err: client.SaveModel(context.Background(), req)}
	}
}

func modelsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		models, err := client.SavedModels(context.Background())
		return modelsMsg{models: models, err: err}
	}
}

func dashboardCmd(client *api.Client, store *history.Store) tea.Cmd {
	return func() tea.Msg {
		stats, err := client.DashboardStats(context.Background())
		if err != nil {
			return dashboardMsg{err: err}
		}
		var metrics []float64
		if store != nil {
			metrics, _ = store.RecentMetrics(context.Background(), 20)
		}
		return dashboardMsg{stats: stats, metrics: metrics}
	}
}

func predictCmd(client *api.Client, id int, req api.PredictRequest) tea.Cmd {
	return func() tea.Msg {
		prediction, err := client.Predict(context.Background(), id, req)
		return predictMsg{prediction: prediction, err: err}
	}
}

func downloadCmd(client *api.Client, id int, destDir string) tea.Cmd {
	return func() tea.Msg {
		path, err := client.DownloadModel(context.Background(), id, destDir)
		return downloadDoneMsg{path: path, err: err}
	}
}

func deleteModelCmd(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		return modelDeletedMsg{id: id, err: client.DeleteModel(context.Background(), id)}
	}
}

func recordRunCmd(store *history.Store, run history.Run) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return runRecordedMsg{}
		}
		_, err := store.InsertRun(context.Background(), run)
		return runRecordedMsg{err: err}
	}
}
